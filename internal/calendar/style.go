package calendar

import "availability-bot/internal/availability"

// Category is the presentation class of an event chip.
type Category string

const (
	CategoryHoliday Category = "k-holiday"
	CategorySick    Category = "k-sick"
	CategoryMeeting Category = "k-meet"
	CategoryTrip    Category = "k-trip"
	CategoryTrain   Category = "k-train"
	CategoryHalf    Category = "k-half"
	CategoryDefault Category = "k-default"
)

const (
	TagHoliday = "holiday"

	iconHoliday = "/images/holiday.png"
	iconSick    = "/images/bed.png"
	iconMeeting = "/images/headset.png"
	iconTrip    = "/images/plane.png"
	iconAbsent  = "/images/user-round-minus.png"
)

// Style maps an event tag to its category and icon. Tags are holiday or a
// canonical status; anything else is free text and gets the default look.
func Style(tag string) (Category, string) {
	if tag == TagHoliday {
		return CategoryHoliday, iconHoliday
	}

	switch availability.Normalize(tag, false).Kind {
	case availability.KindVacation:
		return CategoryHoliday, iconHoliday
	case availability.KindSick:
		return CategorySick, iconSick
	case availability.KindMeeting:
		return CategoryMeeting, iconMeeting
	case availability.KindTrip:
		return CategoryTrip, iconTrip
	case availability.KindTraining:
		return CategoryTrain, iconAbsent
	case availability.KindHalfDay:
		return CategoryHalf, iconAbsent
	case availability.KindOvertime,
		availability.KindPersonal,
		availability.KindUnavailability,
		availability.KindOther,
		availability.KindAvailable:
		return CategoryDefault, iconAbsent
	}
	return CategoryDefault, iconAbsent
}
