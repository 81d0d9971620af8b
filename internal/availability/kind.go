package availability

import "strings"

// Kind is the canonical category of an unavailability.
type Kind int

const (
	KindAvailable Kind = iota
	KindUnavailability
	KindOther
	KindPersonal
	KindOvertime
	KindTraining
	KindTrip
	KindMeeting
	KindHalfDay
	KindVacation
	KindSick
)

var kindNames = map[Kind]string{
	KindAvailable:      "available",
	KindUnavailability: "unavailability",
	KindPersonal:       "personal",
	KindOvertime:       "overtime",
	KindTraining:       "training",
	KindTrip:           "trip",
	KindMeeting:        "meeting",
	KindHalfDay:        "halfday",
	KindVacation:       "vacation",
	KindSick:           "sick",
}

// Priority decides which status wins when several overlap on the same day.
func (k Kind) Priority() int {
	switch k {
	case KindSick:
		return 7
	case KindVacation:
		return 6
	case KindHalfDay:
		return 5
	case KindMeeting:
		return 4
	case KindTrip:
		return 3
	case KindTraining:
		return 2
	case KindOvertime, KindPersonal:
		return 1
	case KindUnavailability, KindOther:
		return 0
	default:
		return -1
	}
}

// Status is a canonical kind; KindOther keeps the free text it was built from.
type Status struct {
	Kind Kind
	Text string
}

var (
	Available = Status{Kind: KindAvailable}
	Vacation  = Status{Kind: KindVacation}
)

// String returns the status tag used in tables, events and JSON.
func (s Status) String() string {
	if s.Kind == KindOther {
		return s.Text
	}
	return kindNames[s.Kind]
}

func (s Status) Priority() int {
	return s.Kind.Priority()
}

func (s Status) IsAvailable() bool {
	return s.Kind == KindAvailable
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Normalize maps a stored kind to its canonical status. Free text that matches
// no known kind is kept (lower-cased) instead of being coerced.
func Normalize(kind string, isHalfDay bool) Status {
	k := strings.ToLower(strings.TrimSpace(kind))

	switch k {
	case "sick", "ill", "sickness":
		return Status{Kind: KindSick}
	case "vacation", "vacations", "holiday", "holidays":
		return Status{Kind: KindVacation}
	case "meeting", "meet":
		return Status{Kind: KindMeeting}
	case "trip", "jobtrip", "job trip":
		return Status{Kind: KindTrip}
	case "halfday", "half day", "half-day":
		return Status{Kind: KindHalfDay}
	case "training":
		return Status{Kind: KindTraining}
	case "overtime":
		return Status{Kind: KindOvertime}
	case "personal":
		return Status{Kind: KindPersonal}
	}

	if isHalfDay {
		return Status{Kind: KindHalfDay}
	}

	switch k {
	case "", "unavailability", "available":
		return Status{Kind: KindUnavailability}
	}

	return Status{Kind: KindOther, Text: k}
}

// NormalizeSegment returns "AM" or "PM" for recognised segments and the
// trimmed input otherwise.
func NormalizeSegment(segment string) string {
	s := strings.TrimSpace(segment)
	switch strings.ToUpper(s) {
	case "AM", "MORNING":
		return "AM"
	case "PM", "AFTERNOON":
		return "PM"
	}
	return s
}
