package availability

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestResolver() (*Resolver, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewResolver(logger), hook
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		half   bool
		want   Status
		wantTx string
	}{
		{name: "sick synonym", kind: " ILL ", want: Status{Kind: KindSick}, wantTx: "sick"},
		{name: "sickness", kind: "sickness", want: Status{Kind: KindSick}, wantTx: "sick"},
		{name: "job trip with space", kind: "Job Trip", want: Status{Kind: KindTrip}, wantTx: "trip"},
		{name: "jobtrip", kind: "jobtrip", want: Status{Kind: KindTrip}, wantTx: "trip"},
		{name: "half day with space", kind: "half day", want: Status{Kind: KindHalfDay}, wantTx: "halfday"},
		{name: "holidays", kind: "Holidays", want: Status{Kind: KindVacation}, wantTx: "vacation"},
		{name: "meet", kind: "meet", want: Status{Kind: KindMeeting}, wantTx: "meeting"},
		{name: "training", kind: "training", want: Status{Kind: KindTraining}, wantTx: "training"},
		{name: "overtime", kind: "overtime", want: Status{Kind: KindOvertime}, wantTx: "overtime"},
		{name: "personal", kind: "personal", want: Status{Kind: KindPersonal}, wantTx: "personal"},
		{name: "free text passes through", kind: " Doctor ", want: Status{Kind: KindOther, Text: "doctor"}, wantTx: "doctor"},
		{name: "free text with half-day flag", kind: "doctor", half: true, want: Status{Kind: KindHalfDay}, wantTx: "halfday"},
		{name: "known kind wins over half-day flag", kind: "meeting", half: true, want: Status{Kind: KindMeeting}, wantTx: "meeting"},
		{name: "empty kind", kind: "  ", want: Status{Kind: KindUnavailability}, wantTx: "unavailability"},
		{name: "legacy unavailability", kind: "Unavailability", want: Status{Kind: KindUnavailability}, wantTx: "unavailability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.kind, tt.half)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTx, got.String())
		})
	}
}

func TestPriorityOrder(t *testing.T) {
	ordered := []Kind{KindSick, KindVacation, KindHalfDay, KindMeeting, KindTrip, KindTraining, KindOvertime}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i-1].Priority(), ordered[i].Priority(), "%v should beat %v", ordered[i-1], ordered[i])
	}
	assert.Equal(t, KindOvertime.Priority(), KindPersonal.Priority())
	assert.Equal(t, 0, KindUnavailability.Priority())
	assert.Equal(t, 0, KindOther.Priority())
	assert.Equal(t, -1, KindAvailable.Priority())
}

func TestResolve_NoRecordsIsAvailable(t *testing.T) {
	r, _ := newTestResolver()

	res := r.Resolve(day(2025, 3, 10), nil, nil)

	assert.Equal(t, Available, res.Status)
	assert.Nil(t, res.Half)
	assert.Nil(t, res.From)
	assert.Nil(t, res.To)
}

func TestResolve_RecordOutsideDateIsIgnored(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "sick", Start: day(2025, 3, 1), End: day(2025, 3, 9)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.True(t, res.Status.IsAvailable())
}

func TestResolve_InclusiveBoundariesIgnoreTimeOfDay(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{{
		EmployeeEmail: "a@x.com",
		Kind:          "trip",
		Start:         time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC),
		End:           time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC),
	}}

	for _, d := range []time.Time{day(2025, 3, 10), day(2025, 3, 11), time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)} {
		assert.Equal(t, "trip", r.Resolve(d, records, nil).Status.String(), d.String())
	}
	assert.True(t, r.Resolve(day(2025, 3, 13), records, nil).Status.IsAvailable())
}

func TestResolve_SickBeatsEverything(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "meeting", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
		{EmployeeEmail: "a@x.com", Kind: "ill", Start: day(2025, 3, 9), End: day(2025, 3, 11)},
		{EmployeeEmail: "a@x.com", Kind: "halfday", IsHalfDay: true, HalfSegment: "PM", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}
	vacations := []VacationRange{{EmployeeEmail: "a@x.com", From: day(2025, 3, 1), To: day(2025, 3, 31)}}

	res := r.Resolve(day(2025, 3, 10), records, vacations)

	assert.Equal(t, "sick", res.Status.String())
	assert.Nil(t, res.Half)
	require.NotNil(t, res.From)
	assert.Equal(t, day(2025, 3, 9), *res.From)
	assert.Equal(t, day(2025, 3, 11), *res.To)
}

func TestResolve_VacationBeatsMeeting(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "meeting", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
		{EmployeeEmail: "a@x.com", Kind: "vacation", Start: day(2025, 3, 10), End: day(2025, 3, 14)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.Equal(t, "vacation", res.Status.String())
	assert.Equal(t, day(2025, 3, 14), *res.To)
}

func TestResolve_ApprovedVacationFoldedIn(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "meeting", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}
	vacations := []VacationRange{{EmployeeEmail: "a@x.com", From: day(2025, 3, 8), To: day(2025, 3, 12)}}

	res := r.Resolve(day(2025, 3, 10), records, vacations)

	assert.Equal(t, Vacation, res.Status)
	assert.Equal(t, day(2025, 3, 8), *res.From)
	assert.Equal(t, day(2025, 3, 12), *res.To)
}

func TestResolve_HalfDaySegment(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "halfday", IsHalfDay: true, HalfSegment: "am", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.Equal(t, "halfday", res.Status.String())
	require.NotNil(t, res.Half)
	assert.Equal(t, "AM", *res.Half)
}

func TestResolve_HalfOnlyFromWinner(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "halfday", IsHalfDay: true, HalfSegment: "AM", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
		{EmployeeEmail: "a@x.com", Kind: "sick", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.Equal(t, "sick", res.Status.String())
	assert.Nil(t, res.Half)
}

func TestResolve_TieKeepsFirstEncountered(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "personal", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
		{EmployeeEmail: "a@x.com", Kind: "overtime", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}

	assert.Equal(t, "personal", r.Resolve(day(2025, 3, 10), records, nil).Status.String())

	records[0], records[1] = records[1], records[0]
	assert.Equal(t, "overtime", r.Resolve(day(2025, 3, 10), records, nil).Status.String())
}

func TestResolve_FreeTextBeatsAvailable(t *testing.T) {
	r, _ := newTestResolver()
	records := []Record{
		{EmployeeEmail: "a@x.com", Kind: "Dentist", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.Equal(t, Status{Kind: KindOther, Text: "dentist"}, res.Status)
}

func TestResolve_MalformedRecordsAreSkippedAndLogged(t *testing.T) {
	r, hook := newTestResolver()
	records := []Record{
		{EmployeeEmail: "", Kind: "sick", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
		{EmployeeEmail: "a@x.com", Kind: "sick", Start: day(2025, 3, 12), End: day(2025, 3, 1)},
		{EmployeeEmail: "a@x.com", Kind: "sick"},
		{EmployeeEmail: "a@x.com", Kind: "trip", Start: day(2025, 3, 10), End: day(2025, 3, 10)},
	}

	res := r.Resolve(day(2025, 3, 10), records, nil)

	assert.Equal(t, "trip", res.Status.String())
	assert.Len(t, hook.AllEntries(), 3)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
	}
}
