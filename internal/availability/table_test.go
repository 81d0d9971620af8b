package availability

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTable(t *testing.T) {
	r, _ := newTestResolver()
	today := day(2025, 6, 2)

	directory := []Employee{
		{Email: "zoe@x.com", DisplayName: "Zoe", CountryCode: "ES"},
		{Email: "jane.doe@x.com", CountryCode: "US"},
		{Email: "Bob@x.com", DisplayName: "bob", CountryCode: "MX"},
		{Email: "amy@x.com", DisplayName: "Amy", CountryCode: "ES"},
	}
	records := []Record{
		{EmployeeEmail: "bob@x.com", Kind: "meeting", Start: today, End: today},
		{EmployeeEmail: "zoe@x.com", Kind: "halfday", IsHalfDay: true, HalfSegment: "PM", Start: today, End: today},
	}
	vacations := []VacationRange{{EmployeeEmail: "JANE.DOE@x.com", From: day(2025, 6, 1), To: day(2025, 6, 5)}}

	rows := r.StatusTable(today, directory, records, vacations, "")
	require.Len(t, rows, 4)

	names := []string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name}
	assert.Equal(t, []string{"bob", "Jane Doe", "Zoe", "Amy"}, names)

	assert.Equal(t, "meeting", rows[0].Status.String())
	assert.Equal(t, "vacation", rows[1].Status.String())
	assert.Equal(t, "halfday", rows[2].Status.String())
	require.NotNil(t, rows[2].Half)
	assert.Equal(t, "PM", *rows[2].Half)
	assert.True(t, rows[3].Status.IsAvailable())
	assert.Nil(t, rows[3].Half)
	assert.Equal(t, "ES", rows[3].CountryCode)
}

func TestStatusTable_Query(t *testing.T) {
	r, _ := newTestResolver()
	directory := []Employee{
		{Email: "jane.doe@x.com", DisplayName: "Jane"},
		{Email: "bob@x.com", DisplayName: "Robert"},
	}

	rows := r.StatusTable(day(2025, 6, 2), directory, nil, nil, " ROB ")
	require.Len(t, rows, 1)
	assert.Equal(t, "bob@x.com", rows[0].Email)

	rows = r.StatusTable(day(2025, 6, 2), directory, nil, nil, "nobody")
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestStatusRowJSON(t *testing.T) {
	half := "AM"
	row := StatusRow{Email: "a@x.com", Name: "A", Status: Status{Kind: KindHalfDay}, Half: &half}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	assert.JSONEq(t, `{"email":"a@x.com","name":"A","status":"halfday","half":"AM","from":null,"to":null}`, string(data))
}

func TestPrettyFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@x.com", "Jane Doe"},
		{"JOHN_smith-jr@x.com", "John Smith Jr"},
		{"solo", "Solo"},
		{"", "(Unknown)"},
		{"@x.com", "@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, PrettyFromEmail(tt.email))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Janie", DisplayName("jane.doe@x.com", " Janie "))
	assert.Equal(t, "Jane Doe", DisplayName("jane.doe@x.com", ""))
}
