package weekends

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_YAML(t *testing.T) {
	data := []byte(`
year: 2025
months:
  - month: 5
    days: "2, 15+,16*"
  - month: 12
    days: "26,24"
names:
  "05-02": Bridge day
`)

	days, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, "Bridge day", days[0].Name)
	assert.Equal(t, 15, days[1].Day)
	assert.Equal(t, 24, days[2].Day, "days are sorted")
	assert.Empty(t, days[3].Name)

	assert.Len(t, ForMonth(days, 2025, 12), 2)
	assert.Empty(t, ForMonth(days, 2025, 1))
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{"year": 2026, "months": [{"month": 1, "days": "1,2,1"}]}`)

	days, err := Parse(data)
	require.NoError(t, err)
	assert.Len(t, days, 2, "duplicates collapse")
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"bad day":       `{"year": 2025, "months": [{"month": 1, "days": "x"}]}`,
		"missing year":  `{"months": [{"month": 1, "days": "1"}]}`,
		"bad month":     `{"year": 2025, "months": [{"month": 13, "days": "1"}]}`,
		"day overflows": `{"year": 2025, "months": [{"month": 2, "days": "29"}]}`,
		"zero day":      `{"year": 2025, "months": [{"month": 2, "days": "0"}]}`,
		"not a map":     `[1, 2]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2025\nmonths:\n  - month: 8\n    days: \"15\"\n"), 0o600))

	days, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 8, days[0].Month)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
