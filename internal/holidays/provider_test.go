package holidays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(list []Holiday) []string {
	out := make([]string, 0, len(list))
	for _, h := range list {
		out = append(out, h.Date.Format("2006-01-02")+" "+h.Name)
	}
	return out
}

func TestNthWeekday(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		weekday time.Weekday
		n       int
		want    string
		wantErr bool
	}{
		{name: "Labor Day 2025", year: 2025, month: time.September, weekday: time.Monday, n: 1, want: "2025-09-01"},
		{name: "Thanksgiving 2025", year: 2025, month: time.November, weekday: time.Thursday, n: 4, want: "2025-11-27"},
		{name: "Thanksgiving 2024", year: 2024, month: time.November, weekday: time.Thursday, n: 4, want: "2024-11-28"},
		{name: "fifth Saturday exists", year: 2025, month: time.March, weekday: time.Saturday, n: 5, want: "2025-03-29"},
		{name: "fifth Monday overflows", year: 2025, month: time.February, weekday: time.Monday, n: 5, wantErr: true},
		{name: "zero is invalid", year: 2025, month: time.May, weekday: time.Monday, n: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NthWeekday(tt.year, tt.month, tt.weekday, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWeekdayOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, tt.weekday, got.Weekday())
		})
	}
}

func TestFor_NorthAmericaMatchesNthWeekday(t *testing.T) {
	for year := 2020; year <= 2035; year++ {
		labor, err := NthWeekday(year, time.September, time.Monday, 1)
		require.NoError(t, err)
		thanksgiving, err := NthWeekday(year, time.November, time.Thursday, 4)
		require.NoError(t, err)

		got := names(For(year, "NAM", ""))
		assert.Contains(t, got, labor.Format("2006-01-02")+" Labor Day")
		assert.Contains(t, got, thanksgiving.Format("2006-01-02")+" Thanksgiving")
	}
}

func TestFor_US(t *testing.T) {
	first := For(2025, "", "US")
	second := For(2025, "", "us")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		"2025-01-01 New year",
		"2025-07-04 Independence Day",
		"2025-09-01 Labor Day",
		"2025-11-27 Thanksgiving",
		"2025-12-25 Christmas",
	}, names(first))
	for _, h := range first {
		assert.Equal(t, "US", h.Tag)
		assert.Equal(t, time.UTC, h.Date.Location())
	}
}

func TestFor_Spain(t *testing.T) {
	assert.Equal(t, []string{
		"2025-01-01 New year",
		"2025-01-06 Epiphany",
		"2025-12-24 Christmas Eve",
		"2025-12-25 Christmas",
		"2025-12-31 New Year's Eve",
	}, names(For(2025, "", "ES")))
}

func TestFor_LatinAmerica(t *testing.T) {
	for _, cc := range []string{"MX", "CR", "AR", "BR"} {
		assert.Contains(t, names(For(2025, "", cc)), "2025-12-24 Christmas Eve", cc)
	}

	// countries outside the explicit list only get it through their region
	assert.NotContains(t, names(For(2025, "", "GT")), "2025-12-24 Christmas Eve")
	assert.Contains(t, names(For(2025, "CAM", "GT")), "2025-12-24 Christmas Eve")
}

func TestFor_UniversalOnly(t *testing.T) {
	assert.Equal(t, []string{"2025-01-01 New year", "2025-12-25 Christmas"}, names(For(2025, "", "JP")))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Selection{Countries: []string{"US"}}, Resolve(" us ", "EU"))
	assert.Equal(t, Selection{Region: "NAM", Countries: []string{"US", "CA"}}, Resolve("", "nam"))
	assert.True(t, Resolve("", "MARS").IsEmpty())
	assert.True(t, Resolve("", "").IsEmpty())

	// an unknown country does not fall back to the region
	assert.True(t, Resolve("ZZ", "").IsEmpty())
	assert.True(t, Resolve("zz", "EU").IsEmpty())
	assert.True(t, ParseFilter("ZZ").IsEmpty())
}

func TestIsCountry(t *testing.T) {
	assert.True(t, IsCountry("us"))
	assert.True(t, IsCountry(" NZ "))
	assert.False(t, IsCountry("ZZ"))
	assert.False(t, IsCountry("EU"))
	assert.False(t, IsCountry(""))
}

func TestForSelection_UnknownCountry(t *testing.T) {
	got := ForSelection(2025, Resolve("ZZ", ""))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, "OCE", ParseFilter("oce").Region)
	assert.Equal(t, []string{"FR"}, ParseFilter("fr").Countries)
}

func TestForSelection_RegionUnion(t *testing.T) {
	got := ForSelection(2025, Resolve("", "NAM"))

	assert.Equal(t, []string{
		"2025-01-01 New year",
		"2025-07-04 Independence Day",
		"2025-09-01 Labor Day",
		"2025-11-27 Thanksgiving",
		"2025-12-25 Christmas",
	}, names(got))
	for _, h := range got {
		assert.Equal(t, "NAM", h.Tag)
	}
}

func TestForSelection_EuropeKeepsSpanishEpiphany(t *testing.T) {
	got := names(ForSelection(2025, Resolve("", "EU")))

	assert.Contains(t, got, "2025-01-06 Epiphany")
	assert.Contains(t, got, "2025-12-31 New Year's Eve")
	assert.Len(t, got, 5)
}

func TestForSelection_Empty(t *testing.T) {
	got := ForSelection(2025, Resolve("", "unknown"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInRange(t *testing.T) {
	list := For(2025, "", "US")
	got := InRange(list, date(2025, time.November, 1), date(2025, time.November, 30))

	assert.Equal(t, []string{"2025-11-27 Thanksgiving"}, names(got))
}

func TestRegions(t *testing.T) {
	assert.Equal(t, []string{"APAC", "CAM", "EU", "NAM", "OCE", "SAM"}, Regions())
	assert.Equal(t, []string{"AU", "NZ"}, CountriesFor("oce"))
	assert.Nil(t, CountriesFor("XX"))
}
