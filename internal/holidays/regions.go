package holidays

import (
	"sort"
	"strings"
)

// regionGroups is the canonical region table used for holiday filters and
// country lookups.
var regionGroups = map[string][]string{
	"NAM":  {"US", "CA"},
	"CAM":  {"MX", "CR", "GT", "SV", "HN", "NI", "PA"},
	"SAM":  {"AR", "BR", "CL", "CO", "PE", "UY", "PY", "BO", "EC", "VE"},
	"EU":   {"ES", "FR", "DE", "IT", "PT", "UK", "NL"},
	"APAC": {"JP", "KR", "CN", "IN", "SG"},
	"OCE":  {"AU", "NZ"},
}

// Regions returns the known region codes in alphabetical order.
func Regions() []string {
	codes := make([]string, 0, len(regionGroups))
	for code := range regionGroups {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CountriesFor returns a copy of the countries of a region group, nil when
// the group is unknown.
func CountriesFor(region string) []string {
	codes, ok := regionGroups[normalizeCode(region)]
	if !ok {
		return nil
	}
	return append([]string(nil), codes...)
}

// IsCountry reports whether code is a country listed in any region group.
func IsCountry(code string) bool {
	cc := normalizeCode(code)
	for _, codes := range regionGroups {
		for _, c := range codes {
			if c == cc {
				return true
			}
		}
	}
	return false
}

// IsRegion reports whether code names a region group.
func IsRegion(code string) bool {
	_, ok := regionGroups[normalizeCode(code)]
	return ok
}

// Selection is the resolved holiday filter.
type Selection struct {
	Region    string
	Countries []string
}

func (s Selection) IsEmpty() bool {
	return len(s.Countries) == 0
}

// Tag labels the holidays produced for this selection.
func (s Selection) Tag() string {
	if s.Region != "" {
		return s.Region
	}
	if len(s.Countries) == 1 {
		return s.Countries[0]
	}
	return ""
}

// Resolve applies the filter precedence: an explicit country wins over a
// region group. An unknown country or group selects nothing.
func Resolve(country, region string) Selection {
	if cc := normalizeCode(country); cc != "" {
		if !IsCountry(cc) {
			return Selection{}
		}
		return Selection{Countries: []string{cc}}
	}

	rg := normalizeCode(region)
	if codes := CountriesFor(rg); len(codes) > 0 {
		return Selection{Region: rg, Countries: codes}
	}

	return Selection{}
}

// ParseFilter interprets a single user supplied code as a region group when it
// names one, and as a country otherwise.
func ParseFilter(code string) Selection {
	if IsRegion(code) {
		return Resolve("", code)
	}
	return Resolve(code, "")
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
