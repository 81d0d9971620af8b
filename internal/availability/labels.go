package availability

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const unknownName = "(Unknown)"

// DisplayName prefers the stored name and falls back to the e-mail.
func DisplayName(email, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return PrettyFromEmail(email)
}

// PrettyFromEmail turns "jane.doe@x.com" into "Jane Doe".
func PrettyFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)

	words := strings.Fields(local)
	if len(words) == 0 {
		if email = strings.TrimSpace(email); email != "" {
			return email
		}
		return unknownName
	}

	return cases.Title(language.Und).String(strings.Join(words, " "))
}
