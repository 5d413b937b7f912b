package license

import (
	"regexp"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Canonical family labels
const (
	Apache = "Apache 2.0 License"
	MIT    = "MIT License"
	BSD    = "BSD License"
)

type family struct {
	label    string
	patterns []*regexp.Regexp
}

// families are tried in order; the first match wins.
var families = []family{
	{
		label: Apache,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?is)apache.*(2\.0|license)`),
			regexp.MustCompile(`(?i)\bapache[- ]?2\b`),
			regexp.MustCompile(`(?is)^\s*apache license\s+version 2\.0`),
		},
	},
	{
		label: MIT,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmit\b`),
		},
	},
	{
		label: BSD,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?is)bsd.*license|license.*bsd`),
			regexp.MustCompile(`(?i)\bbsd-[23]-clause\b`),
			regexp.MustCompile(`(?i)license\.bsd3`),
		},
	},
}

// Standardize maps a raw license string to its family label. Strings that
// match no family, including "" and models.UnknownLicense, are returned
// unchanged. Standardize(Standardize(s)) == Standardize(s).
func Standardize(raw string) string {
	if raw == "" || raw == models.UnknownLicense {
		return raw
	}
	for _, f := range families {
		for _, re := range f.patterns {
			if re.MatchString(raw) {
				return f.label
			}
		}
	}
	return raw
}
