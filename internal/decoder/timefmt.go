package decoder

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

// LocalZone is the fixed +05:30 offset used for class and exam local times.
var LocalZone = time.FixedZone("IST", 5*60*60+30*60)

const (
	dobLayout       = "02012006"
	classDateLayout = "2006-01-02"
	examMonthLayout = "Jan-2006"
)

// universalLayouts are tried in order. Layouts without a zone are read as UTC.
var universalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"15:04:05Z07:00",
	"15:04:05",
	"15:04",
}

func parseUniversal(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrMalformedTimestamp, "empty timestamp")
	}
	for _, layout := range universalLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrMalformedTimestamp, "unrecognised timestamp "+trimmed)
}

// ToLocalFixedOffset reads text as universal time and expresses it at +05:30.
func ToLocalFixedOffset(text string) (time.Time, error) {
	t, err := parseUniversal(text)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(LocalZone), nil
}

// ToCanonicalUTC reads text as universal time and keeps it in UTC.
func ToCanonicalUTC(text string) (time.Time, error) {
	t, err := parseUniversal(text)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseExact applies a fixed layout with no tolerance for extra or missing characters.
func parseExact(layout, text string) (time.Time, error) {
	if len(text) != len(layout) {
		return time.Time{}, appErrors.Clone(appErrors.ErrMalformedTimestamp, "expected layout "+layout+", got "+text)
	}
	t, err := time.ParseInLocation(layout, text, LocalZone)
	if err != nil {
		return time.Time{}, appErrors.Wrapf(err, appErrors.ErrMalformedTimestamp, "expected layout %s", layout)
	}
	return t, nil
}

func parseDateOfBirth(text string) (time.Time, error) {
	return parseExact(dobLayout, text)
}

func parseClassDate(text string) (time.Time, error) {
	return parseExact(classDateLayout, text)
}

// parseExamMonth returns the month named by an exam key such as "Nov-2014",
// or nil when the key is opaque.
func parseExamMonth(key string) *time.Time {
	t, err := time.ParseInLocation(examMonthLayout, key, LocalZone)
	if err != nil {
		return nil
	}
	return &t
}
