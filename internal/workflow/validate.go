package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// maxAgeYears bounds how far back a birth year may go.
const maxAgeYears = 200

// Range is an inclusive integer range.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

var (
	MonthRange = Range{Min: 1, Max: 12}
	DayRange   = Range{Min: 1, Max: 31}
)

// YearRange is [currentYear-200, currentYear] for the year of now.
func YearRange(now time.Time) Range {
	y := now.Year()
	return Range{Min: y - maxAgeYears, Max: y}
}

// YearRetry is the message shown when a birth year is rejected. The lower
// bound is inclusive even though the wording says "greater than".
func YearRetry(r Range) string {
	return fmt.Sprintf("The value entered must be greater than %d and less than or equal to %d", r.Min, r.Max)
}

// BetweenRetry is the message shown when a month or day is rejected.
func BetweenRetry(r Range) string {
	return fmt.Sprintf("The value entered must be between %d and %d", r.Min, r.Max)
}

// ParseInt reads a base-10 integer, ignoring surrounding whitespace.
func ParseInt(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInRange parses text and checks it against r.
func ParseInRange(text string, r Range) (int, bool) {
	v, ok := ParseInt(text)
	if !ok || !r.Contains(v) {
		return 0, false
	}
	return v, true
}

var (
	yesWords = map[string]struct{}{
		"yes": {}, "y": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}, "okay": {}, "true": {}, "1": {},
	}
	noWords = map[string]struct{}{
		"no": {}, "n": {}, "nope": {}, "nah": {}, "false": {}, "0": {},
	}
)

// ParseConfirmation maps a yes/no answer. ok is false when text is neither.
func ParseConfirmation(text string) (answer bool, ok bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	if _, yes := yesWords[word]; yes {
		return true, true
	}
	if _, no := noWords[word]; no {
		return false, true
	}
	return false, false
}
