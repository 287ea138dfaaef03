package matching

import (
	"math"
	"regexp"
	"strconv"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// ParseExperienceRange extracts a [min, max] year range from text like "3-5 years" or "5+ years".
// The first integer is the minimum and the second, if any, the maximum; a single
// integer leaves the maximum unbounded. ok is false when the text has no integers.
func ParseExperienceRange(text string) (minYears, maxYears float64, ok bool) {
	tokens := digitsPattern.FindAllString(text, 2)
	if len(tokens) == 0 {
		return 0, 0, false
	}

	// Tokens are pure digits; the only possible error is overflow, which yields +Inf.
	minYears, _ = strconv.ParseFloat(tokens[0], 64)
	maxYears = math.Inf(1)
	if len(tokens) > 1 {
		maxYears, _ = strconv.ParseFloat(tokens[1], 64)
	}

	return minYears, maxYears, true
}
