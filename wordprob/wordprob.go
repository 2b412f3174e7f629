// Package wordprob answers a few shapes of textual math problems by keyword
// matching and number extraction. It is a best-effort heuristic: it never
// fails and never panics, but it understands only distance problems (a speed
// in km/h and a time in hours) and rectangle area problems. Anything else
// gets a fixed cannot-solve answer.
package wordprob

import (
	"strconv"
	"strings"
	"unicode"
)

// CannotSolve is the answer for text no pattern matches.
const CannotSolve = "cannot solve this problem automatically (try rephrasing it)"

// distance and area keywords. Serbian and English spellings are both
// recognized.
var (
	distanceWords = []string{"km/h", "kmh"}
	areaWords     = []string{"povrsin", "površin", "area"}
)

// Solve answers a textual problem. The result is always usable text; when no
// supported pattern matches, it is CannotSolve.
func Solve(text string) string {
	t := strings.ToLower(text)
	if matchesDistance(t) {
		if nums := Numbers(t); len(nums) >= 2 {
			speed, hours := nums[0], nums[1]
			return "distance = " + strconv.FormatInt(speed*hours, 10) + " km"
		}
	}
	if matchesAny(t, areaWords) {
		if nums := Numbers(t); len(nums) >= 2 {
			return "area = " + strconv.FormatInt(nums[0]*nums[1], 10)
		}
	}
	return CannotSolve
}

func matchesDistance(t string) bool {
	if matchesAny(t, distanceWords) {
		return true
	}
	return strings.Contains(t, "km") && strings.Contains(t, "h")
}

func matchesAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

// Numbers extracts the integers appearing in the text, in order. Every
// non-digit rune separates numbers, so "km/h" contributes nothing but
// "2x3" reads as 2 and 3. Multi-number text with dates or unit-adjacent
// digits will be read naively; callers use the first two numbers only.
func Numbers(text string) []int64 {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	nums := make([]int64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			// Longer runs of digits than an int64 holds are skipped rather
			// than truncated.
			continue
		}
		nums = append(nums, n)
	}
	return nums
}
