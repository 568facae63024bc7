package rules

import (
	"fmt"
	"strconv"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

var romanNumerals = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX"}

// Roman renders 0..20 as a roman numeral and anything else as "?".
func Roman(value int) string {
	if value < 0 || value >= len(romanNumerals) {
		return "?"
	}
	return romanNumerals[value]
}

func days(n int) int  { return n * secondsPerDay }
func hours(n int) int { return n * secondsPerHour }

// gameDays renders a duration in seconds as a day count.
func gameDays(seconds int) string {
	return strconv.FormatFloat(float64(seconds)/secondsPerDay, 'f', -1, 64)
}

// gameDuration renders seconds as "[Nd ]hh:mm".
func gameDuration(seconds int) string {
	d := seconds / secondsPerDay
	h := seconds % secondsPerDay / secondsPerHour
	m := seconds % secondsPerHour / secondsPerMinute
	hhmm := fmt.Sprintf("%02d:%02d", h, m)
	switch {
	case d == 0:
		return hhmm
	case d < 1000:
		return fmt.Sprintf("%dd %s", d, hhmm)
	default:
		return fmt.Sprintf("%dkd %s", d/1000, hhmm)
	}
}
