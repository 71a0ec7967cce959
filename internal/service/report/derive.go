package report

import (
	"math"
	"strconv"
	"strings"

	"cnc-ops/internal/validation"
)

// clockMinutes converts HH:MM into minutes after midnight.
func clockMinutes(v string) (int, bool) {
	if !validation.ValidClock(v) {
		return 0, false
	}

	h, m, _ := strings.Cut(v, ":")
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}

	return hours*60 + minutes, true
}

// DeriveCustomerCode is the upper-cased first two characters of a project code.
func DeriveCustomerCode(projectCode string) string {
	runes := []rune(projectCode)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// DeriveTimePerPiece returns machining minutes per piece rounded to two
// decimals. Start and end are taken on the same day; a run past midnight,
// an end not after start, a bad clock value or actualQty <= 0 all give 0.
func DeriveTimePerPiece(startTime, endTime string, actualQty int) float64 {
	if actualQty <= 0 {
		return 0
	}

	start, ok := clockMinutes(startTime)
	if !ok {
		return 0
	}
	end, ok := clockMinutes(endTime)
	if !ok {
		return 0
	}

	if end <= start {
		return 0
	}

	perPiece := float64(end-start) / float64(actualQty)

	return math.Round(perPiece*100) / 100
}
