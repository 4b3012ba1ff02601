package pricing

import (
	"math"
	"strconv"
	"strings"

	"courtside/internal/apperr"
)

// Quote is the price breakdown for a booking interval.
// FinalPrice + DiscountAmount always equals TotalPrice.
type Quote struct {
	TotalHours     float64 `json:"total_hours"`
	TotalPrice     float64 `json:"total_price"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalPrice     float64 `json:"final_price"`
}

// Compute prices a [start, end) interval at the given hourly rate with a
// membership discount rate in [0,1], where 1.0 means no discount.
// Fractional hours are supported. Fails when end <= start.
func Compute(pricePerHour float64, startTime, endTime string, discountRate float64) (Quote, error) {
	startMin, err := ParseTimeOfDay(startTime)
	if err != nil {
		return Quote{}, err
	}
	endMin, err := ParseTimeOfDay(endTime)
	if err != nil {
		return Quote{}, err
	}

	if endMin <= startMin {
		return Quote{}, apperr.ErrInvalidInterval
	}

	if discountRate < 0 || discountRate > 1 {
		discountRate = 1.0
	}

	totalHours := float64(endMin-startMin) / 60.0
	totalPrice := round2(totalHours * pricePerHour)
	discountAmount := round2(totalPrice * (1 - discountRate))
	finalPrice := round2(totalPrice - discountAmount)

	return Quote{
		TotalHours:     totalHours,
		TotalPrice:     totalPrice,
		DiscountAmount: discountAmount,
		FinalPrice:     finalPrice,
	}, nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back intervals (e1 == s2) do not overlap. Inputs are
// zero-padded "HH:MM" or "HH:MM:SS" strings, so lexicographic comparison
// matches chronological order.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// ParseTimeOfDay converts "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are accepted but ignored; slot granularity is one minute.
func ParseTimeOfDay(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, apperr.ErrInvalidInterval
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, apperr.ErrInvalidInterval
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, apperr.ErrInvalidInterval
	}

	return hour*60 + minute, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
