package service

import "math"

// Subscription pricing. Weekly price is a pure function of meals per week;
// it is recomputed on every plan change and never edited directly.
const (
	PricePerMeal  = 4.285
	WeeksPerMonth = 4.33
)

// WeeklyPrice returns meals × the per-meal rate, rounded to cents.
func WeeklyPrice(mealsPerWeek int) float64 {
	return round2(float64(mealsPerWeek) * PricePerMeal)
}

// MonthlyEstimate converts a weekly price to a monthly figure, rounded to
// cents.
func MonthlyEstimate(weeklyPrice float64) float64 {
	return round2(weeklyPrice * WeeksPerMonth)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
