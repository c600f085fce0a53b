package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doggofresh/backend/internal/service"
)

func TestWeeklyPrice(t *testing.T) {
	assert.Equal(t, 0.0, service.WeeklyPrice(0))
	assert.Equal(t, 42.85, service.WeeklyPrice(10))
	// 14 meals is the seeded plan and must land exactly on its price.
	assert.Equal(t, 59.99, service.WeeklyPrice(14))
}

func TestMonthlyEstimate(t *testing.T) {
	assert.Equal(t, 259.76, service.MonthlyEstimate(59.99))
	assert.Equal(t, 0.0, service.MonthlyEstimate(0))
}
