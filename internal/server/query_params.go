package server

import (
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
)

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	return dashboard.ParseDateBound(value, endOfDay)
}
