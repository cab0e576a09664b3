package database

import (
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/models"
)

// SalesReportResult is the revenue rollup shared by the report endpoint and
// the AI assistant. Only successful sales count.
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates finalized sales within a date range.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := DB.Model(&models.SalesOrder{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", models.StatusSuccess, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.TotalRevenue).Error

	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.SalesOrder{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", models.StatusSuccess, start, end).
		Count(&result.TotalCount).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}
