package sales

import (
	"fmt"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"gorm.io/gorm"
)

// NextCode produces the human-readable sequential code stamped on orders,
// e.g. SAL/2026/7: tag, year, then how many orders exist this year plus
// one. Counts soft-deleted rows too so a deletion never frees a number.
// The unique index on code backstops concurrent creates.
func NextCode(tx *gorm.DB, tag string, now time.Time) (string, error) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	var count int64
	err := tx.Unscoped().Model(&models.SalesOrder{}).
		Where("created_at >= ? AND created_at < ?", yearStart, yearEnd).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%d", tag, now.Year(), count+1), nil
}
