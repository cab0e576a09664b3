// Package stock owns per-item cost lots and the movement audit trail.
// Lots are mutable counters drained oldest-first; movements are append-only.
// Every function takes the caller's transaction handle - the sales engine
// wraps the whole order mutation in one transaction and nothing here opens
// its own.
package stock

import (
	"fmt"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Available sums the remaining quantity across an item's lots.
func Available(tx *gorm.DB, itemID uint) (int, error) {
	var total int
	err := tx.Model(&models.StockLot{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&total).Error
	return total, err
}

// CheckAvailable reports whether at least needed units are on hand.
func CheckAvailable(tx *gorm.DB, itemID uint, needed int) (bool, error) {
	total, err := Available(tx, itemID)
	if err != nil {
		return false, err
	}
	return total >= needed, nil
}

// CreateLot registers a purchased batch and its initial add movement.
func CreateLot(tx *gorm.DB, itemID uint, cogs decimal.Decimal, qty int) (*models.StockLot, error) {
	if qty < 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "stock quantity cannot be negative")
	}

	lot := &models.StockLot{ItemID: itemID, Cogs: cogs, Qty: qty}
	if err := tx.Create(lot).Error; err != nil {
		return nil, err
	}

	movement := models.StockMovement{
		StockLotID:  lot.ID,
		Direction:   models.MovementAdd,
		Qty:         qty,
		SourceKind:  models.SourceRestock,
		SourceID:    lot.ID,
		Description: "initial stock",
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}
	return lot, nil
}

// AddStock increments a lot and records the matching add movement. Used for
// restocks and for returning previously deducted quantity.
func AddStock(tx *gorm.DB, lot *models.StockLot, qty int, kind models.SourceKind, sourceID uint, description string) error {
	if qty <= 0 {
		return apperr.Wrap(apperr.ErrInvalidInput, "stock quantity must be positive")
	}

	movement := models.StockMovement{
		StockLotID:  lot.ID,
		Direction:   models.MovementAdd,
		Qty:         qty,
		SourceKind:  kind,
		SourceID:    sourceID,
		Description: description,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return err
	}

	if err := tx.Model(lot).UpdateColumn("qty", gorm.Expr("qty + ?", qty)).Error; err != nil {
		return err
	}
	lot.Qty += qty
	return nil
}

// Deduct drains qty units from the item's lots, first-created lot first,
// recording one deduct movement per partial deduction attributed to the
// sale line. Lots are locked for the duration of the transaction so two
// concurrent sales cannot over-draw the same lot.
//
// If the lots cannot satisfy the full quantity the whole operation fails
// with ErrInsufficientStock; the caller's transaction rollback reverts any
// partial deduction already applied.
func Deduct(tx *gorm.DB, itemID uint, qty int, lineItemID uint) error {
	if qty <= 0 {
		return apperr.Wrap(apperr.ErrInvalidInput, "deduct quantity must be positive")
	}

	var lots []models.StockLot
	err := database.ForUpdate(tx).
		Where("item_id = ? AND qty > 0", itemID).
		Order("id").
		Find(&lots).Error
	if err != nil {
		return err
	}

	remaining := qty
	for i := range lots {
		lot := &lots[i]
		take := remaining
		if lot.Qty < take {
			take = lot.Qty
		}

		movement := models.StockMovement{
			StockLotID:  lot.ID,
			Direction:   models.MovementDeduct,
			Qty:         take,
			SourceKind:  models.SourceSaleItem,
			SourceID:    lineItemID,
			Description: fmt.Sprintf("sold %d from lot %d", take, lot.ID),
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}
		if err := tx.Model(lot).UpdateColumn("qty", gorm.Expr("qty - ?", take)).Error; err != nil {
			return err
		}

		remaining -= take
		if remaining == 0 {
			return nil
		}
	}

	return apperr.Wrap(apperr.ErrInsufficientStock,
		"insufficient stock for item %d: short by %d", itemID, remaining)
}

type lotOutstanding struct {
	StockLotID  uint
	Outstanding int
}

// outstandingByLot nets the line's deductions against its rollbacks so a
// second return never doubles up.
func outstandingByLot(tx *gorm.DB, lineItemID uint) ([]lotOutstanding, error) {
	var rows []lotOutstanding
	err := tx.Model(&models.StockMovement{}).
		Select("stock_lot_id, SUM(CASE WHEN direction = ? THEN qty ELSE -qty END) AS outstanding",
			models.MovementDeduct).
		Where("source_id = ? AND source_kind IN ?", lineItemID,
			[]models.SourceKind{models.SourceSaleItem, models.SourceRollback}).
		Group("stock_lot_id").
		Order("stock_lot_id DESC").
		Scan(&rows).Error
	return rows, err
}

// Return puts qty units back into the exact lots the line item drew from,
// most recently drained lot first. Used when an order update lowers a line
// quantity.
func Return(tx *gorm.DB, lineItemID uint, qty int) error {
	if qty <= 0 {
		return apperr.Wrap(apperr.ErrInvalidInput, "return quantity must be positive")
	}

	rows, err := outstandingByLot(tx, lineItemID)
	if err != nil {
		return err
	}

	remaining := qty
	for _, row := range rows {
		if row.Outstanding <= 0 {
			continue
		}
		give := remaining
		if row.Outstanding < give {
			give = row.Outstanding
		}

		var lot models.StockLot
		if err := database.ForUpdate(tx).First(&lot, row.StockLotID).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("rollback %d to lot %d", give, lot.ID)
		if err := AddStock(tx, &lot, give, models.SourceRollback, lineItemID, desc); err != nil {
			return err
		}

		remaining -= give
		if remaining == 0 {
			return nil
		}
	}

	return apperr.Wrap(apperr.ErrInvalidInput,
		"line item %d has only %d units left to return", lineItemID, qty-remaining)
}

// Rollback returns everything a line item still holds. Used when a hold
// order is canceled or an item is removed from the cart.
func Rollback(tx *gorm.DB, lineItemID uint) error {
	rows, err := outstandingByLot(tx, lineItemID)
	if err != nil {
		return err
	}

	total := 0
	for _, row := range rows {
		if row.Outstanding > 0 {
			total += row.Outstanding
		}
	}
	if total == 0 {
		return nil
	}
	return Return(tx, lineItemID, total)
}
