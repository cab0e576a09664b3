// Package loyalty is the append-only point log per member. Every entry is
// paired with an increment or decrement of the denormalized Member.Points
// balance; both writes ride the same transaction so the ledger and the
// balance cannot diverge.
package loyalty

import (
	"fmt"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointRate converts a sale's subtotal into loyalty points.
var PointRate = decimal.NewFromFloat(0.01)

// AddForSale grants a member sub_total * PointRate. Only invoked for
// success orders that carry a member.
func AddForSale(tx *gorm.DB, order *models.SalesOrder) error {
	if order.MemberID == nil {
		return nil
	}
	points := order.SubTotal.Mul(PointRate)
	desc := fmt.Sprintf("points earned on sales %s", order.Code)
	return apply(tx, *order.MemberID, points, models.EntryAdd, desc, &order.ID)
}

// SubPoints burns points when a member redeems them against an order.
func SubPoints(tx *gorm.DB, order *models.SalesOrder, points decimal.Decimal) error {
	if order.MemberID == nil {
		return apperr.Wrap(apperr.ErrInvalidInput, "sales order %s has no member", order.Code)
	}
	desc := fmt.Sprintf("points redeemed on sales %s", order.Code)
	return apply(tx, *order.MemberID, points, models.EntrySub, desc, &order.ID)
}

func apply(tx *gorm.DB, memberID uint, points decimal.Decimal, entryType models.EntryType, desc string, orderID *uint) error {
	entry := models.PointEntry{
		MemberID:     memberID,
		Points:       points,
		Type:         entryType,
		Description:  desc,
		SalesOrderID: orderID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	expr := gorm.Expr("points + ?", points)
	if entryType == models.EntrySub {
		expr = gorm.Expr("points - ?", points)
	}
	res := tx.Model(&models.Member{}).Where("id = ?", memberID).UpdateColumn("points", expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "member %d not found", memberID)
	}
	return nil
}

// Balance derives a member's points from the ledger. Reports compare this
// against Member.Points to detect drift.
func Balance(tx *gorm.DB, memberID uint) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.Model(&models.PointEntry{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN points ELSE -points END), 0)", models.EntryAdd).
		Scan(&balance).Error
	return balance, err
}
