// Package coupon resolves a coupon reference into the discount applied to a
// sales order and records the usage linkage.
package coupon

import (
	"errors"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"gorm.io/gorm"
)

// Apply loads the order's coupon, records a usage row tying the order to
// the coupon, and overwrites the order discount with the coupon value when
// they differ. Runs before line items are totaled so the discount is in
// place for the subtotal calculation. No-op when the order has no coupon.
func Apply(tx *gorm.DB, order *models.SalesOrder) error {
	if order.CouponID == nil {
		return nil
	}

	var cp models.Coupon
	if err := tx.First(&cp, *order.CouponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(apperr.ErrNotFound, "coupon %d not found", *order.CouponID)
		}
		return err
	}
	if cp.ExpiresAt != nil && cp.ExpiresAt.Before(time.Now()) {
		return apperr.Wrap(apperr.ErrInvalidInput, "coupon %s has expired", cp.Code)
	}

	var usage models.CouponUsage
	err := tx.Where("sales_order_id = ?", order.ID).First(&usage).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		usage = models.CouponUsage{SalesOrderID: order.ID, CouponID: cp.ID}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	case usage.CouponID != cp.ID:
		// Order was updated with a different coupon; move the linkage.
		if err := tx.Model(&usage).UpdateColumn("coupon_id", cp.ID).Error; err != nil {
			return err
		}
	}

	if !order.Discount.Equal(cp.Value) {
		if err := tx.Model(order).UpdateColumn("discount", cp.Value).Error; err != nil {
			return err
		}
		order.Discount = cp.Value
	}
	return nil
}
