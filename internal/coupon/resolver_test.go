package coupon

import (
	"fmt"
	"testing"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var orderSeq int

func seedOrder(t *testing.T, db *gorm.DB, couponID *uint) *models.SalesOrder {
	t.Helper()
	orderSeq++
	order := &models.SalesOrder{
		UUID:     fmt.Sprintf("uuid-%d", orderSeq),
		Code:     fmt.Sprintf("SAL/2026/%d", orderSeq),
		Status:   models.StatusHold,
		CouponID: couponID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestApplyWithoutCouponIsNoop(t *testing.T) {
	db := testdb.Open(t)
	order := seedOrder(t, db, nil)

	require.NoError(t, Apply(db, order))

	var count int64
	require.NoError(t, db.Model(&models.CouponUsage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplySetsDiscountAndUsage(t *testing.T) {
	db := testdb.Open(t)
	cp := testdb.SeedCoupon(t, db, "WELCOME5K", "5000")
	order := seedOrder(t, db, &cp.ID)

	require.NoError(t, Apply(db, order))

	assert.True(t, order.Discount.Equal(cp.Value),
		"coupon value overwrites the discount, got %s", order.Discount)

	var usage models.CouponUsage
	require.NoError(t, db.Where("sales_order_id = ?", order.ID).First(&usage).Error)
	assert.Equal(t, cp.ID, usage.CouponID)
}

func TestApplyIsIdempotentPerOrder(t *testing.T) {
	db := testdb.Open(t)
	cp := testdb.SeedCoupon(t, db, "WELCOME5K", "5000")
	order := seedOrder(t, db, &cp.ID)

	require.NoError(t, Apply(db, order))
	require.NoError(t, Apply(db, order))

	var count int64
	require.NoError(t, db.Model(&models.CouponUsage{}).
		Where("sales_order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyMovesLinkageToNewCoupon(t *testing.T) {
	db := testdb.Open(t)
	first := testdb.SeedCoupon(t, db, "WELCOME5K", "5000")
	second := testdb.SeedCoupon(t, db, "LOYAL10K", "10000")
	order := seedOrder(t, db, &first.ID)

	require.NoError(t, Apply(db, order))

	order.CouponID = &second.ID
	require.NoError(t, Apply(db, order))

	var usages []models.CouponUsage
	require.NoError(t, db.Where("sales_order_id = ?", order.ID).Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.Equal(t, second.ID, usages[0].CouponID)
	assert.True(t, order.Discount.Equal(decimal.NewFromInt(10000)), "got %s", order.Discount)
}

func TestApplyExpiredCoupon(t *testing.T) {
	db := testdb.Open(t)
	past := time.Now().Add(-time.Hour)
	cp := &models.Coupon{Code: "OLD", Value: decimal.NewFromInt(5000), ExpiresAt: &past}
	require.NoError(t, db.Create(cp).Error)
	order := seedOrder(t, db, &cp.ID)

	err := Apply(db, order)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestApplyUnknownCoupon(t *testing.T) {
	db := testdb.Open(t)
	missing := uint(99)
	order := seedOrder(t, db, &missing)

	err := Apply(db, order)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
