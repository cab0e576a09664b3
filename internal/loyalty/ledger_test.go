package loyalty

import (
	"testing"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func orderFor(memberID *uint, subTotal string) *models.SalesOrder {
	return &models.SalesOrder{
		ID:       1,
		Code:     "SAL/2026/1",
		MemberID: memberID,
		SubTotal: decimal.RequireFromString(subTotal),
	}
}

func TestAddForSalePairsLedgerAndBalance(t *testing.T) {
	db := testdb.Open(t)
	member := testdb.SeedMember(t, db, "Raka")

	require.NoError(t, AddForSale(db, orderFor(&member.ID, "20000")))

	var got models.Member
	require.NoError(t, db.First(&got, member.ID).Error)
	assert.True(t, got.Points.Equal(decimal.NewFromInt(200)),
		"want 20000 * 0.01 = 200, got %s", got.Points)

	balance, err := Balance(db, member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(got.Points), "ledger and balance must agree")
}

func TestAddForSaleWithoutMemberIsNoop(t *testing.T) {
	db := testdb.Open(t)

	require.NoError(t, AddForSale(db, orderFor(nil, "20000")))

	var count int64
	require.NoError(t, db.Model(&models.PointEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubPointsBurnsBalance(t *testing.T) {
	db := testdb.Open(t)
	member := testdb.SeedMember(t, db, "Raka")
	order := orderFor(&member.ID, "20000")

	require.NoError(t, AddForSale(db, order))
	require.NoError(t, SubPoints(db, order, decimal.NewFromInt(50)))

	var got models.Member
	require.NoError(t, db.First(&got, member.ID).Error)
	assert.True(t, got.Points.Equal(decimal.NewFromInt(150)), "got %s", got.Points)

	balance, err := Balance(db, member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(got.Points))
}

func TestMissingMemberRollsBackEntry(t *testing.T) {
	db := testdb.Open(t)
	missing := uint(99)

	err := db.Transaction(func(tx *gorm.DB) error {
		return AddForSale(tx, orderFor(&missing, "20000"))
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.PointEntry{}).Count(&count).Error)
	assert.Zero(t, count, "ledger entry must not survive without the balance update")
}
