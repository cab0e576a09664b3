package sales

import (
	"context"
	"testing"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/commission"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/stock"
	"github.com/pichoendo/pos-backoffice-api/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type captureNotifier struct {
	salesReports int
}

func (n *captureNotifier) SalesReport(*models.Member, *models.SalesOrder)      { n.salesReports++ }
func (n *captureNotifier) SalaryReport(*models.Employee, *models.SalaryRecord) {}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	notifier *captureNotifier
	employee *models.Employee
	member   *models.Member
	item     *models.Item
}

// newFixture seeds a cashier on 5% commission and an item priced 2000 with
// 200 units on hand.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)

	role := testdb.SeedRole(t, db, "cashier", "0.05", "2000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")
	member := testdb.SeedMember(t, db, "Raka")
	item := testdb.SeedItem(t, db, "Espresso Beans", "2000")
	_, err := stock.CreateLot(db, item.ID, decimal.RequireFromString("1200"), 200)
	require.NoError(t, err)

	notifier := &captureNotifier{}
	return &fixture{
		svc:      NewService(db, notifier),
		db:       db,
		notifier: notifier,
		employee: emp,
		member:   member,
		item:     item,
	}
}

func (f *fixture) available(t *testing.T) int {
	t.Helper()
	total, err := stock.Available(f.db, f.item.ID)
	require.NoError(t, err)
	return total
}

func (f *fixture) commissionBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	balance, err := commission.Balance(f.db, f.employee.ID)
	require.NoError(t, err)
	return balance
}

func (f *fixture) memberPoints(t *testing.T) decimal.Decimal {
	t.Helper()
	var m models.Member
	require.NoError(t, f.db.First(&m, f.member.ID).Error)
	return m.Points
}

func eq(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "%s: want %d, got %s", msg, want, got)
}

func TestCreateSuccessSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, Input{
		MemberID: &f.member.ID,
		Status:   models.StatusSuccess,
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)

	eq(t, 20000, order.SubTotal, "sub total")
	eq(t, 200, order.Tax, "tax at 1%")
	eq(t, 20200, order.Total, "total")
	assert.Equal(t, models.StatusSuccess, order.Status)
	assert.NotEmpty(t, order.UUID)
	assert.Contains(t, order.Code, "SAL/")

	assert.Equal(t, 190, f.available(t))
	eq(t, 1000, f.commissionBalance(t), "commission at 5% of sub total")
	eq(t, 200, f.memberPoints(t), "points at 1% of sub total")
	assert.Equal(t, 1, f.notifier.salesReports)
}

func TestCreateHoldReservesStockOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, Input{
		MemberID: &f.member.ID,
		Status:   models.StatusHold,
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusHold, order.Status)
	assert.Equal(t, 190, f.available(t), "hold still reserves stock")
	assert.True(t, f.commissionBalance(t).IsZero(), "no commission before success")
	assert.True(t, f.memberPoints(t).IsZero(), "no points before success")
	assert.Zero(t, f.notifier.salesReports)
}

func TestUpdateHoldToSuccessDeductsNothingTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.Create(ctx, Input{
		MemberID: &f.member.ID,
		Status:   models.StatusHold,
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, 190, f.available(t))

	order, err := f.svc.Update(ctx, hold.UUID, Input{
		MemberID: &f.member.ID,
		Status:   models.StatusSuccess,
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, order.Status)
	assert.Equal(t, 190, f.available(t), "unchanged quantities move no stock")
	eq(t, 1000, f.commissionBalance(t), "commission granted exactly once")
	eq(t, 200, f.memberPoints(t), "points granted exactly once")

	// A finalized order cannot be touched again.
	_, err = f.svc.Update(ctx, hold.UUID, Input{
		Status: models.StatusCanceled,
	}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestUpdateHoldToCanceledRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.Create(ctx, Input{
		MemberID: &f.member.ID,
		Status:   models.StatusHold,
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, 190, f.available(t))

	order, err := f.svc.Update(ctx, hold.UUID, Input{
		Status: models.StatusCanceled,
	}, f.employee.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCanceled, order.Status)
	assert.Equal(t, 200, f.available(t), "every reserved unit goes back")
	assert.True(t, f.commissionBalance(t).IsZero())
	assert.True(t, f.memberPoints(t).IsZero())
	assert.Zero(t, f.notifier.salesReports)

	_, err = f.svc.Update(ctx, hold.UUID, Input{Status: models.StatusSuccess}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestUpdateRaisesQuantityByDeltaOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.Create(ctx, Input{
		Status: models.StatusHold,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 5}},
	}, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, 195, f.available(t))

	order, err := f.svc.Update(ctx, hold.UUID, Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 8}},
	}, f.employee.ID)
	require.NoError(t, err)

	assert.Equal(t, 192, f.available(t), "only the extra 3 units are deducted")
	require.Len(t, order.Items, 1)
	assert.Equal(t, 8, order.Items[0].Quantity)
	eq(t, 16000, order.Items[0].SubTotal, "line sub total")
	eq(t, 16000, order.SubTotal, "order sub total")
	eq(t, 160, order.Tax, "tax")
	eq(t, 16160, order.Total, "total")
}

func TestUpdateLowersQuantityReturnsDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.Create(ctx, Input{
		Status: models.StatusHold,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 8}},
	}, f.employee.ID)
	require.NoError(t, err)
	require.Equal(t, 192, f.available(t))

	order, err := f.svc.Update(ctx, hold.UUID, Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 5}},
	}, f.employee.ID)
	require.NoError(t, err)

	assert.Equal(t, 195, f.available(t), "the 3 dropped units return to stock")
	eq(t, 10000, order.SubTotal, "order sub total")
}

func TestUpdateRemovesDroppedLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	milk := testdb.SeedItem(t, f.db, "Milk", "1000")
	_, err := stock.CreateLot(f.db, milk.ID, decimal.RequireFromString("600"), 50)
	require.NoError(t, err)

	hold, err := f.svc.Create(ctx, Input{
		Status: models.StatusHold,
		Cart: []CartLine{
			{ItemID: f.item.ID, Quantity: 5},
			{ItemID: milk.ID, Quantity: 3},
		},
	}, f.employee.ID)
	require.NoError(t, err)

	milkLeft, err := stock.Available(f.db, milk.ID)
	require.NoError(t, err)
	require.Equal(t, 47, milkLeft)

	order, err := f.svc.Update(ctx, hold.UUID, Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 5}},
	}, f.employee.ID)
	require.NoError(t, err)

	milkLeft, err = stock.Available(f.db, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, milkLeft, "dropped line gives its stock back")
	require.Len(t, order.Items, 1)
	assert.Equal(t, f.item.ID, order.Items[0].ItemID)
	eq(t, 10000, order.SubTotal, "order sub total")
}

func TestCouponOverridesDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cp := testdb.SeedCoupon(t, f.db, "WELCOME5K", "5000")

	order, err := f.svc.Create(ctx, Input{
		MemberID: &f.member.ID,
		CouponID: &cp.ID,
		Status:   models.StatusSuccess,
		Discount: decimal.NewFromInt(1), // overwritten by the coupon value
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)

	eq(t, 5000, order.Discount, "discount")
	eq(t, 15000, order.SubTotal, "sub total after discount")
	eq(t, 150, order.Tax, "tax")
	eq(t, 15150, order.Total, "total")
	eq(t, 150, f.memberPoints(t), "points follow the discounted sub total")

	var usage models.CouponUsage
	require.NoError(t, f.db.Where("sales_order_id = ?", order.ID).First(&usage).Error)
	assert.Equal(t, cp.ID, usage.CouponID)
}

func TestCreateCapturesExplicitPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, Input{
		Status: models.StatusSuccess,
		Cart: []CartLine{{
			ItemID:   f.item.ID,
			Quantity: 10,
			Price:    decimal.NewFromInt(1800),
		}},
	}, f.employee.ID)
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	eq(t, 1800, order.Items[0].Price, "negotiated unit price wins over catalog")
	eq(t, 18000, order.SubTotal, "sub total")
}

func TestCreateInsufficientStockLeavesNothingBehind(t *testing.T) {
	db := testdb.Open(t)
	role := testdb.SeedRole(t, db, "cashier", "0.05", "2000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")
	item := testdb.SeedItem(t, db, "Espresso Beans", "2000")
	_, err := stock.CreateLot(db, item.ID, decimal.RequireFromString("1200"), 5)
	require.NoError(t, err)

	svc := NewService(db, &captureNotifier{})
	_, err = svc.Create(context.Background(), Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: item.ID, Quantity: 10}},
	}, emp.ID)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	var orders int64
	require.NoError(t, db.Unscoped().Model(&models.SalesOrder{}).Count(&orders).Error)
	assert.Zero(t, orders, "the whole transaction aborts")

	left, err := stock.Available(db, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, left)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{
		Status: models.StatusCanceled,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 1}},
	}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "new orders cannot start canceled")

	_, err = f.svc.Create(ctx, Input{Status: models.StatusSuccess}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "empty cart")

	_, err = f.svc.Create(ctx, Input{
		Status:   models.StatusSuccess,
		Discount: decimal.NewFromInt(-1),
		Cart:     []CartLine{{ItemID: f.item.ID, Quantity: 1}},
	}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "negative discount")
}

func TestUpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "no-such-uuid", Input{Status: models.StatusSuccess}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	hold, err := f.svc.Create(ctx, Input{
		Status: models.StatusHold,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 1}},
	}, f.employee.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, hold.UUID, Input{Status: models.StatusHold}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "hold to hold is not a transition")

	_, err = f.svc.Update(ctx, hold.UUID, Input{Status: models.StatusSuccess}, f.employee.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "finalizing with an empty cart")
}

func TestListFiltersByStatusAndCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 1}},
	}, f.employee.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, Input{
		Status: models.StatusHold,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 1}},
	}, f.employee.ID)
	require.NoError(t, err)

	orders, total, err := f.svc.List(ctx, "", models.StatusSuccess, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusSuccess, orders[0].Status)

	orders, total, err = f.svc.List(ctx, "SAL/", "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)
}

func TestDestroySoftDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, Input{
		Status: models.StatusSuccess,
		Cart:   []CartLine{{ItemID: f.item.ID, Quantity: 10}},
	}, f.employee.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Destroy(ctx, order.UUID))

	_, err = f.svc.Get(ctx, order.UUID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Unscoped().Model(&models.SalesOrder{}).
		Where("uuid = ?", order.UUID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "row stays for the audit trail")

	assert.Equal(t, 190, f.available(t), "deletion reverses no stock")
	eq(t, 1000, f.commissionBalance(t), "deletion reverses no commission")

	err = f.svc.Destroy(ctx, order.UUID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
