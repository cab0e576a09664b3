package salary

import (
	"context"
	"testing"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/commission"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type captureNotifier struct {
	salaryReports int
}

func (n *captureNotifier) SalesReport(*models.Member, *models.SalesOrder) {}
func (n *captureNotifier) SalaryReport(*models.Employee, *models.SalaryRecord) {
	n.salaryReports++
}

func creditCommission(t *testing.T, db *gorm.DB, emp *models.Employee, role *models.Role, subTotal string) {
	t.Helper()
	order := &models.SalesOrder{
		Code:       "SAL/2026/1",
		EmployeeID: emp.ID,
		SubTotal:   decimal.RequireFromString(subTotal),
	}
	order.Employee = *emp
	order.Employee.Role = *role
	require.NoError(t, commission.AddForSale(db, order))
}

func TestGenerateSweepsCommissionIntoPayout(t *testing.T) {
	db := testdb.Open(t)
	role := testdb.SeedRole(t, db, "cashier", "0.05", "3000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")
	creditCommission(t, db, emp, role, "20000") // 1000 commission

	notifier := &captureNotifier{}
	svc := NewService(db, notifier)

	records, err := svc.Generate(context.Background(), "2026-08", emp.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, emp.ID, rec.EmployeeID)
	assert.True(t, rec.BaseSalary.Equal(decimal.NewFromInt(3000000)), "got %s", rec.BaseSalary)
	assert.True(t, rec.Commission.Equal(decimal.NewFromInt(1000)), "got %s", rec.Commission)
	assert.True(t, rec.Total.Equal(decimal.NewFromInt(3001000)), "got %s", rec.Total)
	assert.Equal(t, 1, notifier.salaryReports)

	balance, err := commission.Balance(db, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "the run sweeps the balance back to zero, got %s", balance)
}

func TestGenerateZeroBalanceAddsNoSubEntry(t *testing.T) {
	db := testdb.Open(t)
	role := testdb.SeedRole(t, db, "cashier", "0.05", "3000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")

	svc := NewService(db, &captureNotifier{})
	records, err := svc.Generate(context.Background(), "2026-08", emp.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Commission.IsZero())
	assert.True(t, records[0].Total.Equal(role.BaseSalary))

	var entries int64
	require.NoError(t, db.Model(&models.CommissionEntry{}).Count(&entries).Error)
	assert.Zero(t, entries, "nothing to sweep, nothing written")
}

func TestGenerateRejectsDuplicatePeriod(t *testing.T) {
	db := testdb.Open(t)
	role := testdb.SeedRole(t, db, "cashier", "0.05", "3000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")

	svc := NewService(db, &captureNotifier{})
	_, err := svc.Generate(context.Background(), "2026-08", emp.ID)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "2026-08", emp.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db, &captureNotifier{})

	_, err := svc.Generate(context.Background(), "Aug-2026", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestListFiltersByPeriod(t *testing.T) {
	db := testdb.Open(t)
	role := testdb.SeedRole(t, db, "cashier", "0.05", "3000000")
	emp := testdb.SeedEmployee(t, db, role, "Dina")

	svc := NewService(db, &captureNotifier{})
	_, err := svc.Generate(context.Background(), "2026-07", emp.ID)
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), "2026-08", emp.ID)
	require.NoError(t, err)

	records, err := svc.List(context.Background(), "2026-08")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
