// Package commission is the append-only commission log per employee. An
// employee's balance is always the derived sum of add entries minus sub
// entries; there is no stored counter to drift.
package commission

import (
	"fmt"

	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddForSale credits the processing employee with
// sub_total * role.commission_percentage. Only called when an order reaches
// success status. The order's Employee.Role must be loaded.
func AddForSale(tx *gorm.DB, order *models.SalesOrder) error {
	value := order.SubTotal.Mul(order.Employee.Role.CommissionPercentage)
	entry := models.CommissionEntry{
		EmployeeID:  order.EmployeeID,
		Value:       value,
		Type:        models.EntryAdd,
		Description: fmt.Sprintf("commission for sales %s", order.Code),
		SourceKind:  models.SourceSale,
		SourceID:    order.ID,
	}
	return tx.Create(&entry).Error
}

// SubForSale debits a refunded sale's commission from its employee.
func SubForSale(tx *gorm.DB, order *models.SalesOrder, value decimal.Decimal) error {
	entry := models.CommissionEntry{
		EmployeeID:  order.EmployeeID,
		Value:       value,
		Type:        models.EntrySub,
		Description: fmt.Sprintf("cancelled commission for refunded sales %s", order.Code),
		SourceKind:  models.SourceSale,
		SourceID:    order.ID,
	}
	return tx.Create(&entry).Error
}

// SubForSalary sweeps an employee's balance into a monthly salary run.
func SubForSalary(tx *gorm.DB, employeeID uint, value decimal.Decimal, runID uint) error {
	entry := models.CommissionEntry{
		EmployeeID:  employeeID,
		Value:       value,
		Type:        models.EntrySub,
		Description: "deducted commission due to monthly calculation",
		SourceKind:  models.SourceSalaryRun,
		SourceID:    runID,
	}
	return tx.Create(&entry).Error
}

// Balance is the employee's current commission: adds minus subs.
func Balance(tx *gorm.DB, employeeID uint) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.Model(&models.CommissionEntry{}).
		Where("employee_id = ?", employeeID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN value ELSE -value END), 0)", models.EntryAdd).
		Scan(&balance).Error
	return balance, err
}
