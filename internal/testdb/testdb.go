// Package testdb opens an in-memory SQLite database with the full schema
// migrated, plus seed helpers for the rows most tests need. Each test gets
// its own named database so parallel tests never share state.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database keyed to the test name.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func SeedRole(t *testing.T, db *gorm.DB, name, commissionPct, baseSalary string) *models.Role {
	t.Helper()
	role := &models.Role{
		Name:                 name,
		CommissionPercentage: decimal.RequireFromString(commissionPct),
		BaseSalary:           decimal.RequireFromString(baseSalary),
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

func SeedEmployee(t *testing.T, db *gorm.DB, role *models.Role, name string) *models.Employee {
	t.Helper()
	emp := &models.Employee{
		Name:         name,
		Username:     strings.ToLower(name),
		PasswordHash: "x",
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(emp).Error)
	return emp
}

var phoneSeq atomic.Uint64

func SeedMember(t *testing.T, db *gorm.DB, name string) *models.Member {
	t.Helper()
	member := &models.Member{
		Name:  name,
		Phone: fmt.Sprintf("08%010d", phoneSeq.Add(1)),
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

// SeedItem creates the item together with a category of its own.
func SeedItem(t *testing.T, db *gorm.DB, name, price string) *models.Item {
	t.Helper()
	cat := &models.Category{Name: name + " category"}
	require.NoError(t, db.Create(cat).Error)

	item := &models.Item{
		Name:       name,
		Barcode:    "BC-" + strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		CategoryID: cat.ID,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func SeedCoupon(t *testing.T, db *gorm.DB, code, value string) *models.Coupon {
	t.Helper()
	cp := &models.Coupon{Code: code, Value: decimal.RequireFromString(value)}
	require.NoError(t, db.Create(cp).Error)
	return cp
}
