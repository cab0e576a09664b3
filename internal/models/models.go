package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role - Permission tier for employees. CommissionPercentage drives the
// commission ledger whenever this role's employees close a sale.
type Role struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	Name                 string          `gorm:"uniqueIndex;size:50" json:"name"` // 'admin', 'manager', 'cashier'
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(6,4);default:0" json:"commission_percentage"`
	BaseSalary           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"base_salary"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Employee - The person operating the terminal. Sales, commission entries
// and audit columns all reference employees by id.
type Employee struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100" json:"name"`
	Username     string         `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string         `json:"-"` // Never return this in JSON
	RoleID       uint           `json:"role_id"`
	Role         Role           `json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Member - Loyalty customer. Points is a denormalized running balance
// mirrored from the point ledger; the two must never diverge.
type Member struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100" json:"name"`
	Phone     string          `gorm:"uniqueIndex;size:30" json:"phone"`
	Email     string          `gorm:"size:100" json:"email"`
	Points    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"points"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Category groups items for listings and the valuation report.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100" json:"name"`
	Description string         `gorm:"size:255" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Item - Catalog entry. Physical stock lives in StockLot rows, not here;
// available quantity is always the sum over the item's lots.
type Item struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"size:100" json:"name"`
	Barcode    string          `gorm:"uniqueIndex;size:50" json:"barcode"`
	CategoryID uint            `json:"category_id"`
	Category   Category        `json:"category"`
	Price      decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Coupon - Flat discount voucher. Value overwrites the order discount when
// the coupon is applied.
type Coupon struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Code      string          `gorm:"uniqueIndex;size:50" json:"code"`
	Value     decimal.Decimal `gorm:"type:decimal(20,4)" json:"value"`
	ExpiresAt *time.Time      `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
