package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesStatus string

const (
	StatusHold     SalesStatus = "hold"
	StatusSuccess  SalesStatus = "success"
	StatusCanceled SalesStatus = "canceled"
)

// SalesOrder - The transaction aggregate. SubTotal, Tax and Total are always
// recomputed together from the line items minus discount; callers never set
// them directly.
type SalesOrder struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UUID       string          `gorm:"uniqueIndex;size:36" json:"uuid"`
	Code       string          `gorm:"uniqueIndex;size:30" json:"code"` // e.g. SAL/2026/7
	Status     SalesStatus     `gorm:"size:10;index" json:"status"`
	MemberID   *uint           `json:"member_id"`
	Member     *Member         `json:"member,omitempty"`
	EmployeeID uint            `json:"employee_id"` // Who processed it
	Employee   Employee        `json:"employee"`
	CouponID   *uint           `json:"coupon_id"`
	Coupon     *Coupon         `json:"coupon,omitempty"`
	Discount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Tax        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax"`
	SubTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Items      []SalesLineItem `gorm:"foreignKey:SalesOrderID" json:"items"`
	CreatedBy  uint            `json:"created_by"`
	UpdatedBy  uint            `json:"updated_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// SalesLineItem - One cart row. Price is the unit price captured at
// transaction time, not the live catalog price.
type SalesLineItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SalesOrderID uint            `gorm:"index" json:"sales_order_id"`
	ItemID       uint            `json:"item_id"`
	Item         Item            `json:"item"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	SubTotal     decimal.Decimal `gorm:"type:decimal(20,4)" json:"sub_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CardPayment records the card number supplied when a sale is finalized.
type CardPayment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SalesOrderID uint            `gorm:"uniqueIndex" json:"sales_order_id"`
	CardNo       string          `gorm:"size:30" json:"card_no"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CouponUsage links an order to the coupon applied to it. Created once per
// order; feeds the most-used-coupon report.
type CouponUsage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SalesOrderID uint      `gorm:"uniqueIndex" json:"sales_order_id"`
	CouponID     uint      `gorm:"index" json:"coupon_id"`
	CreatedAt    time.Time `json:"created_at"`
}
