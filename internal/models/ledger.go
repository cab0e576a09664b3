package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SourceKind tags what caused a stock movement or ledger entry. A closed set
// instead of a free-form polymorphic reference: resolve with a switch.
type SourceKind string

const (
	SourceSaleItem  SourceKind = "sale_item"
	SourceSale      SourceKind = "sale"
	SourceRestock   SourceKind = "restock"
	SourceRollback  SourceKind = "rollback"
	SourceSalaryRun SourceKind = "salary_run"
)

type MovementDirection string

const (
	MovementAdd    MovementDirection = "add"
	MovementDeduct MovementDirection = "deduct"
)

// EntryType marks ledger entries as credits (add) or debits (sub).
type EntryType int

const (
	EntryAdd EntryType = 1
	EntrySub EntryType = 2
)

// StockLot - A batch of item inventory with its own cost of goods sold.
// Qty never goes below zero; sales drain the oldest lot first.
type StockLot struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ItemID    uint            `gorm:"index" json:"item_id"`
	Cogs      decimal.Decimal `gorm:"type:decimal(20,4)" json:"cogs"`
	Qty       int             `json:"qty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockMovement - Immutable audit trail of every lot quantity change.
// The signed sum of a lot's movements equals its quantity delta.
type StockMovement struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	StockLotID  uint              `gorm:"index" json:"stock_lot_id"`
	Direction   MovementDirection `gorm:"size:10" json:"direction"`
	Qty         int               `json:"qty"`
	SourceKind  SourceKind        `gorm:"size:20;index:idx_movement_source" json:"source_kind"`
	SourceID    uint              `gorm:"index:idx_movement_source" json:"source_id"`
	Description string            `gorm:"size:255" json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

// CommissionEntry - Append-only commission log per employee. The balance is
// the derived sum of adds minus subs; never mutated after creation.
type CommissionEntry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	EmployeeID  uint            `gorm:"index" json:"employee_id"`
	Value       decimal.Decimal `gorm:"type:decimal(20,4)" json:"value"`
	Type        EntryType       `json:"type"`
	Description string          `gorm:"size:255" json:"description"`
	SourceKind  SourceKind      `gorm:"size:20" json:"source_kind"`
	SourceID    uint            `json:"source_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PointEntry - Append-only loyalty point log per member. Every insertion is
// paired atomically with an update of Member.Points.
type PointEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	MemberID     uint            `gorm:"index" json:"member_id"`
	Points       decimal.Decimal `gorm:"type:decimal(20,4)" json:"points"`
	Type         EntryType       `json:"type"`
	Description  string          `gorm:"size:255" json:"description"`
	SalesOrderID *uint           `json:"sales_order_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SalaryRun - One monthly payout batch.
type SalaryRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Period    string    `gorm:"uniqueIndex;size:7" json:"period"` // YYYY-MM
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SalaryRecord - Per-employee payout inside a run: base salary plus the
// commission balance swept by the run.
type SalaryRecord struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SalaryRunID uint            `gorm:"index" json:"salary_run_id"`
	EmployeeID  uint            `gorm:"index" json:"employee_id"`
	BaseSalary  decimal.Decimal `gorm:"type:decimal(20,4)" json:"base_salary"`
	Commission  decimal.Decimal `gorm:"type:decimal(20,4)" json:"commission"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4)" json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}
