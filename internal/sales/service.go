// Package sales is the transaction engine: it creates and mutates sales
// orders, driving the stock, commission and loyalty ledgers and the coupon
// resolver as side effects. Every create/update runs inside one database
// transaction; a failure anywhere reverts stock, ledger rows and line items
// together.
package sales

import (
	"context"
	"errors"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/commission"
	"github.com/pichoendo/pos-backoffice-api/internal/coupon"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/loyalty"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/notify"
	"github.com/pichoendo/pos-backoffice-api/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const codeTag = "SAL"

// TaxRate is the flat rate applied to the discounted subtotal.
var TaxRate = decimal.NewFromFloat(0.01)

// CartLine is one cart entry as sent by the terminal. Price is the unit
// price to capture; when zero the live catalog price is used.
type CartLine struct {
	ItemID   uint            `json:"item_id" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
}

// Input is the request shape shared by create and update.
type Input struct {
	MemberID *uint              `json:"member_id"`
	CouponID *uint              `json:"coupon_id"`
	Status   models.SalesStatus `json:"status" binding:"required,oneof=hold success canceled"`
	Discount decimal.Decimal    `json:"discount"`
	CardNo   string             `json:"card_no"`
	Cart     []CartLine         `json:"cart"`
}

type Service struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// Create opens a new order in hold or success state. Stock is deducted for
// every cart line either way; commission, points and payment only happen on
// success. actorID is the authenticated employee processing the sale.
func (s *Service) Create(ctx context.Context, in Input, actorID uint) (*models.SalesOrder, error) {
	if in.Status != models.StatusHold && in.Status != models.StatusSuccess {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "new sales must be hold or success, got %q", in.Status)
	}
	if len(in.Cart) == 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "cart cannot be empty")
	}
	if in.Discount.IsNegative() {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "discount cannot be negative")
	}

	var order *models.SalesOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := NextCode(tx, codeTag, time.Now())
		if err != nil {
			return err
		}

		order = &models.SalesOrder{
			UUID:       uuid.NewString(),
			Code:       code,
			Status:     in.Status,
			MemberID:   in.MemberID,
			EmployeeID: actorID,
			CouponID:   in.CouponID,
			Discount:   in.Discount,
			CreatedBy:  actorID,
			UpdatedBy:  actorID,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := coupon.Apply(tx, order); err != nil {
			return err
		}

		for _, l := range in.Cart {
			if _, err := s.addLine(tx, order, l); err != nil {
				return err
			}
		}

		if err := calculate(tx, order); err != nil {
			return err
		}

		if order.Status == models.StatusSuccess {
			if err := s.processAfterSales(tx, order, in.CardNo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchSalesReport(ctx, order)
	return s.Get(ctx, order.UUID)
}

// Update applies a new cart and status to a hold order. success finalizes
// the order (stock deltas applied, commission and points granted once);
// canceled returns every deducted unit to its originating lot. Any other
// target, or an order no longer in hold, is rejected outright.
func (s *Service) Update(ctx context.Context, orderUUID string, in Input, actorID uint) (*models.SalesOrder, error) {
	if in.Discount.IsNegative() {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "discount cannot be negative")
	}

	var order models.SalesOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := database.ForUpdate(tx).
			Where("uuid = ?", orderUUID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(apperr.ErrNotFound, "sales order %s not found", orderUUID)
		}
		if err != nil {
			return err
		}

		if order.Status != models.StatusHold {
			return apperr.Wrap(apperr.ErrInvalidState,
				"sales %s is %s; only hold orders can be updated", order.Code, order.Status)
		}

		switch in.Status {
		case models.StatusCanceled:
			return s.cancel(tx, &order, actorID)
		case models.StatusSuccess:
			return s.finalize(tx, &order, in, actorID)
		default:
			return apperr.Wrap(apperr.ErrInvalidInput,
				"hold orders can only move to success or canceled, got %q", in.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	s.dispatchSalesReport(ctx, &order)
	return s.Get(ctx, order.UUID)
}

// cancel voids a hold order: all reserved stock goes back, no commission or
// points are ever granted.
func (s *Service) cancel(tx *gorm.DB, order *models.SalesOrder, actorID uint) error {
	var lines []models.SalesLineItem
	if err := tx.Where("sales_order_id = ?", order.ID).Find(&lines).Error; err != nil {
		return err
	}
	for _, line := range lines {
		if err := stock.Rollback(tx, line.ID); err != nil {
			return err
		}
	}

	order.Status = models.StatusCanceled
	order.UpdatedBy = actorID
	return tx.Model(order).Updates(map[string]any{
		"status":     models.StatusCanceled,
		"updated_by": actorID,
	}).Error
}

// finalize diffs the new cart against the existing line items, applies only
// the stock deltas, recomputes totals and runs the after-sales side effects.
func (s *Service) finalize(tx *gorm.DB, order *models.SalesOrder, in Input, actorID uint) error {
	if len(in.Cart) == 0 {
		return apperr.Wrap(apperr.ErrInvalidInput, "cart cannot be empty")
	}

	if err := tx.Model(order).Updates(map[string]any{
		"member_id":  in.MemberID,
		"coupon_id":  in.CouponID,
		"discount":   in.Discount,
		"updated_by": actorID,
	}).Error; err != nil {
		return err
	}
	order.MemberID = in.MemberID
	order.CouponID = in.CouponID
	order.Discount = in.Discount
	order.UpdatedBy = actorID

	if err := coupon.Apply(tx, order); err != nil {
		return err
	}

	var existing []models.SalesLineItem
	if err := tx.Where("sales_order_id = ?", order.ID).Find(&existing).Error; err != nil {
		return err
	}
	byItem := make(map[uint]*models.SalesLineItem, len(existing))
	for i := range existing {
		byItem[existing[i].ItemID] = &existing[i]
	}
	inCart := make(map[uint]bool, len(in.Cart))
	for _, l := range in.Cart {
		inCart[l.ItemID] = true
	}

	// Items dropped from the cart give their stock back and disappear.
	for _, line := range existing {
		if inCart[line.ItemID] {
			continue
		}
		if err := stock.Rollback(tx, line.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.SalesLineItem{}, line.ID).Error; err != nil {
			return err
		}
	}

	for _, l := range in.Cart {
		line, ok := byItem[l.ItemID]
		if !ok {
			if _, err := s.addLine(tx, order, l); err != nil {
				return err
			}
			continue
		}

		// Quantity changes move only the delta, never the full amount.
		delta := l.Quantity - line.Quantity
		if delta > 0 {
			if err := checkThenDeduct(tx, l.ItemID, delta, line.ID); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := stock.Return(tx, line.ID, -delta); err != nil {
				return err
			}
		}

		line.Quantity = l.Quantity
		line.SubTotal = line.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		if err := tx.Model(line).Updates(map[string]any{
			"quantity":  line.Quantity,
			"sub_total": line.SubTotal,
		}).Error; err != nil {
			return err
		}
	}

	if err := calculate(tx, order); err != nil {
		return err
	}

	order.Status = models.StatusSuccess
	if err := tx.Model(order).UpdateColumn("status", models.StatusSuccess).Error; err != nil {
		return err
	}

	return s.processAfterSales(tx, order, in.CardNo)
}

// addLine captures the unit price, persists the cart row and deducts its
// stock, attributing the movement to the new line.
func (s *Service) addLine(tx *gorm.DB, order *models.SalesOrder, l CartLine) (*models.SalesLineItem, error) {
	if l.Quantity <= 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "quantity for item %d must be positive", l.ItemID)
	}

	price := l.Price
	if price.IsZero() {
		var item models.Item
		if err := tx.First(&item, l.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Wrap(apperr.ErrNotFound, "item %d not found", l.ItemID)
			}
			return nil, err
		}
		price = item.Price
	}

	line := models.SalesLineItem{
		SalesOrderID: order.ID,
		ItemID:       l.ItemID,
		Quantity:     l.Quantity,
		Price:        price,
		SubTotal:     price.Mul(decimal.NewFromInt(int64(l.Quantity))),
	}
	if err := tx.Create(&line).Error; err != nil {
		return nil, err
	}
	if err := checkThenDeduct(tx, l.ItemID, l.Quantity, line.ID); err != nil {
		return nil, err
	}
	return &line, nil
}

func checkThenDeduct(tx *gorm.DB, itemID uint, qty int, lineID uint) error {
	ok, err := stock.CheckAvailable(tx, itemID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Wrap(apperr.ErrInsufficientStock, "insufficient stock for item %d", itemID)
	}
	return stock.Deduct(tx, itemID, qty, lineID)
}

// calculate recomputes sub_total, tax and total together from the persisted
// line items minus discount. The computed values are authoritative and
// overwrite anything the caller supplied.
func calculate(tx *gorm.DB, order *models.SalesOrder) error {
	var lineSum decimal.Decimal
	err := tx.Model(&models.SalesLineItem{}).
		Where("sales_order_id = ?", order.ID).
		Select("COALESCE(SUM(sub_total), 0)").
		Scan(&lineSum).Error
	if err != nil {
		return err
	}

	subTotal := lineSum.Sub(order.Discount)
	tax := subTotal.Mul(TaxRate)
	total := subTotal.Add(tax)

	if err := tx.Model(order).Updates(map[string]any{
		"sub_total": subTotal,
		"tax":       tax,
		"total":     total,
	}).Error; err != nil {
		return err
	}
	order.SubTotal = subTotal
	order.Tax = tax
	order.Total = total
	return nil
}

// processAfterSales runs the success-only side effects: loyalty points when
// a member is attached, the card payment row when a card number was given,
// and the employee commission.
func (s *Service) processAfterSales(tx *gorm.DB, order *models.SalesOrder, cardNo string) error {
	if order.MemberID != nil {
		if err := loyalty.AddForSale(tx, order); err != nil {
			return err
		}
	}

	if cardNo != "" {
		payment := models.CardPayment{
			SalesOrderID: order.ID,
			CardNo:       cardNo,
			Amount:       order.Total,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
	}

	var emp models.Employee
	if err := tx.Preload("Role").First(&emp, order.EmployeeID).Error; err != nil {
		return err
	}
	order.Employee = emp
	return commission.AddForSale(tx, order)
}

// dispatchSalesReport notifies the member after commit. Fire and forget:
// the order is already final whether or not this goes out.
func (s *Service) dispatchSalesReport(ctx context.Context, order *models.SalesOrder) {
	if order == nil || order.Status != models.StatusSuccess || order.MemberID == nil {
		return
	}
	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, *order.MemberID).Error; err != nil {
		return
	}
	s.notifier.SalesReport(&member, order)
}

// Get loads an order with its member, employee, coupon and line detail.
func (s *Service) Get(ctx context.Context, orderUUID string) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := s.db.WithContext(ctx).
		Preload("Member").
		Preload("Employee.Role").
		Preload("Coupon").
		Preload("Items.Item").
		Where("uuid = ?", orderUUID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "sales order %s not found", orderUUID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns paginated order summaries, newest first, optionally filtered
// by code substring or status.
func (s *Service) List(ctx context.Context, search string, status models.SalesStatus, page, perPage int) ([]models.SalesOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := s.db.WithContext(ctx).Model(&models.SalesOrder{})
	if search != "" {
		q = q.Where("code LIKE ?", "%"+search+"%")
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.SalesOrder
	err := q.Preload("Member").Preload("Employee").
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	return orders, total, err
}

// Destroy soft-deletes the order record. Administrative only: stock,
// commission and points stay as they were.
func (s *Service) Destroy(ctx context.Context, orderUUID string) error {
	res := s.db.WithContext(ctx).Where("uuid = ?", orderUUID).Delete(&models.SalesOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "sales order %s not found", orderUUID)
	}
	return nil
}
