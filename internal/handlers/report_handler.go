package handlers

import (
	"net/http"

	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportData is the analytics payload for the dashboard.
type ReportData struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int64           `json:"total_orders"`
	TopSelling   []struct {
		ItemName string          `json:"item_name"`
		Sold     int             `json:"sold"`
		Revenue  decimal.Decimal `json:"revenue"`
	} `json:"top_selling"`
	RecentSales []models.SalesOrder `json:"recent_sales"`
}

// --- GET: /api/reports ---
func GetSalesReport(c *gin.Context) {
	var data ReportData

	// Only finalized sales count as revenue.
	err := database.DB.Model(&models.SalesOrder{}).
		Where("status = ?", models.StatusSuccess).
		Select("COALESCE(SUM(total), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	err = database.DB.Model(&models.SalesOrder{}).
		Where("status = ?", models.StatusSuccess).
		Count(&data.TotalOrders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	err = database.DB.Table("sales_line_items").
		Select("items.name as item_name, SUM(sales_line_items.quantity) as sold, SUM(sales_line_items.sub_total) as revenue").
		Joins("JOIN items ON sales_line_items.item_id = items.id").
		Joins("JOIN sales_orders ON sales_line_items.sales_order_id = sales_orders.id").
		Where("sales_orders.status = ?", models.StatusSuccess).
		Group("items.name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	err = database.DB.Preload("Items").Order("created_at desc").Limit(10).Find(&data.RecentSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// ValuationItem is a single row in the valuation table.
type ValuationItem struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CategoryGroup is one category's slice of the valuation.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ValuationResponse is the final valuation payload.
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation prices the physical inventory at cost: every lot's
// remaining quantity times its own cogs, grouped by category.
func GetStockValuation(c *gin.Context) {
	var rows []ValuationItem
	err := database.DB.Table("items").
		Select("items.name, categories.name AS category, COALESCE(SUM(stock_lots.qty), 0) AS quantity, COALESCE(SUM(stock_lots.qty * stock_lots.cogs), 0) AS total_cost").
		Joins("LEFT JOIN categories ON categories.id = items.category_id").
		Joins("LEFT JOIN stock_lots ON stock_lots.item_id = items.id AND stock_lots.deleted_at IS NULL").
		Where("items.deleted_at IS NULL").
		Group("items.id, items.name, categories.name").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	groupedMap := make(map[string]*CategoryGroup)
	grandTotal := decimal.Zero

	for _, row := range rows {
		catName := row.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{
				CategoryName: catName,
				Items:        []ValuationItem{},
				Subtotal:     decimal.Zero,
			}
		}

		groupedMap[catName].Items = append(groupedMap[catName].Items, row)
		groupedMap[catName].Subtotal = groupedMap[catName].Subtotal.Add(row.TotalCost)
		grandTotal = grandTotal.Add(row.TotalCost)
	}

	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}

	c.JSON(http.StatusOK, response)
}

// CouponUsageRow is one line of the most-used-coupon report.
type CouponUsageRow struct {
	CouponID  uint   `json:"coupon_id"`
	Code      string `json:"code"`
	UsedCount int64  `json:"used_count"`
}

// --- GET: /api/reports/coupons ---
func GetMostUsedCoupons(c *gin.Context) {
	var rows []CouponUsageRow
	err := database.DB.Table("coupon_usages").
		Select("coupons.id AS coupon_id, coupons.code, COUNT(coupon_usages.id) AS used_count").
		Joins("JOIN coupons ON coupons.id = coupon_usages.coupon_id").
		Group("coupons.id, coupons.code").
		Order("used_count desc").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupon usage"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
