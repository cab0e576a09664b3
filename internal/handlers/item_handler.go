package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/cache"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const itemListKey = "ItemList"

// ItemView is an item plus its available stock summed over lots.
type ItemView struct {
	models.Item
	Stock int `json:"stock"`
}

func itemViews(db *gorm.DB) ([]ItemView, error) {
	var items []models.Item
	if err := db.Preload("Category").Find(&items).Error; err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		available, err := stock.Available(db, item.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ItemView{Item: item, Stock: available})
	}
	return views, nil
}

// --- GET: /api/items ---
func GetItems(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []ItemView
	if cache.GetList(ctx, itemListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	views, err := itemViews(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	cache.SetList(ctx, itemListKey, views)
	c.JSON(http.StatusOK, views)
}

// --- GET: /api/items/scan/:barcode ---
func ScanItem(c *gin.Context) {
	var item models.Item
	err := database.DB.Preload("Category").
		Where("barcode = ?", c.Param("barcode")).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	available, err := stock.Available(database.DB, item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stock"})
		return
	}
	c.JSON(http.StatusOK, ItemView{Item: item, Stock: available})
}

type ItemRequest struct {
	Name       string          `json:"name" binding:"required"`
	Barcode    string          `json:"barcode"`
	CategoryID uint            `json:"category_id" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	// Optional opening stock, registered as the item's first lot.
	InitialQty  int             `json:"initial_qty"`
	InitialCogs decimal.Decimal `json:"initial_cogs"`
}

// --- POST: /api/items ---
func AddItem(c *gin.Context) {
	var input ItemRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item := models.Item{
		Name:       input.Name,
		Barcode:    input.Barcode,
		CategoryID: input.CategoryID,
		Price:      input.Price,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if input.InitialQty > 0 {
			if _, err := stock.CreateLot(tx, item.ID, input.InitialCogs, input.InitialQty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	cache.Invalidate(c.Request.Context(), itemListKey)
	c.JSON(http.StatusCreated, item)
}

// --- PUT: /api/items/:id ---
// Partial update via map so only the sent fields change.
func UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.Item
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Stock only moves through the stock ledger endpoints.
	delete(updateData, "stock")
	delete(updateData, "id")

	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	cache.Invalidate(c.Request.Context(), itemListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// --- DELETE: /api/items/:id ---
func DeleteItem(c *gin.Context) {
	id := c.Param("id")

	if err := database.DB.Delete(&models.Item{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete item. It might be linked to past sales."})
		return
	}

	cache.Invalidate(c.Request.Context(), itemListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

type RestockRequest struct {
	Qty  int             `json:"qty" binding:"required,gt=0"`
	Cogs decimal.Decimal `json:"cogs" binding:"required"`
}

// --- POST: /api/items/:id/stock ---
// Registers a purchased batch as a new cost lot.
func RestockItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input RestockRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var item models.Item
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var lot *models.StockLot
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		lot, err = stock.CreateLot(tx, item.ID, input.Cogs, input.Qty)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	cache.Invalidate(c.Request.Context(), itemListKey)
	c.JSON(http.StatusCreated, lot)
}
