package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/sales"

	"github.com/gin-gonic/gin"
)

// --- POST: /api/sales ---
func CreateSale(c *gin.Context) {
	var input sales.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := salesService.Create(c.Request.Context(), input, actorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// --- PUT: /api/sales/:uuid ---
// Only hold orders accept updates; anything else is a conflict.
func UpdateSale(c *gin.Context) {
	var input sales.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := salesService.Update(c.Request.Context(), c.Param("uuid"), input, actorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- GET: /api/sales/:uuid ---
func GetSale(c *gin.Context) {
	order, err := salesService.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- GET: /api/sales ---
func ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	status := models.SalesStatus(c.Query("status"))

	orders, total, err := salesService.List(c.Request.Context(), c.Query("search"), status, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     orders,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// --- DELETE: /api/sales/:uuid ---
// Soft delete for administrative cleanup; stock and ledgers are untouched.
func DeleteSale(c *gin.Context) {
	if err := salesService.Destroy(c.Request.Context(), c.Param("uuid")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sales order deleted successfully"})
}
