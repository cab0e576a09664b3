package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/cache"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/gin-gonic/gin"
)

const couponListKey = "CouponList"

// --- GET: /api/coupons ---
func GetCoupons(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Coupon
	if cache.GetList(ctx, couponListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var coupons []models.Coupon
	if err := database.DB.Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}

	cache.SetList(ctx, couponListKey, coupons)
	c.JSON(http.StatusOK, coupons)
}

// --- POST: /api/coupons ---
func AddCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if coupon.Value.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon value cannot be negative"})
		return
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code likely already exists"})
		return
	}

	cache.Invalidate(c.Request.Context(), couponListKey)
	c.JSON(http.StatusCreated, coupon)
}

// --- PUT: /api/coupons/:id ---
func UpdateCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	var coupon models.Coupon
	if err := database.DB.First(&coupon, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "id")

	if err := database.DB.Model(&coupon).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
		return
	}

	cache.Invalidate(c.Request.Context(), couponListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon updated successfully", "coupon": coupon})
}

// --- DELETE: /api/coupons/:id ---
func DeleteCoupon(c *gin.Context) {
	if err := database.DB.Delete(&models.Coupon{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete coupon"})
		return
	}

	cache.Invalidate(c.Request.Context(), couponListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}
