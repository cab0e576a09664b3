package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/cache"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/gin-gonic/gin"
)

const categoryListKey = "CategoryList"

// --- GET: /api/categories ---
func GetCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Category
	if cache.GetList(ctx, categoryListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var categories []models.Category
	if err := database.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	cache.SetList(ctx, categoryListKey, categories)
	c.JSON(http.StatusOK, categories)
}

// --- POST: /api/categories ---
func AddCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category likely already exists"})
		return
	}

	cache.Invalidate(c.Request.Context(), categoryListKey)
	c.JSON(http.StatusCreated, category)
}

// --- PUT: /api/categories/:id ---
func UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "id")

	if err := database.DB.Model(&category).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	cache.Invalidate(c.Request.Context(), categoryListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
}

// --- DELETE: /api/categories/:id ---
func DeleteCategory(c *gin.Context) {
	if err := database.DB.Delete(&models.Category{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete category"})
		return
	}

	cache.Invalidate(c.Request.Context(), categoryListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
