package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/cache"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/loyalty"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/gin-gonic/gin"
)

const memberListKey = "MemberList"

// --- GET: /api/members ---
func GetMembers(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Member
	if cache.GetList(ctx, memberListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var members []models.Member
	if err := database.DB.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	cache.SetList(ctx, memberListKey, members)
	c.JSON(http.StatusOK, members)
}

// --- GET: /api/members/:id ---
// Includes the ledger-derived balance so drift from Member.Points is visible.
func GetMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member models.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	ledgerBalance, err := loyalty.Balance(database.DB, member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read point ledger"})
		return
	}

	var entries []models.PointEntry
	database.DB.Where("member_id = ?", member.ID).Order("id DESC").Limit(20).Find(&entries)

	c.JSON(http.StatusOK, gin.H{
		"member":         member,
		"ledger_balance": ledgerBalance,
		"recent_entries": entries,
	})
}

// --- POST: /api/members ---
func AddMember(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Member likely already exists"})
		return
	}

	cache.Invalidate(c.Request.Context(), memberListKey)
	c.JSON(http.StatusCreated, member)
}

// --- PUT: /api/members/:id ---
func UpdateMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member models.Member
	if err := database.DB.First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Points only move through the loyalty ledger.
	delete(updateData, "points")
	delete(updateData, "id")

	if err := database.DB.Model(&member).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	cache.Invalidate(c.Request.Context(), memberListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Member updated successfully", "member": member})
}

// --- DELETE: /api/members/:id ---
func DeleteMember(c *gin.Context) {
	if err := database.DB.Delete(&models.Member{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete member"})
		return
	}

	cache.Invalidate(c.Request.Context(), memberListKey)
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
