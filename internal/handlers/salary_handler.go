package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SalaryRequest struct {
	Period string `json:"period" binding:"required"` // YYYY-MM
}

// --- POST: /api/salaries/generate ---
// Runs the monthly payout batch; each period can only run once.
func GenerateSalaries(c *gin.Context) {
	var input SalaryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	records, err := salaryService.Generate(c.Request.Context(), input.Period, actorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"period": input.Period, "records": records})
}

// --- GET: /api/salaries ---
func ListSalaries(c *gin.Context) {
	records, err := salaryService.List(c.Request.Context(), c.Query("period"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
