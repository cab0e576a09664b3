package handlers

import (
	"net/http"
	"strconv"

	"github.com/pichoendo/pos-backoffice-api/internal/commission"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// --- GET: /api/employees ---
func GetEmployees(c *gin.Context) {
	var employees []models.Employee
	if err := database.DB.Preload("Role").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// --- GET: /api/employees/:id ---
// Includes the commission balance derived from the ledger.
func GetEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	var employee models.Employee
	if err := database.DB.Preload("Role").First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	balance, err := commission.Balance(database.DB, employee.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read commission ledger"})
		return
	}

	var entries []models.CommissionEntry
	database.DB.Where("employee_id = ?", employee.ID).Order("id DESC").Limit(20).Find(&entries)

	c.JSON(http.StatusOK, gin.H{
		"employee":           employee,
		"commission_balance": balance,
		"recent_entries":     entries,
	})
}

type EmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

// --- POST: /api/employees ---
func AddEmployee(c *gin.Context) {
	var input EmployeeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	employee := models.Employee{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		RoleID:       input.RoleID,
	}

	if err := database.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee likely already exists"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// --- PUT: /api/employees/:id ---
func UpdateEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	var employee models.Employee
	if err := database.DB.First(&employee, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "id")

	if pw, ok := updateData["password"].(string); ok {
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		delete(updateData, "password")
		updateData["password_hash"] = string(hashed)
	}

	if err := database.DB.Model(&employee).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully", "employee": employee})
}

// --- DELETE: /api/employees/:id ---
func DeleteEmployee(c *gin.Context) {
	if err := database.DB.Delete(&models.Employee{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
