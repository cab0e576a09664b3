package handlers

import (
	"errors"
	"net/http"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/sales"
	"github.com/pichoendo/pos-backoffice-api/internal/salary"

	"github.com/gin-gonic/gin"
)

var (
	salesService  *sales.Service
	salaryService *salary.Service
)

// Init wires the services the handlers delegate to. Called once from main.
func Init(s *sales.Service, sal *salary.Service) {
	salesService = s
	salaryService = sal
}

// actorID is the authenticated employee set by the auth middleware.
func actorID(c *gin.Context) uint {
	return c.MustGet("employeeID").(uint)
}

// fail maps domain error codes onto HTTP statuses. Anything without a code
// is a server error with a generic message.
func fail(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperr.ErrNotFound.Code:
			status = http.StatusNotFound
		case apperr.ErrInvalidInput.Code, apperr.ErrInsufficientStock.Code:
			status = http.StatusBadRequest
		case apperr.ErrInvalidState.Code:
			status = http.StatusConflict
		case apperr.ErrUnauthorized.Code:
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}
