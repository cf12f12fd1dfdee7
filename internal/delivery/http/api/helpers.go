package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/validation"
)

// bindJSON binds the body into req and records a validation error on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		return false
	}
	return true
}

// caller returns the authenticated user's id and role set by AuthMiddleware.
func caller(c *gin.Context) (string, domain.Role) {
	return c.GetString(string(domain.KeyUserID)), domain.Role(c.GetString(string(domain.KeyUserRole)))
}

func pageFrom(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageLimit)))
	return domain.NewPage(page, limit)
}
