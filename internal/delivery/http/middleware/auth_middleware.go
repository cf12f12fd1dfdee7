package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/auth"
	"go-scout-backend/pkg/security"
)

const authCookieName = "auth_token"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BearerToken reads the token from the Authorization header, falling back to
// the auth_token cookie.
func BearerToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ParseAuthorizationHeader(header)
	}
	if cookie, err := c.Cookie(authCookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", auth.ErrTokenMissing
}

// TokenError maps a token failure onto the auth_* envelope codes.
func TokenError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return apperror.AuthMissing("Authorization header or auth_token cookie required")
	case errors.Is(err, auth.ErrTokenExpired):
		return apperror.AuthExpired("Token has expired")
	default:
		return apperror.Unauthorized("Invalid token")
	}
}

// AuthMiddleware verifies the token and loads the user from the store so
// role changes and deactivation take effect immediately.
func AuthMiddleware(tokens TokenVerifier, authUC domain.AuthUsecase, secLog *security.SecurityLogger) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		reqID := c.GetString(string(domain.KeyRequestID))

		token, err := BearerToken(c)
		var claims *auth.Claims
		if err == nil {
			claims, err = tokens.Verify(token)
		}
		if err != nil {
			appErr := TokenError(err)
			secLog.LogUnauthorized(ctx, c.ClientIP(), reqID, appErr.Code)
			abort(c, appErr)
			return
		}

		user, err := authUC.GetCurrentUser(ctx, claims.UserID)
		if err != nil {
			if apperror.CodeOf(err) == apperror.CodeNotFound {
				secLog.LogUnauthorized(ctx, c.ClientIP(), reqID, "unknown_user")
				abort(c, apperror.Unauthorized("User not found"))
				return
			}
			abort(c, err)
			return
		}
		if !user.IsActive {
			secLog.LogForbidden(ctx, user.ID, c.ClientIP(), reqID, c.FullPath())
			abort(c, apperror.Forbidden("Account is disabled"))
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), string(user.Role))
		ctx = context.WithValue(ctx, domain.KeyUserID, user.ID)
		ctx = context.WithValue(ctx, domain.KeyUserRole, string(user.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole lets only the listed roles through.
func RequireRole(secLog *security.SecurityLogger, roles ...domain.Role) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(domain.KeyUserRole)))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		secLog.LogForbidden(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.ClientIP(),
			c.GetString(string(domain.KeyRequestID)), c.FullPath())
		abort(c, apperror.Forbidden("You do not have permission to access this resource"))
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
