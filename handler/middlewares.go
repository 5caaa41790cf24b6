package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ferhatk/fizikcozum/auth"
	"github.com/ferhatk/fizikcozum/model"
)

const claimsContextKey = "identity"

// ValidToken rejects requests without a valid bearer token and attaches the
// token's identity claims to the request context. It trusts the embedded
// claims and never touches the user store.
func ValidToken(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, jsonHTTPResponse{false, "Authorization token required"})
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ParseToken(tokenString, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonHTTPResponse{false, "Invalid or expired token"})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// AdminOnly requires the authenticated identity to carry the admin role.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := CurrentUser(c)
		if claims == nil || claims.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, jsonHTTPResponse{false, "Admin privileges required"})
		}
		return next(c)
	}
}

// CurrentUser returns the claims attached by ValidToken, or nil.
func CurrentUser(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsContextKey).(*auth.Claims)
	return claims
}

// ContentTypeJson checks that the requests have the Content-Type header set
// to "application/json". This helps against CSRF attacks.
func ContentTypeJson(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		contentType := c.Request().Header.Get(echo.HeaderContentType)
		if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
			return c.JSON(http.StatusBadRequest, jsonHTTPResponse{false, "Only JSON allowed"})
		}

		return next(c)
	}
}
