package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LedgerClaims are the JWT claims accepted by the API. Subject is the acting
// user; Organizations lists the organizations the token may touch.
type LedgerClaims struct {
	Organizations []string `json:"orgs"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates HMAC-signed
// JWT tokens. An empty issuer skips the issuer check.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()})}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &LedgerClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		}, parserOpts...)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if !token.Valid || claims.Subject == "" {
			logger.Warn("User ID (subject) missing from token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, organizationsKey, claims.Organizations)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(loggerKey), GetLoggerFromCtx(ctx))

		c.Next()
	}
}

// RequireOrganization rejects requests for organizations outside the caller's
// token with 404, so foreign organizations are indistinguishable from missing ones.
func RequireOrganization(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param(param)
		if orgID == "" || !CanAccessOrganization(c, orgID) {
			GetLoggerFromContext(c).Warn("Organization access denied", slog.String("organization_id", orgID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "organization not found", "reason": "NOT_FOUND"})
			return
		}
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(),
			GetLoggerFromCtx(c.Request.Context()).With(slog.String("organization_id", orgID))))
		c.Next()
	}
}
