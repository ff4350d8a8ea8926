package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey        = contextKey("userID")
	organizationsKey = contextKey("organizations")
)

// AllOrganizations in the orgs claim grants access to every organization.
const AllOrganizations = "*"

// GetUserIDFromContext retrieves the authenticated user ID.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetOrganizationsFromContext returns the organizations the caller may access.
func GetOrganizationsFromContext(c *gin.Context) []string {
	orgs, _ := c.Request.Context().Value(organizationsKey).([]string)
	return orgs
}

// CanAccessOrganization reports whether the caller's token covers organizationID.
func CanAccessOrganization(c *gin.Context, organizationID string) bool {
	orgs := GetOrganizationsFromContext(c)
	return slices.Contains(orgs, AllOrganizations) || slices.Contains(orgs, organizationID)
}
