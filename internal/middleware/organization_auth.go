package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/models"
)

const (
	contextKeyOrganization       = "organization"
	contextKeyOrganizationMember = "organization_member"
)

// RequireOrganizationMember checks that the user is an approved member or the
// owner of the organization in the :id parameter. Non-members get 404 to
// avoid leaking organization existence.
func RequireOrganizationMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, member, ok := resolveOrganizationAccess(c)
		if !ok {
			return
		}

		isOwner := memberUserID(c) == org.OwnerID
		isApproved := member != nil && member.Status == models.MemberStatusApproved
		if !isOwner && !isApproved {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			c.Abort()
			return
		}

		storeOrganization(c, org, member)
		c.Next()
	}
}

// RequireOrganizationAdmin checks that the user is an admin member or the
// owner of the organization in the :id parameter.
func RequireOrganizationAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, member, ok := resolveOrganizationAccess(c)
		if !ok {
			return
		}

		isOwner := memberUserID(c) == org.OwnerID
		isAdmin := member != nil && member.Status == models.MemberStatusApproved && member.IsAdmin
		if !isOwner && !isAdmin {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			c.Abort()
			return
		}

		storeOrganization(c, org, member)
		c.Next()
	}
}

// RequireOrganizationOwner checks that the user owns the organization.
func RequireOrganizationOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, member, ok := resolveOrganizationAccess(c)
		if !ok {
			return
		}

		if memberUserID(c) != org.OwnerID {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the organization owner can perform this action",
			})
			c.Abort()
			return
		}

		storeOrganization(c, org, member)
		c.Next()
	}
}

func resolveOrganizationAccess(c *gin.Context) (*models.Organization, *models.OrganizationMember, bool) {
	orgIDStr := c.Param("id")
	orgID, err := strconv.ParseUint(orgIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid organization ID",
		})
		c.Abort()
		return nil, nil, false
	}

	userID, exists := GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		c.Abort()
		return nil, nil, false
	}

	var org models.Organization
	if err := database.GetDB().First(&org, orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Organization not found",
		})
		c.Abort()
		return nil, nil, false
	}

	var member models.OrganizationMember
	err = database.GetDB().Where("organization_id = ? AND user_id = ?", orgID, userID).First(&member).Error
	if err != nil {
		return &org, nil, true
	}
	return &org, &member, true
}

func memberUserID(c *gin.Context) uint64 {
	userID, _ := GetUserID(c)
	return userID
}

func storeOrganization(c *gin.Context, org *models.Organization, member *models.OrganizationMember) {
	c.Set(contextKeyOrganization, *org)
	if member != nil {
		c.Set(contextKeyOrganizationMember, *member)
	}
}

// GetOrganization retrieves the organization loaded by the access middleware.
func GetOrganization(c *gin.Context) (models.Organization, bool) {
	orgInterface, exists := c.Get(contextKeyOrganization)
	if !exists {
		return models.Organization{}, false
	}
	org, ok := orgInterface.(models.Organization)
	return org, ok
}
