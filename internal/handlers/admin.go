package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/dto"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler serves the APP_ADMIN user management panel.
type AdminHandler struct {
	userRepo repository.UserRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userRepo repository.UserRepository) *AdminHandler {
	return &AdminHandler{
		userRepo: userRepo,
	}
}

// ListUsers lists users with optional role filtering.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.UserFilter{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		filter.Role = &role
	}

	users, total, err := h.userRepo.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// DeleteUser removes a user together with their cards, memberships, and
// payments.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if targetID == actorID {
		apierrors.BadRequest(c, "Cannot delete your own account")
		return
	}

	if _, err := h.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "Failed to find user")
		return
	}

	if err := h.userRepo.Delete(targetID); err != nil {
		apierrors.InternalError(c, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
