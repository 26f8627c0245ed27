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
	"github.com/officialid/officialid-api/internal/services"
	"github.com/officialid/officialid-api/internal/utils"
)

// OrganizationHandler coordinates organization and membership HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization creates a new organization owned by the caller.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOrgRequest struct {
		Name            string `json:"name" binding:"required"`
		Description     string `json:"description"`
		LogoURL         string `json:"logo_url"`
		Category        string `json:"category"`
		IsPublic        bool   `json:"is_public"`
		RequireApproval bool   `json:"require_approval"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(&user, services.CreateOrganizationInput{
		Name:            req.Name,
		Description:     req.Description,
		LogoURL:         req.LogoURL,
		Category:        req.Category,
		IsPublic:        req.IsPublic,
		RequireApproval: req.RequireApproval,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns organizations the caller belongs to.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch organizations")
		return
	}

	orgs := make([]dto.OrganizationWithStatusDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = dto.ToOrganizationWithStatusDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgs,
	})
}

// ListPublicOrganizations returns the public directory.
func (h *OrganizationHandler) ListPublicOrganizations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orgs, total, err := h.orgService.ListPublicOrganizations(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch organizations")
		return
	}

	orgDTOs := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		orgDTOs[i] = dto.ToOrganizationDTO(org)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetOrganization returns organization details with members.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	_, members, err := h.orgService.GetOrganizationWithMembers(org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	memberDTOs := make([]dto.OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToOrganizationMemberDTO(member)
	}

	userID, _ := middleware.GetUserID(c)

	c.JSON(http.StatusOK, gin.H{
		"organization": dto.ToOrganizationDTO(org),
		"members":      memberDTOs,
		"membership":   h.orgService.CheckMembership(org.ID, userID),
	})
}

// UpdateOrganization updates organization settings.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	type UpdateOrgRequest struct {
		Name            *string `json:"name"`
		Description     *string `json:"description"`
		LogoURL         *string `json:"logo_url"`
		Category        *string `json:"category"`
		IsPublic        *bool   `json:"is_public"`
		RequireApproval *bool   `json:"require_approval"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.UpdateOrganization(org.ID, services.UpdateOrganizationInput{
		Name:            req.Name,
		Description:     req.Description,
		LogoURL:         req.LogoURL,
		Category:        req.Category,
		IsPublic:        req.IsPublic,
		RequireApproval: req.RequireApproval,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*updated))
}

// DeleteOrganization deletes an organization with its members and invitations.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	if err := h.orgService.DeleteOrganization(org.ID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Organization deleted successfully",
	})
}

// CheckMembership returns the caller's relationship with an organization.
func (h *OrganizationHandler) CheckMembership(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, h.orgService.CheckMembership(orgID, userID))
}

// JoinOrganization lets the caller join a public organization.
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, err := h.orgService.JoinOrganization(orgID, userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	message := "Successfully joined organization"
	if member.Status == models.MemberStatusPending {
		message = "Join request submitted, waiting for approval"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"status":  member.Status,
	})
}

// ListMembers returns the organization's members.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	_, members, err := h.orgService.GetOrganizationWithMembers(org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	memberDTOs := make([]dto.OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToOrganizationMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// UpdateMemberStatus approves or rejects a pending member.
func (h *OrganizationHandler) UpdateMemberStatus(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateStatusRequest struct {
		Status models.MemberStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	actorID, _ := middleware.GetUserID(c)

	member, err := h.orgService.UpdateMemberStatus(org.ID, actorID, targetID, req.Status)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member": dto.ToOrganizationMemberDTO(*member),
	})
}

// RemoveMember removes a member from the organization.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	actorID, _ := middleware.GetUserID(c)

	if err := h.orgService.RemoveMember(org.ID, actorID, targetID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// InviteByEmail invites an email address into the organization.
func (h *OrganizationHandler) InviteByEmail(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	type InviteRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	inviterID, _ := middleware.GetUserID(c)

	invitation, err := h.orgService.InviteByEmail(c.Request.Context(), org.ID, inviterID, req.Email)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	if invitation == nil {
		// Existing account: added directly as an approved member.
		c.JSON(http.StatusOK, gin.H{
			"message": "User added to the organization",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Invitation sent",
		"invitation": dto.ToInvitationDTO(*invitation),
	})
}

// ListInvitations returns the organization's invitations.
func (h *OrganizationHandler) ListInvitations(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	invitations, err := h.orgService.ListInvitations(org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	invitationDTOs := make([]dto.InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		invitationDTOs[i] = dto.ToInvitationDTO(invitation)
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitationDTOs,
	})
}

// CancelInvitation cancels a pending invitation.
func (h *OrganizationHandler) CancelInvitation(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	invitationID, err := strconv.ParseUint(c.Param("invitation_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invitation ID")
		return
	}

	if err := h.orgService.CancelInvitation(org.ID, invitationID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation cancelled",
	})
}

// AcceptInvitation redeems a pending invitation for the caller's email.
func (h *OrganizationHandler) AcceptInvitation(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	user, okUser := middleware.GetCurrentUser(c)
	if !okUser {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, err := h.orgService.AcceptInvitation(orgID, &user)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation accepted",
		"status":  member.Status,
	})
}

func parseOrgID(c *gin.Context) (uint64, bool) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return 0, false
	}
	return orgID, true
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrNoPendingInvitation):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrCannotRemoveYourself),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrIllegalStatusChange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRequiresPaidRole),
		errors.Is(err, services.ErrOrganizationPrivate):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrMembershipPending),
		errors.Is(err, services.ErrOwnerCannotJoin),
		errors.Is(err, services.ErrDuplicateInvitation):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
