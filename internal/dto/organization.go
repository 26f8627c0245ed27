package dto

import (
	"time"

	"github.com/officialid/officialid-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LogoURL         string    `json:"logo_url"`
	Category        string    `json:"category"`
	OwnerID         uint64    `json:"owner_id"`
	IsPublic        bool      `json:"is_public"`
	RequireApproval bool      `json:"require_approval"`
	CreatedAt       time.Time `json:"created_at"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User       UserDTO             `json:"user"`
	Status     models.MemberStatus `json:"status"`
	IsAdmin    bool                `json:"is_admin"`
	JoinedAt   *time.Time          `json:"joined_at"`
	ApprovedAt *time.Time          `json:"approved_at"`
}

// OrganizationWithStatusDTO represents an organization with the caller's
// membership status
type OrganizationWithStatusDTO struct {
	OrganizationDTO
	Status  models.MemberStatus `json:"status"`
	IsAdmin bool                `json:"is_admin"`
}

// InvitationDTO represents an invitation in API responses
type InvitationDTO struct {
	ID        uint64                  `json:"id"`
	Email     string                  `json:"email"`
	Status    models.InvitationStatus `json:"status"`
	ExpiresAt time.Time               `json:"expires_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// ToOrganizationDTO converts an organization model to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:              org.ID,
		Name:            org.Name,
		Description:     org.Description,
		LogoURL:         org.LogoURL,
		Category:        org.Category,
		OwnerID:         org.OwnerID,
		IsPublic:        org.IsPublic,
		RequireApproval: org.RequireApproval,
		CreatedAt:       org.CreatedAt,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:       ToUserDTO(member.User),
		Status:     member.Status,
		IsAdmin:    member.IsAdmin,
		JoinedAt:   member.JoinedAt,
		ApprovedAt: member.ApprovedAt,
	}
}

// ToOrganizationWithStatusDTO converts a membership to an organization DTO
// annotated with the caller's status
func ToOrganizationWithStatusDTO(member models.OrganizationMember) OrganizationWithStatusDTO {
	return OrganizationWithStatusDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		Status:          member.Status,
		IsAdmin:         member.IsAdmin,
	}
}

// ToInvitationDTO converts an invitation to DTO
func ToInvitationDTO(invitation models.OrganizationInvitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Status:    invitation.Status,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}
}
