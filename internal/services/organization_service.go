package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/mailer"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	ErrRequiresPaidRole        = errors.New("only paid users can create organizations")
	ErrOrganizationPrivate     = errors.New("this organization is private")
	ErrAlreadyMember           = errors.New("already a member of this organization")
	ErrMembershipPending       = errors.New("membership approval is still pending")
	ErrOwnerCannotJoin         = errors.New("the owner is already a member")
	ErrDuplicateInvitation     = errors.New("a pending invitation already exists for this email")
	ErrNoPendingInvitation     = errors.New("no pending invitation found for this email")
	ErrIllegalStatusChange     = errors.New("illegal membership status change")
	ErrMemberNotFound          = errors.New("organization member not found")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrCannotRemoveYourself    = errors.New("cannot remove yourself from the organization")
	ErrCannotRemoveOwner       = errors.New("cannot remove the organization owner")
)

// OrganizationService provides business logic for organizations, membership,
// and invitations.
type OrganizationService struct {
	orgRepo    repository.OrganizationRepository
	userRepo   repository.UserRepository
	dispatcher *mailer.Dispatcher
	baseURL    string
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository, dispatcher *mailer.Dispatcher, baseURL string) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		baseURL:    baseURL,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name            string
	Description     string
	LogoURL         string
	Category        string
	IsPublic        bool
	RequireApproval bool
}

// CreateOrganization creates a new organization owned by the given user. The
// owner's approved admin membership row is materialized in the same
// transaction, so ownership and membership can never disagree.
func (s *OrganizationService) CreateOrganization(owner *models.User, input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}
	if !owner.Role.CanOwnOrganizations() {
		return nil, ErrRequiresPaidRole
	}

	org := &models.Organization{
		Name:            input.Name,
		Description:     input.Description,
		LogoURL:         input.LogoURL,
		Category:        input.Category,
		OwnerID:         owner.ID,
		IsPublic:        input.IsPublic,
		RequireApproval: input.RequireApproval,
	}

	now := time.Now()
	member := &models.OrganizationMember{
		Status:     models.MemberStatusApproved,
		IsAdmin:    true,
		JoinedAt:   &now,
		ApprovedBy: &owner.ID,
		ApprovedAt: &now,
	}

	if err := s.orgRepo.CreateWithOwner(org, member); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// GetOrganization returns an organization by ID.
func (s *OrganizationService) GetOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// GetOrganizationWithMembers returns an organization and all of its members.
func (s *OrganizationService) GetOrganizationWithMembers(orgID uint64) (*models.Organization, []models.OrganizationMember, error) {
	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.orgRepo.ListMembers(orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	return org, members, nil
}

// ListOrganizationsForUser returns organizations the user belongs to.
func (s *OrganizationService) ListOrganizationsForUser(userID uint64) ([]models.OrganizationMember, error) {
	memberships, err := s.orgRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// ListPublicOrganizations returns the public organization directory.
func (s *OrganizationService) ListPublicOrganizations(page, pageSize int) ([]models.Organization, int64, error) {
	orgs, total, err := s.orgRepo.ListPublic(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public organizations: %w", err)
	}
	return orgs, total, nil
}

// UpdateOrganizationInput holds updatable organization fields.
type UpdateOrganizationInput struct {
	Name            *string
	Description     *string
	LogoURL         *string
	Category        *string
	IsPublic        *bool
	RequireApproval *bool
}

// UpdateOrganization updates an organization's settings.
func (s *OrganizationService) UpdateOrganization(orgID uint64, input UpdateOrganizationInput) (*models.Organization, error) {
	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = *input.Name
	}
	if input.Description != nil {
		org.Description = *input.Description
	}
	if input.LogoURL != nil {
		org.LogoURL = *input.LogoURL
	}
	if input.Category != nil {
		org.Category = *input.Category
	}
	if input.IsPublic != nil {
		org.IsPublic = *input.IsPublic
	}
	if input.RequireApproval != nil {
		org.RequireApproval = *input.RequireApproval
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// DeleteOrganization removes an organization together with its members and
// invitations.
func (s *OrganizationService) DeleteOrganization(orgID uint64) error {
	if _, err := s.GetOrganization(orgID); err != nil {
		return err
	}

	if err := s.orgRepo.Delete(orgID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return nil
}

// MembershipInfo is the resolver result for a (organization, user) pair.
type MembershipInfo struct {
	IsMember bool                 `json:"is_member"`
	IsAdmin  bool                 `json:"is_admin"`
	IsOwner  bool                 `json:"is_owner"`
	Status   *models.MemberStatus `json:"status"`
}

// CheckMembership resolves the relationship between a user and an
// organization. Query failures degrade to the zero result (not a member)
// rather than an error; both tables are re-queried on every call.
func (s *OrganizationService) CheckMembership(orgID, userID uint64) MembershipInfo {
	var info MembershipInfo

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("membership check: failed to load organization %d: %v", orgID, err)
		}
		return info
	}

	info.IsOwner = org.OwnerID == userID

	member, err := s.orgRepo.FindMember(orgID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("membership check: failed to load member (%d, %d): %v", orgID, userID, err)
			return MembershipInfo{}
		}
	} else {
		info.Status = &member.Status
		info.IsAdmin = member.IsAdmin
	}

	info.IsMember = info.IsOwner || (info.Status != nil && *info.Status == models.MemberStatusApproved)
	info.IsAdmin = info.IsAdmin || info.IsOwner

	return info
}

// JoinOrganization lets a user join a public organization. The target status
// is PENDING when the organization requires approval, APPROVED otherwise. A
// previous REJECTED row is replaced so the user can re-apply.
func (s *OrganizationService) JoinOrganization(orgID, userID uint64) (*models.OrganizationMember, error) {
	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	if org.OwnerID == userID {
		return nil, ErrOwnerCannotJoin
	}

	if existing, err := s.orgRepo.FindMember(orgID, userID); err == nil {
		switch existing.Status {
		case models.MemberStatusApproved:
			return nil, ErrAlreadyMember
		case models.MemberStatusPending:
			return nil, ErrMembershipPending
		}
		// REJECTED falls through: ReplaceMember drops the row below.
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if !org.IsPublic {
		return nil, ErrOrganizationPrivate
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Status:         models.MemberStatusPending,
	}
	if !org.RequireApproval {
		now := time.Now()
		member.Status = models.MemberStatusApproved
		member.JoinedAt = &now
	}

	if err := s.orgRepo.ReplaceMember(member); err != nil {
		// A racing insert hits the composite primary key.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to join organization: %w", err)
	}

	return member, nil
}

// InviteByEmail invites an email address into an organization. An existing
// account is added directly as an approved member with no invitation row; an
// unknown address gets a pending invitation with a 7-day expiry and a
// best-effort notification email.
func (s *OrganizationService) InviteByEmail(ctx context.Context, orgID, inviterID uint64, email string) (*models.OrganizationInvitation, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return nil, s.addExistingUserAsMember(org, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	invitation := &models.OrganizationInvitation{
		OrganizationID: orgID,
		Email:          email,
		InvitedBy:      inviterID,
		Status:         models.InvitationStatusPending,
		Token:          utils.NewInvitationToken(),
		ExpiresAt:      time.Now().AddDate(0, 0, constants.InvitationTTLDays),
	}

	if err := s.orgRepo.CreateInvitation(invitation); err != nil {
		if errors.Is(err, repository.ErrPendingInvitationExists) {
			return nil, ErrDuplicateInvitation
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.sendInvitationEmail(ctx, org, invitation)

	return invitation, nil
}

// addExistingUserAsMember inserts a directly approved membership for a known
// account, replacing any stale PENDING or REJECTED row.
func (s *OrganizationService) addExistingUserAsMember(org *models.Organization, user *models.User) error {
	if existing, err := s.orgRepo.FindMember(org.ID, user.ID); err == nil {
		if existing.Status == models.MemberStatusApproved {
			return ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	now := time.Now()
	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Status:         models.MemberStatusApproved,
		JoinedAt:       &now,
	}

	if err := s.orgRepo.ReplaceMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// sendInvitationEmail fires the best-effort notification. Delivery failure is
// recorded in the email audit log and never fails the invitation.
func (s *OrganizationService) sendInvitationEmail(ctx context.Context, org *models.Organization, invitation *models.OrganizationInvitation) {
	if s.dispatcher == nil {
		return
	}

	subject := fmt.Sprintf("You're invited to join %s on Official ID", org.Name)
	html := fmt.Sprintf(
		`<p>You have been invited to join <strong>%s</strong>.</p>
<p><a href="%s/invitations/%s">Accept invitation</a></p>
<p>This invitation expires on %s.</p>`,
		org.Name, s.baseURL, invitation.Token, invitation.ExpiresAt.Format("2 Jan 2006"),
	)

	if err := s.dispatcher.Deliver(ctx, models.EmailKindInvitation, &invitation.ID, invitation.Email, subject, html); err != nil {
		log.Printf("invitation email to %s failed: %v", invitation.Email, err)
	}
}

// AcceptInvitation redeems a pending invitation matching the caller's
// authenticated email, creating the approved membership and marking the
// invitation accepted in one transaction.
func (s *OrganizationService) AcceptInvitation(orgID uint64, user *models.User) (*models.OrganizationMember, error) {
	invitation, err := s.orgRepo.FindPendingInvitation(orgID, user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingInvitation
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	now := time.Now()
	if !invitation.Live(now) {
		invitation.Status = models.InvitationStatusExpired
		if err := s.orgRepo.UpdateInvitation(invitation); err != nil {
			log.Printf("failed to expire invitation %d: %v", invitation.ID, err)
		}
		return nil, ErrNoPendingInvitation
	}

	if !invitation.Status.CanTransitionTo(models.InvitationStatusAccepted) {
		return nil, ErrNoPendingInvitation
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         user.ID,
		Status:         models.MemberStatusApproved,
		JoinedAt:       &now,
	}

	invitation.Status = models.InvitationStatusAccepted
	invitation.AcceptedAt = &now

	if err := s.orgRepo.AcceptInvitation(invitation, member); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return member, nil
}

// UpdateMemberStatus approves or rejects a pending member. The transition is
// validated against the central membership transition table.
func (s *OrganizationService) UpdateMemberStatus(orgID, actorID, targetUserID uint64, next models.MemberStatus) (*models.OrganizationMember, error) {
	if !next.Valid() {
		return nil, ErrIllegalStatusChange
	}

	member, err := s.orgRepo.FindMember(orgID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find organization member: %w", err)
	}

	if !member.Status.CanTransitionTo(next) {
		return nil, ErrIllegalStatusChange
	}

	now := time.Now()
	member.Status = next
	if next == models.MemberStatusApproved {
		member.JoinedAt = &now
		member.ApprovedBy = &actorID
		member.ApprovedAt = &now
	}

	if err := s.orgRepo.UpdateMember(member); err != nil {
		return nil, fmt.Errorf("failed to update member status: %w", err)
	}

	return member, nil
}

// RemoveMember removes a member from the organization.
func (s *OrganizationService) RemoveMember(orgID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	org, err := s.GetOrganization(orgID)
	if err != nil {
		return err
	}
	if org.OwnerID == targetID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.orgRepo.FindMember(orgID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find organization member: %w", err)
	}

	if err := s.orgRepo.RemoveMember(orgID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// ListInvitations lists an organization's invitations.
func (s *OrganizationService) ListInvitations(orgID uint64) ([]models.OrganizationInvitation, error) {
	invitations, err := s.orgRepo.ListInvitations(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// CancelInvitation cancels a pending invitation.
func (s *OrganizationService) CancelInvitation(orgID, invitationID uint64) error {
	invitations, err := s.ListInvitations(orgID)
	if err != nil {
		return err
	}

	for i := range invitations {
		if invitations[i].ID != invitationID {
			continue
		}
		if !invitations[i].Status.CanTransitionTo(models.InvitationStatusCancelled) {
			return ErrIllegalStatusChange
		}
		invitations[i].Status = models.InvitationStatusCancelled
		if err := s.orgRepo.UpdateInvitation(&invitations[i]); err != nil {
			return fmt.Errorf("failed to cancel invitation: %w", err)
		}
		return nil
	}

	return ErrInvitationNotFound
}
