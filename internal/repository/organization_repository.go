package repository

import (
	"errors"
	"time"

	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/models"
	"gorm.io/gorm"
)

// ErrPendingInvitationExists is returned by CreateInvitation when a live
// PENDING invitation already exists for the (organization, email) pair.
var ErrPendingInvitationExists = errors.New("organization repository: pending invitation already exists")

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateWithOwner creates an organization and the owner's membership atomically.
func (r *GormOrganizationRepository) CreateWithOwner(org *models.Organization, member *models.OrganizationMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		member.OrganizationID = org.ID
		member.UserID = org.OwnerID

		return tx.Create(member).Error
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete deletes an organization and all related data in a transaction
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete all invitations
		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationInvitation{}).Error; err != nil {
			return err
		}

		// Delete all members
		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}

		// Delete events and their attendances
		var eventIDs []uint64
		if err := tx.Model(&models.Event{}).Where("organization_id = ?", id).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.EventAttendance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("organization_id = ?", id).Delete(&models.Event{}).Error; err != nil {
				return err
			}
		}

		// Delete organization
		return tx.Delete(&models.Organization{}, id).Error
	})
}

// ListPublic lists public organizations with pagination
func (r *GormOrganizationRepository) ListPublic(page, pageSize int) ([]models.Organization, int64, error) {
	var orgs []models.Organization

	query := r.db.Model(&models.Organization{}).Where("is_public = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&orgs).Error; err != nil {
		return nil, 0, err
	}

	return orgs, total, nil
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(member *models.OrganizationMember) error {
	return r.db.Create(member).Error
}

// ReplaceMember deletes any non-approved membership row for the pair and
// inserts the given row atomically.
func (r *GormOrganizationRepository) ReplaceMember(member *models.OrganizationMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("organization_id = ? AND user_id = ? AND status <> ?",
				member.OrganizationID, member.UserID, models.MemberStatusApproved).
			Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}

		return tx.Create(member).Error
	})
}

// UpdateMember updates a membership row
func (r *GormOrganizationRepository) UpdateMember(member *models.OrganizationMember) error {
	return r.db.Save(member).Error
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(organizationID, userID uint64) error {
	return r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.OrganizationMember{}).Error
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(organizationID, userID uint64) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(organizationID uint64) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CreateInvitation inserts an invitation, enforcing the one-PENDING-per-pair
// rule inside a transaction.
func (r *GormOrganizationRepository) CreateInvitation(invitation *models.OrganizationInvitation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.OrganizationInvitation
		err := tx.
			Where("organization_id = ? AND email = ? AND status = ?",
				invitation.OrganizationID, invitation.Email, models.InvitationStatusPending).
			First(&existing).Error
		if err == nil {
			if existing.Live(time.Now()) {
				return ErrPendingInvitationExists
			}
			// Expired but never transitioned; mark it before replacing.
			existing.Status = models.InvitationStatusExpired
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Drop stale non-pending invitations for the pair
		if err := tx.
			Where("organization_id = ? AND email = ? AND status <> ?",
				invitation.OrganizationID, invitation.Email, models.InvitationStatusPending).
			Delete(&models.OrganizationInvitation{}).Error; err != nil {
			return err
		}

		return tx.Create(invitation).Error
	})
}

// FindPendingInvitation finds a PENDING invitation for the pair
func (r *GormOrganizationRepository) FindPendingInvitation(organizationID uint64, email string) (*models.OrganizationInvitation, error) {
	var invitation models.OrganizationInvitation
	if err := r.db.
		Where("organization_id = ? AND email = ? AND status = ?",
			organizationID, email, models.InvitationStatusPending).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListInvitations lists all invitations of an organization
func (r *GormOrganizationRepository) ListInvitations(organizationID uint64) ([]models.OrganizationInvitation, error) {
	var invitations []models.OrganizationInvitation
	if err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// UpdateInvitation updates an invitation row
func (r *GormOrganizationRepository) UpdateInvitation(invitation *models.OrganizationInvitation) error {
	return r.db.Save(invitation).Error
}

// AcceptInvitation inserts the membership and marks the invitation accepted
// atomically. An existing membership row for the pair is left as is.
func (r *GormOrganizationRepository) AcceptInvitation(invitation *models.OrganizationInvitation, member *models.OrganizationMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.OrganizationMember
		err := tx.Where("organization_id = ? AND user_id = ?", member.OrganizationID, member.UserID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		return tx.Save(invitation).Error
	})
}
