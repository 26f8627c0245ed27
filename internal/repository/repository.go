package repository

import (
	"github.com/officialid/officialid-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// List retrieves users with optional role filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Delete removes a user and their cards, memberships, and payments
	// within a single transaction.
	Delete(id uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role     *models.UserRole
	Page     int
	PageSize int
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// CreateWithOwner creates an organization and the owner's approved admin
	// membership row within a single transaction.
	CreateWithOwner(org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all related data in a transaction
	Delete(id uint64) error

	// ListPublic lists public organizations with pagination
	ListPublic(page, pageSize int) ([]models.Organization, int64, error)

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// ReplaceMember deletes any existing non-approved membership row for the
	// pair and inserts the given row, in a single transaction. A concurrent
	// duplicate insert surfaces as a key conflict from the composite primary
	// key.
	ReplaceMember(member *models.OrganizationMember) error

	// UpdateMember updates a membership row
	UpdateMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)

	// CreateInvitation inserts an invitation after removing stale non-pending
	// rows for the same (organization, email), in a single transaction. A live
	// PENDING row causes ErrPendingInvitationExists.
	CreateInvitation(invitation *models.OrganizationInvitation) error

	// FindPendingInvitation finds a PENDING invitation for the pair
	FindPendingInvitation(organizationID uint64, email string) (*models.OrganizationInvitation, error)

	// ListInvitations lists all invitations of an organization
	ListInvitations(organizationID uint64) ([]models.OrganizationInvitation, error)

	// UpdateInvitation updates an invitation row
	UpdateInvitation(invitation *models.OrganizationInvitation) error

	// AcceptInvitation inserts the approved membership and marks the
	// invitation accepted within a single transaction. A pre-existing
	// membership row is tolerated.
	AcceptInvitation(invitation *models.OrganizationInvitation, member *models.OrganizationMember) error
}

// CardRepository defines the interface for business card data access
type CardRepository interface {
	// Create creates a new card
	Create(card *models.BusinessCard) error

	// FindByID finds a card by ID
	FindByID(id uint64) (*models.BusinessCard, error)

	// ListByUser retrieves a user's cards with pagination
	ListByUser(userID uint64, page, pageSize int) ([]models.BusinessCard, int64, error)

	// Update updates a card
	Update(card *models.BusinessCard) error

	// Delete soft deletes a card
	Delete(id uint64) error
}

// PaymentRepository defines the interface for payment transaction data access
type PaymentRepository interface {
	// Create creates a new payment transaction
	Create(payment *models.PaymentTransaction) error

	// FindByID finds a payment by ID
	FindByID(id uint64) (*models.PaymentTransaction, error)

	// ListByUser lists a user's payments
	ListByUser(userID uint64) ([]models.PaymentTransaction, error)

	// List retrieves payments with optional status filtering and pagination
	List(filter PaymentFilter) ([]models.PaymentTransaction, int64, error)

	// Update updates a payment transaction
	Update(payment *models.PaymentTransaction) error
}

// PaymentFilter holds filtering options for listing payments
type PaymentFilter struct {
	Status   *models.PaymentStatus
	Page     int
	PageSize int
}

// EmailLogRepository defines the interface for the email audit trail
type EmailLogRepository interface {
	// Create records a send attempt
	Create(entry *models.EmailLog) error

	// ListByRecipient lists send attempts for a recipient
	ListByRecipient(recipient string) ([]models.EmailLog, error)
}

// EventRepository defines the interface for event and attendance data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event by ID
	FindByID(id uint64) (*models.Event, error)

	// FindBySlug finds an event by its public slug
	FindBySlug(slug string) (*models.Event, error)

	// ListByOrganization lists an organization's events
	ListByOrganization(organizationID uint64) ([]models.Event, error)

	// CreateAttendance records a check-in
	CreateAttendance(attendance *models.EventAttendance) error

	// FindAttendance finds a check-in for the (event, email) pair
	FindAttendance(eventID uint64, email string) (*models.EventAttendance, error)

	// ListAttendances lists all check-ins of an event
	ListAttendances(eventID uint64) ([]models.EventAttendance, error)
}
