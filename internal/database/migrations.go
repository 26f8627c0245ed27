package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Organization members: resolver queries both directions
		{"organization_members", "idx_org_members_organization_id", "organization_id"},
		{"organization_members", "idx_org_members_user_id", "user_id"},
		{"organization_members", "idx_org_members_status", "status"},

		// Invitations: dedup lookup is by (organization_id, email, status)
		{"organization_invitations", "idx_org_invitations_org_email", "organization_id, email"},
		{"organization_invitations", "idx_org_invitations_status", "status"},

		// Cards and payments
		{"business_cards", "idx_business_cards_user_id", "user_id"},
		{"payment_transactions", "idx_payments_user_id", "user_id"},
		{"payment_transactions", "idx_payments_status", "status"},

		// Email audit lookups
		{"email_logs", "idx_email_logs_recipient", "recipient"},
		{"email_logs", "idx_email_logs_kind", "kind"},

		// Events
		{"events", "idx_events_organization_id", "organization_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
