package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the users table if it does not exist and adds any missing
// columns. It is idempotent and is run once at startup.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}
