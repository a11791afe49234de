// Package migrations keeps a registry of one-off data migrations that run
// after the schema auto-migration.
package migrations

import (
	"fmt"
	"sort"

	"github.com/glucolog/glucolog/internal/logger"
	"gorm.io/gorm"
)

// Migration is one registered data migration.
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

var registry = make(map[string]Migration)

// Register adds a migration to the registry. Called from init functions.
func Register(id string, up func(*gorm.DB) error) {
	registry[id] = Migration{ID: id, Up: up}
}

// MigrationRecord marks a migration as executed.
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Run executes all pending migrations in ID order.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var ids []string
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}
	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}

	for _, id := range ids {
		if done[id] {
			continue
		}
		logger.Infof("Running migration: %s", id)
		if err := registry[id].Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
	}
	return nil
}
