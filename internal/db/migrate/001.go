package migrate

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

func init() {
	RegisterAfterAutoMigration(Migration{
		Version: 1,
		Up:      backfillModelProviderName,
	})
}

// 001: rows written before provider/name were split out of the id carry empty
// columns; derive them from "provider/name".
func backfillModelProviderName(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	if !db.Migrator().HasTable("models") {
		return nil
	}

	type row struct {
		ID       string `gorm:"column:id"`
		Provider string `gorm:"column:provider"`
		Name     string `gorm:"column:name"`
	}
	rows := make([]row, 0)
	if err := db.Raw(`
SELECT id, provider, name
FROM models
WHERE provider IS NULL OR provider = '' OR name IS NULL OR name = ''
`).Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to read models without provider: %w", err)
	}

	for _, r := range rows {
		provider, name, ok := strings.Cut(r.ID, "/")
		if !ok || provider == "" {
			continue
		}
		if err := db.Exec("UPDATE models SET provider = ?, name = ? WHERE id = ?", provider, name, r.ID).Error; err != nil {
			return fmt.Errorf("failed to backfill provider for %s: %w", r.ID, err)
		}
	}
	return nil
}
