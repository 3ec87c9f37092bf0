package op

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikemajara/ai-chatbot/internal/db"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errDBNotInitialized = errors.New("database not initialized")

var capabilityColumns = []string{"pricing_image_gen", "pricing_web_search", "updated_at"}

// ModelStore is the gorm-backed model store read and written by capability syncs.
type ModelStore struct {
	db *gorm.DB
}

func NewModelStore(gdb *gorm.DB) *ModelStore {
	return &ModelStore{db: gdb}
}

// Models returns a store over the process-wide database opened by db.InitDB.
func Models() *ModelStore {
	return NewModelStore(db.GetDB())
}

func (s *ModelStore) CurrentModels(ctx context.Context) ([]model.CapabilityRecord, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}
	rows := []model.LanguageModel{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return lo.Map(rows, func(m model.LanguageModel, _ int) model.CapabilityRecord {
		return m.Record()
	}), nil
}

// BulkUpsertCapabilities writes the pricing columns of every record, absent prices
// included, inserting rows for models the store does not know yet. Records fail
// independently; the returned error only reports an unusable store.
func (s *ModelStore) BulkUpsertCapabilities(ctx context.Context, records []model.CapabilityRecord) (model.BulkResult, error) {
	res := model.BulkResult{Total: len(records), Errors: []model.RecordError{}}
	if s.db == nil {
		return res, errDBNotInitialized
	}
	tx := s.db.WithContext(ctx)
	for _, r := range records {
		if r.ID == "" {
			res.Fail(r.ID, errors.New("missing model id"))
			continue
		}
		row := model.NewLanguageModel(r)
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(capabilityColumns),
		}).Create(&row).Error
		if err != nil {
			res.Fail(r.ID, err)
			continue
		}
		res.Successful++
	}
	return res, nil
}

// ModelsUpsert seeds rows, overwriting every column of existing ones.
func (s *ModelStore) ModelsUpsert(ctx context.Context, records []model.CapabilityRecord) error {
	if s.db == nil {
		return errDBNotInitialized
	}
	if len(records) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(records))
	rows := make([]model.LanguageModel, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("missing model id")
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		rows = append(rows, model.NewLanguageModel(r))
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(append([]string{"provider", "name"}, capabilityColumns...)),
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed models: %w", err)
	}
	return nil
}

func (s *ModelStore) ModelGet(ctx context.Context, id string) (model.LanguageModel, error) {
	var m model.LanguageModel
	if s.db == nil {
		return m, errDBNotInitialized
	}
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, fmt.Errorf("model not found")
		}
		return m, err
	}
	return m, nil
}
