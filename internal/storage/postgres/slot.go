package postgres

import (
	"context"
	"errors"
	"time"

	slotDatamodel "github.com/frahmantamala/budgetflow/internal/core/datamodel/slot"
	"github.com/frahmantamala/budgetflow/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRepository stores slots as rows of the slots table. It works with any
// dialector gorm supports; the server uses sqlite or postgres.
type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

var _ storage.SlotStore = (*SlotRepository)(nil)

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var row slotDatamodel.Slot
	err := r.db.WithContext(ctx).Where("slot_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrSlotEmpty
		}
		return nil, err
	}
	return []byte(row.Value), nil
}

// Put inserts or replaces the row for key in a single statement.
func (r *SlotRepository) Put(ctx context.Context, key string, value []byte) error {
	row := slotDatamodel.Slot{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&slotDatamodel.Slot{}).Error
}

func (r *SlotRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SlotRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
