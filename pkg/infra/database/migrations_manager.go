package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is one schema step. IDs sort lexically into apply order, so
// they start with a date stamp.
type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registered = map[string]Migration{}

// RegisterMigration is called from init functions of the migrations package.
func RegisterMigration(m Migration) {
	if _, dup := registered[m.ID]; dup {
		panic(fmt.Sprintf("migration %s registered twice", m.ID))
	}
	registered[m.ID] = m
}

// RegisteredMigrations returns every registered migration id in apply order.
func RegisteredMigrations() []string {
	ids := make([]string, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// appliedMigration is a row of the bookkeeping table.
type appliedMigration struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) applied(db *gorm.DB) (map[string]bool, error) {
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return nil, fmt.Errorf("ensure migrations table: %w", err)
	}
	var ids []string
	if err := db.Model(&appliedMigration{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// ApplyPending runs every migration not yet recorded, each in its own
// transaction together with its bookkeeping row.
func (m *MigrationsManager) ApplyPending(ctx context.Context) ([]string, error) {
	db := m.db.WithContext(ctx)
	done, err := m.applied(db)
	if err != nil {
		return nil, err
	}
	var ran []string
	for _, id := range RegisteredMigrations() {
		if done[id] {
			continue
		}
		mig := registered[id]
		if mig.Up == nil {
			return ran, fmt.Errorf("migration %s has no Up step", id)
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{ID: mig.ID, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		ran = append(ran, id)
	}
	return ran, nil
}

// RollbackLast reverts the newest applied migration and returns its id, or
// "" when nothing is applied.
func (m *MigrationsManager) RollbackLast() (string, error) {
	done, err := m.applied(m.db)
	if err != nil {
		return "", err
	}
	ids := RegisteredMigrations()
	for i := len(ids) - 1; i >= 0; i-- {
		mig := registered[ids[i]]
		if !done[mig.ID] {
			continue
		}
		if mig.Down == nil {
			return "", fmt.Errorf("migration %s has no Down step", mig.ID)
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&appliedMigration{ID: mig.ID}).Error
		})
		if err != nil {
			return "", fmt.Errorf("rollback migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		return mig.ID, nil
	}
	return "", nil
}
