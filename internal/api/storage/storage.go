// Package storage provides the PostgreSQL-backed user repository of the API
// service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/homelab-dev/homelab/internal/api/config"
)

// ErrUnavailable is returned when the database cannot be reached.
var ErrUnavailable = errors.New("database unavailable")

// User is a row of the users table seeded by the database deployment.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the gorm table name.
func (User) TableName() string { return "users" }

// Repository reads users from PostgreSQL. Connections are opened per call;
// the database is treated as optional, so the API stays up while it is down.
type Repository struct {
	settings config.PostgresSettings

	// openDB is swapped by tests to avoid a real database.
	openDB func(dsn string) (*gorm.DB, error)
}

// NewRepository creates a repository for the configured database.
func NewRepository(settings config.PostgresSettings) *Repository {
	return &Repository{
		settings: settings,
		openDB: func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Silent),
			})
		},
	}
}

// SetOpenFunc overrides the database opener. Primarily used for testing.
func (r *Repository) SetOpenFunc(open func(dsn string) (*gorm.DB, error)) {
	r.openDB = open
}

// LatestUsers returns the newest users up to limit, ordered by creation time
// descending.
func (r *Repository) LatestUsers(ctx context.Context, limit int) ([]User, error) {
	db, closeDB, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	var users []User

	err = db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return users, nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	_, closeDB, err := r.connect(ctx)
	if err != nil {
		return err
	}

	closeDB()

	return nil
}

// --- internals ---

func (r *Repository) connect(ctx context.Context) (*gorm.DB, func(), error) {
	db, err := r.openDB(r.settings.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		_ = sqlDB.Close()

		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return db, func() { _ = sqlDB.Close() }, nil
}
