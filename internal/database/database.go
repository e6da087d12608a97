package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite" // registers the cgo-free "sqlite" driver

	"libris/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the application tables and the indexes the circulation
// rules rely on. Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Book{},
		&domain.Checkout{},
		&domain.Reservation{},
		&domain.Fine{},
		&domain.Upload{},
	); err != nil {
		return err
	}

	// One non-returned checkout per (book, user). The service pre-checks,
	// the index settles races.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_checkout
		 ON checkouts (book_id, user_id) WHERE status = 'active'`,
	).Error; err != nil {
		return err
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
		`CREATE INDEX IF NOT EXISTS idx_checkouts_user ON checkouts (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_checkouts_status ON checkouts (status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_book ON reservations (book_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_fines_user ON fines (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fines_status ON fines (status)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
