package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/envutil"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService connects using POSTGRES_* env vars. Returns (nil, nil)
// when POSTGRES_HOST is unset so run history is an optional feature.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	host := envutil.String("POSTGRES_HOST", "")
	if host == "" {
		log.Info("POSTGRES_HOST not set, run history disabled")
		return nil, nil
	}
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "adforge")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp: %w", err)
	}

	return &PostgresService{db: gdb, log: log.With("service", "PostgresService")}, nil
}

func (s *PostgresService) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *PostgresService) AutoMigrateAll() error {
	if s == nil {
		return nil
	}
	s.log.Info("auto migrating postgres tables")
	if err := s.db.AutoMigrate(
		&domain.RewriteRun{},
		&domain.RewriteRunResult{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
