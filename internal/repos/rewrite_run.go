package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
)

type RewriteRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *domain.RewriteRun) (*domain.RewriteRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RewriteRun, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.RewriteRun, error)
}

type rewriteRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewriteRunRepo(db *gorm.DB, baseLog *logger.Logger) RewriteRunRepo {
	return &rewriteRunRepo{
		db:  db,
		log: baseLog.With("repo", "RewriteRunRepo"),
	}
}

func (r *rewriteRunRepo) Create(ctx context.Context, tx *gorm.DB, run *domain.RewriteRun) (*domain.RewriteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil, errors.New("rewrite run required")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	for i := range run.Results {
		if run.Results[i].ID == uuid.Nil {
			run.Results[i].ID = uuid.New()
		}
		run.Results[i].RunID = run.ID
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *rewriteRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RewriteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var run domain.RewriteRun
	err := transaction.WithContext(ctx).
		Preload("Results").
		Where("id = ?", id).
		Limit(1).
		Find(&run).Error
	if err != nil {
		return nil, err
	}
	if run.ID == uuid.Nil {
		return nil, nil
	}
	return &run, nil
}

func (r *rewriteRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.RewriteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []*domain.RewriteRun
	err := transaction.WithContext(ctx).
		Preload("Results").
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
