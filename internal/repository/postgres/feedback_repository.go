package postgres

import (
	"context"
	"fmt"

	"admissionAdvisor/domain"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{
		DB: db,
	}
}

// Insert appends one feedback row. Rows are never updated afterwards.
func (r *FeedbackRepository) Insert(ctx context.Context, feedback *domain.StudentFeedback) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to insert student feedback: %w", err)
	}

	return nil
}

// ScanAll returns every feedback row in insertion order.
func (r *FeedbackRepository) ScanAll(ctx context.Context) ([]domain.StudentFeedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.StudentFeedback
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan student feedback: %w", err)
	}

	return rows, nil
}
