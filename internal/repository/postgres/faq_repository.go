package postgres

import (
	"context"
	"fmt"

	"admissionAdvisor/domain"

	"gorm.io/gorm"
)

type FAQRepository struct {
	DB *gorm.DB
}

func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{DB: db}
}

func (r *FAQRepository) ScanActiveFAQs(ctx context.Context) ([]domain.FAQ, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var faqs []domain.FAQ
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&faqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan active faqs: %w", err)
	}

	return faqs, nil
}

// SaveLearned stores a question answered by the inference service, placed after
// every existing entry.
func (r *FAQRepository) SaveLearned(ctx context.Context, entry *domain.FAQ) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		err := tx.Model(&domain.FAQ{}).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&last).Error
		if err != nil {
			return fmt.Errorf("failed to read faq sort order: %w", err)
		}

		entry.SortOrder = last + 1
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to save learned faq: %w", err)
		}
		return nil
	})
}
