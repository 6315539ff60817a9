package postgres

import (
	"context"
	"fmt"

	"admissionAdvisor/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// FindActiveCourses returns the catalog in (sort_order, id) order.
func (r *CourseRepository) FindActiveCourses(ctx context.Context) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CourseRow
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}

	courses := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		c, err := row.ToCourse()
		if err != nil {
			return nil, fmt.Errorf("failed to decode course %s: %w", row.Code, err)
		}
		courses = append(courses, c)
	}

	return courses, nil
}

// Upsert writes a catalog entry keyed by code.
func (r *CourseRepository) Upsert(ctx context.Context, row *domain.CourseRow) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"strands",
				"keywords",
				"min_stanine",
				"min_gwa",
				"sort_order",
				"is_active",
			}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert course: %w", err)
	}
	return nil
}
