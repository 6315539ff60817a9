package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// CREATE TABLE public.courses (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     code         TEXT NOT NULL UNIQUE,
//     name         TEXT NOT NULL,
//     strands      JSONB NOT NULL DEFAULT '[]',
//     keywords     JSONB NOT NULL DEFAULT '[]',
//     min_stanine  SMALLINT NOT NULL DEFAULT 1,
//     min_gwa      NUMERIC(5,2) NOT NULL DEFAULT 75,
//     sort_order   INT NOT NULL DEFAULT 0,
//     is_active    BOOLEAN NOT NULL DEFAULT TRUE
// );

// CourseRow is the persisted catalog entry.
type CourseRow struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	Code       string         `gorm:"column:code;type:varchar(32);not null;uniqueIndex"`
	Name       string         `gorm:"column:name;type:text;not null"`
	Strands    datatypes.JSON `gorm:"column:strands"`
	Keywords   datatypes.JSON `gorm:"column:keywords"`
	MinStanine int            `gorm:"column:min_stanine"`
	MinGWA     float64        `gorm:"column:min_gwa"`
	SortOrder  int            `gorm:"column:sort_order"`
	IsActive   bool           `gorm:"column:is_active;default:true"`
}

func (CourseRow) TableName() string {
	return "courses"
}

// NewCourseRow encodes a Course for storage.
func NewCourseRow(c Course, sortOrder int) (CourseRow, error) {
	strands, err := json.Marshal(c.Strands)
	if err != nil {
		return CourseRow{}, err
	}
	keywords, err := json.Marshal(c.Keywords)
	if err != nil {
		return CourseRow{}, err
	}
	return CourseRow{
		Code:       c.Code,
		Name:       c.Name,
		Strands:    datatypes.JSON(strands),
		Keywords:   datatypes.JSON(keywords),
		MinStanine: c.MinStanine,
		MinGWA:     c.MinGWA,
		SortOrder:  sortOrder,
		IsActive:   true,
	}, nil
}

// ToCourse decodes the JSON columns into a Course.
func (r CourseRow) ToCourse() (Course, error) {
	c := Course{
		Code:       r.Code,
		Name:       r.Name,
		MinStanine: r.MinStanine,
		MinGWA:     r.MinGWA,
	}
	if len(r.Strands) > 0 {
		if err := json.Unmarshal(r.Strands, &c.Strands); err != nil {
			return Course{}, err
		}
	}
	if len(r.Keywords) > 0 {
		if err := json.Unmarshal(r.Keywords, &c.Keywords); err != nil {
			return Course{}, err
		}
	}
	return c, nil
}

// Course is a catalog entry with its static eligibility and affinity profile.
// Catalog order is the slice order handed to the recommender.
type Course struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Strands    []string `json:"strands"`
	Keywords   []string `json:"keywords"`
	MinStanine int      `json:"min_stanine"`
	MinGWA     float64  `json:"min_gwa"`
}

// Recommendation is one ranked course.
type Recommendation struct {
	Course string  `json:"course"`
	Name   string  `json:"name,omitempty"`
	Score  float64 `json:"score"`
}

// ModelInfo describes the currently installed recommender model.
type ModelInfo struct {
	Version      int64  `json:"version"`
	TrainedAt    string `json:"trained_at,omitempty"`
	FeedbackRows int    `json:"feedback_rows"`
	CatalogSize  int    `json:"catalog_size"`
}
