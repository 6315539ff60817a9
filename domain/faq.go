package domain

import "time"

// CREATE TABLE public.faqs (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     question    TEXT NOT NULL,
//     answer      TEXT NOT NULL,
//     is_active   BOOLEAN NOT NULL DEFAULT TRUE,
//     sort_order  INT NOT NULL DEFAULT 0,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type FAQ struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Question  string    `gorm:"column:question;type:text;not null" json:"question"`
	Answer    string    `gorm:"column:answer;type:text;not null" json:"answer"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (FAQ) TableName() string {
	return "faqs"
}

// Answer sources.
const (
	SourceDatabase  = "database"
	SourceInference = "huggingface"
	SourceCache     = "cache"
	SourcePrompt    = "prompt"
)

type MatchResult struct {
	Answer             string   `json:"response"`
	Confidence         float64  `json:"confidence"`
	Source             string   `json:"source"`
	SuggestedQuestions []string `json:"suggested_questions"`
}
