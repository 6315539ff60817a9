package domain

import (
	"strings"
	"time"
)

// CREATE TABLE public.student_feedback (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     stanine     SMALLINT NOT NULL,
//     gwa         NUMERIC(5,2) NOT NULL,
//     strand      TEXT NOT NULL,
//     hobbies     TEXT,
//     course      TEXT NOT NULL,
//     rating      TEXT NOT NULL,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

// StudentFeedback is one immutable (profile, course, rating) observation.
type StudentFeedback struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Stanine   int       `gorm:"column:stanine;not null" json:"stanine" validate:"min=1,max=9"`
	GWA       float64   `gorm:"column:gwa;not null" json:"gwa" validate:"gte=75,lte=100"`
	Strand    string    `gorm:"column:strand;type:text;not null" json:"strand" validate:"required,strand"`
	Hobbies   string    `gorm:"column:hobbies;type:text" json:"hobbies"`
	Course    string    `gorm:"column:course;type:text;not null" json:"course" validate:"required"`
	Rating    string    `gorm:"column:rating;type:text;not null" json:"rating" validate:"required,oneof=good neutral bad"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (StudentFeedback) TableName() string {
	return "student_feedback"
}

const (
	RatingGood    = "good"
	RatingNeutral = "neutral"
	RatingBad     = "bad"
	RatingSkip    = "skip"
)

var ratingAliases = map[string]string{
	"good":     RatingGood,
	"positive": RatingGood,
	"like":     RatingGood,
	"neutral":  RatingNeutral,
	"okay":     RatingNeutral,
	"bad":      RatingBad,
	"negative": RatingBad,
	"dislike":  RatingBad,
	"skip":     RatingSkip,
}

// NormalizeRating maps accepted spellings onto the canonical vocabulary.
// Unknown labels are returned lowercased so validation can reject them.
func NormalizeRating(raw string) string {
	r := strings.ToLower(strings.TrimSpace(raw))
	if canon, ok := ratingAliases[r]; ok {
		return canon
	}
	return r
}

// RatingReward maps a canonical rating onto [0, 1].
func RatingReward(rating string) (float64, bool) {
	switch rating {
	case RatingGood:
		return 1, true
	case RatingNeutral:
		return 0.5, true
	case RatingBad:
		return 0, true
	default:
		return 0, false
	}
}

// FeedbackProfile is the profile half of a feedback submission. Hobbies are optional here.
type FeedbackProfile struct {
	Stanine int     `json:"stanine" validate:"min=1,max=9"`
	GWA     float64 `json:"gwa" validate:"gte=75,lte=100"`
	Strand  string  `json:"strand" validate:"required,strand"`
	Hobbies string  `json:"hobbies"`
}

// Feedback outcomes per submitted course rating.
const (
	OutcomeSaved   = "saved"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

type FeedbackOutcome struct {
	Course  string `json:"course"`
	Rating  string `json:"rating"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// FeedbackBatchResult collects per-row outcomes; it is never all-or-nothing.
type FeedbackBatchResult struct {
	Saved    int               `json:"saved"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Outcomes []FeedbackOutcome `json:"outcomes"`
}
