package domain

import "strings"

// Strands is the academic-strand vocabulary accepted at every boundary.
var Strands = []string{"STEM", "ABM", "HUMSS", "GAS", "TVL", "ICT", "ARTS", "SPORTS"}

// IsStrand reports whether s (already normalized) is in the vocabulary.
func IsStrand(s string) bool {
	for _, v := range Strands {
		if v == s {
			return true
		}
	}
	return false
}

// NormalizeStrand trims and upper-cases a strand label.
func NormalizeStrand(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// StudentProfile is the query side of a recommendation.
type StudentProfile struct {
	Stanine int     `json:"stanine" query:"stanine" validate:"min=1,max=9"`
	GWA     float64 `json:"gwa" query:"gwa" validate:"gte=75,lte=100"`
	Strand  string  `json:"strand" query:"strand" validate:"required,strand"`
	Hobbies string  `json:"hobbies" query:"hobbies" validate:"required"`
}

// Normalized returns a copy with the strand upper-cased and free text trimmed.
func (p StudentProfile) Normalized() StudentProfile {
	p.Strand = NormalizeStrand(p.Strand)
	p.Hobbies = strings.TrimSpace(p.Hobbies)
	return p
}
