package recommender

import (
	"strings"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/textsim"
)

// contentScore rates how well a profile fits a course's static profile, in [0, 1].
func contentScore(p domain.StudentProfile, interests map[string]struct{}, c domain.Course, cfg Config) float64 {
	total := cfg.WStrand + cfg.WStanine + cfg.WGWA + cfg.WInterest

	score := cfg.WStrand*strandFit(p.Strand, c.Strands) +
		cfg.WStanine*stanineFit(p.Stanine, c.MinStanine) +
		cfg.WGWA*gwaFit(p.GWA, c.MinGWA) +
		cfg.WInterest*interestFit(interests, c.Keywords)

	return score / total
}

func strandFit(strand string, accepted []string) float64 {
	if len(accepted) == 0 {
		return 0.6
	}
	for _, s := range accepted {
		if domain.NormalizeStrand(s) == strand {
			return 1
		}
	}
	return 0.2
}

// stanineFit: meeting the minimum scores 0.6..1.0 rising with aptitude,
// each bucket short of it costs 0.2.
func stanineFit(stanine, minStanine int) float64 {
	if stanine >= minStanine {
		return 0.6 + 0.4*float64(stanine-1)/8
	}
	return max(0, 0.6-0.2*float64(minStanine-stanine))
}

// gwaFit mirrors stanineFit on the 75..100 scale, 0.1 lost per point short.
func gwaFit(gwa, minGWA float64) float64 {
	if gwa >= minGWA {
		return 0.6 + 0.4*(gwa-75)/25
	}
	return max(0, 0.6-0.1*(minGWA-gwa))
}

// interestFit counts course keywords found among the interest terms; two hits saturate.
func interestFit(interests map[string]struct{}, keywords []string) float64 {
	if len(interests) == 0 || len(keywords) == 0 {
		return 0
	}

	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if _, ok := interests[kw]; ok {
			hits++
			continue
		}
		for term := range interests {
			if sharesStem(term, kw) {
				hits++
				break
			}
		}
	}
	return min(1, float64(hits)/2)
}

// sharesStem treats "program" / "programming" and "game" / "games" as the same interest.
func sharesStem(a, b string) bool {
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

func interestTerms(hobbies string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range textsim.Tokenize(hobbies) {
		set[t] = struct{}{}
	}
	return set
}
