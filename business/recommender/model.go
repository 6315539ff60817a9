package recommender

import (
	"math"
	"sort"
	"strings"
	"time"

	"admissionAdvisor/domain"
)

type observation struct {
	stanine int
	gwa     float64
	course  int // catalog index
	reward  float64
}

// Model is an immutable snapshot fitted from the feedback set at one point in time.
// Once installed it is only read.
type Model struct {
	version      int64
	trainedAt    time.Time
	catalog      []domain.Course
	courseIndex  map[string]int
	byStrand     map[string][]observation
	feedbackRows int
	ignoredRows  int
}

func courseKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// buildModel never mutates its inputs. Rows with an unknown course or rating are ignored.
func buildModel(version int64, catalog []domain.Course, rows []domain.StudentFeedback) *Model {
	m := &Model{
		version:     version,
		trainedAt:   time.Now(),
		catalog:     append([]domain.Course(nil), catalog...),
		courseIndex: make(map[string]int, len(catalog)*2),
		byStrand:    make(map[string][]observation),
	}

	for i, c := range m.catalog {
		if _, dup := m.courseIndex[courseKey(c.Code)]; !dup {
			m.courseIndex[courseKey(c.Code)] = i
		}
		if c.Name != "" {
			if _, dup := m.courseIndex[courseKey(c.Name)]; !dup {
				m.courseIndex[courseKey(c.Name)] = i
			}
		}
	}

	for _, row := range rows {
		idx, ok := m.courseIndex[courseKey(row.Course)]
		if !ok {
			m.ignoredRows++
			continue
		}
		reward, ok := domain.RatingReward(domain.NormalizeRating(row.Rating))
		if !ok {
			m.ignoredRows++
			continue
		}

		strand := domain.NormalizeStrand(row.Strand)
		m.byStrand[strand] = append(m.byStrand[strand], observation{
			stanine: row.Stanine,
			gwa:     row.GWA,
			course:  idx,
			reward:  reward,
		})
		m.feedbackRows++
	}

	return m
}

// neighbourWeight is the kernel weight of a historical profile relative to the query,
// zero when it falls outside the closeness band.
func neighbourWeight(p domain.StudentProfile, o observation, cfg Config) float64 {
	ds := p.Stanine - o.stanine
	if ds < 0 {
		ds = -ds
	}
	if ds > cfg.StanineRadius {
		return 0
	}

	dg := math.Abs(p.GWA - o.gwa)
	if dg > cfg.GWATolerance {
		return 0
	}

	ws := 1.0
	if ds > 0 {
		ws = 0.5
	}
	wg := 1.0
	if cfg.GWATolerance > 0 {
		wg = 1 - 0.5*dg/cfg.GWATolerance
	}
	return ws * wg
}

// collaborativeWeight grows monotonically with the neighbour count.
func collaborativeWeight(n int, cfg Config) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / (float64(n) + cfg.CollabSaturation)
}

// rank scores every catalog course for p. p must already be normalized and valid.
func (m *Model) rank(p domain.StudentProfile, cfg Config) []domain.Recommendation {
	if len(m.catalog) == 0 {
		return []domain.Recommendation{}
	}

	interests := interestTerms(p.Hobbies)
	content := make([]float64, len(m.catalog))
	for i, c := range m.catalog {
		content[i] = contentScore(p, interests, c, cfg)
	}

	sumW := make([]float64, len(m.catalog))
	sumWR := make([]float64, len(m.catalog))
	neighbours := 0
	for _, o := range m.byStrand[p.Strand] {
		w := neighbourWeight(p, o, cfg)
		if w <= 0 {
			continue
		}
		neighbours++
		sumW[o.course] += w
		sumWR[o.course] += w * o.reward
	}

	alpha := collaborativeWeight(neighbours, cfg)

	type scored struct {
		idx   int
		score float64
	}
	list := make([]scored, len(m.catalog))
	for i := range m.catalog {
		final := content[i]
		if alpha > 0 {
			collab := (sumWR[i] + cfg.CollabPriorWeight*content[i]) / (sumW[i] + cfg.CollabPriorWeight)
			final = (1-alpha)*content[i] + alpha*collab
		}
		list[i] = scored{idx: i, score: final}
	}

	// descending by score, catalog order on ties
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].score > list[b].score
	})

	out := make([]domain.Recommendation, 0, len(list))
	for _, s := range list {
		c := m.catalog[s.idx]
		out = append(out, domain.Recommendation{
			Course: c.Code,
			Name:   c.Name,
			Score:  s.score,
		})
	}
	return out
}

func (m *Model) info() domain.ModelInfo {
	info := domain.ModelInfo{
		Version:      m.version,
		FeedbackRows: m.feedbackRows,
		CatalogSize:  len(m.catalog),
	}
	if m.version > 0 {
		info.TrainedAt = m.trainedAt.UTC().Format(time.RFC3339)
	}
	return info
}
