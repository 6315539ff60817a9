package faq

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/logger"
	"admissionAdvisor/pkg/textsim"

	"golang.org/x/sync/singleflight"
)

// PromptAnswer is returned for an empty question.
const PromptAnswer = "Please type your question about admissions and I will do my best to help."

// ---- Collaborators ----

type QuestionBank interface {
	// ScanActiveFAQs returns active entries ordered by (sort_order, id).
	ScanActiveFAQs(ctx context.Context) ([]domain.FAQ, error)
}

type LearnedStore interface {
	SaveLearned(ctx context.Context, entry *domain.FAQ) error
}

type InferenceClient interface {
	Ask(ctx context.Context, question string) (string, error)
}

type AnswerCache interface {
	Get(ctx context.Context, question string) (answer string, found bool, err error)
	Set(ctx context.Context, question, answer string) error
}

// ---- Matcher ----

type bankSnapshot struct {
	entries  []domain.FAQ
	loadedAt time.Time
	gen      uint64
}

// Matcher answers free-text questions from the question bank and defers to the
// inference client when no entry is a confident match.
type Matcher struct {
	bank      QuestionBank
	inference InferenceClient
	cache     AnswerCache
	learned   LearnedStore
	scorer    textsim.Scorer
	cfg       Config

	// snapshots from an older generation are ignored
	snap    atomic.Pointer[bankSnapshot]
	snapGen atomic.Uint64
	refresh singleflight.Group
}

type Option func(*Matcher)

// WithScorer swaps the similarity strategy.
func WithScorer(s textsim.Scorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

func WithAnswerCache(c AnswerCache) Option {
	return func(m *Matcher) { m.cache = c }
}

func WithLearnedStore(s LearnedStore) Option {
	return func(m *Matcher) { m.learned = s }
}

func NewMatcher(bank QuestionBank, inference InferenceClient, cfg Config, opts ...Option) *Matcher {
	m := &Matcher{
		bank:      bank,
		inference: inference,
		scorer:    textsim.Default(),
		cfg:       cfg.sanitized(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// scored is one bank entry with its similarity to the question.
type scored struct {
	entry domain.FAQ
	score float64
}

// ranking holds the bank scored against one question, in (sort_order, id) order.
type ranking struct {
	items []scored
	best  int // -1 when the bank is empty
}

func (r ranking) bestScore() float64 {
	if r.best < 0 {
		return 0
	}
	return r.items[r.best].score
}

func (m *Matcher) rank(entries []domain.FAQ, question string) ranking {
	ordered := append([]domain.FAQ(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].ID < ordered[j].ID
	})

	r := ranking{items: make([]scored, len(ordered)), best: -1}
	for i, e := range ordered {
		s := 0.0
		if question != "" {
			s = m.scorer.Score(question, e.Question)
		}
		r.items[i] = scored{entry: e, score: s}
		// strict comparison keeps the earliest entry on ties
		if r.best < 0 || s > r.items[r.best].score {
			r.best = i
		}
	}
	return r
}

// suggestions picks the closest misses: entries below the threshold, best first,
// never the confident match itself.
func (m *Matcher) suggestions(r ranking, matched bool) []string {
	out := []string{}
	if m.cfg.MaxSuggestions == 0 || len(r.items) == 0 {
		return out
	}

	var matchedQuestion string
	if matched {
		matchedQuestion = textsim.Normalize(r.items[r.best].entry.Question)
	}

	candidates := make([]scored, 0, len(r.items))
	for i, it := range r.items {
		if matched && (i == r.best || textsim.Normalize(it.entry.Question) == matchedQuestion) {
			continue
		}
		if it.score >= m.cfg.ConfidenceThreshold || it.score < m.cfg.MinSuggestionScore {
			continue
		}
		candidates = append(candidates, it)
	}
	// stable on (sort_order, id) input order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{}, m.cfg.MaxSuggestions)
	for _, c := range candidates {
		key := textsim.Normalize(c.entry.Question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c.entry.Question)
		if len(out) == m.cfg.MaxSuggestions {
			break
		}
	}
	return out
}

// loadBank returns the active entries, reusing a snapshot younger than BankCacheTTL.
// Concurrent refreshes of an expired snapshot share one scan.
func (m *Matcher) loadBank(ctx context.Context) ([]domain.FAQ, error) {
	if m.bank == nil {
		return nil, nil
	}
	if m.cfg.BankCacheTTL <= 0 {
		return m.scanBank(ctx)
	}

	if s := m.snap.Load(); s != nil && s.gen == m.snapGen.Load() && time.Since(s.loadedAt) < m.cfg.BankCacheTTL {
		return s.entries, nil
	}

	v, err, _ := m.refresh.Do("bank", func() (any, error) {
		gen := m.snapGen.Load()
		entries, err := m.scanBank(ctx)
		if err != nil {
			return nil, err
		}
		m.snap.Store(&bankSnapshot{entries: entries, loadedAt: time.Now(), gen: gen})
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.FAQ), nil
}

func (m *Matcher) scanBank(ctx context.Context) ([]domain.FAQ, error) {
	entries, err := m.bank.ScanActiveFAQs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load question bank: %w", domain.ErrPersistence, err)
	}
	return entries, nil
}

func (m *Matcher) invalidateBank() {
	m.snapGen.Add(1)
	m.refresh.Forget("bank")
}

// Questions lists the active question bank in display order.
func (m *Matcher) Questions(ctx context.Context) ([]domain.FAQ, error) {
	entries, err := m.loadBank(ctx)
	if err != nil {
		return nil, err
	}
	r := m.rank(entries, "")
	out := make([]domain.FAQ, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.entry)
	}
	return out, nil
}

// FindBestMatch returns the curated answer and its similarity when it clears the
// confidence threshold, otherwise the inference answer with confidence 0.
func (m *Matcher) FindBestMatch(ctx context.Context, question string) (string, float64, error) {
	res, err := m.Answer(ctx, question)
	if err != nil {
		return "", 0, err
	}
	return res.Answer, res.Confidence, nil
}

// GetSuggestedQuestions returns up to MaxSuggestions other active questions that
// came closest without clearing the threshold. It never calls the inference client.
func (m *Matcher) GetSuggestedQuestions(ctx context.Context, question string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	entries, err := m.loadBank(ctx)
	if err != nil {
		return nil, err
	}

	q := textsim.Normalize(question)
	r := m.rank(entries, q)
	matched := q != "" && r.best >= 0 && r.bestScore() >= m.cfg.ConfidenceThreshold
	return m.suggestions(r, matched), nil
}

// Answer is the full chat flow: bank match, then answer cache, then inference.
func (m *Matcher) Answer(ctx context.Context, question string) (domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.MatchResult{}, fmt.Errorf("context error: %w", err)
	}

	tid := logger.TraceIDFromContext(ctx)
	raw := strings.TrimSpace(question)
	q := textsim.Normalize(raw)

	entries, err := m.loadBank(ctx)
	if err != nil {
		// answer from inference alone
		logger.Warn("faq_bank_unavailable", "trace_id", tid, "error", err)
		entries = nil
	}

	r := m.rank(entries, q)

	if q == "" {
		AnswersTotal.WithLabelValues(domain.SourcePrompt).Inc()
		return domain.MatchResult{
			Answer:             PromptAnswer,
			Confidence:         0,
			Source:             domain.SourcePrompt,
			SuggestedQuestions: m.suggestions(r, false),
		}, nil
	}

	best := r.bestScore()
	MatchConfidence.Observe(best)

	if r.best >= 0 && best >= m.cfg.ConfidenceThreshold {
		entry := r.items[r.best].entry
		AnswersTotal.WithLabelValues(domain.SourceDatabase).Inc()
		logger.Debug("faq_matched", "trace_id", tid, "faq_id", entry.ID, "confidence", best)
		return domain.MatchResult{
			Answer:             entry.Answer,
			Confidence:         best,
			Source:             domain.SourceDatabase,
			SuggestedQuestions: m.suggestions(r, true),
		}, nil
	}

	suggested := m.suggestions(r, false)

	if answer, ok := m.cachedAnswer(ctx, q); ok {
		AnswersTotal.WithLabelValues(domain.SourceCache).Inc()
		return domain.MatchResult{
			Answer:             answer,
			Confidence:         0,
			Source:             domain.SourceCache,
			SuggestedQuestions: suggested,
		}, nil
	}

	answer, err := m.ask(ctx, raw)
	if err != nil {
		AnswersTotal.WithLabelValues("unavailable").Inc()
		logger.Warn("faq_inference_failed", "trace_id", tid, "best_score", best, "error", err)
		return domain.MatchResult{}, err
	}

	AnswersTotal.WithLabelValues(domain.SourceInference).Inc()
	logger.Info("faq_fallback_answered", "trace_id", tid, "best_score", best)

	m.remember(ctx, raw, q, answer)

	return domain.MatchResult{
		Answer:             answer,
		Confidence:         0,
		Source:             domain.SourceInference,
		SuggestedQuestions: suggested,
	}, nil
}

func (m *Matcher) ask(ctx context.Context, question string) (string, error) {
	if m.inference == nil {
		return "", fmt.Errorf("%w: no inference client configured", domain.ErrInferenceUnavailable)
	}

	answer, err := m.inference.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, domain.ErrInferenceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", domain.ErrInferenceUnavailable)
	}
	return answer, nil
}

func (m *Matcher) cachedAnswer(ctx context.Context, q string) (string, bool) {
	if m.cache == nil {
		return "", false
	}
	answer, found, err := m.cache.Get(ctx, q)
	if err != nil {
		logger.Warn("faq_cache_get_failed", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		return "", false
	}
	if !found || answer == "" {
		return "", false
	}
	return answer, true
}

// remember stores a fallback answer in the cache and, when enabled, the question bank.
// Failures are logged only.
func (m *Matcher) remember(ctx context.Context, raw, q, answer string) {
	tid := logger.TraceIDFromContext(ctx)

	if m.cache != nil {
		if err := m.cache.Set(ctx, q, answer); err != nil {
			logger.Warn("faq_cache_set_failed", "trace_id", tid, "error", err)
		}
	}

	if !m.cfg.PersistLearned || m.learned == nil {
		return
	}

	entry := &domain.FAQ{
		Question: raw,
		Answer:   answer,
		IsActive: m.cfg.PublishLearned,
	}
	if err := m.learned.SaveLearned(ctx, entry); err != nil {
		logger.Warn("faq_learned_save_failed", "trace_id", tid, "error", err)
		return
	}
	if entry.IsActive {
		m.invalidateBank()
	}
	logger.Info("faq_learned_saved", "trace_id", tid, "faq_id", entry.ID, "active", entry.IsActive)
}
