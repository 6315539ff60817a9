//go:build !integration

package faq

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"admissionAdvisor/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeBank struct {
	mu      sync.Mutex
	entries []domain.FAQ
	err     error
	delay   time.Duration
	scans   atomic.Int64
}

func (b *fakeBank) ScanActiveFAQs(ctx context.Context) ([]domain.FAQ, error) {
	b.scans.Add(1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := make([]domain.FAQ, 0, len(b.entries))
	for _, e := range b.entries {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *fakeBank) SaveLearned(ctx context.Context, entry *domain.FAQ) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry.ID = uint64(len(b.entries) + 100)
	b.entries = append(b.entries, *entry)
	return nil
}

type fakeInference struct {
	answer string
	err    error
	calls  atomic.Int64
	last   atomic.Value
}

func (f *fakeInference) Ask(ctx context.Context, question string) (string, error) {
	f.calls.Add(1)
	f.last.Store(question)
	return f.answer, f.err
}

type fakeCache struct {
	mu     sync.Mutex
	items  map[string]string
	getErr error
}

func (c *fakeCache) Get(ctx context.Context, question string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	a, ok := c.items[question]
	return a, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, question, answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]string{}
	}
	c.items[question] = answer
	return nil
}

// exactScorer scores 1 for case-insensitively identical strings and 0 otherwise.
type exactScorer struct{}

func (exactScorer) Score(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

// ---- fixtures ----

func seedBank() *fakeBank {
	return &fakeBank{entries: []domain.FAQ{
		{ID: 5, Question: "Where is the campus located?", Answer: "Along the national highway.", IsActive: true, SortOrder: 5},
		{ID: 1, Question: "What are the admission requirements?", Answer: "Form 138, good moral certificate and PSA birth certificate.", IsActive: true, SortOrder: 1},
		{ID: 2, Question: "When is the enrollment period?", Answer: "Enrollment runs from June to July.", IsActive: true, SortOrder: 2},
		{ID: 3, Question: "How much is the tuition fee?", Answer: "Tuition is free under the RA 10931.", IsActive: true, SortOrder: 3},
		{ID: 4, Question: "Do you offer scholarships?", Answer: "Yes, academic and athletic scholarships.", IsActive: true, SortOrder: 4},
		{ID: 6, Question: "Is there an entrance exam?", Answer: "Yes.", IsActive: false, SortOrder: 0},
	}}
}

func activeQuestions(b *fakeBank) map[string]bool {
	out := map[string]bool{}
	for _, e := range b.entries {
		if e.IsActive {
			out[e.Question] = true
		}
	}
	return out
}

// ---- tests ----

func TestFindBestMatch_ExactQuestion(t *testing.T) {
	bank := seedBank()
	inf := &fakeInference{answer: "should not be used"}
	m := NewMatcher(bank, inf, DefaultConfig())

	answer, conf, err := m.FindBestMatch(context.Background(), "What are the admission requirements?")
	require.NoError(t, err)

	assert.Equal(t, "Form 138, good moral certificate and PSA birth certificate.", answer)
	assert.Greater(t, conf, DefaultConfig().ConfidenceThreshold)
	assert.Equal(t, int64(0), inf.calls.Load())
}

func TestFindBestMatch_NearDuplicatePhrasing(t *testing.T) {
	m := NewMatcher(seedBank(), &fakeInference{answer: "stub"}, DefaultConfig())

	for _, q := range []string{
		"  WHAT are the ADMISSION requirements ",
		"what are the requirements for admission",
		"admission requirements?",
	} {
		res, err := m.Answer(context.Background(), q)
		require.NoError(t, err, q)
		assert.Equal(t, domain.SourceDatabase, res.Source, q)
		assert.Equal(t, "Form 138, good moral certificate and PSA birth certificate.", res.Answer, q)
	}
}

func TestFindBestMatch_UnrelatedQuestionDefers(t *testing.T) {
	bank := seedBank()
	inf := &fakeInference{answer: "Pets are not allowed on campus."}
	m := NewMatcher(bank, inf, DefaultConfig())

	answer, conf, err := m.FindBestMatch(context.Background(), "Can I bring my pet hamster to class?")
	require.NoError(t, err)

	assert.Equal(t, "Pets are not allowed on campus.", answer)
	assert.Equal(t, 0.0, conf)
	assert.Equal(t, int64(1), inf.calls.Load())
	assert.Equal(t, "Can I bring my pet hamster to class?", inf.last.Load())

	suggested, err := m.GetSuggestedQuestions(context.Background(), "Can I bring my pet hamster to class?")
	require.NoError(t, err)
	assert.Len(t, suggested, DefaultConfig().MaxSuggestions)
	known := activeQuestions(bank)
	for _, s := range suggested {
		assert.True(t, known[s], s)
	}
	assert.Equal(t, int64(1), inf.calls.Load(), "suggestions never call inference")
}

func TestAnswer_InactiveEntriesAreNeverMatched(t *testing.T) {
	inf := &fakeInference{answer: "fallback"}
	m := NewMatcher(seedBank(), inf, DefaultConfig())

	res, err := m.Answer(context.Background(), "Is there an entrance exam?")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInference, res.Source)
	assert.NotContains(t, res.SuggestedQuestions, "Is there an entrance exam?")
}

func TestAnswer_SuggestionsExcludeTheMatch(t *testing.T) {
	bank := seedBank()
	// duplicate phrasing of the first entry
	bank.entries = append(bank.entries, domain.FAQ{
		ID: 7, Question: "what are the admission requirements", Answer: "dup", IsActive: true, SortOrder: 9,
	})
	m := NewMatcher(bank, &fakeInference{}, DefaultConfig())

	res, err := m.Answer(context.Background(), "What are the admission requirements?")
	require.NoError(t, err)
	require.Equal(t, domain.SourceDatabase, res.Source)

	assert.LessOrEqual(t, len(res.SuggestedQuestions), DefaultConfig().MaxSuggestions)
	for _, s := range res.SuggestedQuestions {
		assert.NotEqual(t, "What are the admission requirements?", s)
		assert.NotEqual(t, "what are the admission requirements", s)
	}
}

func TestAnswer_TiesBrokenBySortOrderThenID(t *testing.T) {
	bank := &fakeBank{entries: []domain.FAQ{
		{ID: 9, Question: "office hours", Answer: "third", IsActive: true, SortOrder: 2},
		{ID: 8, Question: "office hours", Answer: "second", IsActive: true, SortOrder: 1},
		{ID: 3, Question: "office hours", Answer: "first", IsActive: true, SortOrder: 1},
	}}
	m := NewMatcher(bank, &fakeInference{}, DefaultConfig())

	answer, conf, err := m.FindBestMatch(context.Background(), "office hours")
	require.NoError(t, err)
	assert.Equal(t, "first", answer)
	assert.Equal(t, 1.0, conf)
}

func TestAnswer_EmptyQuestionPrompts(t *testing.T) {
	inf := &fakeInference{answer: "nope"}
	m := NewMatcher(seedBank(), inf, DefaultConfig())

	for _, q := range []string{"", "   ", "\n\t"} {
		res, err := m.Answer(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, PromptAnswer, res.Answer)
		assert.Equal(t, 0.0, res.Confidence)
		assert.Equal(t, domain.SourcePrompt, res.Source)
		assert.Equal(t, []string{
			"What are the admission requirements?",
			"When is the enrollment period?",
			"How much is the tuition fee?",
		}, res.SuggestedQuestions)
	}
	assert.Equal(t, int64(0), inf.calls.Load())
}

func TestAnswer_InferenceFailure(t *testing.T) {
	tests := []struct {
		name string
		inf  InferenceClient
	}{
		{name: "error", inf: &fakeInference{err: errors.New("503 from upstream")}},
		{name: "blank answer", inf: &fakeInference{answer: "   "}},
		{name: "no client", inf: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(seedBank(), tt.inf, DefaultConfig())

			_, err := m.Answer(context.Background(), "Can I bring my pet hamster to class?")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInferenceUnavailable))

			_, _, err = m.FindBestMatch(context.Background(), "Can I bring my pet hamster to class?")
			assert.True(t, errors.Is(err, domain.ErrInferenceUnavailable))
		})
	}
}

func TestAnswer_BankFailureFallsBackToInference(t *testing.T) {
	bank := &fakeBank{err: errors.New("connection reset")}
	inf := &fakeInference{answer: "from the model"}
	m := NewMatcher(bank, inf, DefaultConfig())

	res, err := m.Answer(context.Background(), "What are the admission requirements?")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInference, res.Source)
	assert.Empty(t, res.SuggestedQuestions)

	_, err = m.GetSuggestedQuestions(context.Background(), "anything")
	assert.True(t, errors.Is(err, domain.ErrPersistence))
}

func TestAnswer_CachedFallback(t *testing.T) {
	inf := &fakeInference{answer: "Pets are not allowed on campus."}
	cache := &fakeCache{}
	m := NewMatcher(seedBank(), inf, DefaultConfig(), WithAnswerCache(cache))

	first, err := m.Answer(context.Background(), "Can I bring my pet hamster?")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInference, first.Source)

	second, err := m.Answer(context.Background(), "  can I bring my PET hamster? ")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCache, second.Source)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, 0.0, second.Confidence)
	assert.Equal(t, first.SuggestedQuestions, second.SuggestedQuestions)

	assert.Equal(t, int64(1), inf.calls.Load())
}

func TestAnswer_CacheErrorIsIgnored(t *testing.T) {
	inf := &fakeInference{answer: "fine"}
	m := NewMatcher(seedBank(), inf, DefaultConfig(), WithAnswerCache(&fakeCache{getErr: errors.New("redis down")}))

	res, err := m.Answer(context.Background(), "Can I bring my pet hamster?")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInference, res.Source)
	assert.Equal(t, int64(1), inf.calls.Load())
}

func TestAnswer_PersistLearned(t *testing.T) {
	t.Run("stored inactive for review", func(t *testing.T) {
		bank := seedBank()
		cfg := DefaultConfig()
		cfg.PersistLearned = true
		inf := &fakeInference{answer: "Yes, there is a dormitory."}
		m := NewMatcher(bank, inf, cfg, WithLearnedStore(bank))

		_, err := m.Answer(context.Background(), "Is there a dormitory?")
		require.NoError(t, err)

		last := bank.entries[len(bank.entries)-1]
		assert.Equal(t, "Is there a dormitory?", last.Question)
		assert.Equal(t, "Yes, there is a dormitory.", last.Answer)
		assert.False(t, last.IsActive)

		_, err = m.Answer(context.Background(), "Is there a dormitory?")
		require.NoError(t, err)
		assert.Equal(t, int64(2), inf.calls.Load())
	})

	t.Run("published entries are matched next time", func(t *testing.T) {
		bank := seedBank()
		cfg := DefaultConfig()
		cfg.PersistLearned = true
		cfg.PublishLearned = true
		cfg.BankCacheTTL = time.Hour
		inf := &fakeInference{answer: "Yes, there is a dormitory."}
		m := NewMatcher(bank, inf, cfg, WithLearnedStore(bank))

		_, err := m.Answer(context.Background(), "Is there a dormitory?")
		require.NoError(t, err)

		res, err := m.Answer(context.Background(), "Is there a dormitory?")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceDatabase, res.Source)
		assert.Equal(t, int64(1), inf.calls.Load())
	})
}

func TestAnswer_BankSnapshotReuse(t *testing.T) {
	bank := seedBank()
	cfg := DefaultConfig()
	cfg.BankCacheTTL = time.Hour
	m := NewMatcher(bank, &fakeInference{}, cfg)

	for i := 0; i < 3; i++ {
		_, err := m.Answer(context.Background(), "What are the admission requirements?")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), bank.scans.Load())

	noCache := NewMatcher(seedBank(), &fakeInference{}, DefaultConfig())
	for i := 0; i < 3; i++ {
		_, err := noCache.Answer(context.Background(), "What are the admission requirements?")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), noCache.bank.(*fakeBank).scans.Load())
}

func TestGetSuggestedQuestions_Deterministic(t *testing.T) {
	m := NewMatcher(seedBank(), &fakeInference{}, DefaultConfig())

	first, err := m.GetSuggestedQuestions(context.Background(), "tuition and scholarship fees")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := m.GetSuggestedQuestions(context.Background(), "tuition and scholarship fees")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetSuggestedQuestions_ClosestMissFirst(t *testing.T) {
	m := NewMatcher(seedBank(), &fakeInference{}, DefaultConfig())

	got, err := m.GetSuggestedQuestions(context.Background(), "tuition payment schedule")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "How much is the tuition fee?", got[0])
}

func TestWithScorer_SwapsStrategy(t *testing.T) {
	inf := &fakeInference{answer: "fallback"}
	m := NewMatcher(seedBank(), inf, DefaultConfig(), WithScorer(exactScorer{}))

	// the default scorer would match this phrasing
	res, err := m.Answer(context.Background(), "what are the requirements for admission")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceInference, res.Source)

	res, err = m.Answer(context.Background(), "What are the admission requirements?")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDatabase, res.Source)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestQuestions_DisplayOrder(t *testing.T) {
	m := NewMatcher(seedBank(), nil, DefaultConfig())

	got, err := m.Questions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, id := range []uint64{1, 2, 3, 4, 5} {
		assert.Equal(t, id, got[i].ID)
	}
}

func TestAnswer_ConcurrentReads(t *testing.T) {
	inf := &fakeInference{answer: "fallback"}
	m := NewMatcher(seedBank(), inf, DefaultConfig())

	var wg sync.WaitGroup
	var wrong atomic.Int64
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, err := m.Answer(context.Background(), "When is the enrollment period?")
				if err != nil || res.Answer != "Enrollment runs from June to July." {
					wrong.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(0), wrong.Load())
	assert.Equal(t, int64(0), inf.calls.Load())
}

func TestLoadBank_ConcurrentReadsDoNotSerialize(t *testing.T) {
	const readers = 10
	const scan = 100 * time.Millisecond

	run := func(t *testing.T, m *Matcher) time.Duration {
		start := make(chan struct{})
		var wg sync.WaitGroup
		var failed atomic.Int64
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := m.GetSuggestedQuestions(context.Background(), "tuition payment schedule"); err != nil {
					failed.Add(1)
				}
			}()
		}
		began := time.Now()
		close(start)
		wg.Wait()
		require.Zero(t, failed.Load())
		return time.Since(began)
	}

	t.Run("no snapshot cache", func(t *testing.T) {
		bank := seedBank()
		bank.delay = scan
		m := NewMatcher(bank, &fakeInference{}, DefaultConfig())

		elapsed := run(t, m)
		assert.Less(t, elapsed, readers*scan/2)
		assert.Equal(t, int64(readers), bank.scans.Load())
	})

	t.Run("expired snapshot refreshed once", func(t *testing.T) {
		bank := seedBank()
		bank.delay = scan
		cfg := DefaultConfig()
		cfg.BankCacheTTL = time.Hour
		m := NewMatcher(bank, &fakeInference{}, cfg)

		elapsed := run(t, m)
		assert.Less(t, elapsed, readers*scan/2)
		assert.Equal(t, int64(1), bank.scans.Load())
	})
}

func TestLoadBank_InvalidateForcesRescan(t *testing.T) {
	bank := seedBank()
	cfg := DefaultConfig()
	cfg.BankCacheTTL = time.Hour
	m := NewMatcher(bank, &fakeInference{}, cfg)

	_, err := m.Questions(context.Background())
	require.NoError(t, err)
	_, err = m.Questions(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), bank.scans.Load())

	m.invalidateBank()
	_, err = m.Questions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), bank.scans.Load())
}
