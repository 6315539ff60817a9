package recommender

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ---- Repository interfaces ----

type FeedbackRepository interface {
	Insert(ctx context.Context, feedback *domain.StudentFeedback) error
	ScanAll(ctx context.Context) ([]domain.StudentFeedback, error)
}

type CatalogRepository interface {
	FindActiveCourses(ctx context.Context) ([]domain.Course, error)
}

// ---- Service ----

// Service is the course recommender. The fitted model lives behind a single
// atomic pointer, so recommendations never take a lock and never observe a
// half-built model.
type Service struct {
	feedbackRepo FeedbackRepository
	catalogRepo  CatalogRepository
	validate     *validator.Validate
	cfg          Config

	model   atomic.Pointer[Model]
	version atomic.Int64
	trainMu sync.Mutex
}

// NewService installs a content-only bootstrap model over the default catalog.
// catalogRepo may be nil, in which case DefaultCatalog is used for every training run.
func NewService(
	feedbackRepo FeedbackRepository,
	catalogRepo CatalogRepository,
	validate *validator.Validate,
	cfg Config,
) *Service {
	if validate == nil {
		validate = domain.NewValidator()
	}

	s := &Service{
		feedbackRepo: feedbackRepo,
		catalogRepo:  catalogRepo,
		validate:     validate,
		cfg:          cfg.sanitized(),
	}
	s.model.Store(buildModel(0, DefaultCatalog(), nil))

	return s
}

//  Training

// TrainModel rebuilds the model from the full feedback set and swaps it in.
// On failure the previously installed model keeps serving.
func (s *Service) TrainModel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrTraining, err)
	}

	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	start := time.Now()
	tid := logger.TraceIDFromContext(ctx)

	rows, err := s.feedbackRepo.ScanAll(ctx)
	if err != nil {
		TrainingTotal.WithLabelValues("failure").Inc()
		logger.Error("recommender_train_failed", "trace_id", tid, "stage", "load_feedback", "error", err)
		return fmt.Errorf("%w: load feedback: %w", domain.ErrTraining, err)
	}

	catalog := DefaultCatalog()
	if s.catalogRepo != nil {
		catalog, err = s.catalogRepo.FindActiveCourses(ctx)
		if err != nil {
			TrainingTotal.WithLabelValues("failure").Inc()
			logger.Error("recommender_train_failed", "trace_id", tid, "stage", "load_catalog", "error", err)
			return fmt.Errorf("%w: load catalog: %w", domain.ErrTraining, err)
		}
	}

	m := buildModel(s.version.Add(1), catalog, rows)
	s.model.Store(m)

	TrainingTotal.WithLabelValues("success").Inc()
	TrainingDuration.Observe(time.Since(start).Seconds())
	ModelFeedbackRows.Set(float64(m.feedbackRows))

	logger.Info("recommender_trained",
		"trace_id", tid,
		"version", m.version,
		"feedback_rows", m.feedbackRows,
		"ignored_rows", m.ignoredRows,
		"catalog_size", len(m.catalog),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// ModelInfo describes the model currently serving.
func (s *Service) ModelInfo() domain.ModelInfo {
	return s.model.Load().info()
}

//  Recommendation / serving

// RecommendCourses ranks every catalog course for the profile, highest score first.
// The list is empty only when the catalog is.
func (s *Service) RecommendCourses(ctx context.Context, profile domain.StudentProfile) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	p := profile.Normalized()
	if err := domain.ValidateStruct(s.validate, p); err != nil {
		return nil, err
	}

	m := s.model.Load()
	recs := m.rank(p, s.cfg)

	RecommendationsTotal.Inc()
	logger.Debug("recommender_recommend",
		"trace_id", logger.TraceIDFromContext(ctx),
		"strand", p.Strand,
		"stanine", p.Stanine,
		"model_version", m.version,
		"results", len(recs),
	)

	return recs, nil
}

//  Feedback

// SaveStudentData appends one immutable feedback row. It reports false instead of
// aborting so batch callers can carry on with the remaining rows. It never retrains.
func (s *Service) SaveStudentData(ctx context.Context, feedback domain.StudentFeedback) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	row := domain.StudentFeedback{
		Stanine: feedback.Stanine,
		GWA:     feedback.GWA,
		Strand:  domain.NormalizeStrand(feedback.Strand),
		Hobbies: strings.TrimSpace(feedback.Hobbies),
		Course:  strings.TrimSpace(feedback.Course),
		Rating:  domain.NormalizeRating(feedback.Rating),
	}
	if err := domain.ValidateStruct(s.validate, row); err != nil {
		FeedbackSavedTotal.WithLabelValues("invalid").Inc()
		return false, err
	}

	if err := s.feedbackRepo.Insert(ctx, &row); err != nil {
		FeedbackSavedTotal.WithLabelValues("failure").Inc()
		logger.Warn("feedback_save_failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"course", row.Course,
			"error", err,
		)
		return false, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	FeedbackSavedTotal.WithLabelValues("success").Inc()
	return true, nil
}

// SubmitFeedback stores one row per rated course, skipping "skip" and blank ratings,
// and retrains afterwards when configured and at least one row landed.
// Only an invalid profile is returned as an error; row failures are reported per row.
func (s *Service) SubmitFeedback(
	ctx context.Context,
	profile domain.FeedbackProfile,
	ratings map[string]string,
) (domain.FeedbackBatchResult, error) {
	profile.Strand = domain.NormalizeStrand(profile.Strand)
	if err := domain.ValidateStruct(s.validate, profile); err != nil {
		return domain.FeedbackBatchResult{}, err
	}

	courses := make([]string, 0, len(ratings))
	for c := range ratings {
		courses = append(courses, c)
	}
	sort.Strings(courses)

	result := domain.FeedbackBatchResult{Outcomes: make([]domain.FeedbackOutcome, 0, len(courses))}

	for _, course := range courses {
		rating := domain.NormalizeRating(ratings[course])
		outcome := domain.FeedbackOutcome{Course: course, Rating: rating}

		if rating == "" || rating == domain.RatingSkip {
			outcome.Outcome = domain.OutcomeSkipped
			result.Skipped++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		ok, err := s.SaveStudentData(ctx, domain.StudentFeedback{
			Stanine: profile.Stanine,
			GWA:     profile.GWA,
			Strand:  profile.Strand,
			Hobbies: profile.Hobbies,
			Course:  course,
			Rating:  rating,
		})
		if ok {
			outcome.Outcome = domain.OutcomeSaved
			result.Saved++
		} else {
			outcome.Outcome = domain.OutcomeFailed
			outcome.Reason = failureReason(err)
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.Saved > 0 && s.cfg.RetrainAfterSaving {
		if err := s.TrainModel(ctx); err != nil {
			logger.Warn("recommender_retrain_after_feedback_failed",
				"trace_id", logger.TraceIDFromContext(ctx),
				"error", err,
			)
		}
	}

	return result, nil
}

func failureReason(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "could not be saved, please try again later"
}
