// Package bootstrap wires configuration, storage and the two engines for the
// HTTP server and the CLI.
package bootstrap

import (
	"admissionAdvisor/business/faq"
	"admissionAdvisor/business/recommender"
	"admissionAdvisor/domain"
	"admissionAdvisor/internal/repository/inference"
	psqlRepo "admissionAdvisor/internal/repository/postgres"
	redisRepo "admissionAdvisor/internal/repository/redis"
	"admissionAdvisor/pkg/config"
	"admissionAdvisor/pkg/database"
	redisdb "admissionAdvisor/pkg/database/redis"
	"admissionAdvisor/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Engines struct {
	Recommender *recommender.Service
	Matcher     *faq.Matcher
	Inference   *inference.GradioClient
	Courses     *psqlRepo.CourseRepository
	AnswerCache *redisRepo.AnswerCache

	db    *gorm.DB
	redis *goredis.Client
}

func RecommenderConfig(cfg config.RecommenderConfig) recommender.Config {
	rc := recommender.DefaultConfig()
	rc.GWATolerance = cfg.GWATolerance
	rc.CollabSaturation = cfg.CollabSaturation
	rc.CollabPriorWeight = cfg.CollabPriorWeight
	rc.RetrainAfterSaving = cfg.RetrainAfterSaving
	return rc
}

func FAQConfig(cfg config.FAQConfig) faq.Config {
	fc := faq.DefaultConfig()
	fc.ConfidenceThreshold = cfg.ConfidenceThreshold
	fc.MaxSuggestions = cfg.MaxSuggestions
	fc.PersistLearned = cfg.PersistLearned
	fc.PublishLearned = cfg.PublishLearned
	fc.BankCacheTTL = cfg.BankCacheTTL
	return fc
}

// New connects to the database (required) and Redis (optional) and builds the
// engines. The recommender starts on its content-only bootstrap model; callers
// decide when to train.
func New(cfg *config.Config) (*Engines, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected successfully", "driver", cfg.Database.Driver)

	e := &Engines{db: db}

	// Init repo
	feedbackRepo := psqlRepo.NewFeedbackRepository(db)
	faqRepo := psqlRepo.NewFAQRepository(db)
	e.Courses = psqlRepo.NewCourseRepository(db)

	var catalogRepo recommender.CatalogRepository
	if cfg.Recommender.CatalogFromDatabase {
		catalogRepo = e.Courses
	}

	e.Inference = inference.NewGradioClient(inference.GradioConfig{
		BaseURL:         cfg.Inference.BaseURL,
		APIName:         cfg.Inference.APIName,
		Token:           cfg.Inference.Token,
		Timeout:         cfg.Inference.Timeout,
		RatePerSec:      cfg.Inference.RatePerSec,
		Burst:           cfg.Inference.Burst,
		BreakerTrips:    cfg.Inference.BreakerTrips,
		BreakerCooldown: cfg.Inference.BreakerCooldown,
	})

	opts := []faq.Option{faq.WithLearnedStore(faqRepo)}
	if cfg.Redis.Enabled() {
		client, err := redisdb.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, answer cache disabled", "error", err)
		} else {
			e.redis = client
			e.AnswerCache = redisRepo.NewAnswerCache(client, cfg.Redis.AnswerTTL)
			opts = append(opts, faq.WithAnswerCache(e.AnswerCache))
			logger.Info("Redis connected successfully")
		}
	}

	// Init service
	e.Recommender = recommender.NewService(feedbackRepo, catalogRepo, domain.NewValidator(), RecommenderConfig(cfg.Recommender))
	e.Matcher = faq.NewMatcher(faqRepo, e.Inference, FAQConfig(cfg.FAQ), opts...)

	return e, nil
}

func (e *Engines) Close() {
	if err := redisdb.CloseRedisClient(e.redis); err != nil {
		logger.Error("Failed to close Redis", "error", err)
	}
	if err := database.Close(e.db); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
