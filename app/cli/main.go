// Package main implements the advisor CLI: the same engines as the HTTP server,
// driven from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"admissionAdvisor/app/bootstrap"
	"admissionAdvisor/business/recommender"
	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/config"
	"admissionAdvisor/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	// asJSON switches every command to JSON output
	asJSON  bool
	timeout time.Duration
	version = "dev"

	profileStanine int
	profileGWA     float64
	profileStrand  string
	profileHobbies string

	ratings      map[string]string
	refreshCache bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// userError logs err in full and returns only the message an end user may see.
func userError(command string, err error) error {
	logger.Error("command_failed", "command", command, "error", err)
	return errors.New(domain.UserMessage(err))
}

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Course recommendations and admission FAQ answers",
	Long: `advisor runs the course recommender and the FAQ matcher against the
configured database, using the same .env configuration as the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall command timeout")

	for _, cmd := range []*cobra.Command{recommendCmd, feedbackCmd} {
		cmd.Flags().IntVar(&profileStanine, "stanine", 0, "aptitude stanine (1-9)")
		cmd.Flags().Float64Var(&profileGWA, "gwa", 0, "general weighted average (75-100)")
		cmd.Flags().StringVar(&profileStrand, "strand", "", "senior high school strand, e.g. STEM")
		cmd.Flags().StringVar(&profileHobbies, "hobbies", "", "free-text interests")
	}
	feedbackCmd.Flags().StringToStringVar(&ratings, "rate", nil, "course=rating pairs (good, neutral, bad, skip)")
	askCmd.Flags().BoolVar(&refreshCache, "refresh", false, "drop any cached answer before asking")

	catalogCmd.AddCommand(catalogSeedCmd)
	rootCmd.AddCommand(recommendCmd, feedbackCmd, retrainCmd, askCmd, faqsCmd, catalogCmd)
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank courses for a student profile",
	Long: `Rank every catalog course for a student profile, best first.

Examples:
  advisor recommend --stanine 7 --gwa 90 --strand STEM --hobbies "coding, robotics"`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record course ratings for a profile and retrain",
	Long: `Record one rating per course for a student profile. "skip" ratings are not stored.

Examples:
  advisor feedback --stanine 7 --gwa 90 --strand STEM --rate BSCS=good --rate BSIT=skip`,
	Args: cobra.NoArgs,
	RunE: runFeedback,
}

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Rebuild the recommender model from all stored feedback",
	Args:  cobra.NoArgs,
	RunE:  runRetrain,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer an admission question",
	Long: `Answer an admission question from the FAQ bank, falling back to the
external assistant when no curated entry is a confident match.

Examples:
  advisor ask "what are the admission requirements?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var faqsCmd = &cobra.Command{
	Use:   "faqs",
	Short: "List the active FAQ entries",
	Args:  cobra.NoArgs,
	RunE:  runFAQs,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the course catalog table",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in catalog into the courses table",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSeed,
}

// setup loads configuration and builds the engines for one command.
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *bootstrap.Engines, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitWithWriter(cfg.App.Environment, cmd.ErrOrStderr())

	engines, err := bootstrap.New(cfg)
	if err != nil {
		return nil, nil, nil, userError(cmd.Name(), fmt.Errorf("%w: %w", domain.ErrPersistence, err))
	}

	ctx := logger.WithTraceID(cmd.Context(), "cli-"+uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		engines.Close()
	}, engines, nil
}

func currentProfile() domain.StudentProfile {
	return domain.StudentProfile{
		Stanine: profileStanine,
		GWA:     profileGWA,
		Strand:  profileStrand,
		Hobbies: profileHobbies,
	}
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := engines.Recommender.TrainModel(ctx); err != nil {
		logger.Warn("Model training failed, ranking on content only", "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", domain.UserMessage(err))
	}

	recs, err := engines.Recommender.RecommendCourses(ctx, currentProfile())
	if err != nil {
		return userError(cmd.Name(), err)
	}
	return printRecommendations(cmd.OutOrStdout(), recs, asJSON)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if len(ratings) == 0 {
		return fmt.Errorf("at least one --rate course=rating is required")
	}

	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	p := currentProfile()
	result, err := engines.Recommender.SubmitFeedback(ctx, domain.FeedbackProfile{
		Stanine: p.Stanine,
		GWA:     p.GWA,
		Strand:  p.Strand,
		Hobbies: p.Hobbies,
	}, ratings)
	if err != nil {
		return userError(cmd.Name(), err)
	}
	return printFeedbackResult(cmd.OutOrStdout(), result, asJSON)
}

func runRetrain(cmd *cobra.Command, args []string) error {
	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	if err := engines.Recommender.TrainModel(ctx); err != nil {
		return userError(cmd.Name(), err)
	}
	return printJSONOr(cmd.OutOrStdout(), engines.Recommender.ModelInfo(), asJSON, func(w io.Writer) {
		info := engines.Recommender.ModelInfo()
		fmt.Fprintf(w, "model v%d trained at %s from %d feedback rows over %d courses\n",
			info.Version, info.TrainedAt, info.FeedbackRows, info.CatalogSize)
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	question := strings.Join(args, " ")
	if refreshCache && engines.AnswerCache != nil {
		if err := engines.AnswerCache.Forget(ctx, normalizeForCache(question)); err != nil {
			logger.Warn("Failed to drop cached answer", "error", err)
		}
	}

	res, err := engines.Matcher.Answer(ctx, question)
	if err != nil {
		return userError(cmd.Name(), err)
	}
	return printMatch(cmd.OutOrStdout(), res, asJSON)
}

func runFAQs(cmd *cobra.Command, args []string) error {
	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	faqs, err := engines.Matcher.Questions(ctx)
	if err != nil {
		return userError(cmd.Name(), err)
	}
	return printJSONOr(cmd.OutOrStdout(), faqs, asJSON, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tORDER\tQUESTION")
		for _, f := range faqs {
			fmt.Fprintf(tw, "%d\t%d\t%s\n", f.ID, f.SortOrder, f.Question)
		}
		tw.Flush()
	})
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	ctx, done, engines, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	for i, c := range recommender.DefaultCatalog() {
		row, err := domain.NewCourseRow(c, i+1)
		if err != nil {
			return fmt.Errorf("failed to encode course %s: %w", c.Code, err)
		}
		if err := engines.Courses.Upsert(ctx, &row); err != nil {
			return userError(cmd.Name(), fmt.Errorf("%w: %w", domain.ErrPersistence, err))
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d courses\n", len(recommender.DefaultCatalog()))
	return nil
}
