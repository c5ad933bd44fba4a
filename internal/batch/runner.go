// Package batch orchestrates concurrent form submissions: a bounded
// worker pool, staggered browser launches, per-submission isolation
// and the final success/failure tally.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/formswarm/internal/config"
	"github.com/xkilldash9x/formswarm/internal/form"
	"github.com/xkilldash9x/formswarm/internal/respondent"
)

// PageFactory launches a fresh browser-backed page per submission.
// The production implementation is browser.Factory; tests inject a
// scripted one.
type PageFactory interface {
	NewPage(ctx context.Context) (form.Page, error)
}

// Tally is the final count of a batch run.
type Tally struct {
	Successful int
	Failed     int
	Total      int
}

// SuccessRate returns the fraction of submissions that succeeded, in
// percent.
func (t Tally) SuccessRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Successful) / float64(t.Total) * 100
}

// Runner executes a batch of independent submissions. Each submission
// owns its own browser instance, seeded generator and page engine; a
// failure in one never affects its siblings.
type Runner struct {
	cfg     config.Config
	factory PageFactory
	logger  *zap.Logger

	mu    sync.Mutex
	tally Tally
}

func NewRunner(cfg config.Config, factory PageFactory, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		factory: factory,
		logger:  logger.Named("batch"),
	}
}

// Run submits cfg.Batch.Count responses with at most cfg.Batch.Workers
// in flight, staggering browser launches by cfg.Batch.LaunchInterval.
// Submission errors are absorbed at the submission boundary and
// counted; the returned error reports only process-level cancellation.
func (r *Runner) Run(ctx context.Context) (Tally, error) {
	seed := r.cfg.Batch.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.logger.Info("starting batch run",
		zap.Int("count", r.cfg.Batch.Count),
		zap.Int("workers", r.cfg.Batch.Workers),
		zap.Int64("seed", seed))

	limiter := rate.NewLimiter(rate.Every(r.cfg.Batch.LaunchInterval), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Batch.Workers)
	for i := 0; i < r.cfg.Batch.Count; i++ {
		index := i
		g.Go(func() error {
			if err := r.submit(gctx, limiter, index, seed+int64(index)); err != nil {
				r.logger.Error("submission failed", zap.Int("index", index), zap.Error(err))
				r.record(false)
				return nil
			}
			r.record(true)
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	result := r.tally
	r.mu.Unlock()
	r.logger.Info("batch run finished",
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Int("total", result.Total))
	return result, ctx.Err()
}

func (r *Runner) record(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if success {
		r.tally.Successful++
	} else {
		r.tally.Failed++
	}
	r.tally.Total++
}

// submit runs one complete submission: launch, navigate, fill all
// three sections, submit, capture the final-state artifact and close
// the browser no matter how the attempt ended.
func (r *Runner) submit(ctx context.Context, limiter *rate.Limiter, index int, seed int64) error {
	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	id := uuid.NewString()[:8]
	logger := r.logger.With(zap.Int("index", index), zap.String("submission", id))
	logger.Info("submission starting", zap.Int64("seed", seed))

	gen := respondent.NewGenerator(seed)
	user := gen.UserRecord()

	page, err := r.factory.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("launching page: %w", err)
	}
	// Closing must run even when the submission context is already
	// cancelled, so it gets its own deadline.
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := page.Close(closeCtx); err != nil {
			logger.Warn("browser close failed", zap.Error(err))
		}
	}()

	settleScroll := r.cfg.Browser.SettleScroll
	locator := form.NewLocator(page, settleScroll, logger)
	engine := form.NewInteractor(page, locator, gen.RNG(), r.cfg.Form.HonorOptionHint, settleScroll, logger)
	flow := form.NewFlowController(page, r.cfg.Browser.SettleAdvance, r.cfg.Browser.SettleSubmit, logger)

	err = r.fillAndSubmit(ctx, page, engine, flow, gen, user, logger)
	r.captureArtifact(ctx, page, id, logger)
	if err != nil {
		return err
	}
	logger.Info("submission succeeded")
	return nil
}

func (r *Runner) fillAndSubmit(ctx context.Context, page form.Page, engine *form.Interactor, flow *form.FlowController, gen *respondent.Generator, user respondent.UserRecord, logger *zap.Logger) error {
	if err := page.Navigate(ctx, r.cfg.Form.URL); err != nil {
		return err
	}

	if err := r.fillParticipantInfo(ctx, engine, user); err != nil {
		return fmt.Errorf("participant section: %w", err)
	}
	if err := r.advance(ctx, flow, "participant"); err != nil {
		return err
	}

	r.fillQuestionnaire(ctx, engine, respondent.BSQQuestions, bsqSelections(gen), logger)
	if err := r.sweep(ctx, engine, logger); err != nil {
		return fmt.Errorf("body shape section: %w", err)
	}
	if err := r.advance(ctx, flow, "body shape"); err != nil {
		return err
	}

	r.fillQuestionnaire(ctx, engine, respondent.WCBQuestions, gen.WCBAnswers(), logger)
	if err := r.sweep(ctx, engine, logger); err != nil {
		return fmt.Errorf("weight control section: %w", err)
	}

	outcome, err := flow.Submit(ctx)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if !outcome.Succeeded() {
		return fmt.Errorf("submit outcome %s", outcome)
	}
	logger.Info("form submitted", zap.Stringer("outcome", outcome))
	return nil
}

func (r *Runner) fillParticipantInfo(ctx context.Context, engine *form.Interactor, user respondent.UserRecord) error {
	if err := engine.CheckBox(ctx, respondent.ConsentLabel); err != nil {
		return err
	}

	fields := []struct {
		label, value string
	}{
		{respondent.NameLabel, user.DisplayName},
		{respondent.EmailLabel, user.Email},
		{respondent.AgeLabel, user.AgeYears},
		{respondent.LocationLabel, user.CityState},
		{respondent.HeightLabel, user.HeightCm},
		{respondent.WeightLabel, user.WeightKg},
	}
	for _, f := range fields {
		if err := engine.FillText(ctx, f.label, f.value); err != nil {
			return err
		}
	}

	return engine.SelectRadio(ctx, respondent.GenderLabel, user.Gender)
}

// fillQuestionnaire answers each known question individually, in the
// fixed order of the survey definition so the seeded rng draws stay
// reproducible run to run. A miss on one question is logged and
// skipped; the trailing sweep catches anything this pass left
// unanswered.
func (r *Runner) fillQuestionnaire(ctx context.Context, engine *form.Interactor, questions []string, answers map[string]string, logger *zap.Logger) {
	for _, question := range questions {
		answer := answers[question]
		if err := engine.SelectRadio(ctx, question, answer); err != nil {
			logger.Debug("question skipped, deferring to sweep",
				zap.String("question", question), zap.Error(err))
		}
	}
}

func (r *Runner) sweep(ctx context.Context, engine *form.Interactor, logger *zap.Logger) error {
	outcomes, err := engine.FillAllRadiosRandomly(ctx)
	if err != nil {
		return err
	}
	answered := 0
	for _, o := range outcomes {
		if o.HadRadios && o.Err == nil {
			answered++
		}
	}
	logger.Info("section sweep done", zap.Int("items", len(outcomes)), zap.Int("answered", answered))
	return nil
}

func (r *Runner) advance(ctx context.Context, flow *form.FlowController, section string) error {
	advanced, err := flow.AdvanceSection(ctx)
	if err != nil {
		return fmt.Errorf("advancing past %s section: %w", section, err)
	}
	if !advanced {
		return fmt.Errorf("no next control after %s section", section)
	}
	return nil
}

// bsqSelections maps the generated 1-6 scale answers to the option
// texts the interaction layer matches against.
func bsqSelections(gen *respondent.Generator) map[string]string {
	answers := gen.BSQAnswers()
	selections := make(map[string]string, len(answers))
	for question, value := range answers {
		selections[question] = form.LikertLabel(value)
	}
	return selections
}

// captureArtifact saves a full-page screenshot of the final state,
// success or failure. Best effort; a missed artifact never fails the
// submission.
func (r *Runner) captureArtifact(ctx context.Context, page form.Page, id string, logger *zap.Logger) {
	dir := r.cfg.Batch.ScreenshotDir
	if dir == "" {
		return
	}
	buf, err := page.Screenshot(ctx)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("screenshot dir creation failed", zap.Error(err))
		return
	}
	path := filepath.Join(dir, "submission_"+id+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		logger.Warn("screenshot write failed", zap.Error(err))
		return
	}
	logger.Debug("final state captured", zap.String("path", path))
}
