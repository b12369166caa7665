package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned when the trigger configuration is invalid
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// ReceiptCleaner removes stored receipt PDFs older than a given age.
// Both the filesystem and the S3 receipt storages satisfy it.
type ReceiptCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// RetentionTriggerConfig holds configuration for the receipt retention trigger
type RetentionTriggerConfig struct {
	// Retention is the maximum age of a stored receipt PDF
	Retention time.Duration

	// RunHour and RunMinute select the local time of the daily sweep
	RunHour   int
	RunMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultRetentionTriggerConfig returns the default configuration: a 30 day
// retention swept at 03:00 every day.
func DefaultRetentionTriggerConfig() RetentionTriggerConfig {
	return RetentionTriggerConfig{
		Retention:     30 * 24 * time.Hour,
		RunHour:       3,
		RunMinute:     0,
		CheckInterval: time.Minute,
	}
}

// Validate checks the configuration
func (c RetentionTriggerConfig) Validate() error {
	switch {
	case c.Retention <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("retention must be positive"))
	case c.RunHour < 0 || c.RunHour > 23:
		return errors.Join(ErrInvalidConfig, errors.New("run hour must be between 0 and 23"))
	case c.RunMinute < 0 || c.RunMinute > 59:
		return errors.Join(ErrInvalidConfig, errors.New("run minute must be between 0 and 59"))
	case c.CheckInterval <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("check interval must be positive"))
	}
	return nil
}

// RetentionTrigger sweeps expired receipt PDFs once a day
type RetentionTrigger struct {
	config  RetentionTriggerConfig
	cleaner ReceiptCleaner
	logger  *zap.Logger
	now     func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewRetentionTrigger creates a new retention trigger
func NewRetentionTrigger(config RetentionTriggerConfig, cleaner ReceiptCleaner, logger *zap.Logger) (*RetentionTrigger, error) {
	if cleaner == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("cleaner is required"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionTrigger{
		config:  config,
		cleaner: cleaner,
		logger:  logger.Named("retention"),
		now:     time.Now,
	}, nil
}

// Start starts the trigger loop. Calling Start on a running trigger is a no-op.
func (r *RetentionTrigger) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.runLoop(ctx)

	r.logger.Info("Retention trigger started",
		zap.Duration("retention", r.config.Retention),
		zap.Int("run_hour", r.config.RunHour),
		zap.Int("run_minute", r.config.RunMinute),
		zap.Duration("check_interval", r.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger and waits for an in-flight sweep to finish
func (r *RetentionTrigger) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Retention trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the trigger loop is active
func (r *RetentionTrigger) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

func (r *RetentionTrigger) runLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the sweep when the wall clock has reached the
// configured time and no sweep has run today yet.
func (r *RetentionTrigger) checkAndTrigger(ctx context.Context) bool {
	now := r.now()
	currentDate := now.Format("2006-01-02")

	if now.Hour() < r.config.RunHour ||
		(now.Hour() == r.config.RunHour && now.Minute() < r.config.RunMinute) {
		return false
	}

	r.mu.Lock()
	if r.lastRunDate == currentDate {
		r.mu.Unlock()
		return false
	}
	r.lastRunDate = currentDate
	r.mu.Unlock()

	_, _ = r.RunOnce(ctx)
	return true
}

// RunOnce performs a single sweep immediately and returns the number of
// removed receipts
func (r *RetentionTrigger) RunOnce(ctx context.Context) (int, error) {
	start := r.now()
	removed, err := r.cleaner.CleanupOlderThan(ctx, r.config.Retention)
	if err != nil {
		r.logger.Error("Receipt retention sweep failed",
			zap.Int("removed", removed),
			zap.Error(err),
		)
		return removed, err
	}
	r.logger.Info("Receipt retention sweep completed",
		zap.Int("removed", removed),
		zap.Duration("elapsed", r.now().Sub(start)),
	)
	return removed, nil
}
