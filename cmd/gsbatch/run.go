package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gsbatch/internal/assignment"
	"gsbatch/internal/batch"
	"gsbatch/internal/browser"
	"gsbatch/internal/config"
	"gsbatch/internal/history"
	"gsbatch/internal/locator"
	"gsbatch/internal/report"
	"gsbatch/internal/wizard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sign in and create every assignment in the input file",
	Long: `Loads the assignment JSON, signs in to Gradescope, and walks each
assignment through the creation wizard. One assignment failing does not
stop the rest; the final summary lists what was created and what was not.

Missing settings (email, course URL, input file, password) are requested
interactively.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if err := fillMissingSettings(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	password := os.Getenv("GS_PASSWORD")
	if password == "" {
		password, err = promptPassword("GS password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}
	if password == "" {
		return errors.New("no password given")
	}

	specs, err := assignment.LoadFile(cfg.Input.Path)
	if err != nil {
		return err
	}
	logger.Info("input loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("assignments", len(specs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	mgr := browser.NewManager(browser.Config{
		DebuggerURL:         cfg.Browser.DebuggerURL,
		Bin:                 cfg.Browser.Bin,
		ExtraFlags:          cfg.Browser.ExtraFlags,
		Headless:            cfg.Browser.Headless,
		ViewportWidth:       cfg.Browser.ViewportWidth,
		ViewportHeight:      cfg.Browser.ViewportHeight,
		NavigationTimeoutMs: cfg.Browser.NavigationTimeoutMs,
	}, logger.Named("browser"))
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer mgr.Shutdown()

	page, err := mgr.Page()
	if err != nil {
		return err
	}

	reg := locator.NewRegistry(cfg.FindTimeout())
	w := wizard.New(page, browser.SystemClipboard{}, reg, logger.Named("wizard"), wizard.Config{
		BaseURL:   cfg.Course.BaseURL,
		CourseURL: cfg.Course.CourseURL,
		Settle:    cfg.Settle(),
		Commit:    cfg.Commit(),
	})

	if err := w.Login(ctx, wizard.Credentials{Email: cfg.Course.Email, Password: password}); err != nil {
		return err
	}
	if err := w.OpenAssignments(ctx); err != nil {
		return err
	}

	ctrl := batch.NewController(w, logger.Named("batch"))
	ctrl.Pace = cfg.Pace()
	b := ctrl.Run(ctx, specs)

	fmt.Println(report.Summary(b))

	if cfg.History.Enabled {
		recordHistory(cfg, b)
	}
	return nil
}

// fillMissingSettings prompts for whatever neither the config file nor
// the environment provided.
func fillMissingSettings(cfg *config.Config) error {
	var err error
	if cfg.Course.Email == "" {
		if cfg.Course.Email, err = promptLine("GS email: "); err != nil {
			return err
		}
	}
	if cfg.Course.CourseURL == "" {
		if cfg.Course.CourseURL, err = promptLine("Course URL (e.g. https://www.gradescope.com/courses/123456): "); err != nil {
			return err
		}
	}
	if cfg.Input.Path == "" {
		if cfg.Input.Path, err = promptLine("Assignment JSON file: "); err != nil {
			return err
		}
	}
	return nil
}

// recordHistory journals the batch. It deliberately uses a fresh context:
// an interrupted run should still be recorded.
func recordHistory(cfg *config.Config, b report.Batch) {
	s, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history database unavailable", zap.Error(err))
		return
	}
	defer s.Close()

	id, err := s.RecordRun(context.Background(), cfg.Course.CourseURL, b)
	if err != nil {
		logger.Warn("run not journaled", zap.Error(err))
		return
	}
	logger.Info("run journaled", zap.String("run_id", id), zap.String("db", s.Path()))
}
