// Package batch runs a list of assignment specs through a creator one at
// a time, pacing attempts so the target application is never hammered.
// One attempt's failure never stops the ones after it; only context
// cancellation ends a run early.
package batch

import (
	"context"
	"time"

	"gsbatch/internal/assignment"
	"gsbatch/internal/pause"
	"gsbatch/internal/report"

	"go.uber.org/zap"
)

// DefaultPace spaces consecutive attempts.
const DefaultPace = 2 * time.Second

// Creator turns one spec into an attempt report. wizard.Wizard is the
// production implementation.
type Creator interface {
	Create(ctx context.Context, spec assignment.Spec) report.Attempt
}

// Controller runs batches against one creator.
type Controller struct {
	creator Creator
	log     *zap.Logger

	// Pace is the delay between consecutive attempts. There is no delay
	// after the last one.
	Pace time.Duration
}

// NewController wires a controller to the creator doing the page work.
func NewController(creator Creator, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{creator: creator, log: log, Pace: DefaultPace}
}

// Run creates every spec in order and collects the attempts. Cancellation
// is honored between attempts, never in the middle of one, so the page is
// not left on a half-filled form.
func (c *Controller) Run(ctx context.Context, specs []assignment.Spec) report.Batch {
	b := report.NewBatch()
	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			c.log.Warn("batch stopped early",
				zap.Int("remaining", len(specs)-i),
				zap.Error(err))
			break
		}

		c.log.Info("batch attempt",
			zap.Int("index", i+1),
			zap.Int("total", len(specs)),
			zap.String("name", spec.Name))
		b.Add(c.creator.Create(ctx, spec))

		if i < len(specs)-1 {
			pause.Sleep(ctx, c.Pace)
		}
	}
	b.Finish()
	return b
}
