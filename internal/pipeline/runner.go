package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// RunnerResult aggregates a batch run. Cancelled is a property of the
// run, not a failure count: requests interrupted by cancellation are
// never counted as failed.
type RunnerResult struct {
	Processed  int
	Created    int
	Duplicates int
	Failed     int
	Cancelled  bool
}

// RunBatch processes requests strictly one at a time, in order. When
// the shared cancellation signal fires the loop stops; requests not yet
// started are simply left pending for the next run.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []model.Request, hooks *Hooks, onOutcome func(model.Request, Outcome)) RunnerResult {
	var res RunnerResult

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			res.Cancelled = true
			break
		}

		outcome := p.Run(ctx, req, hooks)
		if onOutcome != nil {
			onOutcome(req, outcome)
		}

		if outcome.Status == OutcomeCancelled {
			res.Cancelled = true
			break
		}

		res.Processed++
		switch outcome.Status {
		case OutcomeCreated:
			res.Created++
		case OutcomeDuplicate:
			res.Duplicates++
		case OutcomeFailed:
			res.Failed++
		}
	}

	zap.L().Info("pipeline: batch finished",
		zap.Int("processed", res.Processed),
		zap.Int("created", res.Created),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("failed", res.Failed),
		zap.Bool("cancelled", res.Cancelled),
	)
	return res
}
