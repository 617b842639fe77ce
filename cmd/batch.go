package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/internal/pipeline"
	"github.com/verdant-labs/flora-cli/internal/queue"
	"github.com/verdant-labs/flora-cli/internal/store"
)

var (
	batchLimit     int
	batchSkipDrain bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process pending ingestion requests",
	Long:  "Drains the local request queue into the store, then processes pending requests strictly one at a time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if !batchSkipDrain {
			if err := drainLocalQueue(ctx, env.Store); err != nil {
				return err
			}
		}

		reqs, err := env.Store.ListPendingRequests(ctx, batchLimit)
		if err != nil {
			return eris.Wrap(err, "list pending requests")
		}
		if len(reqs) == 0 {
			fmt.Println("no pending requests")
			return nil
		}

		res := env.Pipeline.RunBatch(ctx, reqs, nil, func(req model.Request, outcome pipeline.Outcome) {
			fmt.Printf("  %-30s %s\n", req.Name, outcome.Status)
		})

		fmt.Printf("processed %d: %d created, %d duplicates, %d failed\n",
			res.Processed, res.Created, res.Duplicates, res.Failed)
		if res.Cancelled {
			fmt.Println("interrupted; remaining requests stay pending")
		}
		return nil
	},
}

// drainLocalQueue moves requests captured in the local SQLite queue into
// the store so the batch sees one unified pending set.
func drainLocalQueue(ctx context.Context, st store.Store) error {
	q, err := queue.Open(cfg.Queue.Path)
	if err != nil {
		return eris.Wrap(err, "open local queue")
	}
	defer q.Close()

	pending, err := q.List(ctx, batchLimit)
	if err != nil {
		return eris.Wrap(err, "list local queue")
	}

	for _, req := range pending {
		if err := st.CreateRequest(ctx, req); err != nil {
			zap.L().Warn("drain: create request failed, leaving in local queue",
				zap.String("name", req.Name), zap.Error(err))
			continue
		}
		if err := q.Remove(ctx, req.ID); err != nil {
			zap.L().Warn("drain: remove from local queue failed",
				zap.String("id", req.ID), zap.Error(err))
		}
	}

	if len(pending) > 0 {
		zap.L().Info("local queue drained", zap.Int("requests", len(pending)))
	}
	return nil
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 100, "max number of requests to process")
	batchCmd.Flags().BoolVar(&batchSkipDrain, "skip-drain", false, "do not drain the local queue first")
	rootCmd.AddCommand(batchCmd)
}
