package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/internal/queue"
)

var (
	requestRequester string
	requestLocal     bool
	requestLimit     int
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Manage pending ingestion requests",
}

var requestAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Queue a plant name for ingestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := model.Request{
			ID:        uuid.New().String(),
			Name:      args[0],
			Requester: requestRequester,
			CreatedAt: time.Now().UTC(),
		}

		// --local queues into SQLite without needing the database; the
		// next batch run drains it into the store.
		if requestLocal {
			q, err := queue.Open(cfg.Queue.Path)
			if err != nil {
				return eris.Wrap(err, "open local queue")
			}
			defer q.Close()

			if _, err := q.Add(ctx, req); err != nil {
				return err
			}
			fmt.Printf("queued locally: %s (%s)\n", req.Name, req.ID)
			return nil
		}

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		if err := st.CreateRequest(ctx, req); err != nil {
			return eris.Wrap(err, "create request")
		}
		fmt.Printf("queued: %s (%s)\n", req.Name, req.ID)
		return nil
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if requestLocal {
			q, err := queue.Open(cfg.Queue.Path)
			if err != nil {
				return eris.Wrap(err, "open local queue")
			}
			defer q.Close()

			reqs, err := q.List(ctx, requestLimit)
			if err != nil {
				return err
			}
			printRequests(reqs)
			return nil
		}

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		reqs, err := st.ListPendingRequests(ctx, requestLimit)
		if err != nil {
			return eris.Wrap(err, "list pending requests")
		}
		printRequests(reqs)
		return nil
	},
}

func printRequests(reqs []model.Request) {
	if len(reqs) == 0 {
		fmt.Println("no pending requests")
		return
	}
	for _, r := range reqs {
		requester := r.Requester
		if requester == "" {
			requester = "-"
		}
		fmt.Printf("%s  %-30s %-20s %s\n", r.ID, r.Name, requester, r.CreatedAt.Format(time.RFC3339))
	}
}

func init() {
	requestCmd.PersistentFlags().BoolVar(&requestLocal, "local", false, "use the local SQLite queue instead of the store")
	requestAddCmd.Flags().StringVar(&requestRequester, "requester", "", "who asked for this record")
	requestListCmd.Flags().IntVar(&requestLimit, "limit", 100, "max requests to list")
	requestCmd.AddCommand(requestAddCmd)
	requestCmd.AddCommand(requestListCmd)
	rootCmd.AddCommand(requestCmd)
}
