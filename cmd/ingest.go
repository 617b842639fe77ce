package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/internal/pipeline"
)

var ingestRequester string

var ingestCmd = &cobra.Command{
	Use:   "ingest <name>",
	Short: "Ingest a single plant by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.Request{
			Name:      args[0],
			Requester: ingestRequester,
		}

		outcome := env.Pipeline.Run(ctx, req, progressHooks())

		switch outcome.Status {
		case pipeline.OutcomeCreated:
			fmt.Printf("created %s (%s)\n", req.Name, outcome.PlantID)
		case pipeline.OutcomeDuplicate:
			fmt.Printf("duplicate: %s already exists as %s\n", req.Name, outcome.PlantID)
		case pipeline.OutcomeCancelled:
			fmt.Println("cancelled")
		case pipeline.OutcomeFailed:
			return eris.Errorf("ingest %s: %s", req.Name, outcome.Message)
		}
		return nil
	},
}

// progressHooks prints per-stage progress to the terminal.
func progressHooks() *pipeline.Hooks {
	return &pipeline.Hooks{
		StageStart: func(stage string) {
			fmt.Printf("  %s...\n", stage)
		},
		SectionDone: func(section string, err error) {
			if err != nil {
				fmt.Printf("    section %s: failed\n", section)
				return
			}
			fmt.Printf("    section %s: ok\n", section)
		},
		ImageSourceDone: func(source string, found int, err error) {
			if err != nil {
				fmt.Printf("    %s: error\n", source)
				return
			}
			fmt.Printf("    %s: %d found\n", source, found)
		},
	}
}

func init() {
	ingestCmd.Flags().StringVar(&ingestRequester, "requester", "", "who asked for this record")
	rootCmd.AddCommand(ingestCmd)
}
