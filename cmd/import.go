package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/importer"
	"github.com/verdant-labs/flora-cli/internal/queue"
)

var (
	importFile  string
	importSheet string
	importSkip  int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import ingestion requests from a CSV or XLSX file",
	Long:  "Reads plant names (first column) and optional requesters (second column) into the local queue.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reqs, err := importer.ReadRequests(importFile, importer.Options{
			SheetName: importSheet,
			SkipRows:  importSkip,
		})
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			return eris.Errorf("no requests found in %s", importFile)
		}

		q, err := queue.Open(cfg.Queue.Path)
		if err != nil {
			return eris.Wrap(err, "open local queue")
		}
		defer q.Close()

		added := 0
		for _, req := range reqs {
			if _, err := q.Add(ctx, req); err != nil {
				zap.L().Warn("import: queue add failed",
					zap.String("name", req.Name), zap.Error(err))
				continue
			}
			added++
		}

		zap.L().Info("import complete",
			zap.Int("added", added),
			zap.Int("rows", len(reqs)),
			zap.String("file", importFile),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to CSV or XLSX file (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	importCmd.Flags().IntVar(&importSkip, "skip", 0, "header rows to skip")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
