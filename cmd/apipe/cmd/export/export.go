package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"audio-pipeline/cmd/apipe/cmd/common"
	"audio-pipeline/internal/app"
	"audio-pipeline/internal/app/export"
)

var outputFilePath string
var limit int

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "export only the newest N transcripts (0 exports all)")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded transcripts to excel",
	Long: `Export recorded transcripts to excel

- One row per distinct transcript, newest first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closeLogger, err := common.Setup(cmd, common.Options{})
		if err != nil {
			return err
		}
		defer closeLogger()

		store, cleanup, err := app.InitializeStore(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		transcriptions, err := store.ListTranscriptions(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(transcriptions, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d rows, exported file path: %v\n", len(transcriptions), outputFilePath)
		return nil
	},
}
