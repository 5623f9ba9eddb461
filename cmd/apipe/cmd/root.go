package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audio-pipeline/cmd/apipe/cmd/export"
	"audio-pipeline/cmd/apipe/cmd/ingest"
	"audio-pipeline/cmd/apipe/cmd/serve"
	"audio-pipeline/cmd/apipe/cmd/transcribe"
	"audio-pipeline/cmd/apipe/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apipe",
	Short: "Transcribe audio from uploads, a local library or a blob container",
	Long: `Transcribe audio from uploads, a local library or a blob container.
- Route every file to deepgram, whisper.cpp, openai or elevenlabs
- Record audio and transcripts once per distinct content
- Load the application and frontend logs into the database`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(ingest.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
