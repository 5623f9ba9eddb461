package transcribe

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-pipeline/cmd/apipe/cmd/common"
	"audio-pipeline/internal/app"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/progress"
	"audio-pipeline/internal/app/util/files"
)

var (
	backendName  string
	remote       bool
	all          bool
	workers      int
	policy       string
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&backendName, "model", "m", "", "backend: deepgram, whisper, openai, elevenlabs (default from config)")
	Cmd.Flags().BoolVarP(&remote, "remote", "r", false, "fetch the files from the blob container")
	Cmd.Flags().BoolVarP(&all, "all", "a", false, "transcribe every audio file of LOCAL_FOLDER_PATH, oldest first")
	Cmd.Flags().IntVarP(&workers, "workers", "w", 0, "items in flight (default BATCH_WORKERS)")
	Cmd.Flags().StringVar(&policy, "policy", "", "failure policy: abort or isolate (default BATCH_FAILURE_POLICY)")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [file...]",
	Short: "Transcribe files from the local library or the blob container",
	Long: `Transcribe files from the local library or the blob container

- Files are looked up in WORK_DIR, then LOCAL_FOLDER_PATH, or in the container with --remote
- Results are printed as JSON in submission order
- Audio and transcripts are recorded in DB_CONN_STR`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLogger, err := common.Setup(cmd, common.Options{LogToFile: true, Quiet: true})
		if err != nil {
			return err
		}
		defer closeLogger()

		names := args
		if all {
			library, err := files.GetAllAudioFiles(cfg.LocalFolderPath)
			if err != nil {
				return err
			}
			names = lo.Map(library, func(f model.FileInfo, _ int) string { return f.Name })
		}
		names = lo.Uniq(names)
		if len(names) == 0 {
			return fmt.Errorf("no files to transcribe")
		}

		if workers > 0 {
			cfg.BatchWorkers = workers
		}
		if policy != "" {
			cfg.FailurePolicy = policy
		}

		source := model.SourceLocal
		if remote {
			source = model.SourceRemote
		}
		refs := lo.Map(names, func(name string, _ int) model.AudioReference {
			return model.AudioReference{Filename: name, Source: source}
		})

		pm := progress.NewManager(progress.Config{Enabled: progress.ShouldShowProgress(showProgress)})
		bar := pm.CreateBar(len(refs), "transcribing")

		orch, cleanup, err := app.InitializeOrchestrator(cfg, logger, bar.Hook())
		if err != nil {
			pm.Shutdown()
			return err
		}
		defer cleanup()

		result, err := orch.RunBatch(cmd.Context(), backendName, refs)
		bar.Complete()
		pm.Wait()
		if err != nil {
			logger.Error("batch failed", zap.Error(err))
			return err
		}

		logger.Info("batch finished",
			zap.String("batch_id", result.BatchID),
			zap.String("backend", string(result.Backend)),
			zap.Int("items", len(result.Items)),
			zap.Int("failed", result.Failed()))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Items); err != nil {
			return err
		}
		if n := result.Failed(); n > 0 {
			return fmt.Errorf("%d of %d files failed", n, len(result.Items))
		}
		return nil
	},
}
