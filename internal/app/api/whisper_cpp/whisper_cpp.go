package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/audio"
	"audio-pipeline/internal/app/util/files"
)

// LocalProviderConfig represents configuration specific to local whisper.cpp provider
type LocalProviderConfig struct {
	BinaryPath string        `yaml:"binary_path"`
	ModelPath  string        `yaml:"model_path"`
	Language   string        `yaml:"language"`
	Timeout    time.Duration `yaml:"-"`
}

// Model is the validated, read-only handle to one binary/model pair.
// It is created at most once per pair and shared by every transcriber.
type Model struct {
	BinaryPath string
	ModelPath  string
}

type modelSlot struct {
	once  sync.Once
	model *Model
	err   error
}

var (
	modelsMu sync.Mutex
	models   = map[string]*modelSlot{}
)

// LoadModel validates binary and model paths once per process and returns the shared handle.
func LoadModel(binaryPath, modelPath string) (*Model, error) {
	key := binaryPath + "\x00" + modelPath

	modelsMu.Lock()
	slot, ok := models[key]
	if !ok {
		slot = &modelSlot{}
		models[key] = slot
	}
	modelsMu.Unlock()

	slot.once.Do(func() {
		if binaryPath == "" || modelPath == "" {
			slot.err = fmt.Errorf("whisper.cpp requires both binary_path and model_path")
			return
		}
		info, err := os.Stat(binaryPath)
		if err != nil {
			slot.err = fmt.Errorf("whisper.cpp binary: %w", err)
			return
		}
		if info.Mode()&0111 == 0 {
			slot.err = fmt.Errorf("whisper.cpp binary is not executable: %s", binaryPath)
			return
		}
		if !files.IsRegularFile(modelPath) {
			slot.err = fmt.Errorf("whisper.cpp model not found: %s", modelPath)
			return
		}
		slot.model = &Model{BinaryPath: binaryPath, ModelPath: modelPath}
	})
	return slot.model, slot.err
}

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	config LocalProviderConfig
	logger *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config LocalProviderConfig, logger *zap.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "auto"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{config: config, logger: logger}
}

// TranscriptWithOptions converts the input to 16kHz WAV when needed and runs whisper.cpp on it.
func (lt *LocalTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	m, err := LoadModel(lt.config.BinaryPath, lt.config.ModelPath)
	if err != nil {
		return nil, provider.Unavailable(provider.BackendWhisper, "model_unavailable", err, "whisper.cpp model is not available")
	}

	if !files.IsRegularFile(request.InputFilePath) {
		return nil, provider.Failed(provider.BackendWhisper, "file_not_found", nil,
			fmt.Sprintf("input file not found: %s", request.InputFilePath))
	}

	ctx, cancel := context.WithTimeout(ctx, lt.config.Timeout)
	defer cancel()

	workDir, err := os.MkdirTemp("", "whisper-cpp-*")
	if err != nil {
		return nil, provider.Failed(provider.BackendWhisper, "temp_dir_error", err, "failed to create temp directory")
	}
	defer os.RemoveAll(workDir)

	inputFilePath := request.InputFilePath
	is16kHzWav, err := audio.Is16kHzWavFile(inputFilePath)
	if err != nil {
		return nil, provider.Failed(provider.BackendWhisper, "audio_check_error", err, "error checking input file")
	}
	if !is16kHzWav {
		lt.logger.Debug("converting input to 16kHz wav", zap.String("file", request.FileName))
		inputFilePath, err = audio.ConvertTo16kHzWav(ctx, inputFilePath, workDir)
		if err != nil {
			return nil, provider.Failed(provider.BackendWhisper, "audio_conversion_error", err, "error converting input file")
		}
	}

	language := lt.config.Language
	if request.Language != "" {
		language = request.Language
	}

	outputFile := filepath.Join(workDir, "transcript")
	args := []string{
		"-m", m.ModelPath,
		"-l", language,
		"-nt",
		"-otxt",
		"-f", inputFilePath,
		"-of", outputFile,
	}

	command := exec.CommandContext(ctx, m.BinaryPath, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr

	lt.logger.Debug("running whisper.cpp",
		zap.String("command", m.BinaryPath+" "+strings.Join(args, " ")))

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, provider.Failed(provider.BackendWhisper, "transcription_failed",
			fmt.Errorf("%w, stderr: %s", err, strings.TrimSpace(stderr.String())), "whisper.cpp failed")
	}

	output, err := files.ReadOutputFile(outputFile + ".txt")
	if err != nil {
		return nil, provider.Failed(provider.BackendWhisper, "output_missing", err, "failed to read output file")
	}

	return &provider.TranscriptionResponse{
		Text:           strings.TrimSpace(output),
		Language:       language,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      m.ModelPath,
	}, nil
}

// GetProviderInfo returns metadata about the whisper.cpp provider
func (lt *LocalTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:           provider.BackendWhisper,
		DisplayName:    "Whisper.cpp (on-device)",
		Type:           provider.ProviderTypeLocal,
		DefaultModel:   "ggml-base.bin",
		RequiresBinary: true,
	}
}

// ValidateConfiguration loads the shared model handle
func (lt *LocalTranscriber) ValidateConfiguration() error {
	_, err := LoadModel(lt.config.BinaryPath, lt.config.ModelPath)
	return err
}

// HealthCheck reports whether the model handle is usable
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	return lt.ValidateConfiguration()
}
