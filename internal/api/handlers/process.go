package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"audio-pipeline/internal/api/dto"
	"audio-pipeline/internal/api/errors"
	"audio-pipeline/internal/api/middleware"
	"audio-pipeline/internal/app/api/provider"
	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/orchestrator"
	"audio-pipeline/internal/app/util/files"
)

// BatchRunner runs one batch of audio references.
type BatchRunner interface {
	Run(ctx context.Context, b orchestrator.Batch) (*orchestrator.BatchResult, error)
}

// AreaManager owns per-batch directories in the working area.
type AreaManager interface {
	OpenArea(namespace string) (string, error)
	CloseArea(namespace string) error
}

// ProcessHandler handles POST /api/process-audio.
type ProcessHandler struct {
	runner BatchRunner
	areas  AreaManager
	logger *zap.Logger
}

func NewProcessHandler(runner BatchRunner, areas AreaManager, logger *zap.Logger) *ProcessHandler {
	return &ProcessHandler{runner: runner, areas: areas, logger: logger}
}

// Process accepts either a JSON body naming files or a multipart upload.
// @Summary Transcribe a batch of audio files
// @Description Transcribes local, remote or uploaded audio files with one backend
// @Tags Transcription
// @Accept json,mpfd
// @Produce json
// @Param request body dto.ProcessAudioRequest true "Files to transcribe"
// @Success 200 {array} model.ItemResult
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /api/process-audio [post]
// With the abort policy the first failure becomes the whole response.
// With the isolate policy every file gets an entry, failed ones carry "error".
func (h *ProcessHandler) Process(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.processUpload(c)
		return
	}

	var req dto.ProcessAudioRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	policy, err := requestPolicy(req.Policy)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	source := model.SourceLocal
	if req.IsAzure {
		source = model.SourceRemote
	}
	refs := lo.Map(req.Files, func(name string, _ int) model.AudioReference {
		return model.AudioReference{Filename: name, Source: source}
	})

	h.run(c, orchestrator.Batch{Backend: req.Model, Items: refs, Policy: policy})
}

func (h *ProcessHandler) processUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("invalid multipart form: "+err.Error()))
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		middleware.HandleError(c, apperrors.ErrEmptyBatch)
		return
	}

	policy, err := requestPolicy(c.PostForm("policy"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	backendName := c.PostForm("model")
	if strings.TrimSpace(backendName) != "" {
		if _, err := provider.ParseBackendID(backendName); err != nil {
			middleware.HandleError(c, err)
			return
		}
	}

	batchID := uuid.NewString()
	area, err := h.areas.OpenArea(batchID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer func() {
		if err := h.areas.CloseArea(batchID); err != nil {
			h.logger.Warn("failed to remove upload area", zap.String("batch", batchID), zap.Error(err))
		}
	}()

	refs := make([]model.AudioReference, 0, len(uploads))
	for _, fh := range uploads {
		name := filepath.Base(fh.Filename)
		if !files.IsSafeName(name) {
			middleware.HandleError(c, apperrors.InvalidField("filename", fh.Filename))
			return
		}
		if err := c.SaveUploadedFile(fh, filepath.Join(area, name)); err != nil {
			middleware.HandleError(c, apperrors.Wrapf(err, "failed to save upload %q", name))
			return
		}
		refs = append(refs, model.AudioReference{Filename: name, Source: model.SourceUpload})
	}

	h.run(c, orchestrator.Batch{ID: batchID, Backend: backendName, Items: refs, Policy: policy})
}

// requestPolicy leaves the policy empty when the client names none, so the runner's default applies.
func requestPolicy(s string) (orchestrator.Policy, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return orchestrator.ParsePolicy(s)
}

func (h *ProcessHandler) run(c *gin.Context, batch orchestrator.Batch) {
	result, err := h.runner.Run(c.Request.Context(), batch)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Items)
}
