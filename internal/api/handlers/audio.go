package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"audio-pipeline/internal/app/storage/blob"
	"audio-pipeline/internal/app/util/files"
)

// AudioHandler serves audio bytes to browsers and to hosted backends fetching by URL.
type AudioHandler struct {
	workRoot   string
	libraryDir string
	blobs      blob.Store
	logger     *zap.Logger
}

// NewAudioHandler creates an audio handler. blobs may be nil.
func NewAudioHandler(workRoot, libraryDir string, blobs blob.Store, logger *zap.Logger) *AudioHandler {
	return &AudioHandler{workRoot: workRoot, libraryDir: libraryDir, blobs: blobs, logger: logger}
}

// ServeLocal handles GET /audio/*filename.
// The path may name a file inside a batch namespace ("<batch>/<file>"). The working area
// is searched first, then the local library.
func (h *AudioHandler) ServeLocal(c *gin.Context) {
	rel, ok := cleanRelPath(c.Param("filename"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid audio path"})
		return
	}

	for _, root := range []string{h.workRoot, h.libraryDir} {
		if root == "" {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		if files.IsRegularFile(path) {
			c.File(path)
			return
		}
	}

	h.logger.Warn("audio not found", zap.String("filename", rel))
	c.JSON(http.StatusNotFound, gin.H{"error": "audio file not found: " + rel})
}

// ServeRemote handles GET /azure-audio/:filename by streaming from the blob store.
func (h *AudioHandler) ServeRemote(c *gin.Context) {
	name := c.Param("filename")
	if h.blobs == nil || !files.IsSafeName(name) {
		c.String(http.StatusNotFound, "Audio not found")
		return
	}

	body, size, err := h.blobs.Open(c.Request.Context(), name)
	if err != nil {
		h.logger.Warn("error serving remote audio", zap.String("filename", name), zap.Error(err))
		c.String(http.StatusNotFound, "Audio not found")
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, size, "audio/mpeg", body, nil)
}

// cleanRelPath accepts slash separated relative paths without "." or ".." elements.
func cleanRelPath(raw string) (string, bool) {
	rel := strings.TrimPrefix(raw, "/")
	if rel == "" || strings.ContainsRune(rel, 0) || strings.Contains(rel, `\`) {
		return "", false
	}
	for _, part := range strings.Split(rel, "/") {
		if !files.IsSafeName(part) {
			return "", false
		}
	}
	return rel, true
}

// FilesHandler lists the audio available from the library and the blob store.
type FilesHandler struct {
	libraryDir string
	blobs      blob.Store
	logger     *zap.Logger
}

func NewFilesHandler(libraryDir string, blobs blob.Store, logger *zap.Logger) *FilesHandler {
	return &FilesHandler{libraryDir: libraryDir, blobs: blobs, logger: logger}
}

// ListLocal handles GET /api/local-files.
// @Summary List local audio files
// @Tags Files
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} errors.APIError
// @Router /api/local-files [get]
func (h *FilesHandler) ListLocal(c *gin.Context) {
	names, err := files.ListAudioFileNames(h.libraryDir)
	if err != nil {
		h.logger.Error("error reading local files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(names))
}

// ListRemote handles GET /api/azure-files.
// @Summary List remote audio files
// @Tags Files
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} errors.APIError
// @Router /api/azure-files [get]
func (h *FilesHandler) ListRemote(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remote blob store is not configured"})
		return
	}
	names, err := blob.ListAudio(c.Request.Context(), h.blobs)
	if err != nil {
		h.logger.Error("error fetching remote files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(names))
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
