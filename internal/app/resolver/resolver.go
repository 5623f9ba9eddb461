// Package resolver stages audio bytes from wherever they live into the local working area.
package resolver

import (
	"context"
	"os"
	"path/filepath"

	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/storage/blob"
	"audio-pipeline/internal/app/util/files"

	"go.uber.org/zap"
)

// Resolver turns an AudioReference into a StagedFile.
//
// Lookup order for non-remote references:
//  1. the batch area (<workRoot>/<namespace>/<filename>), used as-is
//  2. the shared working root (<workRoot>/<filename>), used as-is
//  3. the local library, copied into the batch area
//
// Remote references are always fetched from the blob store into the batch area.
type Resolver struct {
	workRoot   string
	libraryDir string
	blobs      blob.Store
	logger     *zap.Logger
}

// New creates a Resolver. blobs may be nil when no remote store is configured.
func New(workRoot, libraryDir string, blobs blob.Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		workRoot:   workRoot,
		libraryDir: libraryDir,
		blobs:      blobs,
		logger:     logger.Named("resolver"),
	}
}

// WorkRoot returns the root of the working area.
func (r *Resolver) WorkRoot() string {
	return r.workRoot
}

// LibraryDir returns the local library path, possibly empty.
func (r *Resolver) LibraryDir() string {
	return r.libraryDir
}

// Blobs returns the configured remote store, or nil.
func (r *Resolver) Blobs() blob.Store {
	return r.blobs
}

// OpenArea creates the batch namespace directory and returns its path.
func (r *Resolver) OpenArea(namespace string) (string, error) {
	dir := filepath.Join(r.workRoot, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrapf(err, "failed to create working area %q", dir)
	}
	return dir, nil
}

// CloseArea removes the batch namespace and everything left inside it.
func (r *Resolver) CloseArea(namespace string) error {
	if namespace == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(r.workRoot, namespace))
}

// Resolve stages ref inside the namespace's area.
func (r *Resolver) Resolve(ctx context.Context, namespace string, ref model.AudioReference) (*model.StagedFile, error) {
	if !files.IsSafeName(ref.Filename) {
		return nil, apperrors.WithKind(apperrors.KindInvalidInput, apperrors.ErrInvalidName, "resolve %q", ref.Filename)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ref.Source == model.SourceRemote {
		return r.fetchRemote(ctx, namespace, ref.Filename)
	}

	areaPath := filepath.Join(r.workRoot, namespace, ref.Filename)
	if info, err := os.Stat(areaPath); err == nil && info.Mode().IsRegular() {
		r.logger.Debug("using resident file", zap.String("filename", ref.Filename), zap.String("path", areaPath))
		return r.staged(ref.Filename, namespace, areaPath, "upload:"+ref.Filename, info.Size(), false), nil
	}

	if namespace != "" {
		rootPath := filepath.Join(r.workRoot, ref.Filename)
		if info, err := os.Stat(rootPath); err == nil && info.Mode().IsRegular() {
			r.logger.Debug("using shared upload", zap.String("filename", ref.Filename), zap.String("path", rootPath))
			return r.staged(ref.Filename, "", rootPath, rootPath, info.Size(), false), nil
		}
	}

	if r.libraryDir != "" {
		libPath := filepath.Join(r.libraryDir, ref.Filename)
		if files.IsRegularFile(libPath) {
			n, err := files.CopyFile(libPath, areaPath)
			if err != nil {
				return nil, apperrors.Wrapf(err, "failed to stage %q from library", ref.Filename)
			}
			r.logger.Debug("staged from library", zap.String("filename", ref.Filename), zap.Int64("bytes", n))
			return r.staged(ref.Filename, namespace, areaPath, libPath, n, true), nil
		}
	}

	return nil, apperrors.NotFound("audio file", ref.Filename)
}

// Release removes the staged bytes if the pipeline owns them.
func (r *Resolver) Release(staged *model.StagedFile) error {
	if staged == nil || !staged.Owned {
		return nil
	}
	if err := os.Remove(staged.LocalPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *Resolver) fetchRemote(ctx context.Context, namespace, filename string) (*model.StagedFile, error) {
	if r.blobs == nil {
		return nil, apperrors.ErrNoBlobStore
	}

	body, _, err := r.blobs.Open(ctx, filename)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, err
		}
		return nil, apperrors.WithKind(apperrors.KindBackendUnavailable, err, "remote fetch of %q", filename)
	}
	defer body.Close()

	areaPath := filepath.Join(r.workRoot, namespace, filename)
	n, err := files.WriteAtomic(areaPath, body)
	if err != nil {
		return nil, apperrors.WithKind(apperrors.KindBackendUnavailable, err, "remote fetch of %q", filename)
	}

	r.logger.Debug("staged from blob store", zap.String("filename", filename), zap.Int64("bytes", n))
	return r.staged(filename, namespace, areaPath, "blob:"+filename, n, true), nil
}

func (r *Resolver) staged(filename, namespace, localPath, origin string, size int64, owned bool) *model.StagedFile {
	return &model.StagedFile{
		Filename:   filename,
		LocalPath:  localPath,
		RelPath:    filepath.ToSlash(filepath.Join(namespace, filename)),
		Origin:     origin,
		ByteLength: size,
		Owned:      owned,
	}
}
