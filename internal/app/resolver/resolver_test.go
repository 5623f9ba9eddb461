package resolver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobs struct {
	objects map[string]string
	openErr error
}

func (f *fakeBlobs) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	if f.openErr != nil {
		return nil, 0, f.openErr
	}
	body, ok := f.objects[name]
	if !ok {
		return nil, 0, apperrors.NotFound("blob", name)
	}
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

func (f *fakeBlobs) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.objects))
	for name := range f.objects {
		names = append(names, name)
	}
	return names, nil
}

func setup(t *testing.T) (work, library string) {
	t.Helper()
	root := t.TempDir()
	work = filepath.Join(root, "work")
	library = filepath.Join(root, "library")
	require.NoError(t, os.MkdirAll(work, 0o755))
	require.NoError(t, os.MkdirAll(library, 0o755))
	return work, library
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve_PrefersWorkingAreaOverLibrary(t *testing.T) {
	work, library := setup(t)
	write(t, filepath.Join(work, "batch-1", "a.mp3"), "staged-bytes")
	write(t, filepath.Join(library, "a.mp3"), "stale-library-bytes")

	r := New(work, library, nil, nil)
	staged, err := r.Resolve(context.Background(), "batch-1", model.AudioReference{Filename: "a.mp3", Source: model.SourceLocal})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(work, "batch-1", "a.mp3"), staged.LocalPath)
	assert.Equal(t, "upload:a.mp3", staged.Origin)
	assert.False(t, staged.Owned)
	got, err := os.ReadFile(staged.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "staged-bytes", string(got), "staging must not be overwritten by a library match")
}

func TestResolve_SharedRootBeforeLibrary(t *testing.T) {
	work, library := setup(t)
	write(t, filepath.Join(work, "a.mp3"), "uploaded")
	write(t, filepath.Join(library, "a.mp3"), "library")

	r := New(work, library, nil, nil)
	staged, err := r.Resolve(context.Background(), "batch-1", model.AudioReference{Filename: "a.mp3", Source: model.SourceUpload})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(work, "a.mp3"), staged.LocalPath)
	assert.Equal(t, "a.mp3", staged.RelPath)
	assert.Equal(t, staged.LocalPath, staged.Origin)
	assert.False(t, staged.Owned)
}

func TestResolve_CopiesFromLibrary(t *testing.T) {
	work, library := setup(t)
	write(t, filepath.Join(library, "sample.wav"), "library-bytes")

	r := New(work, library, nil, nil)
	staged, err := r.Resolve(context.Background(), "batch-2", model.AudioReference{Filename: "sample.wav", Source: model.SourceLocal})
	require.NoError(t, err)

	assert.True(t, staged.Owned)
	assert.Equal(t, "batch-2/sample.wav", staged.RelPath)
	assert.Equal(t, filepath.Join(library, "sample.wav"), staged.Origin)
	assert.Equal(t, int64(len("library-bytes")), staged.ByteLength)

	require.NoError(t, r.Release(staged))
	_, err = os.Stat(staged.LocalPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(library, "sample.wav"))
	assert.NoError(t, err, "library copy must survive release")
}

func TestResolve_NotFound(t *testing.T) {
	work, library := setup(t)
	r := New(work, library, nil, nil)

	_, err := r.Resolve(context.Background(), "batch-3", model.AudioReference{Filename: "missing.mp3", Source: model.SourceLocal})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolve_RejectsUnsafeNames(t *testing.T) {
	work, library := setup(t)
	write(t, filepath.Join(filepath.Dir(work), "secret.mp3"), "x")
	r := New(work, library, nil, nil)

	_, err := r.Resolve(context.Background(), "", model.AudioReference{Filename: "../secret.mp3"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolve_Remote(t *testing.T) {
	work, library := setup(t)
	write(t, filepath.Join(library, "r.mp3"), "library")
	blobs := &fakeBlobs{objects: map[string]string{"r.mp3": "remote-bytes"}}

	r := New(work, library, blobs, nil)
	staged, err := r.Resolve(context.Background(), "batch-4", model.AudioReference{Filename: "r.mp3", Source: model.SourceRemote})
	require.NoError(t, err)
	assert.True(t, staged.Owned)
	assert.Equal(t, "blob:r.mp3", staged.Origin)

	got, err := os.ReadFile(staged.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "remote-bytes", string(got))
}

func TestResolve_RemoteFailures(t *testing.T) {
	work, library := setup(t)
	ctx := context.Background()
	ref := model.AudioReference{Filename: "r.mp3", Source: model.SourceRemote}

	t.Run("missing key", func(t *testing.T) {
		r := New(work, library, &fakeBlobs{objects: map[string]string{}}, nil)
		_, err := r.Resolve(ctx, "b", ref)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("store unreachable", func(t *testing.T) {
		r := New(work, library, &fakeBlobs{openErr: errors.New("connection refused")}, nil)
		_, err := r.Resolve(ctx, "b", ref)
		assert.True(t, apperrors.IsKind(err, apperrors.KindBackendUnavailable))
	})

	t.Run("no store configured", func(t *testing.T) {
		r := New(work, library, nil, nil)
		_, err := r.Resolve(ctx, "b", ref)
		assert.True(t, apperrors.IsKind(err, apperrors.KindBackendUnavailable))
	})
}

func TestRelease_KeepsResidentFiles(t *testing.T) {
	work, _ := setup(t)
	path := filepath.Join(work, "keep.mp3")
	write(t, path, "mine")

	r := New(work, "", nil, nil)
	require.NoError(t, r.Release(&model.StagedFile{LocalPath: path, Owned: false}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAreaLifecycle(t *testing.T) {
	work, _ := setup(t)
	r := New(work, "", nil, nil)

	dir, err := r.OpenArea("batch-x")
	require.NoError(t, err)
	write(t, filepath.Join(dir, "left.mp3"), "x")

	require.NoError(t, r.CloseArea("batch-x"))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
