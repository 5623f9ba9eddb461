package blob

import (
	"context"
	"io"
	"net/http"

	apperrors "audio-pipeline/internal/app/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the connection settings of an S3 compatible container.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Container string
	UseSSL    bool
	Region    string
}

// MinioStore implements Store using MinIO
type MinioStore struct {
	client    *minio.Client
	container string
}

// NewMinioStore creates a new MinIO backed store. The container must already exist.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.ErrNoBlobStore
	}
	if cfg.Container == "" {
		return nil, apperrors.WithKind(apperrors.KindBackendUnavailable, apperrors.ErrMissingConfig, "container name")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, apperrors.WithKind(apperrors.KindBackendUnavailable, err, "failed to create MinIO client")
	}

	return &MinioStore{client: client, container: cfg.Container}, nil
}

// Open fetches an object. The first request is issued by Stat so a missing key is reported here.
func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.container, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, classify(err, name)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, classify(err, name)
	}

	return obj, info.Size, nil
}

// List returns all object names of the container.
func (s *MinioStore) List(ctx context.Context) ([]string, error) {
	var names []string
	for object := range s.client.ListObjects(ctx, s.container, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, apperrors.WithKind(apperrors.KindBackendUnavailable, object.Err, "failed to list container %q", s.container)
		}
		names = append(names, object.Key)
	}
	return names, nil
}

// classify maps a MinIO failure onto the pipeline's error kinds.
func classify(err error, name string) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchObject" || resp.StatusCode == http.StatusNotFound:
		return apperrors.WithKind(apperrors.KindNotFound, err, "blob %q not found", name)
	default:
		return apperrors.WithKind(apperrors.KindBackendUnavailable, err, "failed to fetch blob %q", name)
	}
}
