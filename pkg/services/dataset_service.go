// Package services implements the business logic between HTTP handlers and
// repositories: dataset registration, the question-to-result pipeline, and
// tenant prompt settings.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/repositories"
	"github.com/wilco-ai/wilco-engine/pkg/routing"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// DatasetUpload is one incoming file to register.
type DatasetUpload struct {
	Filename string
	Content  io.Reader
}

// DatasetService manages uploaded dataset files and their records.
type DatasetService interface {
	Upload(ctx context.Context, upload DatasetUpload) (*models.Dataset, error)
	List(ctx context.Context) ([]*models.Dataset, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LoadFrames(ctx context.Context, datasets []*models.Dataset) ([]*tabular.Frame, error)
	TouchLastUsed(ctx context.Context, ids []uuid.UUID) error
}

type datasetService struct {
	repo           repositories.DatasetRepository
	loader         *tabular.Loader
	router         *routing.Router
	dataDir        string
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewDatasetService(
	repo repositories.DatasetRepository,
	loader *tabular.Loader,
	router *routing.Router,
	dataDir string,
	maxUploadBytes int64,
	logger *zap.Logger,
) DatasetService {
	return &datasetService{
		repo:           repo,
		loader:         loader,
		router:         router,
		dataDir:        dataDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("dataset-service"),
	}
}

var _ DatasetService = (*datasetService)(nil)

// ErrUploadTooLarge is returned when an uploaded file exceeds the
// configured size limit.
var ErrUploadTooLarge = errors.New("uploaded file exceeds the size limit")

func (s *datasetService) Upload(ctx context.Context, upload DatasetUpload) (*models.Dataset, error) {
	tenantID, err := auth.RequireTenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(upload.Content, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxUploadBytes {
		return nil, ErrUploadTooLarge
	}

	hash := sha256.Sum256(content)
	contentHash := hex.EncodeToString(hash[:])

	storedPath, err := s.storeFile(tenantID, contentHash, upload.Filename, content)
	if err != nil {
		return nil, err
	}

	// Parse once at upload time so format problems surface immediately
	// and the winning encoding and delimiter can be recorded.
	result, err := s.loader.Load(storedPath)
	if err != nil {
		s.removeFile(storedPath)
		return nil, err
	}

	frame := result.Frame
	columns := make([]models.Column, 0, frame.ColumnCount())
	for _, name := range frame.Columns() {
		columns = append(columns, models.Column{Name: name, Kind: models.ColumnKind(frame.Kind(name))})
	}

	dataset := &models.Dataset{
		TenantID:         tenantID,
		Name:             frame.Name(),
		OriginalFilename: upload.Filename,
		StoredPath:       storedPath,
		ContentHash:      contentHash,
		UploadedBy:       auth.GetUserIDFromContext(ctx),
		SizeBytes:        int64(len(content)),
		RowCount:         frame.RowCount(),
		ColumnCount:      frame.ColumnCount(),
		Columns:          columns,
		Domain:           s.router.DatasetDomain(frame.Name()),
		Encoding:         result.Encoding,
		Delimiter:        result.Delimiter,
	}

	if err := s.repo.Create(ctx, dataset); err != nil {
		s.removeFile(storedPath)
		return nil, err
	}

	s.logger.Info("Dataset registered",
		zap.String("dataset_id", dataset.ID.String()),
		zap.String("name", dataset.Name),
		zap.String("domain", dataset.Domain),
		zap.Int("rows", dataset.RowCount),
		zap.String("encoding", dataset.Encoding))

	return dataset, nil
}

func (s *datasetService) List(ctx context.Context) ([]*models.Dataset, error) {
	return s.repo.List(ctx)
}

func (s *datasetService) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *datasetService) GetMany(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *datasetService) TouchLastUsed(ctx context.Context, ids []uuid.UUID) error {
	return s.repo.TouchLastUsed(ctx, ids)
}

func (s *datasetService) Delete(ctx context.Context, id uuid.UUID) error {
	dataset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeFile(dataset.StoredPath)

	s.logger.Info("Dataset deleted",
		zap.String("dataset_id", id.String()),
		zap.String("name", dataset.Name))

	return nil
}

// LoadFrames re-parses the stored files of the given datasets. Frames are
// rebuilt per request rather than cached; dataset files are small enough
// that parse time is dominated by generation latency.
func (s *datasetService) LoadFrames(ctx context.Context, datasets []*models.Dataset) ([]*tabular.Frame, error) {
	frames := make([]*tabular.Frame, 0, len(datasets))
	for _, dataset := range datasets {
		result, err := s.loader.Load(dataset.StoredPath)
		if err != nil {
			// A dataset that no longer parses is dropped from this
			// request rather than failing it; routing reconciliation
			// reports it missing if the question needed it.
			var formatErr *tabular.FormatError
			if errors.As(err, &formatErr) {
				s.logger.Warn("Dataset excluded from request",
					zap.String("dataset_id", dataset.ID.String()),
					zap.String("name", dataset.Name),
					zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("failed to load dataset %s: %w", dataset.Name, err)
		}
		frames = append(frames, result.Frame)
	}
	return frames, nil
}

// storeFile writes the upload under a content-addressed directory while
// keeping the original filename, which the loader uses to name the frame.
func (s *datasetService) storeFile(tenantID uuid.UUID, contentHash, filename string, content []byte) (string, error) {
	dir := filepath.Join(s.dataDir, tenantID.String(), contentHash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dataset directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store dataset file: %w", err)
	}
	return path, nil
}

func (s *datasetService) removeFile(path string) {
	if err := os.RemoveAll(filepath.Dir(path)); err != nil {
		s.logger.Warn("Failed to remove dataset file",
			zap.String("path", path),
			zap.Error(err))
	}
}
