package documents

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medivault/api/internal/platform/filestore"
)

type Service struct {
	repo   Repository
	files  filestore.Store
	logger zerolog.Logger
}

func NewService(repo Repository, files filestore.Store, logger zerolog.Logger) *Service {
	return &Service{repo: repo, files: files, logger: logger}
}

// UploadInput carries the file part and metadata of a document upload.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Content      io.Reader
	Metadata     Document
}

// Upload writes the file to storage, validates the metadata, and persists
// the row. If validation or persistence fails after the file was written,
// the orphaned file is removed.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput) (*Document, error) {
	storedName, size, err := s.files.Save(ctx, in.OriginalName, in.ContentType, in.Content)
	if err != nil {
		return nil, err
	}

	doc := in.Metadata
	doc.UserID = userID
	doc.FileName = in.OriginalName
	doc.FilePath = storedName
	doc.FileSize = strconv.FormatInt(size, 10)
	doc.MimeType = in.ContentType
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if err := doc.Validate(); err != nil {
		s.removeFile(ctx, storedName)
		return nil, err
	}
	if err := s.repo.Create(ctx, &doc); err != nil {
		s.removeFile(ctx, storedName)
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return &doc, nil
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Document, error) {
	return s.repo.List(ctx, userID, limit)
}

func (s *Service) Get(ctx context.Context, id int, userID string) (*Document, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) Search(ctx context.Context, userID, query string) ([]*Document, error) {
	return s.repo.Search(ctx, userID, query)
}

func (s *Service) ListByType(ctx context.Context, userID, documentType string) ([]*Document, error) {
	if !ValidTypes[documentType] {
		return nil, &ValidationError{Fields: map[string]string{
			"documentType": fmt.Sprintf("invalid document type: %s", documentType),
		}}
	}
	return s.repo.ListByType(ctx, userID, documentType)
}

// OpenFile streams a stored file back, but only if the caller owns the
// document it belongs to.
func (s *Service) OpenFile(ctx context.Context, storedName, userID string) (io.ReadCloser, *Document, error) {
	doc, err := s.repo.GetByStoredName(ctx, storedName, userID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	return rc, doc, nil
}

// Delete removes the row and then best-effort removes the stored file.
// File removal failure is logged, not surfaced.
func (s *Service) Delete(ctx context.Context, id int, userID string) error {
	doc, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.removeFile(ctx, doc.FilePath)
	return nil
}

func (s *Service) removeFile(ctx context.Context, storedName string) {
	if err := s.files.Delete(ctx, storedName); err != nil {
		s.logger.Warn().Err(err).Str("file", storedName).Msg("failed to remove stored file")
	}
}
