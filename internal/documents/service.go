// Package documents stores uploaded identity documents. Files live in
// process memory; nothing is written to disk.
package documents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cash/internal/domain"
	"cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/google/uuid"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// StoredDocument is a retained upload with its assigned id.
type StoredDocument struct {
	ID          uuid.UUID
	OwnerEmail  string
	Side        string
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
	UploadedAt  time.Time
}

type Service struct {
	maxBytes int64

	mu     sync.RWMutex
	stored map[uuid.UUID]*StoredDocument

	logger logger.Logger
}

func NewService(maxBytes int64, log logger.Logger) *Service {
	return &Service{
		maxBytes: maxBytes,
		stored:   make(map[uuid.UUID]*StoredDocument),
		logger:   log,
	}
}

// StoreIdentityDocuments screens and retains both sides of the national ID.
// Either both sides are stored or neither is.
func (s *Service) StoreIdentityDocuments(ctx context.Context, ownerEmail string, docs domain.IdentityDocuments) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sides := []struct {
		side   string
		upload *domain.DocumentUpload
	}{
		{"front", docs.Front},
		{"back", docs.Back},
	}

	for _, d := range sides {
		if err := s.screen(d.side, d.upload); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range sides {
		doc := &StoredDocument{
			ID:          uuid.New(),
			OwnerEmail:  ownerEmail,
			Side:        d.side,
			FileName:    d.upload.FileName,
			ContentType: d.upload.ContentType,
			Size:        d.upload.Size,
			Data:        d.upload.Data,
			UploadedAt:  time.Now(),
		}
		s.stored[doc.ID] = doc

		s.logger.Info("Identity document stored", map[string]interface{}{
			"document_id": doc.ID,
			"owner":       ownerEmail,
			"side":        doc.Side,
			"size":        doc.Size,
		})
	}

	return nil
}

// Get returns a stored document by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.stored[id]
	if !ok {
		return nil, errors.ErrDocumentNotFound
	}
	return doc, nil
}

// ListByOwner returns every document stored for an email address.
func (s *Service) ListByOwner(ctx context.Context, ownerEmail string) ([]*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*StoredDocument
	for _, doc := range s.stored {
		if doc.OwnerEmail == ownerEmail {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *Service) screen(side string, upload *domain.DocumentUpload) error {
	if upload == nil {
		return fmt.Errorf("%w: %s side", errors.ErrDocumentMissing, side)
	}
	if upload.Size > s.maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", errors.ErrFileTooLarge, upload.FileName, upload.Size, s.maxBytes)
	}
	if !allowedContentTypes[upload.ContentType] {
		return fmt.Errorf("%w: %s", errors.ErrFileTypeNotAllowed, upload.ContentType)
	}
	return nil
}
