package documents

import (
	"context"
	"testing"

	"cash/internal/domain"
	casherrors "cash/pkg/errors"
	"cash/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, contentType string, size int64) *domain.DocumentUpload {
	return &domain.DocumentUpload{
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		Data:        []byte("fake-bytes"),
	}
}

func TestStoreIdentityDocuments(t *testing.T) {
	svc := NewService(10<<20, logger.NewNop())
	ctx := context.Background()

	err := svc.StoreIdentityDocuments(ctx, "john@example.com", domain.IdentityDocuments{
		Front: upload("front.jpg", "image/jpeg", 120_000),
		Back:  upload("back.pdf", "application/pdf", 90_000),
	})
	require.NoError(t, err)

	docs, err := svc.ListByOwner(ctx, "john@example.com")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	sides := map[string]bool{}
	for _, doc := range docs {
		sides[doc.Side] = true
		assert.Equal(t, "john@example.com", doc.OwnerEmail)
		assert.NotEqual(t, uuid.Nil, doc.ID)

		got, err := svc.Get(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.FileName, got.FileName)
	}
	assert.True(t, sides["front"])
	assert.True(t, sides["back"])
}

func TestStoreRejectsMissingSide(t *testing.T) {
	svc := NewService(10<<20, logger.NewNop())

	err := svc.StoreIdentityDocuments(context.Background(), "john@example.com", domain.IdentityDocuments{
		Front: upload("front.jpg", "image/jpeg", 1000),
	})
	assert.ErrorIs(t, err, casherrors.ErrDocumentMissing)
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	svc := NewService(1000, logger.NewNop())

	err := svc.StoreIdentityDocuments(context.Background(), "john@example.com", domain.IdentityDocuments{
		Front: upload("front.jpg", "image/jpeg", 1001),
		Back:  upload("back.jpg", "image/jpeg", 500),
	})
	assert.ErrorIs(t, err, casherrors.ErrFileTooLarge)
}

func TestStoreRejectsDisallowedType(t *testing.T) {
	svc := NewService(10<<20, logger.NewNop())

	err := svc.StoreIdentityDocuments(context.Background(), "john@example.com", domain.IdentityDocuments{
		Front: upload("front.gif", "image/gif", 1000),
		Back:  upload("back.jpg", "image/jpeg", 1000),
	})
	assert.ErrorIs(t, err, casherrors.ErrFileTypeNotAllowed)
}

func TestStoreIsAllOrNothing(t *testing.T) {
	svc := NewService(10<<20, logger.NewNop())
	ctx := context.Background()

	// The back side fails screening, so the valid front side must not be
	// retained either.
	err := svc.StoreIdentityDocuments(ctx, "john@example.com", domain.IdentityDocuments{
		Front: upload("front.jpg", "image/jpeg", 1000),
		Back:  upload("back.exe", "application/octet-stream", 1000),
	})
	require.Error(t, err)

	docs, err := svc.ListByOwner(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestGetUnknownDocument(t *testing.T) {
	svc := NewService(10<<20, logger.NewNop())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, casherrors.ErrDocumentNotFound)
}
