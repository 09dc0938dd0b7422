package testutil

import (
	"context"
	"sync"

	"github.com/socialdesk/socialdesk/internal/s3"
)

var _ s3.Service = (*InMemoryS3)(nil)

// InMemoryS3 keeps uploaded documents by key
type InMemoryS3 struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewInMemoryS3() *InMemoryS3 {
	return &InMemoryS3{docs: make(map[string][]byte)}
}

func (m *InMemoryS3) UploadDocument(ctx context.Context, document *s3.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := s3.InvoiceObjectKey("", document.TenantID, document.ID)
	if document.Type == s3.DocumentTypeMedia {
		key = "media/" + document.TenantID + "/" + document.ID
	}
	m.docs[key] = document.Data
	return key, nil
}

func (m *InMemoryS3) GetPresignedUrl(ctx context.Context, key string, docType s3.DocumentType) (string, error) {
	return "https://s3.test/" + key, nil
}

func (m *InMemoryS3) GetDocument(ctx context.Context, key string, docType s3.DocumentType) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, notFound(key)
	}
	return data, nil
}

func (m *InMemoryS3) Exists(ctx context.Context, key string, docType s3.DocumentType) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.docs[key]
	return ok, nil
}
