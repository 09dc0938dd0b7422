package testutil

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	"github.com/socialdesk/socialdesk/internal/types"
)

// InMemoryPhoneNumberStore implements whatsapp.PhoneNumberRepository
type InMemoryPhoneNumberStore struct {
	*InMemoryStore[*whatsapp.PhoneNumber]
}

func NewInMemoryPhoneNumberStore() *InMemoryPhoneNumberStore {
	return &InMemoryPhoneNumberStore{
		InMemoryStore: NewInMemoryStore[*whatsapp.PhoneNumber](),
	}
}

func phoneNumberFilterFn(ctx context.Context, n *whatsapp.PhoneNumber, filter interface{}) bool {
	if n == nil {
		return false
	}
	f, ok := filter.(*types.WhatsAppPhoneNumberFilter)
	if !ok {
		return CheckTenantFilter(ctx, n.TenantID) && n.Status == types.StatusPublished
	}
	if !f.AllTenants && !CheckTenantFilter(ctx, n.TenantID) {
		return false
	}
	if !CheckStatusFilter(f.QueryFilter, n.Status) {
		return false
	}
	if f.WorkspaceID != "" && n.WorkspaceID != f.WorkspaceID {
		return false
	}
	return f.PhoneNumberID == "" || n.PhoneNumberID == f.PhoneNumberID
}

func (s *InMemoryPhoneNumberStore) Create(ctx context.Context, n *whatsapp.PhoneNumber) error {
	if _, err := s.GetByPhoneNumberID(ctx, n.PhoneNumberID); err == nil {
		return alreadyExists("phone number", n.PhoneNumberID)
	}
	return s.InMemoryStore.Create(ctx, n.ID, n)
}

func (s *InMemoryPhoneNumberStore) Get(ctx context.Context, id string) (*whatsapp.PhoneNumber, error) {
	n, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, n.TenantID) || n.Status != types.StatusPublished {
		return nil, notFound(id)
	}
	return n, nil
}

func (s *InMemoryPhoneNumberStore) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*whatsapp.PhoneNumber, error) {
	n, ok := s.Find(func(n *whatsapp.PhoneNumber) bool {
		return n.PhoneNumberID == phoneNumberID && n.Status == types.StatusPublished
	})
	if !ok {
		return nil, notFound(phoneNumberID)
	}
	return n, nil
}

func (s *InMemoryPhoneNumberStore) List(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) ([]*whatsapp.PhoneNumber, error) {
	return s.InMemoryStore.List(ctx, filter, phoneNumberFilterFn, func(i, j *whatsapp.PhoneNumber) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemoryPhoneNumberStore) Count(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, phoneNumberFilterFn)
}

func (s *InMemoryPhoneNumberStore) Delete(ctx context.Context, id string) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n.Status = types.StatusDeleted
	return nil
}

// InMemoryWATemplateStore implements whatsapp.TemplateRepository
type InMemoryWATemplateStore struct {
	*InMemoryStore[*whatsapp.Template]
}

func NewInMemoryWATemplateStore() *InMemoryWATemplateStore {
	return &InMemoryWATemplateStore{
		InMemoryStore: NewInMemoryStore[*whatsapp.Template](),
	}
}

func templateFilterFn(ctx context.Context, t *whatsapp.Template, filter interface{}) bool {
	if t == nil || !CheckTenantFilter(ctx, t.TenantID) {
		return false
	}
	f, ok := filter.(*types.WhatsAppTemplateFilter)
	if !ok {
		return t.Status == types.StatusPublished
	}
	if !CheckStatusFilter(f.QueryFilter, t.Status) {
		return false
	}
	if f.PhoneNumberID != "" && t.PhoneNumberID != f.PhoneNumberID {
		return false
	}
	return f.Name == "" || t.Name == f.Name
}

// Upsert keeps the stored id of an existing (phone_number_id, name, language) row
func (s *InMemoryWATemplateStore) Upsert(ctx context.Context, t *whatsapp.Template) error {
	existing, ok := s.Find(func(e *whatsapp.Template) bool {
		return e.PhoneNumberID == t.PhoneNumberID && e.Name == t.Name && e.Language == t.Language
	})
	if !ok {
		return s.InMemoryStore.Create(ctx, t.ID, t)
	}

	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	t.Status = types.StatusPublished
	return s.InMemoryStore.Update(ctx, t.ID, t)
}

func (s *InMemoryWATemplateStore) List(ctx context.Context, filter *types.WhatsAppTemplateFilter) ([]*whatsapp.Template, error) {
	return s.InMemoryStore.List(ctx, filter, templateFilterFn, func(i, j *whatsapp.Template) bool {
		return i.Name < j.Name
	})
}

func (s *InMemoryWATemplateStore) Count(ctx context.Context, filter *types.WhatsAppTemplateFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, templateFilterFn)
}

func (s *InMemoryWATemplateStore) MarkStaleDeleted(ctx context.Context, phoneNumberID string, syncedAt time.Time) (int64, error) {
	tenantID := types.GetTenantID(ctx)
	var n int64
	s.Each(func(t *whatsapp.Template) {
		if t.TenantID == tenantID && t.PhoneNumberID == phoneNumberID &&
			t.SyncedAt.Before(syncedAt) && t.Status == types.StatusPublished {
			t.Status = types.StatusDeleted
			n++
		}
	})
	return n, nil
}

// InMemoryWAMessageStore implements whatsapp.MessageRepository
type InMemoryWAMessageStore struct {
	*InMemoryStore[*whatsapp.Message]
}

func NewInMemoryWAMessageStore() *InMemoryWAMessageStore {
	return &InMemoryWAMessageStore{
		InMemoryStore: NewInMemoryStore[*whatsapp.Message](),
	}
}

func messageFilterFn(ctx context.Context, m *whatsapp.Message, filter interface{}) bool {
	if m == nil {
		return false
	}
	f, ok := filter.(*types.WhatsAppMessageFilter)
	if !ok {
		return CheckTenantFilter(ctx, m.TenantID) && m.Status == types.StatusPublished
	}
	if !f.AllTenants && !CheckTenantFilter(ctx, m.TenantID) {
		return false
	}
	if !CheckStatusFilter(f.QueryFilter, m.Status) {
		return false
	}
	if f.PhoneNumberID != "" && m.PhoneNumberID != f.PhoneNumberID {
		return false
	}
	if f.Contact != "" && m.From != f.Contact && m.To != f.Contact {
		return false
	}
	if f.Direction != nil && m.Direction != *f.Direction {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && m.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && m.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func (s *InMemoryWAMessageStore) Create(ctx context.Context, m *whatsapp.Message) error {
	if m.WAMessageID != "" {
		if _, err := s.GetByWAMessageID(ctx, m.WAMessageID); err == nil {
			return alreadyExists("whatsapp message", m.WAMessageID)
		}
	}
	return s.InMemoryStore.Create(ctx, m.ID, m)
}

func (s *InMemoryWAMessageStore) GetByWAMessageID(ctx context.Context, waMessageID string) (*whatsapp.Message, error) {
	m, ok := s.Find(func(m *whatsapp.Message) bool { return m.WAMessageID == waMessageID })
	if !ok {
		return nil, notFound(waMessageID)
	}
	return m, nil
}

func (s *InMemoryWAMessageStore) List(ctx context.Context, filter *types.WhatsAppMessageFilter) ([]*whatsapp.Message, error) {
	asc := filter != nil && filter.GetOrder() == types.OrderAsc
	return s.InMemoryStore.List(ctx, filter, messageFilterFn, func(i, j *whatsapp.Message) bool {
		if asc {
			return i.CreatedAt.Before(j.CreatedAt)
		}
		return i.CreatedAt.After(j.CreatedAt)
	})
}

func (s *InMemoryWAMessageStore) Count(ctx context.Context, filter *types.WhatsAppMessageFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, messageFilterFn)
}

func (s *InMemoryWAMessageStore) Update(ctx context.Context, m *whatsapp.Message) error {
	m.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, m.ID, m)
}

func (s *InMemoryWAMessageStore) CountOutboundSince(ctx context.Context, since time.Time) (int, error) {
	tenantID := types.GetTenantID(ctx)
	return s.InMemoryStore.Count(ctx, nil, func(ctx context.Context, m *whatsapp.Message, _ interface{}) bool {
		return m.TenantID == tenantID &&
			m.Direction == types.WhatsAppMessageOutbound &&
			m.Status == types.StatusPublished &&
			!m.CreatedAt.Before(since)
	})
}
