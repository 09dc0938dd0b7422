package postgres

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/domain/whatsapp"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/types"
)

type whatsAppPhoneNumberRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewWhatsAppPhoneNumberRepository(db *postgres.DB, log *logger.Logger) whatsapp.PhoneNumberRepository {
	return &whatsAppPhoneNumberRepository{db: db, log: log}
}

func (r *whatsAppPhoneNumberRepository) Create(ctx context.Context, n *whatsapp.PhoneNumber) error {
	query := `
		INSERT INTO whatsapp_phone_numbers (
			id, tenant_id, workspace_id, phone_number_id, display_phone_number, business_account_id,
			access_token, verified_name, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :workspace_id, :phone_number_id, :display_phone_number, :business_account_id,
			:access_token, :verified_name, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, n); err != nil {
		return wrapWriteError(err, "WhatsApp phone number", map[string]any{"phone_number_id": n.PhoneNumberID})
	}
	return nil
}

func (r *whatsAppPhoneNumberRepository) Get(ctx context.Context, id string) (*whatsapp.PhoneNumber, error) {
	var n whatsapp.PhoneNumber
	err := r.db.GetQuerier(ctx).GetContext(ctx, &n,
		`SELECT * FROM whatsapp_phone_numbers WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "WhatsApp phone number", map[string]any{"id": id})
	}
	return &n, nil
}

func (r *whatsAppPhoneNumberRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*whatsapp.PhoneNumber, error) {
	var n whatsapp.PhoneNumber
	err := r.db.GetQuerier(ctx).GetContext(ctx, &n,
		`SELECT * FROM whatsapp_phone_numbers WHERE phone_number_id = $1 AND status = $2`,
		phoneNumberID, types.StatusPublished)
	if err != nil {
		return nil, wrapGetError(err, "WhatsApp phone number", map[string]any{"phone_number_id": phoneNumberID})
	}
	return &n, nil
}

func (r *whatsAppPhoneNumberRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.WhatsAppPhoneNumberFilter) *listQuery {
	if filter.AllTenants {
		q = q.ApplyStatusFilter(filter.GetStatus())
	} else {
		q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	}
	if filter.WorkspaceID != "" {
		q = q.Where("workspace_id = ?", filter.WorkspaceID)
	}
	if filter.PhoneNumberID != "" {
		q = q.Where("phone_number_id = ?", filter.PhoneNumberID)
	}
	return q
}

func (r *whatsAppPhoneNumberRepository) List(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) ([]*whatsapp.PhoneNumber, error) {
	if filter == nil {
		filter = types.NewWhatsAppPhoneNumberFilter()
	}
	q := r.applyFilter(ctx, newListQuery("whatsapp_phone_numbers"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, defaultSortFields)

	query, args := q.Select("*")
	var numbers []*whatsapp.PhoneNumber
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &numbers, query, args...); err != nil {
		return nil, wrapListError(err, "whatsapp phone numbers")
	}
	return numbers, nil
}

func (r *whatsAppPhoneNumberRepository) Count(ctx context.Context, filter *types.WhatsAppPhoneNumberFilter) (int, error) {
	if filter == nil {
		filter = types.NewWhatsAppPhoneNumberFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("whatsapp_phone_numbers"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "whatsapp phone numbers")
	}
	return count, nil
}

func (r *whatsAppPhoneNumberRepository) Delete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, "whatsapp_phone_numbers", "WhatsApp phone number", id)
}

type whatsAppTemplateRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewWhatsAppTemplateRepository(db *postgres.DB, log *logger.Logger) whatsapp.TemplateRepository {
	return &whatsAppTemplateRepository{db: db, log: log}
}

func (r *whatsAppTemplateRepository) Upsert(ctx context.Context, t *whatsapp.Template) error {
	query := `
		INSERT INTO whatsapp_templates (
			id, tenant_id, phone_number_id, external_id, name, language, category, template_status,
			components, synced_at, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :phone_number_id, :external_id, :name, :language, :category, :template_status,
			:components, :synced_at, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (phone_number_id, name, language) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			category = EXCLUDED.category,
			template_status = EXCLUDED.template_status,
			components = EXCLUDED.components,
			synced_at = EXCLUDED.synced_at,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		return wrapWriteError(err, "WhatsApp template", map[string]any{"name": t.Name, "language": t.Language})
	}
	return nil
}

func (r *whatsAppTemplateRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.WhatsAppTemplateFilter) *listQuery {
	q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	if filter.PhoneNumberID != "" {
		q = q.Where("phone_number_id = ?", filter.PhoneNumberID)
	}
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	return q
}

func (r *whatsAppTemplateRepository) List(ctx context.Context, filter *types.WhatsAppTemplateFilter) ([]*whatsapp.Template, error) {
	if filter == nil {
		filter = types.NewWhatsAppTemplateFilter()
	}
	q := r.applyFilter(ctx, newListQuery("whatsapp_templates"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, withDefaults(map[string]string{"name": "name"}))

	query, args := q.Select("*")
	var templates []*whatsapp.Template
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, wrapListError(err, "whatsapp templates")
	}
	return templates, nil
}

func (r *whatsAppTemplateRepository) Count(ctx context.Context, filter *types.WhatsAppTemplateFilter) (int, error) {
	if filter == nil {
		filter = types.NewWhatsAppTemplateFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("whatsapp_templates"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "whatsapp templates")
	}
	return count, nil
}

func (r *whatsAppTemplateRepository) MarkStaleDeleted(ctx context.Context, phoneNumberID string, syncedAt time.Time) (int64, error) {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
		UPDATE whatsapp_templates SET status = $1, updated_at = $2
		WHERE tenant_id = $3 AND phone_number_id = $4 AND synced_at < $5 AND status = $6`,
		types.StatusDeleted, time.Now().UTC(), types.GetTenantID(ctx), phoneNumberID, syncedAt, types.StatusPublished)
	if err != nil {
		return 0, wrapWriteError(err, "WhatsApp template", map[string]any{"phone_number_id": phoneNumberID})
	}
	n, _ := result.RowsAffected()
	return n, nil
}

type whatsAppMessageRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewWhatsAppMessageRepository(db *postgres.DB, log *logger.Logger) whatsapp.MessageRepository {
	return &whatsAppMessageRepository{db: db, log: log}
}

func (r *whatsAppMessageRepository) Create(ctx context.Context, m *whatsapp.Message) error {
	query := `
		INSERT INTO whatsapp_messages (
			id, tenant_id, phone_number_id, wa_message_id, direction, from_number, to_number,
			contact_name, message_type, body, media_id, message_status, error_message, raw_payload,
			sent_at, delivered_at, read_at, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :tenant_id, :phone_number_id, :wa_message_id, :direction, :from_number, :to_number,
			:contact_name, :message_type, :body, :media_id, :message_status, :error_message, :raw_payload,
			:sent_at, :delivered_at, :read_at, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, m); err != nil {
		return wrapWriteError(err, "WhatsApp message", map[string]any{"wa_message_id": m.WAMessageID})
	}
	return nil
}

func (r *whatsAppMessageRepository) GetByWAMessageID(ctx context.Context, waMessageID string) (*whatsapp.Message, error) {
	var m whatsapp.Message
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m,
		`SELECT * FROM whatsapp_messages WHERE wa_message_id = $1`, waMessageID)
	if err != nil {
		return nil, wrapGetError(err, "WhatsApp message", map[string]any{"wa_message_id": waMessageID})
	}
	return &m, nil
}

func (r *whatsAppMessageRepository) applyFilter(ctx context.Context, q *listQuery, filter *types.WhatsAppMessageFilter) *listQuery {
	if filter.AllTenants {
		q = q.ApplyStatusFilter(filter.GetStatus())
	} else {
		q = ApplyBaseFilters(ctx, q, filter.QueryFilter)
	}
	if filter.PhoneNumberID != "" {
		q = q.Where("phone_number_id = ?", filter.PhoneNumberID)
	}
	if filter.Contact != "" {
		q = q.Where("(from_number = ? OR to_number = ?)", filter.Contact, filter.Contact)
	}
	if filter.Direction != nil {
		q = q.Where("direction = ?", string(*filter.Direction))
	}
	return q.ApplyTimeRange("created_at", filter.TimeRangeFilter)
}

func (r *whatsAppMessageRepository) List(ctx context.Context, filter *types.WhatsAppMessageFilter) ([]*whatsapp.Message, error) {
	if filter == nil {
		filter = types.NewWhatsAppMessageFilter()
	}
	q := r.applyFilter(ctx, newListQuery("whatsapp_messages"), filter)
	q = ApplyQueryOptions(q, filter.QueryFilter, defaultSortFields)

	query, args := q.Select("*")
	var messages []*whatsapp.Message
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, wrapListError(err, "whatsapp messages")
	}
	return messages, nil
}

func (r *whatsAppMessageRepository) Count(ctx context.Context, filter *types.WhatsAppMessageFilter) (int, error) {
	if filter == nil {
		filter = types.NewWhatsAppMessageFilter()
	}
	query, args := r.applyFilter(ctx, newListQuery("whatsapp_messages"), filter).Count()
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapListError(err, "whatsapp messages")
	}
	return count, nil
}

func (r *whatsAppMessageRepository) Update(ctx context.Context, m *whatsapp.Message) error {
	m.UpdatedAt = time.Now().UTC()

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE whatsapp_messages SET
			message_status = :message_status,
			error_message = :error_message,
			sent_at = :sent_at,
			delivered_at = :delivered_at,
			read_at = :read_at,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`, m)
	if err != nil {
		return wrapWriteError(err, "WhatsApp message", map[string]any{"wa_message_id": m.WAMessageID})
	}
	return checkAffected(result, "WhatsApp message", map[string]any{"wa_message_id": m.WAMessageID})
}

func (r *whatsAppMessageRepository) CountOutboundSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `
		SELECT COUNT(*) FROM whatsapp_messages
		WHERE tenant_id = $1 AND direction = $2 AND created_at >= $3 AND status = $4`,
		types.GetTenantID(ctx), types.WhatsAppMessageOutbound, since, types.StatusPublished)
	if err != nil {
		return 0, wrapListError(err, "whatsapp messages")
	}
	return count, nil
}
