package s3

type Document struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenant_id"`
	Data        []byte       `json:"data"`
	Kind        DocumentKind `json:"kind"`
	Type        DocumentType `json:"type"`
	ContentType string       `json:"content_type,omitempty"`
}

type DocumentKind string

const (
	DocumentKindPdf    DocumentKind = "pdf"
	DocumentKindBinary DocumentKind = "binary"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeMedia   DocumentType = "media"
)

func NewPdfDocument(tenantID, id string, data []byte, docType DocumentType) *Document {
	return &Document{
		ID:       id,
		TenantID: tenantID,
		Data:     data,
		Kind:     DocumentKindPdf,
		Type:     docType,
	}
}
