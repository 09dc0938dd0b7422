package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

const (
	defaultPresignExpiryDuration = 30 * time.Minute
)

var (
	validDocumentTypes = []DocumentType{DocumentTypeInvoice, DocumentTypeMedia}
)

type Service interface {
	UploadDocument(ctx context.Context, document *Document) (string, error)
	GetPresignedUrl(ctx context.Context, key string, docType DocumentType) (string, error)
	GetDocument(ctx context.Context, key string, docType DocumentType) ([]byte, error)
	Exists(ctx context.Context, key string, docType DocumentType) (bool, error)
}

type s3ServiceImpl struct {
	client *s3.Client
	config *config.S3Config
}

// NewService returns nil when object storage is disabled
func NewService(config *config.Configuration) (Service, error) {
	if !config.S3.Enabled {
		return nil, nil
	}

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(config.S3.Region),
	}
	if config.S3.AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.S3.AccessKeyID,
			config.S3.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	var s3Options []func(*s3.Options)
	if config.S3.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.S3.Endpoint)
			o.UsePathStyle = config.S3.UsePathStyle
		})
	}

	return &s3ServiceImpl{
		config: &config.S3,
		client: s3.NewFromConfig(awsCfg, s3Options...),
	}, nil
}

// InvoiceObjectKey is where an invoice pdf is stored for a tenant
func InvoiceObjectKey(prefix, tenantID, invoiceID string) string {
	if prefix != "" {
		return fmt.Sprintf("%s/%s/%s.pdf", prefix, tenantID, invoiceID)
	}
	return fmt.Sprintf("invoices/%s/%s.pdf", tenantID, invoiceID)
}

func (s *s3ServiceImpl) objectKey(document *Document) (string, error) {
	switch document.Type {
	case DocumentTypeInvoice:
		return InvoiceObjectKey(s.config.InvoiceKeyPrefix, document.TenantID, document.ID), nil
	case DocumentTypeMedia:
		return fmt.Sprintf("media/%s/%s", document.TenantID, document.ID), nil
	default:
		return "", ierr.NewErrorf("invalid doc type: %s", document.Type).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
}

func (s *s3ServiceImpl) getBucket(docType DocumentType) string {
	switch docType {
	case DocumentTypeInvoice:
		return s.config.InvoiceBucket
	case DocumentTypeMedia:
		return s.config.MediaBucket
	default:
		return ""
	}
}

func (s *s3ServiceImpl) getContentType(document *Document) string {
	if document.ContentType != "" {
		return document.ContentType
	}
	switch document.Kind {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Exists implements Service.
func (s *s3ServiceImpl) Exists(ctx context.Context, key string, docType DocumentType) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.getBucket(docType)),
		Key:    aws.String(key),
	})

	if err != nil {
		var nsk *types.NoSuchKey
		var nske *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nske) {
			return false, nil
		}
		return false, ierr.WithError(err).
			WithHint("failed to check if document exists").
			Mark(ierr.ErrHTTPClient)
	}

	return true, nil
}

// GetPresignedUrl implements Service.
func (s *s3ServiceImpl) GetPresignedUrl(ctx context.Context, key string, docType DocumentType) (string, error) {
	duration, err := time.ParseDuration(s.config.PresignExpiryDuration)
	if err != nil {
		duration = defaultPresignExpiryDuration
	}

	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.getBucket(docType)),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.getBucket(docType), key).
			Mark(ierr.ErrHTTPClient)
	}

	return result.URL, nil
}

// UploadDocument implements Service and returns the object key
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) (string, error) {
	key, err := s.objectKey(document)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.getBucket(document.Type)),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(s.getContentType(document)),
	})
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.getBucket(document.Type), key).
			Mark(ierr.ErrHTTPClient)
	}

	return key, nil
}

// GetDocument implements Service.
func (s *s3ServiceImpl) GetDocument(ctx context.Context, key string, docType DocumentType) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.getBucket(docType)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to get document").
			WithMessagef("bucket:%s, key:%s", s.getBucket(docType), key).
			Mark(ierr.ErrHTTPClient)
	}

	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
