package clickhouse

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// StartRepositorySpan starts a span named repository.<repository>.<operation>.
// It returns nil when the context carries no sentry hub.
func StartRepositorySpan(ctx context.Context, repository, operation string, params map[string]interface{}) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	name := "repository." + repository + "." + operation
	span := sentry.StartSpan(ctx, name)
	span.Description = name
	span.Op = "db.clickhouse"
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}

func SetSpanError(span *sentry.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.Status = sentry.SpanStatusInternalError
	span.SetData("error", err.Error())
}
