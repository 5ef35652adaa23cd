package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// AuditEmitter mirrors security events to the OTel log pipeline so the audit
// trail reaches the collector as well as the database. It implements
// audit.Logger and is composed with the DB logger via audit.Fanout.
type AuditEmitter struct {
	logger otellog.Logger
}

// NewAuditEmitter returns an AuditEmitter over the given provider, or nil
// when provider is nil. A nil *AuditEmitter must not be handed to
// audit.Fanout; callers skip it instead.
func NewAuditEmitter(provider *sdklog.LoggerProvider) *AuditEmitter {
	if provider == nil {
		return nil
	}
	return &AuditEmitter{logger: provider.Logger("authcore.audit")}
}

// Event emits one security event as an OTel log record. Best-effort by
// construction: the batch processor absorbs failures.
func (e *AuditEmitter) Event(ctx context.Context, userID, action, ip, metadata string) {
	rec := otellog.Record{}
	rec.SetTimestamp(time.Now().UTC())
	rec.SetBody(otellog.StringValue(action))
	if userID != "" {
		rec.AddAttributes(otellog.String("user_id", userID))
	}
	if ip != "" {
		rec.AddAttributes(otellog.String("ip", ip))
	}
	if metadata != "" {
		rec.AddAttributes(otellog.String("metadata", metadata))
	}
	e.logger.Emit(ctx, rec)
}
