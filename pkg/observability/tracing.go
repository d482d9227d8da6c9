package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps X-Ray segment management for request and command tracing.
type Tracer struct {
	serviceName string
}

// NewTracer creates a tracer scoped to the given service name
func NewTracer(serviceName string) *Tracer {
	return &Tracer{
		serviceName: serviceName,
	}
}

// StartSegment begins a top-level trace segment
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// StartSubsegment begins a subsegment within the current segment
func (t *Tracer) StartSubsegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSubsegment(ctx, name)
}

// Trace runs fn inside a subsegment, recording any returned error.
func (t *Tracer) Trace(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, seg := t.StartSubsegment(ctx, name)
	defer seg.Close(nil)

	err := fn(ctx)
	if err != nil {
		seg.AddError(err)
	}

	return err
}

// AnnotateUser indexes the acting user on the current segment so traces
// can be filtered per user.
func (t *Tracer) AnnotateUser(ctx context.Context, userID string) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation("user_id", userID)
	}
}

// AnnotateDocument indexes the document a trace concerns
func (t *Tracer) AnnotateDocument(ctx context.Context, documentID string) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation("document_id", documentID)
	}
}

// RecordError attaches an error to the current segment
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddError(err)
	}
}
