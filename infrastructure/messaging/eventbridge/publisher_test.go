package eventbridge

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"paperdesk-backend/domain/events"
)

// unmarshalableEvent cannot be serialized; func values have no JSON form
type unmarshalableEvent struct {
	events.BaseEvent
	Payload func() `json:"payload"`
}

type stubPutEventsClient struct {
	in  *eventbridge.PutEventsInput
	out *eventbridge.PutEventsOutput
}

func (s *stubPutEventsClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	s.in = params
	return s.out, nil
}

func TestPublishBatch_FailureLogNamesTheFailedEvent(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	bad := unmarshalableEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: "note-1",
			EventType:   "note.broken",
			Timestamp:   time.Now(),
			Version:     1,
		},
		Payload: func() {},
	}
	good := events.NewLibraryInitialized("alice", 3, time.Now())

	stub := &stubPutEventsClient{out: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{
			{ErrorCode: aws.String("ThrottlingException"), ErrorMessage: aws.String("slow down")},
		},
	}}

	p := &Publisher{client: stub, eventBusName: "test-bus", logger: logger}

	err := p.PublishBatch(context.Background(), []events.DomainEvent{bad, good})
	require.Error(t, err)

	// The unserializable event is skipped, so only one entry goes out.
	require.NotNil(t, stub.in)
	require.Len(t, stub.in.Entries, 1)

	// The failure log must name the event that was actually sent, not the
	// one that was skipped before it.
	failed := logs.FilterMessage("Failed to publish event").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "library.initialized", failed[0].ContextMap()["eventType"])
}

func TestPublishBatch_AllEventsUnserializable(t *testing.T) {
	logger := zap.NewNop()
	stub := &stubPutEventsClient{}
	p := &Publisher{client: stub, eventBusName: "test-bus", logger: logger}

	bad := unmarshalableEvent{
		BaseEvent: events.BaseEvent{EventType: "note.broken", Timestamp: time.Now(), Version: 1},
		Payload:   func() {},
	}

	require.NoError(t, p.PublishBatch(context.Background(), []events.DomainEvent{bad}))
	assert.Nil(t, stub.in)
}
