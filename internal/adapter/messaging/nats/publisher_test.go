package nats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestBuildMsg_HeadersAndPayload(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	msg, err := buildMsg(ctx, "review.created", map[string]any{"review_id": 42})
	require.NoError(t, err)

	assert.Equal(t, "review.created", msg.Subject)
	_, err = uuid.Parse(msg.Header.Get(nats.MsgIdHdr))
	assert.NoError(t, err)
	assert.NotEmpty(t, msg.Header.Get("traceparent"))

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, 42, body["review_id"])
}

func TestBuildMsg_UniqueIDs(t *testing.T) {
	a, err := buildMsg(context.Background(), "s", 1)
	require.NoError(t, err)
	b, err := buildMsg(context.Background(), "s", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Header.Get(nats.MsgIdHdr), b.Header.Get(nats.MsgIdHdr))
}

func TestBuildMsg_MarshalError(t *testing.T) {
	_, err := buildMsg(context.Background(), "s", make(chan int))
	assert.Error(t, err)
}
