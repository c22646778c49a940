package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	OwnerID string `json:"owner_id"`
	Count   int    `json:"count"`
}

func TestWatermillBridge_TypedRoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[testPayload]("test.saved")
	received := make(chan testPayload, 1)

	err := event.Subscribe(ctx, bridge, func(ctx context.Context, p testPayload) error {
		received <- p
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, event.Publish(ctx, bridge, "abc", testPayload{OwnerID: "abc", Count: 2}))

	select {
	case got := <-received:
		assert.Equal(t, testPayload{OwnerID: "abc", Count: 2}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillBridge_MetadataSurvives(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx := context.Background()
	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "raw.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{
		Topic:    "raw.topic",
		UserID:   "u1",
		Payload:  []byte("hello"),
		Metadata: map[string]string{"request_id": "req-1"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "raw.topic", msg.Topic)
		assert.Equal(t, "u1", msg.UserID)
		assert.Equal(t, "hello", string(msg.Payload))
		assert.Equal(t, "req-1", msg.Metadata["request_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestEvent_DecodeRejectsOtherTopic(t *testing.T) {
	event := NewEvent[testPayload]("a.topic")
	_, err := event.Decode(Message{Topic: "b.topic", Payload: []byte(`{}`)})
	assert.Error(t, err)
}

func TestSetupOTel_Disabled(t *testing.T) {
	tracer, shutdown, err := SetupOTel(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestWatermillBridge_WithTracer(t *testing.T) {
	tracer, shutdown, err := SetupOTel(context.Background(), TracingConfig{Enabled: false})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	bridge := NewWatermillBridgeWithTracer(tracer)
	t.Cleanup(func() { _ = bridge.Close() })

	ctx := context.Background()
	done := make(chan struct{}, 1)
	require.NoError(t, bridge.Subscribe(ctx, "traced", func(ctx context.Context, msg Message) error {
		done <- struct{}{}
		return nil
	}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "traced", Payload: []byte("x")}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("traced message was not delivered")
	}
}
