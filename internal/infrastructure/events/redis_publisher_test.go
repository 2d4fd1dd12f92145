package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	domainevents "spay.backend/internal/domain/events"
)

func capturePublish(t *testing.T) (chan []byte, *string) {
	t.Helper()
	orig := redisPublish
	t.Cleanup(func() { redisPublish = orig })

	got := make(chan []byte, 1)
	var channel string
	redisPublish = func(_ context.Context, ch string, payload interface{}) error {
		// The channel send below orders this write before the test's read.
		channel = ch
		got <- payload.([]byte)
		return nil
	}
	return got, &channel
}

func TestRedisPublisher_SendsEncodedEvent(t *testing.T) {
	got, channel := capturePublish(t)
	p := NewRedisPublisher("spay.events")

	escrowID := uuid.New()
	event := &domainevents.Event{
		ID:            uuid.New(),
		Type:          domainevents.EscrowReleased,
		TransactionID: uuid.New(),
		EscrowID:      &escrowID,
		WalletID:      uuid.New(),
		Amount:        "40",
		OccurredAt:    time.Now().UTC(),
		Metadata:      "complete",
	}
	p.Publish(context.Background(), event)

	select {
	case payload := <-got:
		var decoded domainevents.Event
		require.NoError(t, json.Unmarshal(payload, &decoded))
		require.Equal(t, event.ID, decoded.ID)
		require.Equal(t, domainevents.EscrowReleased, decoded.Type)
		require.Equal(t, "40", decoded.Amount)
		require.Equal(t, "complete", decoded.Metadata)
		require.Equal(t, "spay.events", *channel)
	case <-time.After(time.Second):
		t.Fatal("publish never reached redis")
	}
}

func TestRedisPublisher_BrokerFailureIsSwallowed(t *testing.T) {
	orig := redisPublish
	t.Cleanup(func() { redisPublish = orig })

	called := make(chan struct{}, 1)
	redisPublish = func(context.Context, string, interface{}) error {
		called <- struct{}{}
		return errors.New("broker down")
	}

	p := NewRedisPublisher("spay.events")
	p.Publish(context.Background(), &domainevents.Event{
		ID:            uuid.New(),
		Type:          domainevents.TransferCompleted,
		TransactionID: uuid.New(),
		WalletID:      uuid.New(),
		Amount:        "1",
		OccurredAt:    time.Now().UTC(),
	})

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("publish was never attempted")
	}
}
