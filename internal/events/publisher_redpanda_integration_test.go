//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"reqforge/internal/events"
	"reqforge/pkg/testutil/containers"
)

func TestKafkaPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	redpanda := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { _ = redpanda.Container.Terminate(context.Background()) })

	const topic = "reqforge.events.test"
	publisher, err := events.NewKafkaPublisher(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	first, err := events.New(events.TypeRequirementCreated, "project-1", "REQ-0001",
		map[string]string{"title": "Checkout"}, time.Now().UTC())
	require.NoError(t, err)
	second, err := events.New(events.TypeProjectAnalyzed, "project-1", "",
		map[string]int{"requirement_count": 3}, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(ctx, []events.Event{first, second}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var received []events.Event
	for len(received) < 2 {
		fetches := consumer.PollFetches(deadline)
		require.NoError(t, fetches.Err())
		fetches.EachRecord(func(record *kgo.Record) {
			assert.Equal(t, "project-1", string(record.Key))
			var event events.Event
			require.NoError(t, json.Unmarshal(record.Value, &event))
			received = append(received, event)
		})
	}

	require.Len(t, received, 2)
	assert.Equal(t, first.ID, received[0].ID)
	assert.Equal(t, events.TypeRequirementCreated, received[0].Type)
	assert.Equal(t, second.ID, received[1].ID)
}
