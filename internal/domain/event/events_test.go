package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopic_PublishOrder(t *testing.T) {
	var topic Topic[TripDeleted]
	var got []string

	topic.Subscribe(func(e TripDeleted) { got = append(got, "first:"+e.ID) })
	topic.Subscribe(func(e TripDeleted) { got = append(got, "second:"+e.ID) })

	topic.Publish(TripDeleted{ID: "x"})
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestTopic_Unsubscribe(t *testing.T) {
	var topic Topic[TripDeleted]
	calls := 0

	unsubscribe := topic.Subscribe(func(TripDeleted) { calls++ })
	topic.Publish(TripDeleted{})
	unsubscribe()
	unsubscribe()
	topic.Publish(TripDeleted{})

	assert.Equal(t, 1, calls)
}

func TestTopic_UnsubscribeDuringPublish(t *testing.T) {
	var topic Topic[PlaceAdded]
	calls := 0

	var unsubscribe func()
	unsubscribe = topic.Subscribe(func(PlaceAdded) {
		calls++
		unsubscribe()
	})
	topic.Subscribe(func(PlaceAdded) { calls++ })

	topic.Publish(PlaceAdded{})
	topic.Publish(PlaceAdded{})
	assert.Equal(t, 3, calls)
}

func TestTopic_NoSubscribers(t *testing.T) {
	events := NewEvents()
	assert.NotPanics(t, func() {
		events.TripActivated.Publish(TripActivated{Identity: "abc"})
	})
}
