// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	_, err := bus.Listen(StreamMessage, func(e Event) { got = append(got, e.Text()) })
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "a", "c"} {
		require.NoError(t, bus.Emit(StreamMessage, s))
	}

	assert.Equal(t, []string{"a", "b", "a", "c"}, got)
}

func TestBus_ChannelsAreIsolated(t *testing.T) {
	bus := NewBus()
	var updates, toggles int

	_, err := bus.Listen(MinimapUpdate, func(Event) { updates++ })
	require.NoError(t, err)
	_, err = bus.Listen(ToggleMinimap, func(Event) { toggles++ })
	require.NoError(t, err)

	require.NoError(t, bus.Emit(MinimapUpdate, nil))
	require.NoError(t, bus.Emit(MinimapUpdate, nil))
	require.NoError(t, bus.Emit(ToggleMinimap, nil))

	assert.Equal(t, 2, updates)
	assert.Equal(t, 1, toggles)
}

func TestBus_UnlistenStopsDelivery(t *testing.T) {
	bus := NewBus()
	count := 0

	unlisten, err := bus.Listen(StreamMessage, func(Event) { count++ })
	require.NoError(t, err)

	require.NoError(t, bus.Emit(StreamMessage, "one"))
	unlisten()
	unlisten() // idempotent
	require.NoError(t, bus.Emit(StreamMessage, "two"))

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.ListenerCount(StreamMessage))
}

func TestBus_HandlerMayUnlistenItself(t *testing.T) {
	bus := NewBus()
	count := 0

	var unlisten Unlisten
	unlisten, err := bus.Listen(StreamMessage, func(Event) {
		count++
		unlisten()
	})
	require.NoError(t, err)

	require.NoError(t, bus.Emit(StreamMessage, "x"))
	require.NoError(t, bus.Emit(StreamMessage, "y"))
	assert.Equal(t, 1, count)
}

func TestBus_Errors(t *testing.T) {
	bus := NewBus()

	_, err := bus.Listen("", func(Event) {})
	assert.ErrorIs(t, err, ErrEmptyChannel)
	assert.ErrorIs(t, bus.Emit("", nil), ErrEmptyChannel)

	bus.Close()
	_, err = bus.Listen(StreamMessage, func(Event) {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, bus.Emit(StreamMessage, "late"), ErrClosed)
}

func TestBus_ConcurrentEmitsAreSerialized(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	var first, second []string

	_, err := bus.Listen(StreamMessage, func(e Event) {
		mu.Lock()
		first = append(first, e.Text())
		mu.Unlock()
	})
	require.NoError(t, err)
	_, err = bus.Listen(StreamMessage, func(e Event) {
		mu.Lock()
		second = append(second, e.Text())
		mu.Unlock()
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Emit(StreamMessage, "m")
		}()
	}
	wg.Wait()

	assert.Len(t, first, 50)
	assert.Equal(t, first, second)
}

func TestEvent_TextOfNonString(t *testing.T) {
	assert.Equal(t, "", Event{Payload: 42}.Text())
	assert.Equal(t, "hi", Event{Payload: "hi"}.Text())
}
