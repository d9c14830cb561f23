// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	got []string
	err error
}

func (s *recordingSink) SendCommand(_ context.Context, command string) error {
	s.got = append(s.got, command)
	return s.err
}

func TestDispatch_BlankIsIgnored(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		sink := &recordingSink{}
		d := New(sink, nil)
		in := &Line{Text: text}

		call, ok := d.Dispatch(in)
		assert.False(t, ok)
		assert.Nil(t, call)
		assert.Equal(t, text, in.Text, "input must be untouched")
		assert.Empty(t, sink.got)
		assert.Empty(t, d.History())
	}
}

func TestDispatch_ForwardsExactTextAndClears(t *testing.T) {
	sink := &recordingSink{}
	d := New(sink, nil)
	in := &Line{Text: "  look "}

	call, ok := d.Dispatch(in)
	require.True(t, ok)
	assert.Equal(t, "", in.Text, "cleared before the call runs")
	assert.Empty(t, sink.got)

	require.NoError(t, call(context.Background()))
	assert.Equal(t, []string{"  look "}, sink.got)
}

func TestDispatch_FailureDoesNotRestore(t *testing.T) {
	boom := errors.New("backend down")
	sink := &recordingSink{err: boom}
	d := New(sink, nil)
	in := &Line{Text: "north"}

	sent, err := d.Send(context.Background(), in)
	assert.True(t, sent)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "", in.Text)
	assert.Len(t, sink.got, 1, "no retry")
}

func TestDispatch_History(t *testing.T) {
	d := New(&recordingSink{}, nil)
	for _, c := range []string{"n", "n", "look", "s"} {
		_, ok := d.Dispatch(&Line{Text: c})
		require.True(t, ok)
	}
	assert.Equal(t, []string{"n", "look", "s"}, d.History())
}

func TestDispatch_HistoryBounded(t *testing.T) {
	d := New(&recordingSink{}, nil)
	for i := 0; i < DefaultHistorySize+5; i++ {
		d.Dispatch(&Line{Text: fmt.Sprintf("cmd %d", i)})
	}
	h := d.History()
	assert.Len(t, h, DefaultHistorySize)
	assert.Equal(t, "cmd 5", h[0])
}
