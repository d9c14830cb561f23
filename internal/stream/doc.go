// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream aggregates pushed text into the ordered session log.
//
// An Aggregator subscribes once to the "stream-message" channel and appends
// one Message per event, stamped with a local arrival sequence. The log is
// append-only: nothing is filtered, merged or reordered. With WithCapacity the
// log becomes a ring buffer and the oldest messages are evicted first.
//
// # Usage
//
//	agg := stream.New(stream.WithCapacity(5000))
//	if err := agg.Subscribe(bus); err != nil {
//	    return err
//	}
//	defer agg.Close()
//
//	for _, msg := range agg.Messages() {
//	    fmt.Println(msg.Timestamp, msg.Text)
//	}
package stream
