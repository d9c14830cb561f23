// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import "time"

// Message is one entry of the session log. Messages are never modified
// after they are appended.
type Message struct {
	// Text is the pushed payload. It may contain markdown.
	Text string

	// Timestamp is the arrival sequence assigned by the aggregator. It is
	// strictly increasing within one Aggregator, independent of payload.
	Timestamp int64

	// ReceivedAt is the wall-clock time of arrival, for display only.
	ReceivedAt time.Time
}
