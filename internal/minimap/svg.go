// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
)

// ErrEmptySnapshot is returned when there is nothing to draw.
var ErrEmptySnapshot = errors.New("minimap snapshot is empty")

// WriteSVG writes r as a standalone SVG document.
func WriteSVG(w io.Writer, r Render) error {
	if r.Empty {
		return ErrEmptySnapshot
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", r.Width, r.Height)

	for _, e := range r.Edges {
		fmt.Fprintf(bw, `  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%d" opacity="%g"/>`+"\n",
			e.Start.X, e.Start.Y, e.End.X, e.End.Y, e.Stroke, e.StrokeWidth, e.Opacity)
	}

	for _, n := range r.Nodes {
		fmt.Fprintf(bw, `  <circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="%d"><title>%s</title></circle>`+"\n",
			n.Center.X, n.Center.Y, n.Radius, n.Fill, n.Stroke, StrokeWidth, html.EscapeString(n.RoomName))
	}

	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}
