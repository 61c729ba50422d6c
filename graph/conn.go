// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "cogentcore.org/core/math32"

// curveSegments is the number of line segments used to approximate a
// connection curve for hit-testing.
const curveSegments = 32

// Connection is a directed edge from an output socket to an input
// socket, rendered as a cubic bezier curve. Connections are created
// with [Graph.Connect] and owned by their [Graph].
type Connection struct {
	// ID is the unique id of the connection.
	ID string

	// From is the source socket id (always an output).
	From string

	// To is the target socket id (always an input).
	To string

	// ControlOffset overrides the horizontal control-point distance of
	// the curve when positive; 0 means derive it from the endpoint
	// distance (see [CurveControls]).
	ControlOffset float32
}

// CurveControls returns the two cubic bezier control points for a
// connection curve between the given endpoints. The control points are
// offset horizontally by half the horizontal distance between the
// endpoints (at least 50 units), pushing rightward out of the source
// and leftward into the target, which produces the natural S-curves of
// a left-to-right node flow. A positive offset argument overrides the
// derived distance.
func CurveControls(start, end math32.Vector2, offset float32) (c1, c2 math32.Vector2) {
	if offset <= 0 {
		offset = max(50, math32.Abs(end.X-start.X)*0.5)
	}
	c1 = math32.Vec2(start.X+offset, start.Y)
	c2 = math32.Vec2(end.X-offset, end.Y)
	return
}

// CurvePoint evaluates the cubic bezier with the given endpoints and
// control points at parameter t in [0, 1].
func CurvePoint(start, c1, c2, end math32.Vector2, t float32) math32.Vector2 {
	u := 1 - t
	p := start.MulScalar(u * u * u)
	p = p.Add(c1.MulScalar(3 * u * u * t))
	p = p.Add(c2.MulScalar(3 * u * t * t))
	p = p.Add(end.MulScalar(t * t * t))
	return p
}

// curveDistance returns the distance from pt to the connection curve
// with the given endpoints, approximated with [curveSegments] segments.
func curveDistance(pt, start, end math32.Vector2, offset float32) float32 {
	c1, c2 := CurveControls(start, end, offset)
	mind := math32.Infinity
	prev := start
	for i := 1; i <= curveSegments; i++ {
		t := float32(i) / curveSegments
		cur := CurvePoint(start, c1, c2, end, t)
		d := segmentDistance(pt, prev, cur)
		if d < mind {
			mind = d
		}
		prev = cur
	}
	return mind
}

// segmentDistance returns the distance from pt to the line segment ab.
func segmentDistance(pt, a, b math32.Vector2) float32 {
	ab := b.Sub(a)
	lsq := ab.LengthSquared()
	if lsq == 0 {
		return pt.DistanceTo(a)
	}
	t := math32.Clamp(pt.Sub(a).Dot(ab)/lsq, 0, 1)
	return pt.DistanceTo(a.Add(ab.MulScalar(t)))
}
