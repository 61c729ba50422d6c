// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph provides the data model for a node-graph editor: nodes
// with typed input and output sockets, directed connections between
// them, and a [Graph] store that owns all of the entities and enforces
// the connection rules. All coordinates are in canvas space, the
// infinite logical coordinate system that nodes live in, independent
// of any viewport pan or zoom.
package graph

import "cogentcore.org/core/math32"

// Layout constants, in canvas units.
const (
	// DefaultWidth and DefaultHeight are the default node size.
	DefaultWidth  float32 = 120
	DefaultHeight float32 = 80

	// HeaderHeight is the height of the node title band; sockets are
	// laid out below it.
	HeaderHeight float32 = 24

	// SocketRadius is the visual radius of a socket. Hit-testing
	// typically uses a multiple of this for a larger click area.
	SocketRadius float32 = 8

	// SocketSpacing is the vertical distance between adjacent sockets
	// on the same edge of a node.
	SocketSpacing float32 = 20
)

// Directions is the direction of a [Socket]: input or output.
type Directions int32

const (
	// Input sockets receive at most one incoming connection.
	Input Directions = iota

	// Output sockets can feed any number of connections.
	Output
)

func (d Directions) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Well-known socket type tags. The tag space is open: any string is a
// valid tag, and a [Graph.Compatible] function can redefine how tags
// are matched. With the default rule, [TypeAny] connects to anything
// and all other tags must match exactly.
const (
	TypeAny     = "any"
	TypeExec    = "exec"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeVector  = "vector"
	TypeColor   = "color"
	TypeObject  = "object"
)

// Node is a positioned, sized rectangle on the canvas, owning an
// ordered set of sockets. Nodes are created with [Graph.AddNode] and
// owned exclusively by their [Graph]; the socket id lists reference
// sockets in the graph's socket table, which point back at the node.
type Node struct {
	// ID is the unique id of the node, assigned on creation.
	ID string

	// Title is displayed in the node header.
	Title string

	// Kind is an opaque type tag for the node (e.g., "math", "event"),
	// not interpreted by the graph.
	Kind string

	// Pos is the position of the top-left corner, in canvas space.
	Pos math32.Vector2

	// Size is the width and height of the node body.
	Size math32.Vector2

	// Inputs and Outputs are the ordered socket ids on the left and
	// right edges. Managed by [Graph.AddSocket] and [Graph.RemoveNode];
	// do not modify directly.
	Inputs  []string
	Outputs []string

	// Meta holds arbitrary key-value payload data carried through
	// export and import but otherwise uninterpreted.
	Meta map[string]any
}

// BBox returns the bounding box of the node body in canvas space.
func (nd *Node) BBox() math32.Box2 {
	return math32.Box2{Min: nd.Pos, Max: nd.Pos.Add(nd.Size)}
}

// Contains reports whether the given canvas point is inside the
// node body.
func (nd *Node) Contains(pt math32.Vector2) bool {
	return nd.BBox().ContainsPoint(pt)
}

// Socket is a typed connection point owned by its parent [Node].
// Occupancy is not stored here: it is derived from the connection
// list via [Graph.InputConnection] and [Graph.ConnectionsFrom].
type Socket struct {
	// ID is the unique id of the socket.
	ID string

	// Node is the id of the parent node (back-reference, not ownership).
	Node string

	// Name is the display label of the socket.
	Name string

	// Dir is the socket direction.
	Dir Directions

	// Type is the declared type tag used for compatibility checks.
	Type string

	// Offset is the socket position relative to the parent node's
	// top-left corner, maintained by the graph from the socket order
	// and node size.
	Offset math32.Vector2
}
