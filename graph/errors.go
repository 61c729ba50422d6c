// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "cogentcore.org/core/base/errors"

// Sentinel errors returned by [Graph] operations. Callers should test
// for them with [errors.Is]; returned errors wrap these with context
// about the specific entities involved.
var (
	// ErrNotFound is returned when a node, socket, or connection id
	// does not exist in the graph.
	ErrNotFound = errors.New("graph: not found")

	// ErrInvalidDirection is returned by [Graph.Connect] when the
	// source socket is not an output or the target is not an input.
	ErrInvalidDirection = errors.New("graph: invalid socket direction")

	// ErrTypeMismatch is returned by [Graph.Connect] when the socket
	// type tags are not compatible.
	ErrTypeMismatch = errors.New("graph: socket types are incompatible")

	// ErrSlotOccupied is returned by [Graph.Connect] when the input
	// socket already has an incoming connection. Replacing requires an
	// explicit [Graph.Disconnect] first.
	ErrSlotOccupied = errors.New("graph: input socket already connected")

	// ErrSameNode is returned by [Graph.Connect] when both sockets
	// belong to the same node and [Graph.AllowSameNode] is off.
	ErrSameNode = errors.New("graph: sockets belong to the same node")

	// ErrCycle is returned by [Graph.Connect] when the connection would
	// create a cycle and [Graph.AllowCycles] is off.
	ErrCycle = errors.New("graph: connection would create a cycle")

	// ErrMalformed is returned by [Graph.Import] when the data
	// references nonexistent entities or violates graph invariants.
	ErrMalformed = errors.New("graph: malformed graph data")
)
