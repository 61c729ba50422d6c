// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"cogentcore.org/core/base/keylist"
	"cogentcore.org/core/math32"
	"github.com/google/uuid"
)

// Graph is the authoritative store of nodes, sockets, and connections.
// It is the single owner of all entities: every mutation goes through
// its methods, which maintain the structural invariants (each input
// socket has at most one incoming connection, connections only join
// sockets that exist, removing a node removes everything attached to
// it). A zero-policy graph from [New] rejects same-node connections
// and permits cycles.
//
// Graph is not safe for concurrent use; confine it to one goroutine
// (typically the UI event loop) or wrap it with external locking.
type Graph struct {
	// Nodes is the ordered node list, in creation order. Later entries
	// render on top and hit-test first.
	Nodes keylist.List[string, *Node]

	// Connections is the ordered connection list, in creation order.
	Connections keylist.List[string, *Connection]

	// AllowSameNode permits connections between two sockets of the
	// same node. Off by default.
	AllowSameNode bool

	// AllowCycles permits connections that create a cycle in the node
	// dependency graph. On by default in [New]: the editor models data
	// flow but does not evaluate it, so feedback loops are legal unless
	// the application opts out.
	AllowCycles bool

	// Compatible determines whether an output socket of type from may
	// connect to an input socket of type to. If nil, the default rule
	// applies: [TypeAny] on either side matches everything, otherwise
	// the tags must be equal.
	Compatible func(from, to string) bool

	// sockets is the flat socket table, keyed by socket id. Order is
	// carried by the per-node Inputs and Outputs lists and by the node
	// list itself.
	sockets map[string]*Socket
}

// New returns a new empty [Graph] with the default policies:
// same-node connections rejected, cycles allowed.
func New() *Graph {
	return &Graph{AllowCycles: true, sockets: map[string]*Socket{}}
}

// Clear removes all nodes, sockets, and connections, keeping the
// policy settings.
func (gr *Graph) Clear() {
	gr.Nodes.Reset()
	gr.Connections.Reset()
	gr.sockets = map[string]*Socket{}
}

// AddNode creates a new node with the given title and kind at the
// given canvas position, with the default size, and returns it.
func (gr *Graph) AddNode(title, kind string, pos math32.Vector2) *Node {
	nd := &Node{
		ID:    uuid.NewString(),
		Title: title,
		Kind:  kind,
		Pos:   pos,
		Size:  math32.Vec2(DefaultWidth, DefaultHeight),
		Meta:  map[string]any{},
	}
	gr.Nodes.Set(nd.ID, nd)
	return nd
}

// Node returns the node with the given id, or [ErrNotFound].
func (gr *Graph) Node(id string) (*Node, error) {
	nd, ok := gr.Nodes.AtTry(id)
	if !ok {
		return nil, fmt.Errorf("%w: node %q", ErrNotFound, id)
	}
	return nd, nil
}

// Socket returns the socket with the given id, or [ErrNotFound].
func (gr *Graph) Socket(id string) (*Socket, error) {
	sk, ok := gr.sockets[id]
	if !ok {
		return nil, fmt.Errorf("%w: socket %q", ErrNotFound, id)
	}
	return sk, nil
}

// Connection returns the connection with the given id, or
// [ErrNotFound].
func (gr *Graph) Connection(id string) (*Connection, error) {
	cn, ok := gr.Connections.AtTry(id)
	if !ok {
		return nil, fmt.Errorf("%w: connection %q", ErrNotFound, id)
	}
	return cn, nil
}

// AddSocket adds a socket with the given direction, name, and type tag
// to the node with the given id, appending it below any existing
// sockets on the same edge. It returns [ErrNotFound] if the node
// does not exist.
func (gr *Graph) AddSocket(node string, dir Directions, name, typ string) (*Socket, error) {
	nd, err := gr.Node(node)
	if err != nil {
		return nil, err
	}
	sk := &Socket{
		ID:   uuid.NewString(),
		Node: nd.ID,
		Name: name,
		Dir:  dir,
		Type: typ,
	}
	gr.sockets[sk.ID] = sk
	if dir == Output {
		nd.Outputs = append(nd.Outputs, sk.ID)
	} else {
		nd.Inputs = append(nd.Inputs, sk.ID)
	}
	gr.placeSockets(nd)
	return sk, nil
}

// AddInput adds an input socket; see [Graph.AddSocket].
func (gr *Graph) AddInput(node, name, typ string) (*Socket, error) {
	return gr.AddSocket(node, Input, name, typ)
}

// AddOutput adds an output socket; see [Graph.AddSocket].
func (gr *Graph) AddOutput(node, name, typ string) (*Socket, error) {
	return gr.AddSocket(node, Output, name, typ)
}

// placeSockets recomputes the socket offsets of the given node from
// the socket order and node size: inputs hang off the left edge,
// outputs off the right, stacked below the header.
func (gr *Graph) placeSockets(nd *Node) {
	for i, id := range nd.Inputs {
		if sk, ok := gr.sockets[id]; ok {
			sk.Offset = math32.Vec2(-SocketRadius, HeaderHeight+float32(i+1)*SocketSpacing)
		}
	}
	for i, id := range nd.Outputs {
		if sk, ok := gr.sockets[id]; ok {
			sk.Offset = math32.Vec2(nd.Size.X+SocketRadius, HeaderHeight+float32(i+1)*SocketSpacing)
		}
	}
}

// RemoveNode removes the node with the given id, all of its sockets,
// and every connection touching any of those sockets. It returns
// [ErrNotFound] if the node does not exist.
func (gr *Graph) RemoveNode(id string) error {
	nd, err := gr.Node(id)
	if err != nil {
		return err
	}
	owned := map[string]bool{}
	for _, sid := range nd.Inputs {
		owned[sid] = true
	}
	for _, sid := range nd.Outputs {
		owned[sid] = true
	}
	var doomed []string
	for _, cn := range gr.Connections.Values {
		if owned[cn.From] || owned[cn.To] {
			doomed = append(doomed, cn.ID)
		}
	}
	for _, cid := range doomed {
		gr.Connections.DeleteByKey(cid)
	}
	for sid := range owned {
		delete(gr.sockets, sid)
	}
	gr.Nodes.DeleteByKey(id)
	return nil
}

// compatible applies [Graph.Compatible] or the default tag rule.
func (gr *Graph) compatible(from, to string) bool {
	if gr.Compatible != nil {
		return gr.Compatible(from, to)
	}
	return from == TypeAny || to == TypeAny || from == to
}

// Connect creates a connection from the given output socket to the
// given input socket, returning the new connection. The checks run in
// a fixed order so the caller gets the most specific error: existence
// ([ErrNotFound]), direction ([ErrInvalidDirection]), same node
// ([ErrSameNode], unless [Graph.AllowSameNode]), type compatibility
// ([ErrTypeMismatch]), input occupancy ([ErrSlotOccupied]), and
// cycles ([ErrCycle], only when [Graph.AllowCycles] is off). A failed
// Connect leaves the graph unchanged.
func (gr *Graph) Connect(from, to string) (*Connection, error) {
	fsk, err := gr.Socket(from)
	if err != nil {
		return nil, err
	}
	tsk, err := gr.Socket(to)
	if err != nil {
		return nil, err
	}
	if fsk.Dir != Output {
		return nil, fmt.Errorf("%w: source socket %q is an input", ErrInvalidDirection, from)
	}
	if tsk.Dir != Input {
		return nil, fmt.Errorf("%w: target socket %q is an output", ErrInvalidDirection, to)
	}
	if fsk.Node == tsk.Node && !gr.AllowSameNode {
		return nil, fmt.Errorf("%w: node %q", ErrSameNode, fsk.Node)
	}
	if !gr.compatible(fsk.Type, tsk.Type) {
		return nil, fmt.Errorf("%w: %q -> %q", ErrTypeMismatch, fsk.Type, tsk.Type)
	}
	if cur := gr.InputConnection(to); cur != nil {
		return nil, fmt.Errorf("%w: socket %q", ErrSlotOccupied, to)
	}
	if !gr.AllowCycles && gr.reaches(tsk.Node, fsk.Node) {
		return nil, fmt.Errorf("%w: %q -> %q", ErrCycle, fsk.Node, tsk.Node)
	}
	cn := &Connection{ID: uuid.NewString(), From: from, To: to}
	gr.Connections.Set(cn.ID, cn)
	return cn, nil
}

// reaches reports whether node to is reachable from node from by
// following connections downstream.
func (gr *Graph) reaches(from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, cn := range gr.Connections.Values {
			fsk := gr.sockets[cn.From]
			if fsk == nil || fsk.Node != cur {
				continue
			}
			tsk := gr.sockets[cn.To]
			if tsk == nil || seen[tsk.Node] {
				continue
			}
			if tsk.Node == to {
				return true
			}
			seen[tsk.Node] = true
			stack = append(stack, tsk.Node)
		}
	}
	return false
}

// Disconnect removes the connection with the given id. It returns
// [ErrNotFound] if no such connection exists, leaving the graph
// unchanged, so a second Disconnect of the same id fails cleanly.
func (gr *Graph) Disconnect(id string) error {
	if !gr.Connections.DeleteByKey(id) {
		return fmt.Errorf("%w: connection %q", ErrNotFound, id)
	}
	return nil
}

// InputConnection returns the connection feeding the given input
// socket, or nil if the socket is unconnected.
func (gr *Graph) InputConnection(socket string) *Connection {
	for _, cn := range gr.Connections.Values {
		if cn.To == socket {
			return cn
		}
	}
	return nil
}

// ConnectionsFrom returns all connections originating at the given
// output socket, in creation order.
func (gr *Graph) ConnectionsFrom(socket string) []*Connection {
	var cns []*Connection
	for _, cn := range gr.Connections.Values {
		if cn.From == socket {
			cns = append(cns, cn)
		}
	}
	return cns
}

// MoveNode sets the canvas position of the node with the given id.
// Socket positions follow automatically because they are stored as
// offsets from the node corner.
func (gr *Graph) MoveNode(id string, pos math32.Vector2) error {
	nd, err := gr.Node(id)
	if err != nil {
		return err
	}
	nd.Pos = pos
	return nil
}

// SetNodeSize sets the size of the node with the given id and
// re-places its sockets against the new edges.
func (gr *Graph) SetNodeSize(id string, size math32.Vector2) error {
	nd, err := gr.Node(id)
	if err != nil {
		return err
	}
	nd.Size = size
	gr.placeSockets(nd)
	return nil
}

// SocketPos returns the canvas position of the given socket: the
// parent node position plus the socket offset.
func (gr *Graph) SocketPos(sk *Socket) math32.Vector2 {
	nd := gr.Nodes.At(sk.Node)
	if nd == nil {
		return sk.Offset
	}
	return nd.Pos.Add(sk.Offset)
}

// NodeAt returns the topmost node whose body contains the given canvas
// point, or nil. Later-created nodes are treated as on top.
func (gr *Graph) NodeAt(pt math32.Vector2) *Node {
	for i := gr.Nodes.Len() - 1; i >= 0; i-- {
		nd := gr.Nodes.Values[i]
		if nd.Contains(pt) {
			return nd
		}
	}
	return nil
}

// SocketAt returns the socket nearest to the given canvas point within
// the given hit radius, or nil. Ties in distance keep the earlier
// socket in node and socket order.
func (gr *Graph) SocketAt(pt math32.Vector2, radius float32) *Socket {
	var best *Socket
	bestd := radius
	check := func(id string) {
		sk, ok := gr.sockets[id]
		if !ok {
			return
		}
		d := gr.SocketPos(sk).DistanceTo(pt)
		if d < bestd || (best == nil && d <= bestd) {
			best = sk
			bestd = d
		}
	}
	for _, nd := range gr.Nodes.Values {
		for _, id := range nd.Inputs {
			check(id)
		}
		for _, id := range nd.Outputs {
			check(id)
		}
	}
	return best
}

// ConnectionAt returns the first connection whose curve passes within
// the given tolerance of the given canvas point, or nil.
func (gr *Graph) ConnectionAt(pt math32.Vector2, tolerance float32) *Connection {
	for _, cn := range gr.Connections.Values {
		fsk := gr.sockets[cn.From]
		tsk := gr.sockets[cn.To]
		if fsk == nil || tsk == nil {
			continue
		}
		if curveDistance(pt, gr.SocketPos(fsk), gr.SocketPos(tsk), cn.ControlOffset) <= tolerance {
			return cn
		}
	}
	return nil
}

// NodesInBox returns all nodes whose bodies intersect the given canvas
// box, in creation order.
func (gr *Graph) NodesInBox(box math32.Box2) []*Node {
	var nds []*Node
	for _, nd := range gr.Nodes.Values {
		if box.IntersectsBox(nd.BBox()) {
			nds = append(nds, nd)
		}
	}
	return nds
}

// BoundingBox returns the union of all node bounding boxes, expanded
// to include socket positions, and true if the graph has any nodes.
func (gr *Graph) BoundingBox() (math32.Box2, bool) {
	if gr.Nodes.Len() == 0 {
		return math32.Box2{}, false
	}
	bb := math32.B2Empty()
	for _, nd := range gr.Nodes.Values {
		bb.ExpandByBox(nd.BBox())
		for _, id := range nd.Inputs {
			if sk, ok := gr.sockets[id]; ok {
				bb.ExpandByPoint(gr.SocketPos(sk))
			}
		}
		for _, id := range nd.Outputs {
			if sk, ok := gr.sockets[id]; ok {
				bb.ExpandByPoint(gr.SocketPos(sk))
			}
		}
	}
	return bb, true
}
