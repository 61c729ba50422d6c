// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"io"

	"cogentcore.org/core/base/iox/jsonx"
	"cogentcore.org/core/math32"
)

// Data is the serializable form of a [Graph], produced by
// [Graph.Export] and consumed by [Graph.Import]. It is a plain value
// type suitable for JSON encoding; entity order in the slices is the
// graph's creation order and is preserved on import.
type Data struct {
	Nodes       []NodeData       `json:"nodes"`
	Connections []ConnectionData `json:"connections"`
}

// NodeData is the serializable form of a [Node] and its sockets.
type NodeData struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Kind    string         `json:"kind,omitempty"`
	Pos     math32.Vector2 `json:"pos"`
	Size    math32.Vector2 `json:"size"`
	Inputs  []SocketData   `json:"inputs,omitempty"`
	Outputs []SocketData   `json:"outputs,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// SocketData is the serializable form of a [Socket]. Direction and
// offset are implied by which list it appears in and its index there.
type SocketData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ConnectionData is the serializable form of a [Connection].
type ConnectionData struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Export returns the full graph content as a [Data] value. The result
// shares no state with the graph and remains valid across later
// mutations.
func (gr *Graph) Export() *Data {
	dt := &Data{}
	for _, nd := range gr.Nodes.Values {
		ndt := NodeData{
			ID:    nd.ID,
			Title: nd.Title,
			Kind:  nd.Kind,
			Pos:   nd.Pos,
			Size:  nd.Size,
		}
		if len(nd.Meta) > 0 {
			ndt.Meta = make(map[string]any, len(nd.Meta))
			for k, v := range nd.Meta {
				ndt.Meta[k] = v
			}
		}
		for _, sid := range nd.Inputs {
			if sk, ok := gr.sockets[sid]; ok {
				ndt.Inputs = append(ndt.Inputs, SocketData{ID: sk.ID, Name: sk.Name, Type: sk.Type})
			}
		}
		for _, sid := range nd.Outputs {
			if sk, ok := gr.sockets[sid]; ok {
				ndt.Outputs = append(ndt.Outputs, SocketData{ID: sk.ID, Name: sk.Name, Type: sk.Type})
			}
		}
		dt.Nodes = append(dt.Nodes, ndt)
	}
	for _, cn := range gr.Connections.Values {
		dt.Connections = append(dt.Connections, ConnectionData{ID: cn.ID, From: cn.From, To: cn.To})
	}
	return dt
}

// Import replaces the graph content with the given data. The data is
// validated in full before anything is replaced: on error (wrapping
// [ErrMalformed]) the existing graph is untouched. Validation rejects
// duplicate ids, connections referencing unknown sockets or with wrong
// directions, and inputs fed by more than one connection. Policy
// checks (same node, types, cycles) are not re-applied: imported data
// is trusted to the structural invariants only, so a graph exported
// under looser policies round-trips under stricter ones.
func (gr *Graph) Import(dt *Data) error {
	ng := &Graph{sockets: map[string]*Socket{}}
	for _, ndt := range dt.Nodes {
		if ndt.ID == "" {
			return fmt.Errorf("%w: node with empty id", ErrMalformed)
		}
		if _, ok := ng.Nodes.AtTry(ndt.ID); ok {
			return fmt.Errorf("%w: duplicate node id %q", ErrMalformed, ndt.ID)
		}
		nd := &Node{
			ID:    ndt.ID,
			Title: ndt.Title,
			Kind:  ndt.Kind,
			Pos:   ndt.Pos,
			Size:  ndt.Size,
			Meta:  make(map[string]any, len(ndt.Meta)),
		}
		if nd.Size.X <= 0 || nd.Size.Y <= 0 {
			nd.Size = math32.Vec2(DefaultWidth, DefaultHeight)
		}
		for k, v := range ndt.Meta {
			nd.Meta[k] = v
		}
		ng.Nodes.Set(nd.ID, nd)
		for _, skt := range ndt.Inputs {
			if err := importSocket(ng, nd, skt, Input); err != nil {
				return err
			}
		}
		for _, skt := range ndt.Outputs {
			if err := importSocket(ng, nd, skt, Output); err != nil {
				return err
			}
		}
		ng.placeSockets(nd)
	}
	taken := map[string]bool{}
	for _, cnt := range dt.Connections {
		if cnt.ID == "" {
			return fmt.Errorf("%w: connection with empty id", ErrMalformed)
		}
		if _, ok := ng.Connections.AtTry(cnt.ID); ok {
			return fmt.Errorf("%w: duplicate connection id %q", ErrMalformed, cnt.ID)
		}
		fsk, ok := ng.sockets[cnt.From]
		if !ok {
			return fmt.Errorf("%w: connection %q from unknown socket %q", ErrMalformed, cnt.ID, cnt.From)
		}
		tsk, ok := ng.sockets[cnt.To]
		if !ok {
			return fmt.Errorf("%w: connection %q to unknown socket %q", ErrMalformed, cnt.ID, cnt.To)
		}
		if fsk.Dir != Output || tsk.Dir != Input {
			return fmt.Errorf("%w: connection %q has wrong socket directions", ErrMalformed, cnt.ID)
		}
		if taken[cnt.To] {
			return fmt.Errorf("%w: input socket %q fed by multiple connections", ErrMalformed, cnt.To)
		}
		taken[cnt.To] = true
		ng.Connections.Set(cnt.ID, &Connection{ID: cnt.ID, From: cnt.From, To: cnt.To})
	}
	gr.Nodes = ng.Nodes
	gr.Connections = ng.Connections
	gr.sockets = ng.sockets
	return nil
}

func importSocket(ng *Graph, nd *Node, skt SocketData, dir Directions) error {
	if skt.ID == "" {
		return fmt.Errorf("%w: socket with empty id on node %q", ErrMalformed, nd.ID)
	}
	if _, ok := ng.sockets[skt.ID]; ok {
		return fmt.Errorf("%w: duplicate socket id %q", ErrMalformed, skt.ID)
	}
	typ := skt.Type
	if typ == "" {
		typ = TypeAny
	}
	sk := &Socket{ID: skt.ID, Node: nd.ID, Name: skt.Name, Dir: dir, Type: typ}
	ng.sockets[sk.ID] = sk
	if dir == Output {
		nd.Outputs = append(nd.Outputs, sk.ID)
	} else {
		nd.Inputs = append(nd.Inputs, sk.ID)
	}
	return nil
}

// WriteJSON writes the graph content as indented JSON to the given
// writer.
func (gr *Graph) WriteJSON(w io.Writer) error {
	return jsonx.WriteIndent(gr.Export(), w)
}

// ReadJSON reads graph content as JSON from the given reader,
// replacing the current content. The current content is kept on any
// error.
func (gr *Graph) ReadJSON(r io.Reader) error {
	dt := &Data{}
	if err := jsonx.Read(dt, r); err != nil {
		return err
	}
	return gr.Import(dt)
}

// SaveJSON saves the graph content to the given JSON file.
func (gr *Graph) SaveJSON(filename string) error {
	return jsonx.SaveIndent(gr.Export(), filename)
}

// OpenJSON opens graph content from the given JSON file, replacing the
// current content. The current content is kept on any error.
func (gr *Graph) OpenJSON(filename string) error {
	dt := &Data{}
	if err := jsonx.Open(dt, filename); err != nil {
		return err
	}
	return gr.Import(dt)
}
