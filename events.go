// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodeeditor

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/core"
	"cogentcore.org/core/events"
	"cogentcore.org/core/keymap"
	"cogentcore.org/core/math32"

	"github.com/editorkit/nodeeditor/graph"
)

// dragStates is the current drag interaction of the editor. Only one
// drag can be active at a time; it is chosen at [events.SlideStart]
// from what is under the pointer and which button is down, and runs
// until [events.SlideStop] or an abort.
type dragStates int32

const (
	// dragNone means no drag is in progress.
	dragNone dragStates = iota

	// dragNode moves the selected nodes with the pointer.
	dragNode

	// dragWire draws a pending connection from a socket to the pointer.
	dragWire

	// dragBox sweeps a rubber-band selection rectangle.
	dragBox

	// dragPan pans the viewport.
	dragPan
)

// socketHitRadius is the hit-test radius around a socket center, in
// view pixels: twice the visual radius, for easier grabbing. It is
// divided by the zoom so the grab target stays the same size on
// screen at any zoom.
const socketHitRadius = 2 * graph.SocketRadius

// connHitTolerance is the hit-test distance from a connection curve,
// in view pixels, divided by the zoom like [socketHitRadius].
const connHitTolerance float32 = 8

// socketAt returns the socket under the given canvas point, using the
// screen-constant grab radius.
func (ne *NodeEditor) socketAt(pt math32.Vector2) *graph.Socket {
	return ne.Graph.SocketAt(pt, socketHitRadius/ne.View.Scale)
}

func (ne *NodeEditor) slideStart(e events.Event) {
	view := ne.eventPos(e)
	pt := ne.View.ToCanvas(view)
	ne.lastSlide = view
	ne.SetFocus()

	if e.MouseButton() == events.Middle {
		ne.drag = dragPan
		return
	}
	if e.MouseButton() != events.Left {
		return
	}
	if sk := ne.socketAt(pt); sk != nil {
		ne.drag = dragWire
		ne.wireFrom = sk.ID
		ne.wireTo = pt
		ne.NeedsRender()
		return
	}
	if nd := ne.Graph.NodeAt(pt); nd != nil {
		if !ne.selNodes[nd.ID] {
			if e.SelectMode() == events.SelectOne {
				ne.selectOnly(nd.ID)
			} else {
				ne.SelectNode(nd.ID)
			}
			ne.Send(events.Select, e)
		}
		ne.drag = dragNode
		ne.dragOrig = map[string]math32.Vector2{}
		for _, sel := range ne.SelectedNodes() {
			ne.dragOrig[sel.ID] = sel.Pos
		}
		return
	}
	ne.drag = dragBox
	ne.boxStart = pt
	ne.boxEnd = pt
	ne.boxExtend = e.SelectMode() != events.SelectOne
	ne.NeedsRender()
}

func (ne *NodeEditor) slideMove(e events.Event) {
	view := ne.eventPos(e)
	switch ne.drag {
	case dragPan:
		ne.View.Pan(view.Sub(ne.lastSlide))
	case dragNode:
		delta := math32.FromPoint(e.StartDelta()).DivScalar(ne.View.Scale)
		for id, orig := range ne.dragOrig {
			errors.Log(ne.Graph.MoveNode(id, ne.snapPos(orig.Add(delta))))
		}
	case dragWire:
		ne.wireTo = ne.View.ToCanvas(view)
	case dragBox:
		ne.boxEnd = ne.View.ToCanvas(view)
	default:
		return
	}
	ne.lastSlide = view
	ne.NeedsRender()
}

func (ne *NodeEditor) slideStop(e events.Event) {
	switch ne.drag {
	case dragNode:
		ne.SendChange(e)
	case dragWire:
		pt := ne.canvasPos(e)
		if ne.connectTo(pt) {
			ne.SendChange(e)
		}
	case dragBox:
		ne.boxEnd = ne.canvasPos(e)
		ne.selectInBox()
		ne.Send(events.Select, e)
	}
	ne.clearDrag()
	ne.justDragged = true
	ne.NeedsRender()
}

// snapPos rounds the given canvas position to the grid when
// [NodeEditor.SnapToGrid] is on.
func (ne *NodeEditor) snapPos(pos math32.Vector2) math32.Vector2 {
	if !ne.SnapToGrid || ne.GridSize <= 0 {
		return pos
	}
	return pos.DivScalar(ne.GridSize).Round().MulScalar(ne.GridSize)
}

// clearDrag resets all drag state without applying anything.
func (ne *NodeEditor) clearDrag() {
	ne.drag = dragNone
	ne.dragOrig = nil
	ne.wireFrom = ""
}

// abortDrag cancels the drag in progress, restoring the node positions
// of a move drag.
func (ne *NodeEditor) abortDrag() {
	if ne.drag == dragNode {
		for id, orig := range ne.dragOrig {
			errors.Log(ne.Graph.MoveNode(id, orig))
		}
	}
	ne.clearDrag()
	ne.NeedsRender()
}

// connectTo completes a wire drag at the given canvas point, reporting
// whether a connection was made. The wire can be dragged in either
// direction: starting from an input grabs the far end, so the output
// socket is whichever end has that direction. Invalid drops are
// discarded without any change.
func (ne *NodeEditor) connectTo(pt math32.Vector2) bool {
	from, err := ne.Graph.Socket(ne.wireFrom)
	if err != nil {
		return false
	}
	to := ne.socketAt(pt)
	if to == nil || to.ID == from.ID {
		return false
	}
	if from.Dir == graph.Input {
		from, to = to, from
	}
	_, err = ne.Graph.Connect(from.ID, to.ID)
	return err == nil
}

// selectInBox applies the rubber-band selection: nodes intersecting
// the box replace the selection, or extend it for a shift drag.
func (ne *NodeEditor) selectInBox() {
	if !ne.boxExtend {
		ne.selNodes = map[string]bool{}
		ne.selConns = map[string]bool{}
	}
	box := math32.B2Empty()
	box.ExpandByPoint(ne.boxStart)
	box.ExpandByPoint(ne.boxEnd)
	for _, nd := range ne.Graph.NodesInBox(box) {
		ne.selNodes[nd.ID] = true
	}
}

func (ne *NodeEditor) click(e events.Event) {
	if ne.justDragged {
		ne.justDragged = false
		return
	}
	if e.MouseButton() != events.Left {
		return
	}
	pt := ne.canvasPos(e)
	if ne.socketAt(pt) != nil {
		return
	}
	if nd := ne.Graph.NodeAt(pt); nd != nil {
		switch e.SelectMode() {
		case events.ExtendContinuous, events.ExtendOne:
			if ne.selNodes[nd.ID] {
				ne.UnselectNode(nd.ID)
			} else {
				ne.SelectNode(nd.ID)
			}
		default:
			ne.selectOnly(nd.ID)
		}
		ne.Send(events.Select, e)
		return
	}
	if cn := ne.Graph.ConnectionAt(pt, connHitTolerance/ne.View.Scale); cn != nil {
		if e.SelectMode() == events.SelectOne {
			ne.selNodes = map[string]bool{}
			ne.selConns = map[string]bool{cn.ID: true}
		} else {
			ne.selConns[cn.ID] = !ne.selConns[cn.ID]
			if !ne.selConns[cn.ID] {
				delete(ne.selConns, cn.ID)
			}
		}
		ne.NeedsRender()
		ne.Send(events.Select, e)
		return
	}
	if len(ne.selNodes)+len(ne.selConns) > 0 {
		ne.UnselectAll()
		ne.Send(events.Select, e)
	}
}

func (ne *NodeEditor) keyChord(e events.Event) {
	kf := keymap.Of(e.KeyChord())
	if core.DebugSettings.KeyEventTrace {
		slog.Info("NodeEditor KeyInput", "widget", ne, "keyFunction", kf)
	}
	switch kf {
	case keymap.Abort:
		if ne.drag != dragNone {
			ne.abortDrag()
		} else {
			ne.UnselectAll()
			ne.Send(events.Select, e)
		}
		e.SetHandled()
		return
	case keymap.Delete, keymap.Backspace:
		ne.RemoveSelected()
		e.SetHandled()
		return
	case keymap.SelectAll:
		ne.SelectAll()
		ne.Send(events.Select, e)
		e.SetHandled()
		return
	}
	switch e.KeyRune() {
	case 'f':
		ne.ZoomToFit()
		e.SetHandled()
	case 'g':
		ne.ShowGrid = !ne.ShowGrid
		ne.NeedsRender()
		e.SetHandled()
	}
}
