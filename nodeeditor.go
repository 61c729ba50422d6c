// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nodeeditor provides an interactive node-graph editor widget:
// a pannable, zoomable canvas of draggable nodes with typed sockets,
// connected by bezier wires. The data model lives in the
// [graph] package; this package adds the viewport transform, the mouse
// and keyboard interaction, and the rendering.
package nodeeditor

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/colors"
	"cogentcore.org/core/core"
	"cogentcore.org/core/cursors"
	"cogentcore.org/core/events"
	"cogentcore.org/core/icons"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/styles"
	"cogentcore.org/core/styles/abilities"
	"cogentcore.org/core/styles/states"
	"cogentcore.org/core/tree"

	"github.com/editorkit/nodeeditor/graph"
)

// NodeEditor is a widget presenting an editable node graph on an
// infinite canvas. Left-drag on a node moves the selection, left-drag
// from a socket draws a new connection, left-drag on empty canvas
// rubber-band selects, middle-drag pans, and the scroll wheel zooms
// about the pointer. It sends [events.Change] when the graph content
// changes and [events.Select] when the selection changes.
type NodeEditor struct {
	core.WidgetBase

	// Graph is the node graph being edited. It is owned by the editor;
	// replace it with [NodeEditor.SetGraph] rather than assigning.
	Graph *graph.Graph `set:"-"`

	// View is the pan and zoom transform from canvas to view space.
	View *Viewport `set:"-"`

	// ShowGrid toggles the background grid. On by default;
	// the G key toggles it.
	ShowGrid bool

	// GridSize is the minor grid spacing in canvas units. Every fifth
	// line renders heavier. Default is 20.
	GridSize float32

	// SnapToGrid snaps node positions to the grid while dragging.
	SnapToGrid bool

	// FitMargin is the view-pixel margin left around the content by
	// [NodeEditor.ZoomToFit]. Default is 40.
	FitMargin float32

	// selNodes and selConns are the current selection, by id.
	selNodes map[string]bool
	selConns map[string]bool

	// drag is the current drag interaction, if any.
	drag dragStates

	// dragOrig records the canvas positions of the selected nodes at
	// the start of a move drag, for delta application and Esc restore.
	dragOrig map[string]math32.Vector2

	// wireFrom is the socket the in-progress connection started from,
	// and wireTo the canvas position of its loose end.
	wireFrom string
	wireTo   math32.Vector2

	// boxStart and boxEnd are the canvas corners of the rubber band.
	boxStart, boxEnd math32.Vector2

	// boxExtend is whether the rubber band extends the selection
	// rather than replacing it.
	boxExtend bool

	// lastSlide is the previous pointer position during a pan drag, in
	// view space.
	lastSlide math32.Vector2

	// justDragged suppresses any click delivered for the press whose
	// drag just ended. The next press clears it.
	justDragged bool

	// menuPos is the canvas position of the last context menu, where
	// Add node places new nodes.
	menuPos math32.Vector2
}

// NewNodeEditor returns a new [NodeEditor] with the given optional parent.
func NewNodeEditor(parent ...tree.Node) *NodeEditor {
	return tree.New[NodeEditor](parent...)
}

func (ne *NodeEditor) Init() {
	ne.WidgetBase.Init()
	ne.Graph = graph.New()
	ne.View = NewViewport()
	ne.ShowGrid = true
	ne.GridSize = 20
	ne.FitMargin = 40
	ne.selNodes = map[string]bool{}
	ne.selConns = map[string]bool{}

	ne.Styler(func(s *styles.Style) {
		s.SetAbilities(true, abilities.Activatable, abilities.Focusable, abilities.Hoverable, abilities.Slideable)
		s.Grow.Set(1, 1)
		s.Min.X.Em(20)
		s.Min.Y.Em(15)
		s.Background = colors.Scheme.SurfaceContainerLow
		s.Cursor = cursors.Arrow
		if s.Is(states.Sliding) {
			switch ne.drag {
			case dragPan:
				s.Cursor = cursors.Grabbing
			case dragNode:
				s.Cursor = cursors.Move
			}
		}
	})

	ne.On(events.SlideStart, func(e events.Event) {
		ne.slideStart(e)
	})
	ne.On(events.SlideMove, func(e events.Event) {
		ne.slideMove(e)
	})
	ne.On(events.SlideStop, func(e events.Event) {
		ne.slideStop(e)
	})
	ne.On(events.MouseDown, func(e events.Event) {
		// a new press ends the suppression window of the last drag
		ne.justDragged = false
	})
	ne.On(events.Click, func(e events.Event) {
		ne.click(e)
	})
	ne.On(events.Scroll, func(e events.Event) {
		se := e.(*events.MouseScroll)
		se.SetHandled()
		if ne.drag != dragNone { // zoom only while idle
			return
		}
		ne.SetFocus()
		ne.View.ZoomWheel(se.Delta.Y, ne.eventPos(e))
		ne.NeedsRender()
	})
	ne.OnKeyChord(func(e events.Event) {
		ne.keyChord(e)
	})
	ne.On(events.ContextMenu, func(e events.Event) {
		ne.menuPos = ne.canvasPos(e)
	})

	ne.AddContextMenu(ne.contextMenu)
}

// SetGraph replaces the edited graph, clearing the selection and any
// drag in progress. A nil graph installs a new empty one.
func (ne *NodeEditor) SetGraph(gr *graph.Graph) *NodeEditor {
	if gr == nil {
		gr = graph.New()
	}
	ne.Graph = gr
	ne.clearDrag()
	ne.selNodes = map[string]bool{}
	ne.selConns = map[string]bool{}
	ne.NeedsRender()
	return ne
}

// eventPos returns the event position in view space (editor-local
// pixels).
func (ne *NodeEditor) eventPos(e events.Event) math32.Vector2 {
	return math32.FromPoint(ne.PointToRelPos(e.Pos()))
}

// canvasPos returns the event position in canvas space.
func (ne *NodeEditor) canvasPos(e events.Event) math32.Vector2 {
	return ne.View.ToCanvas(ne.eventPos(e))
}

// SelectedNodes returns the selected nodes, in graph order.
func (ne *NodeEditor) SelectedNodes() []*graph.Node {
	var nds []*graph.Node
	for _, nd := range ne.Graph.Nodes.Values {
		if ne.selNodes[nd.ID] {
			nds = append(nds, nd)
		}
	}
	return nds
}

// SelectedConnections returns the selected connections, in graph order.
func (ne *NodeEditor) SelectedConnections() []*graph.Connection {
	var cns []*graph.Connection
	for _, cn := range ne.Graph.Connections.Values {
		if ne.selConns[cn.ID] {
			cns = append(cns, cn)
		}
	}
	return cns
}

// NodeIsSelected reports whether the node with the given id is selected.
func (ne *NodeEditor) NodeIsSelected(id string) bool {
	return ne.selNodes[id]
}

// SelectNode adds the node with the given id to the selection.
func (ne *NodeEditor) SelectNode(id string) {
	if _, err := ne.Graph.Node(id); err != nil {
		return
	}
	ne.selNodes[id] = true
	ne.NeedsRender()
}

// UnselectNode removes the node with the given id from the selection.
func (ne *NodeEditor) UnselectNode(id string) {
	delete(ne.selNodes, id)
	ne.NeedsRender()
}

// SelectAll selects every node and connection.
func (ne *NodeEditor) SelectAll() {
	for _, id := range ne.Graph.Nodes.Keys {
		ne.selNodes[id] = true
	}
	for _, id := range ne.Graph.Connections.Keys {
		ne.selConns[id] = true
	}
	ne.NeedsRender()
}

// UnselectAll clears the selection.
func (ne *NodeEditor) UnselectAll() {
	ne.selNodes = map[string]bool{}
	ne.selConns = map[string]bool{}
	ne.NeedsRender()
}

// selectOnly makes the node with the given id the sole selection.
func (ne *NodeEditor) selectOnly(id string) {
	ne.selNodes = map[string]bool{id: true}
	ne.selConns = map[string]bool{}
	ne.NeedsRender()
}

// RemoveSelected deletes the selected nodes (with their connections)
// and the selected connections from the graph, then clears the
// selection and sends [events.Change] if anything was removed.
func (ne *NodeEditor) RemoveSelected() {
	n := len(ne.selNodes) + len(ne.selConns)
	if n == 0 {
		return
	}
	for id := range ne.selConns {
		errors.Log(ne.Graph.Disconnect(id))
	}
	for id := range ne.selNodes {
		errors.Log(ne.Graph.RemoveNode(id))
	}
	ne.selNodes = map[string]bool{}
	ne.selConns = map[string]bool{}
	ne.NeedsRender()
	ne.SendChange()
}

// ZoomToFit pans and zooms so the whole graph is visible, with
// [NodeEditor.FitMargin] around it. An empty graph resets to the
// origin at scale 1.
func (ne *NodeEditor) ZoomToFit() {
	sz := math32.FromPoint(ne.Geom.ContentBBox.Size())
	if sz.X <= 0 || sz.Y <= 0 {
		sz = math32.Vec2(800, 600)
	}
	bb, ok := ne.Graph.BoundingBox()
	if !ok {
		ne.View.Offset = math32.Vector2{}
		ne.View.Scale = 1
		ne.NeedsRender()
		return
	}
	ne.View.Fit(bb, sz, ne.FitMargin)
	ne.NeedsRender()
}

// AddNodeAt creates a node with the given title and kind at the given
// canvas position, selects it, and sends [events.Change].
func (ne *NodeEditor) AddNodeAt(title, kind string, pos math32.Vector2) *graph.Node {
	nd := ne.Graph.AddNode(title, kind, pos)
	ne.selectOnly(nd.ID)
	ne.SendChange()
	return nd
}

func (ne *NodeEditor) contextMenu(m *core.Scene) {
	core.NewButton(m).SetText("Add node").SetIcon(icons.Add).OnClick(func(e events.Event) {
		ne.AddNodeAt("Node", "", ne.menuPos)
	})
	if len(ne.selNodes)+len(ne.selConns) > 0 {
		core.NewButton(m).SetText("Delete").SetIcon(icons.Delete).OnClick(func(e events.Event) {
			ne.RemoveSelected()
		})
	}
	core.NewButton(m).SetText("Select all").SetIcon(icons.CheckBox).OnClick(func(e events.Event) {
		ne.SelectAll()
	})
	core.NewSeparator(m)
	core.NewButton(m).SetText("Zoom to fit").SetIcon(icons.CenterFocusStrong).OnClick(func(e events.Event) {
		ne.ZoomToFit()
	})
	grid := "Show grid"
	gic := icons.Visibility
	if ne.ShowGrid {
		grid = "Hide grid"
		gic = icons.VisibilityOff
	}
	core.NewButton(m).SetText(grid).SetIcon(gic).OnClick(func(e events.Event) {
		ne.ShowGrid = !ne.ShowGrid
		ne.NeedsRender()
	})
}
