// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodeeditor

import (
	"image"
	"testing"

	"cogentcore.org/core/core"
	"cogentcore.org/core/events"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/styles"
	"github.com/stretchr/testify/assert"

	"github.com/editorkit/nodeeditor/graph"
)

// testEditor returns an editor in a body with a small connected graph:
// an add node feeding a print node.
func testEditor(t *testing.T) (*core.Body, *NodeEditor) {
	t.Helper()
	b := core.NewBody()
	ne := NewNodeEditor(b)
	ne.Styler(func(s *styles.Style) {
		s.Min.X.Dp(480)
		s.Min.Y.Dp(320)
		s.Max.X.Dp(480)
		s.Max.Y.Dp(320)
	})
	gr := ne.Graph
	add := gr.AddNode("Add", "math", math32.Vec2(40, 60))
	gr.AddInput(add.ID, "a", graph.TypeNumber)
	gr.AddInput(add.ID, "b", graph.TypeNumber)
	out, err := gr.AddOutput(add.ID, "sum", graph.TypeNumber)
	assert.NoError(t, err)
	pr := gr.AddNode("Print", "io", math32.Vec2(260, 100))
	in, err := gr.AddInput(pr.ID, "value", graph.TypeAny)
	assert.NoError(t, err)
	_, err = gr.Connect(out.ID, in.ID)
	assert.NoError(t, err)
	return b, ne
}

func TestRender(t *testing.T) {
	b, _ := testEditor(t)
	b.AssertRender(t, "nodeeditor/basic")
}

func TestRenderSelected(t *testing.T) {
	b, ne := testEditor(t)
	ne.SelectNode(ne.Graph.Nodes.Keys[0])
	b.AssertRender(t, "nodeeditor/selected")
}

func TestRenderZoomed(t *testing.T) {
	b, ne := testEditor(t)
	ne.View.SetScale(1.6)
	ne.View.Offset = math32.Vec2(20, 30)
	b.AssertRender(t, "nodeeditor/zoomed")
}

func TestRenderSocketNames(t *testing.T) {
	b, ne := testEditor(t)
	pr := ne.Graph.Nodes.Values[1]
	_, err := ne.Graph.AddOutput(pr.ID, "result", graph.TypeString)
	assert.NoError(t, err)
	b.AssertRender(t, "nodeeditor/socket-names")
}

func TestRenderNoGrid(t *testing.T) {
	b, ne := testEditor(t)
	ne.ShowGrid = false
	b.AssertRender(t, "nodeeditor/no-grid")
}

func TestSelection(t *testing.T) {
	_, ne := testEditor(t)
	ids := ne.Graph.Nodes.Keys
	assert.Empty(t, ne.SelectedNodes())

	ne.SelectNode(ids[0])
	assert.True(t, ne.NodeIsSelected(ids[0]))
	assert.Len(t, ne.SelectedNodes(), 1)

	// selecting an unknown id is a no-op
	ne.SelectNode("nope")
	assert.Len(t, ne.SelectedNodes(), 1)

	ne.SelectAll()
	assert.Len(t, ne.SelectedNodes(), 2)
	assert.Len(t, ne.SelectedConnections(), 1)

	ne.UnselectNode(ids[0])
	assert.False(t, ne.NodeIsSelected(ids[0]))

	ne.UnselectAll()
	assert.Empty(t, ne.SelectedNodes())
	assert.Empty(t, ne.SelectedConnections())
}

func TestRemoveSelected(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	addID := gr.Nodes.Keys[0]

	// nothing selected: no-op
	ne.RemoveSelected()
	assert.Equal(t, 2, gr.Nodes.Len())

	ne.SelectNode(addID)
	ne.RemoveSelected()
	assert.Equal(t, 1, gr.Nodes.Len())
	// the connection to the removed node goes with it
	assert.Equal(t, 0, gr.Connections.Len())
	assert.Empty(t, ne.SelectedNodes())
}

func TestRemoveSelectedConnection(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	cnID := gr.Connections.Keys[0]
	ne.selConns[cnID] = true
	ne.RemoveSelected()
	assert.Equal(t, 0, gr.Connections.Len())
	// nodes are untouched
	assert.Equal(t, 2, gr.Nodes.Len())
}

func TestConnectTo(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	pr := gr.Nodes.Values[1]
	in2, err := gr.AddInput(pr.ID, "also", graph.TypeNumber)
	assert.NoError(t, err)
	add := gr.Nodes.Values[0]
	out, err := gr.Socket(add.Outputs[0])
	assert.NoError(t, err)

	// drop on the new input completes the connection
	ne.wireFrom = out.ID
	assert.True(t, ne.connectTo(gr.SocketPos(in2)))
	assert.NotNil(t, gr.InputConnection(in2.ID))

	// dropping on empty canvas is silently discarded
	assert.NoError(t, gr.Disconnect(gr.InputConnection(in2.ID).ID))
	ne.wireFrom = out.ID
	assert.False(t, ne.connectTo(math32.Vec2(-500, -500)))
	assert.Nil(t, gr.InputConnection(in2.ID))
}

func TestConnectToReversed(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	pr := gr.Nodes.Values[1]
	in2, err := gr.AddInput(pr.ID, "also", graph.TypeNumber)
	assert.NoError(t, err)
	add := gr.Nodes.Values[0]
	out, err := gr.Socket(add.Outputs[0])
	assert.NoError(t, err)

	// dragging from the input to the output connects the same way round
	ne.wireFrom = in2.ID
	assert.True(t, ne.connectTo(gr.SocketPos(out)))
	cn := gr.InputConnection(in2.ID)
	if assert.NotNil(t, cn) {
		assert.Equal(t, out.ID, cn.From)
	}
}

func TestConnectToInvalid(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	add := gr.Nodes.Values[0]
	a, err := gr.Socket(add.Inputs[0])
	assert.NoError(t, err)
	b, err := gr.Socket(add.Inputs[1])
	assert.NoError(t, err)

	// input to input on the same node fails without side effects
	ne.wireFrom = a.ID
	assert.False(t, ne.connectTo(gr.SocketPos(b)))
	assert.Equal(t, 1, gr.Connections.Len())
}

func TestSelectInBox(t *testing.T) {
	_, ne := testEditor(t)
	ids := ne.Graph.Nodes.Keys

	// box over the first node only, in any sweep direction
	ne.boxStart = math32.Vec2(200, 200)
	ne.boxEnd = math32.Vec2(20, 40)
	ne.boxExtend = false
	ne.selectInBox()
	assert.True(t, ne.NodeIsSelected(ids[0]))
	assert.False(t, ne.NodeIsSelected(ids[1]))

	// extend keeps the existing selection
	ne.boxStart = math32.Vec2(250, 90)
	ne.boxEnd = math32.Vec2(400, 200)
	ne.boxExtend = true
	ne.selectInBox()
	assert.True(t, ne.NodeIsSelected(ids[0]))
	assert.True(t, ne.NodeIsSelected(ids[1]))

	// replace drops it
	ne.boxStart = math32.Vec2(250, 90)
	ne.boxEnd = math32.Vec2(400, 200)
	ne.boxExtend = false
	ne.selectInBox()
	assert.False(t, ne.NodeIsSelected(ids[0]))
	assert.True(t, ne.NodeIsSelected(ids[1]))
}

func TestSlideMoveDrag(t *testing.T) {
	_, ne := testEditor(t)
	nd := ne.Graph.Nodes.Values[0]
	orig := nd.Pos

	ne.SelectNode(nd.ID)
	ne.drag = dragNode
	// a stale id in the drag set is logged and skipped
	ne.dragOrig = map[string]math32.Vector2{nd.ID: orig, "gone": {}}
	ne.slideMove(events.NewMouseDrag(events.Left, image.Pt(150, 100), image.Pt(140, 95), image.Pt(100, 80), 0))
	assert.Equal(t, orig.Add(math32.Vec2(50, 20)), nd.Pos)
}

func TestScrollDuringDrag(t *testing.T) {
	_, ne := testEditor(t)
	assert.Equal(t, float32(1), ne.View.Scale)

	// the wheel is ignored while a gesture is in progress
	ne.drag = dragNode
	ne.HandleEvent(events.NewScroll(image.Pt(100, 100), math32.Vec2(0, 2), 0))
	assert.Equal(t, float32(1), ne.View.Scale)

	ne.drag = dragNone
	ne.HandleEvent(events.NewScroll(image.Pt(100, 100), math32.Vec2(0, 2), 0))
	assert.InDelta(t, 1.2, ne.View.Scale, 1e-6)
}

func TestClickAfterDrag(t *testing.T) {
	_, ne := testEditor(t)
	nd := ne.Graph.Nodes.Values[0]
	ctr := nd.Pos.Add(nd.Size.MulScalar(0.5))
	pt := image.Pt(int(ctr.X), int(ctr.Y))

	// the click delivered for the press that ended as a drag is swallowed
	ne.drag = dragNode
	ne.slideStop(events.NewMouse(events.SlideStop, events.Left, image.Pt(0, 0), 0))
	assert.True(t, ne.justDragged)
	ne.click(events.NewMouse(events.Click, events.Left, pt, 0))
	assert.False(t, ne.NodeIsSelected(nd.ID))

	// a fresh press clears the suppression even with no click in between
	ne.drag = dragNode
	ne.slideStop(events.NewMouse(events.SlideStop, events.Left, image.Pt(0, 0), 0))
	ne.HandleEvent(events.NewMouse(events.MouseDown, events.Left, pt, 0))
	assert.False(t, ne.justDragged)
	ne.click(events.NewMouse(events.Click, events.Left, pt, 0))
	assert.True(t, ne.NodeIsSelected(nd.ID))
}

func TestSocketHitZoomed(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	add := gr.Nodes.Values[0]
	out, err := gr.Socket(add.Outputs[0])
	assert.NoError(t, err)

	// 10 screen pixels off center is 50 canvas units at minimum zoom,
	// still inside the screen-constant grab radius
	ne.View.SetScale(MinZoom)
	pt := gr.SocketPos(out).Add(math32.Vec2(10/MinZoom, 0))
	assert.Same(t, out, ne.socketAt(pt))

	ne.View.SetScale(1)
	assert.Nil(t, ne.socketAt(pt))
}

func TestAbortDrag(t *testing.T) {
	_, ne := testEditor(t)
	gr := ne.Graph
	nd := gr.Nodes.Values[0]
	orig := nd.Pos

	ne.SelectNode(nd.ID)
	ne.drag = dragNode
	ne.dragOrig = map[string]math32.Vector2{nd.ID: orig}
	gr.MoveNode(nd.ID, orig.Add(math32.Vec2(100, 50)))

	ne.abortDrag()
	assert.Equal(t, orig, nd.Pos)
	assert.Equal(t, dragNone, ne.drag)
}

func TestSnapPos(t *testing.T) {
	_, ne := testEditor(t)
	pt := math32.Vec2(33, 47)
	// snapping is off by default
	assert.Equal(t, pt, ne.snapPos(pt))
	ne.SnapToGrid = true
	assert.Equal(t, math32.Vec2(40, 40), ne.snapPos(pt))
	assert.Equal(t, math32.Vec2(-20, 0), ne.snapPos(math32.Vec2(-25, 9)))
}

func TestAddNodeAt(t *testing.T) {
	_, ne := testEditor(t)
	nd := ne.AddNodeAt("New", "misc", math32.Vec2(7, 9))
	assert.Equal(t, 3, ne.Graph.Nodes.Len())
	assert.Equal(t, math32.Vec2(7, 9), nd.Pos)
	// the new node becomes the sole selection
	assert.Equal(t, []*graph.Node{nd}, ne.SelectedNodes())
}

func TestZoomToFit(t *testing.T) {
	_, ne := testEditor(t)
	ne.View.Offset = math32.Vec2(5000, 5000)
	ne.View.SetScale(3)
	ne.ZoomToFit()

	bb, ok := ne.Graph.BoundingBox()
	assert.True(t, ok)
	// the graph center lands mid-view and the box fits inside
	sz := math32.Vec2(800, 600)
	ctr := ne.View.ToView(bb.Center())
	assert.InDelta(t, sz.X/2, ctr.X, 0.5)
	assert.InDelta(t, sz.Y/2, ctr.Y, 0.5)
	vmin := ne.View.ToView(bb.Min)
	vmax := ne.View.ToView(bb.Max)
	assert.GreaterOrEqual(t, vmin.X, float32(0))
	assert.LessOrEqual(t, vmax.X, sz.X)
	assert.GreaterOrEqual(t, vmin.Y, float32(0))
	assert.LessOrEqual(t, vmax.Y, sz.Y)
}

func TestZoomToFitEmpty(t *testing.T) {
	b := core.NewBody()
	ne := NewNodeEditor(b)
	ne.View.Offset = math32.Vec2(123, 456)
	ne.View.SetScale(2)
	ne.ZoomToFit()
	assert.Equal(t, float32(1), ne.View.Scale)
	assert.Equal(t, math32.Vector2{}, ne.View.Offset)
}

func TestSetGraph(t *testing.T) {
	_, ne := testEditor(t)
	ne.SelectAll()
	gr := graph.New()
	gr.AddNode("Only", "", math32.Vec2(0, 0))
	ne.SetGraph(gr)
	assert.Same(t, gr, ne.Graph)
	assert.Empty(t, ne.SelectedNodes())

	ne.SetGraph(nil)
	assert.NotNil(t, ne.Graph)
	assert.Equal(t, 0, ne.Graph.Nodes.Len())
}

func TestSocketColor(t *testing.T) {
	assert.Equal(t, socketColors[graph.TypeNumber], SocketColor(graph.TypeNumber))
	// unknown tags use the any color
	assert.Equal(t, socketColors[graph.TypeAny], SocketColor("custom"))
}
