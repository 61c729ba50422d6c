// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodeeditor

import (
	"image"
	"image/color"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/core"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/text/rich"

	"github.com/editorkit/nodeeditor/graph"
)

// gridMajorEvery is how many minor grid lines apart the heavier major
// lines are drawn.
const gridMajorEvery = 5

// socketColors maps well-known socket type tags to their display
// color. Unknown tags fall back to the [graph.TypeAny] entry.
var socketColors = map[string]image.Image{
	graph.TypeAny:     colors.Uniform(color.RGBA{158, 158, 158, 255}),
	graph.TypeExec:    colors.Uniform(color.RGBA{238, 238, 238, 255}),
	graph.TypeNumber:  colors.Uniform(color.RGBA{103, 218, 108, 255}),
	graph.TypeString:  colors.Uniform(color.RGBA{211, 107, 192, 255}),
	graph.TypeBoolean: colors.Uniform(color.RGBA{213, 96, 98, 255}),
	graph.TypeVector:  colors.Uniform(color.RGBA{220, 196, 91, 255}),
	graph.TypeColor:   colors.Uniform(color.RGBA{230, 158, 81, 255}),
	graph.TypeObject:  colors.Uniform(color.RGBA{94, 146, 233, 255}),
}

// SocketColor returns the display color for the given socket type tag.
func SocketColor(typ string) image.Image {
	if c, ok := socketColors[typ]; ok {
		return c
	}
	return socketColors[graph.TypeAny]
}

func (ne *NodeEditor) Render() {
	ne.RenderStandardBox()
	pc := &ne.Scene.Painter
	sz := ne.Geom.Size.Actual.Content

	if ne.ShowGrid {
		ne.renderGrid(sz)
	}
	for _, cn := range ne.Graph.Connections.Values {
		ne.renderConnection(cn)
	}
	if ne.drag == dragWire {
		ne.renderWire()
	}
	for _, nd := range ne.Graph.Nodes.Values {
		ne.renderNode(nd)
	}
	if ne.drag == dragBox {
		ne.renderBox()
	}
	pc.Stroke.Color = nil
}

// viewPos transforms a canvas point into scene pixels.
func (ne *NodeEditor) viewPos(pt math32.Vector2) math32.Vector2 {
	return ne.Geom.Pos.Content.Add(ne.View.ToView(pt))
}

// renderGrid draws the minor and major grid lines covering the
// visible canvas region.
func (ne *NodeEditor) renderGrid(sz math32.Vector2) {
	pc := &ne.Scene.Painter
	pos := ne.Geom.Pos.Content
	step := ne.GridSize
	if step <= 0 {
		return
	}
	cmin := ne.View.ToCanvas(math32.Vector2{})
	cmax := ne.View.ToCanvas(sz)

	line := func(a, b math32.Vector2, heavy bool) {
		if heavy {
			pc.Stroke.Color = colors.Scheme.Outline
		} else {
			pc.Stroke.Color = colors.Scheme.OutlineVariant
		}
		av := pos.Add(ne.View.ToView(a))
		bv := pos.Add(ne.View.ToView(b))
		pc.Line(av.X, av.Y, bv.X, bv.Y)
		pc.Draw()
	}

	pc.Fill.Color = nil
	pc.Stroke.Width.Dp(1)
	for i := int(math32.Floor(cmin.X / step)); float32(i)*step <= cmax.X; i++ {
		x := float32(i) * step
		line(math32.Vec2(x, cmin.Y), math32.Vec2(x, cmax.Y), i%gridMajorEvery == 0)
	}
	for i := int(math32.Floor(cmin.Y / step)); float32(i)*step <= cmax.Y; i++ {
		y := float32(i) * step
		line(math32.Vec2(cmin.X, y), math32.Vec2(cmax.X, y), i%gridMajorEvery == 0)
	}
}

// strokeCurve strokes the connection curve between two canvas points.
// The control points are computed in canvas space so the drawn curve
// matches the hit-tested one exactly, then mapped through the viewport.
func (ne *NodeEditor) strokeCurve(start, end math32.Vector2, offset float32) {
	pc := &ne.Scene.Painter
	c1, c2 := graph.CurveControls(start, end, offset)
	sv, ev := ne.viewPos(start), ne.viewPos(end)
	c1v, c2v := ne.viewPos(c1), ne.viewPos(c2)
	pc.Fill.Color = nil
	pc.MoveTo(sv.X, sv.Y)
	pc.CubeTo(c1v.X, c1v.Y, c2v.X, c2v.Y, ev.X, ev.Y)
	pc.Draw()
}

func (ne *NodeEditor) renderConnection(cn *graph.Connection) {
	gr := ne.Graph
	fsk, err := gr.Socket(cn.From)
	if err != nil {
		return
	}
	tsk, err := gr.Socket(cn.To)
	if err != nil {
		return
	}
	pc := &ne.Scene.Painter
	if ne.selConns[cn.ID] {
		pc.Stroke.Color = colors.Scheme.Primary.Base
		pc.Stroke.Width.Dp(3 * ne.View.Scale)
	} else {
		pc.Stroke.Color = SocketColor(fsk.Type)
		pc.Stroke.Width.Dp(2 * ne.View.Scale)
	}
	ne.strokeCurve(gr.SocketPos(fsk), gr.SocketPos(tsk), cn.ControlOffset)
}

// renderWire draws the in-progress connection from its source socket
// to the pointer.
func (ne *NodeEditor) renderWire() {
	sk, err := ne.Graph.Socket(ne.wireFrom)
	if err != nil {
		return
	}
	pc := &ne.Scene.Painter
	pc.Stroke.Color = SocketColor(sk.Type)
	pc.Stroke.Width.Dp(2 * ne.View.Scale)
	start := ne.Graph.SocketPos(sk)
	end := ne.wireTo
	if sk.Dir == graph.Input {
		start, end = end, start
	}
	ne.strokeCurve(start, end, 0)
}

func (ne *NodeEditor) renderNode(nd *graph.Node) {
	pc := &ne.Scene.Painter
	pos := ne.viewPos(nd.Pos)
	sz := nd.Size.MulScalar(ne.View.Scale)
	hh := graph.HeaderHeight * ne.View.Scale
	rad := 6 * ne.View.Scale

	pc.Fill.Color = colors.Scheme.SurfaceContainerHigh
	if ne.selNodes[nd.ID] {
		pc.Stroke.Color = colors.Scheme.Primary.Base
		pc.Stroke.Width.Dp(2)
	} else {
		pc.Stroke.Color = colors.Scheme.Outline
		pc.Stroke.Width.Dp(1)
	}
	pc.RoundedRectangle(pos.X, pos.Y, sz.X, sz.Y, rad)
	pc.Draw()

	pc.Fill.Color = colors.Scheme.Primary.Container
	pc.Stroke.Color = nil
	pc.RoundedRectangle(pos.X, pos.Y, sz.X, hh, rad)
	pc.Draw()

	ne.renderTitle(nd, pos, sz, hh)

	for _, sid := range nd.Inputs {
		ne.renderSocket(sid)
	}
	for _, sid := range nd.Outputs {
		ne.renderSocket(sid)
	}
}

// renderTitle draws the node title in the header band, wrapped to the
// node width.
func (ne *NodeEditor) renderTitle(nd *graph.Node, pos, sz math32.Vector2, hh float32) {
	if nd.Title == "" || ne.Scene.TextShaper() == nil {
		return
	}
	pc := &ne.Scene.Painter
	fsty, tsty := ne.Styles.NewRichText()
	fsty.Size *= ne.View.Scale
	fsty.SetFillColor(colors.ToUniform(colors.Scheme.OnSurface))
	tx := rich.NewText(fsty, []rune(nd.Title))
	lns := ne.Scene.TextShaper().WrapLines(tx, fsty, tsty, math32.Vec2(sz.X, hh))
	pad := 6 * ne.View.Scale
	pc.DrawText(lns, math32.Vec2(pos.X+pad, pos.Y+0.5*(hh-lns.Bounds.Size().Y)))
}

func (ne *NodeEditor) renderSocket(id string) {
	sk, err := ne.Graph.Socket(id)
	if err != nil {
		return
	}
	pc := &ne.Scene.Painter
	ctr := ne.viewPos(ne.Graph.SocketPos(sk))
	r := graph.SocketRadius * ne.View.Scale

	connected := false
	if sk.Dir == graph.Input {
		connected = ne.Graph.InputConnection(sk.ID) != nil
	} else {
		connected = len(ne.Graph.ConnectionsFrom(sk.ID)) > 0
	}
	if connected {
		pc.Fill.Color = SocketColor(sk.Type)
	} else {
		pc.Fill.Color = colors.Scheme.SurfaceContainerLow
	}
	pc.Stroke.Color = SocketColor(sk.Type)
	pc.Stroke.Width.Dp(1.5 * ne.View.Scale)
	pc.Circle(ctr.X, ctr.Y, r)
	pc.Draw()

	ne.renderSocketLabel(sk, ctr, r)
}

// renderSocketLabel draws the socket name inside the node body, next
// to its circle: right of an input, left of an output.
func (ne *NodeEditor) renderSocketLabel(sk *graph.Socket, ctr math32.Vector2, r float32) {
	if sk.Name == "" || ne.Scene.TextShaper() == nil {
		return
	}
	pc := &ne.Scene.Painter
	fsty, tsty := ne.Styles.NewRichText()
	fsty.Size *= 0.8 * ne.View.Scale
	fsty.SetFillColor(colors.ToUniform(colors.Scheme.OnSurfaceVariant))
	tx := rich.NewText(fsty, []rune(sk.Name))
	lns := ne.Scene.TextShaper().WrapLines(tx, fsty, tsty, math32.Vec2(10000, 100))
	tsz := lns.Bounds.Size()
	pad := 2*r + 4*ne.View.Scale
	pos := math32.Vec2(ctr.X+pad, ctr.Y-0.5*tsz.Y)
	if sk.Dir == graph.Output {
		pos.X = ctr.X - pad - tsz.X
	}
	pc.DrawText(lns, pos)
}

// renderBox draws the translucent rubber-band selection rectangle.
func (ne *NodeEditor) renderBox() {
	pc := &ne.Scene.Painter
	box := math32.B2Empty()
	box.ExpandByPoint(ne.boxStart)
	box.ExpandByPoint(ne.boxEnd)
	pos := ne.viewPos(box.Min)
	sz := box.Size().MulScalar(ne.View.Scale)
	sel := colors.ToUniform(colors.Scheme.Primary.Base)
	pc.Fill.Color = colors.Uniform(colors.WithAF32(sel, 0.12))
	pc.Stroke.Color = colors.Uniform(sel)
	pc.Stroke.Width.Dp(1)
	pc.Rectangle(pos.X, pos.Y, sz.X, sz.Y)
	pc.Draw()
}
