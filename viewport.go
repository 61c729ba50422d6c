// Copyright (c) 2026, The Editorkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodeeditor

import "cogentcore.org/core/math32"

// Zoom limits and wheel sensitivity.
const (
	// MinZoom and MaxZoom bound the viewport scale factor.
	MinZoom float32 = 0.2
	MaxZoom float32 = 3

	// zoomStep is the per-wheel-notch zoom factor increment.
	zoomStep float32 = 0.1
)

// Viewport is the pan and zoom transform between canvas space (the
// logical coordinate system nodes live in) and view space (pixels
// within the editor's content box). A view point is the canvas point
// minus the pan offset, times the scale.
type Viewport struct {
	// Offset is the pan offset: the canvas point appearing at the
	// view origin.
	Offset math32.Vector2

	// Scale is the zoom factor, clamped to [MinZoom, MaxZoom].
	// 1 is unzoomed.
	Scale float32
}

// NewViewport returns an identity viewport: no pan, scale 1.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// ToView transforms a canvas point to view space.
func (vp *Viewport) ToView(pt math32.Vector2) math32.Vector2 {
	return pt.Sub(vp.Offset).MulScalar(vp.Scale)
}

// ToCanvas transforms a view point to canvas space, inverting
// [Viewport.ToView].
func (vp *Viewport) ToCanvas(pt math32.Vector2) math32.Vector2 {
	return pt.DivScalar(vp.Scale).Add(vp.Offset)
}

// Pan translates the viewport by the given view-space delta, so the
// content follows the pointer regardless of zoom.
func (vp *Viewport) Pan(delta math32.Vector2) {
	vp.Offset.SetSub(delta.DivScalar(vp.Scale))
}

// SetScale sets the scale, clamped to [MinZoom, MaxZoom], anchored at
// the view origin.
func (vp *Viewport) SetScale(sc float32) {
	vp.Scale = math32.Clamp(sc, MinZoom, MaxZoom)
}

// ZoomAt multiplies the scale by the given factor, anchored at the
// given view point: the canvas point under the anchor stays under it
// after the zoom. The scale is clamped to [MinZoom, MaxZoom], and the
// anchoring uses the clamped value, so zooming at the limits is a
// no-op rather than a drift.
func (vp *Viewport) ZoomAt(factor float32, anchor math32.Vector2) {
	pivot := vp.ToCanvas(anchor)
	vp.SetScale(vp.Scale * factor)
	// re-solve Offset so pivot maps back to anchor
	vp.Offset = pivot.Sub(anchor.DivScalar(vp.Scale))
}

// ZoomWheel applies a wheel-notch zoom at the given view point:
// positive notches zoom in by [zoomStep] each, negative out.
func (vp *Viewport) ZoomWheel(notches float32, anchor math32.Vector2) {
	vp.ZoomAt(1+notches*zoomStep, anchor)
}

// Fit pans and zooms so the given canvas box fills the given view
// size with the given margin (in view pixels) on all sides, centered,
// within the zoom limits. A degenerate box just centers at scale 1.
func (vp *Viewport) Fit(box math32.Box2, viewSize math32.Vector2, margin float32) {
	bsz := box.Size()
	avail := viewSize.SubScalar(2 * margin)
	if bsz.X <= 0 || bsz.Y <= 0 || avail.X <= 0 || avail.Y <= 0 {
		vp.Scale = 1
		vp.Offset = box.Center().Sub(viewSize.MulScalar(0.5))
		return
	}
	vp.SetScale(math32.Min(avail.X/bsz.X, avail.Y/bsz.Y))
	vp.Offset = box.Center().Sub(viewSize.MulScalar(0.5).DivScalar(vp.Scale))
}
