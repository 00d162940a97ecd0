// Package canvas provides the annotation canvas with pan, zoom, and drawing.
package canvas

import (
	"context"
	"image"
	"log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"survey-markup/internal/background"
	"survey-markup/internal/editor"
	"survey-markup/internal/render"
	"survey-markup/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// AnnotationCanvas displays the photograph with its annotations and routes
// pointer gestures to the editor in image coordinates.
type AnnotationCanvas struct {
	widget.BaseWidget

	editor   *editor.Editor
	renderer *render.Renderer
	bg       *background.Background

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *markupContent
	imgSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
}

// NewAnnotationCanvas creates a canvas over the given renderer. The editor
// and background are attached later, when a photograph is opened.
func NewAnnotationCanvas(renderer *render.Renderer) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		renderer: renderer,
		zoom:     1.0,
		imgSize:  fyne.NewSize(400, 300),
	}

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	ac.content = newMarkupContent(ac, ac.raster)
	ac.scroll = newZoomScroll(ac.content, ac)

	ac.ExtendBaseWidget(ac)
	return ac
}

// Container returns the canvas container for embedding in layouts.
func (ac *AnnotationCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// Attach binds the canvas to an editor and its photograph. Editor events
// drive refreshes so gesture previews and undo are visible immediately.
func (ac *AnnotationCanvas) Attach(ed *editor.Editor, bg *background.Background) {
	ac.editor = ed
	ac.bg = bg

	refresh := func(interface{}) { ac.Refresh() }
	ed.On(editor.EventDocumentChanged, refresh)
	ed.On(editor.EventGestureChanged, refresh)
	ed.On(editor.EventSelectionChanged, refresh)
	ed.On(editor.EventToolChanged, refresh)

	ac.updateContentSize()
}

// draw renders the document, the gesture preview, and the selection marker.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	if ac.bg == nil || ac.editor == nil {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	composed, err := ac.renderer.Compose(context.Background(), ac.editor.Document(), ac.bg, ac.zoom, "")
	if err != nil {
		log.Printf("canvas: compose failed: %v", err)
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	preview := ac.editor.Preview()
	selected := ac.editor.Selected()
	if preview == nil && selected == nil {
		return composed
	}

	dc := gg.NewContextForImage(composed)
	dc.Scale(ac.zoom, ac.zoom)
	if preview != nil {
		if err := ac.renderer.DrawShape(dc, preview, ac.bg.DPI, ac.zoom); err != nil {
			log.Printf("canvas: preview draw failed: %v", err)
		}
	}
	if selected != nil {
		if err := ac.renderer.DrawSelection(dc, selected, ac.zoom); err != nil {
			log.Printf("canvas: selection draw failed: %v", err)
		}
	}
	return dc.Image()
}

// SetZoom sets the zoom level.
func (ac *AnnotationCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ac.zoom = zoom
	ac.updateContentSize()

	if ac.onZoomChange != nil {
		ac.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (ac *AnnotationCanvas) Zoom() float64 {
	return ac.zoom
}

// ZoomIn increases the zoom level.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.SetZoom(ac.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.SetZoom(ac.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the photograph fills the visible area.
func (ac *AnnotationCanvas) FitToWindow() {
	if ac.bg == nil || ac.bg.Width() == 0 || ac.bg.Height() == 0 {
		return
	}
	viewSize := ac.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(ac.bg.Width())
	zoomY := float64(viewSize.Height) / float64(ac.bg.Height())
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ac.SetZoom(zoom * 0.95) // Leave a small margin
}

// OnZoomChange sets a callback for zoom changes.
func (ac *AnnotationCanvas) OnZoomChange(callback func(zoom float64)) {
	ac.onZoomChange = callback
}

// Refresh refreshes the canvas display.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

func (ac *AnnotationCanvas) updateContentSize() {
	w, h := 400, 300
	if ac.bg != nil {
		w, h = ac.bg.Width(), ac.bg.Height()
	}
	ac.imgSize = fyne.NewSize(float32(float64(w)*ac.zoom), float32(float64(h)*ac.zoom))
	ac.raster.SetMinSize(ac.imgSize)
	ac.content.Refresh()
	ac.scroll.Refresh()
}

// imagePoint converts a viewport position to image coordinates.
func (ac *AnnotationCanvas) imagePoint(pos fyne.Position) geometry.Point2D {
	offset := ac.scroll.Offset()
	return geometry.NewPoint2D(
		float64(pos.X+offset.X)/ac.zoom,
		float64(pos.Y+offset.Y)/ac.zoom,
	)
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ac.scroll)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotationCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *AnnotationCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// markupContent wraps the raster and routes mouse and key events to the
// editor in image coordinates.
type markupContent struct {
	widget.BaseWidget
	canvas *AnnotationCanvas
	raster *fynecanvas.Raster
}

func newMarkupContent(ac *AnnotationCanvas, raster *fynecanvas.Raster) *markupContent {
	mc := &markupContent{canvas: ac, raster: raster}
	mc.ExtendBaseWidget(mc)
	return mc
}

func (mc *markupContent) CreateRenderer() fyne.WidgetRenderer {
	return &markupContentRenderer{content: mc}
}

func (mc *markupContent) MinSize() fyne.Size {
	return mc.raster.MinSize()
}

func (mc *markupContent) MouseDown(ev *desktop.MouseEvent) {
	ed := mc.canvas.editor
	if ed == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(mc); c != nil {
		c.Focus(mc)
	}
	ed.PointerDown(mc.canvas.imagePoint(ev.Position))
}

func (mc *markupContent) MouseUp(ev *desktop.MouseEvent) {
	ed := mc.canvas.editor
	if ed == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ed.PointerUp(mc.canvas.imagePoint(ev.Position))
}

func (mc *markupContent) MouseIn(*desktop.MouseEvent) {}

func (mc *markupContent) MouseMoved(ev *desktop.MouseEvent) {
	ed := mc.canvas.editor
	if ed == nil {
		return
	}
	ed.PointerMove(mc.canvas.imagePoint(ev.Position))
}

func (mc *markupContent) MouseOut() {}

// DoubleTapped commits polygon and polyline gestures.
func (mc *markupContent) DoubleTapped(ev *fyne.PointEvent) {
	ed := mc.canvas.editor
	if ed == nil {
		return
	}
	ed.DoubleClick(mc.canvas.imagePoint(ev.Position))
}

func (mc *markupContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		mc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		mc.canvas.ZoomOut()
	}
}

// Focusable lets Escape and Delete reach the editor.
func (mc *markupContent) FocusGained() {}
func (mc *markupContent) FocusLost()   {}
func (mc *markupContent) TypedRune(rune) {}

func (mc *markupContent) TypedKey(ev *fyne.KeyEvent) {
	ed := mc.canvas.editor
	if ed == nil {
		return
	}
	switch ev.Name {
	case fyne.KeyEscape:
		ed.Escape()
	case fyne.KeyDelete, fyne.KeyBackspace:
		ed.DeleteSelected()
	}
}

type markupContentRenderer struct {
	content *markupContent
}

func (r *markupContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *markupContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *markupContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *markupContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *markupContentRenderer) Destroy() {}
