package panels

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"survey-markup/internal/annotation"
	"survey-markup/internal/editor"
	"survey-markup/pkg/colorutil"
)

// StylePanel edits the stroke color, stroke width, fill, and font size.
// Changes apply to the selected shape when there is one, and set the
// defaults for new shapes otherwise.
type StylePanel struct {
	box *fyne.Container

	ed *editor.Editor

	widthSlider *widget.Slider
	widthLabel  *widget.Label
	fontSlider  *widget.Slider
	fontLabel   *widget.Label
	fillCheck   *widget.Check

	// guards against feedback loops while syncing controls from a selection
	syncing bool
}

// NewStylePanel creates the style panel bound to the editor.
func NewStylePanel(ed *editor.Editor) *StylePanel {
	sp := &StylePanel{ed: ed}

	swatches := make([]fyne.CanvasObject, 0, len(colorutil.Palette))
	for _, c := range colorutil.Palette {
		c := c
		swatches = append(swatches, newSwatch(c, func() {
			sp.applyStroke(c)
		}))
	}

	sp.widthLabel = widget.NewLabel("Width: 3")
	sp.widthSlider = widget.NewSlider(1, 12)
	sp.widthSlider.Step = 1
	sp.widthSlider.Value = ed.DefaultStyle().StrokeWidth
	sp.widthSlider.OnChanged = func(v float64) {
		sp.widthLabel.SetText(fmt.Sprintf("Width: %.0f", v))
		if sp.syncing {
			return
		}
		style := sp.currentStyle()
		style.StrokeWidth = v
		ed.SetStyle(style)
	}

	sp.fillCheck = widget.NewCheck("Fill", func(on bool) {
		if sp.syncing {
			return
		}
		style := sp.currentStyle()
		if on {
			style.Fill = colorutil.WithAlpha(style.Stroke, 60)
		} else {
			style.Fill = color.RGBA{}
		}
		ed.SetStyle(style)
	})

	sp.fontLabel = widget.NewLabel(fmt.Sprintf("Text size: %.0f", ed.FontSize()))
	sp.fontSlider = widget.NewSlider(8, 72)
	sp.fontSlider.Step = 1
	sp.fontSlider.Value = ed.FontSize()
	sp.fontSlider.OnChanged = func(v float64) {
		sp.fontLabel.SetText(fmt.Sprintf("Text size: %.0f", v))
		if sp.syncing {
			return
		}
		ed.SetFontSize(v)
	}

	sp.box = container.NewVBox(
		widget.NewLabel("Color"),
		container.NewGridWithColumns(4, swatches...),
		sp.widthLabel,
		sp.widthSlider,
		sp.fillCheck,
		sp.fontLabel,
		sp.fontSlider,
	)

	ed.On(editor.EventSelectionChanged, func(interface{}) {
		sp.syncFromSelection()
	})
	return sp
}

// Container returns the panel for embedding in layouts.
func (sp *StylePanel) Container() fyne.CanvasObject {
	return sp.box
}

// currentStyle is the style the controls should modify: the selected
// shape's style, or the default.
func (sp *StylePanel) currentStyle() annotation.Style {
	if sel := sp.ed.Selected(); sel != nil {
		return sel.Style
	}
	return sp.ed.DefaultStyle()
}

func (sp *StylePanel) applyStroke(c color.RGBA) {
	style := sp.currentStyle()
	style.Stroke = c
	if style.Fill.A > 0 {
		style.Fill = colorutil.WithAlpha(c, style.Fill.A)
	}
	sp.ed.SetStyle(style)
}

// syncFromSelection mirrors the selected shape's style in the controls.
func (sp *StylePanel) syncFromSelection() {
	sel := sp.ed.Selected()
	if sel == nil {
		return
	}
	sp.syncing = true
	sp.widthSlider.SetValue(sel.Style.StrokeWidth)
	sp.fillCheck.SetChecked(sel.Style.Fill.A > 0)
	if sel.Kind == annotation.KindText {
		sp.fontSlider.SetValue(sel.FontSize)
	}
	sp.syncing = false
}

// swatch is a small tappable color square.
type swatch struct {
	widget.BaseWidget
	rect  *fynecanvas.Rectangle
	onTap func()
}

func newSwatch(c color.RGBA, onTap func()) *swatch {
	s := &swatch{
		rect:  fynecanvas.NewRectangle(c),
		onTap: onTap,
	}
	s.rect.StrokeColor = colorutil.Darken(c, 0.4)
	s.rect.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	s.onTap()
}

func (s *swatch) MinSize() fyne.Size {
	return fyne.NewSize(28, 28)
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}
