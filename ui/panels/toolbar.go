// Package panels provides the tool and style side panels.
package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"survey-markup/internal/editor"
)

var toolLabels = map[editor.Tool]string{
	editor.ToolSelect:    "Select",
	editor.ToolDimension: "Dimension",
	editor.ToolArrow:     "Arrow",
	editor.ToolCircle:    "Circle",
	editor.ToolRectangle: "Rectangle",
	editor.ToolPolygon:   "Polygon",
	editor.ToolPolyline:  "Polyline",
	editor.ToolFreehand:  "Freehand",
	editor.ToolText:      "Text",
}

// Toolbar is a column of tool buttons bound to the editor's active tool.
type Toolbar struct {
	box     *fyne.Container
	buttons map[editor.Tool]*widget.Button
}

// NewToolbar creates the tool palette for the given editor.
func NewToolbar(ed *editor.Editor) *Toolbar {
	t := &Toolbar{
		buttons: make(map[editor.Tool]*widget.Button),
	}

	objects := make([]fyne.CanvasObject, 0, len(toolLabels))
	for _, tool := range editor.AllTools() {
		tool := tool
		btn := widget.NewButton(toolLabels[tool], func() {
			ed.SelectTool(tool)
		})
		t.buttons[tool] = btn
		objects = append(objects, btn)
	}
	t.box = container.NewVBox(objects...)

	ed.On(editor.EventToolChanged, func(data interface{}) {
		t.setActive(data.(editor.Tool))
	})
	t.setActive(ed.Tool())
	return t
}

// Container returns the toolbar for embedding in layouts.
func (t *Toolbar) Container() fyne.CanvasObject {
	return t.box
}

func (t *Toolbar) setActive(active editor.Tool) {
	for tool, btn := range t.buttons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}
