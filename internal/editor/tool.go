package editor

import "survey-markup/internal/annotation"

// Tool identifies the active drawing or selection mode. Exactly one tool is
// active at a time; switching tools cancels any gesture in progress.
type Tool int

const (
	ToolSelect Tool = iota
	ToolDimension
	ToolArrow
	ToolCircle
	ToolRectangle
	ToolPolygon
	ToolPolyline
	ToolFreehand
	ToolText
)

var toolNames = map[Tool]string{
	ToolSelect:    "select",
	ToolDimension: "dimension",
	ToolArrow:     "arrow",
	ToolCircle:    "circle",
	ToolRectangle: "rectangle",
	ToolPolygon:   "polygon",
	ToolPolyline:  "polyline",
	ToolFreehand:  "freehand",
	ToolText:      "text",
}

// String returns the tool's name.
func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return "unknown"
}

// AllTools returns the tools in toolbar order.
func AllTools() []Tool {
	return []Tool{
		ToolSelect, ToolDimension, ToolArrow, ToolCircle, ToolRectangle,
		ToolPolygon, ToolPolyline, ToolFreehand, ToolText,
	}
}

// shapeKind maps a drawing tool to the kind of shape it produces.
// ToolSelect has no kind.
func (t Tool) shapeKind() annotation.Kind {
	switch t {
	case ToolDimension:
		return annotation.KindDimension
	case ToolArrow:
		return annotation.KindArrow
	case ToolCircle:
		return annotation.KindCircle
	case ToolRectangle:
		return annotation.KindRectangle
	case ToolPolygon:
		return annotation.KindPolygon
	case ToolPolyline:
		return annotation.KindPolyline
	case ToolFreehand:
		return annotation.KindFreehand
	case ToolText:
		return annotation.KindText
	}
	return annotation.Kind(-1)
}
