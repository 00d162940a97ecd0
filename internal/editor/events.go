package editor

// EventType identifies editor state change notifications.
type EventType int

const (
	// EventDocumentChanged fires after any committed edit, undo, or redo.
	EventDocumentChanged EventType = iota
	// EventSelectionChanged fires when the selected shape changes. Data is
	// the selected shape ID, or "" when the selection was cleared.
	EventSelectionChanged
	// EventToolChanged fires when the active tool changes. Data is the Tool.
	EventToolChanged
	// EventGestureChanged fires on every preview update while a gesture is
	// in progress, and when a gesture ends.
	EventGestureChanged
	// EventTextPrompt fires when the text tool places an anchor and the UI
	// should prompt for the label content. Data is the anchor Point2D.
	EventTextPrompt
)

// EventListener is a callback for editor events.
type EventListener func(data interface{})

// On registers a listener for the given event type.
func (e *Editor) On(event EventType, listener EventListener) {
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit notifies all listeners of an event.
func (e *Editor) Emit(event EventType, data interface{}) {
	for _, listener := range e.listeners[event] {
		listener(data)
	}
}
