package shape

// History is the linear undo/redo store of finalized shapes. It is an
// append-only list plus a redo buffer; undo moves the most recent shape to
// the redo buffer, redo moves it back, and appending a new shape after any
// undo discards the redo buffer entirely.
//
// History is confined to the interaction thread: the machine and the
// undo/redo bindings are its only writers and the compositor reads snapshots
// on the same logical thread, so it carries no lock.
type History struct {
	shapes []*Shape
	redo   []*Shape
	nextID int64
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{nextID: 1}
}

// Append adds a finalized shape, assigns its creation-ordered ID, and clears
// the redo buffer.
func (h *History) Append(s *Shape) {
	s.ID = h.nextID
	h.nextID++
	h.shapes = append(h.shapes, s)
	h.redo = h.redo[:0]
}

// Undo removes the most recent shape and pushes it onto the redo buffer.
// It returns the removed shape, or nil when the history is empty.
func (h *History) Undo() *Shape {
	if len(h.shapes) == 0 {
		return nil
	}
	s := h.shapes[len(h.shapes)-1]
	h.shapes = h.shapes[:len(h.shapes)-1]
	h.redo = append(h.redo, s)
	return s
}

// Redo re-appends the most recently undone shape. It returns the restored
// shape, or nil when the redo buffer is empty.
func (h *History) Redo() *Shape {
	if len(h.redo) == 0 {
		return nil
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.shapes = append(h.shapes, s)
	return s
}

// Clear discards all shapes and the redo buffer.
func (h *History) Clear() {
	h.shapes = h.shapes[:0]
	h.redo = h.redo[:0]
}

// CanUndo reports whether a shape can be undone.
func (h *History) CanUndo() bool { return len(h.shapes) > 0 }

// CanRedo reports whether a shape can be redone.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of live shapes.
func (h *History) Len() int { return len(h.shapes) }

// Shapes returns the live shapes in creation order. The returned slice is a
// copy; the shapes themselves are shared and immutable.
func (h *History) Shapes() []*Shape {
	out := make([]*Shape, len(h.shapes))
	copy(out, h.shapes)
	return out
}
