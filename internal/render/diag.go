package render

import "fmt"

// EventKind classifies rendering diagnostics.
type EventKind int

const (
	// LegacyImageGuess marks an untagged hybrid item rendered as an
	// image by structural guessing.
	LegacyImageGuess EventKind = iota
	// LegacyParagraphGuess marks an untagged hybrid item rendered as a
	// paragraph by structural guessing.
	LegacyParagraphGuess
	// DroppedItem marks an item no heuristic could render.
	DroppedItem
)

// Event is one diagnostic occurrence. Path locates the item in the
// document (chapter/section/index).
type Event struct {
	Kind   EventKind
	Path   string
	Detail string
}

func (k EventKind) String() string {
	switch k {
	case LegacyImageGuess:
		return "legacy_image_guess"
	case LegacyParagraphGuess:
		return "legacy_paragraph_guess"
	case DroppedItem:
		return "dropped_item"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Diagnostics collects non-fatal rendering anomalies so callers can log
// or assert on them. All methods are nil-safe; rendering never fails
// because of a diagnostic.
type Diagnostics struct {
	events []Event
}

func (d *Diagnostics) record(kind EventKind, path, detail string) {
	if d == nil {
		return
	}
	d.events = append(d.events, Event{Kind: kind, Path: path, Detail: detail})
}

// Events returns all recorded events in order.
func (d *Diagnostics) Events() []Event {
	if d == nil {
		return nil
	}
	return d.events
}

// LegacyCount returns how many items went through the untagged-item
// fallback.
func (d *Diagnostics) LegacyCount() int {
	n := 0
	for _, e := range d.Events() {
		if e.Kind == LegacyImageGuess || e.Kind == LegacyParagraphGuess {
			n++
		}
	}
	return n
}

// DroppedCount returns how many items rendered as nothing.
func (d *Diagnostics) DroppedCount() int {
	n := 0
	for _, e := range d.Events() {
		if e.Kind == DroppedItem {
			n++
		}
	}
	return n
}
