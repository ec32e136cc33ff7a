package viewer

import (
	"testing"

	"github.com/jengzang/visit-tracker-go/internal/models"
)

func TestRemoteViewportNotifiesSubscribers(t *testing.T) {
	v := NewRemoteViewport(1)
	if v.Zoom() != 1 || v.Bounds() != (models.Rect{}) {
		t.Fatalf("initial viewport = %v, %+v", v.Zoom(), v.Bounds())
	}

	var a, b int
	idA := v.OnViewportChange(func() { a++ })
	v.OnViewportChange(func() {
		b++
		// Handlers run after the update is visible
		if v.Zoom() != 4 && v.Zoom() != 6 {
			t.Errorf("handler saw zoom %v", v.Zoom())
		}
	})

	bounds := models.Rect{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}
	v.Update(4, bounds)
	if v.Zoom() != 4 || v.Bounds() != bounds {
		t.Errorf("viewport = %v, %+v", v.Zoom(), v.Bounds())
	}

	v.OffViewportChange(idA)
	v.Update(6, bounds)

	if a != 1 || b != 2 {
		t.Errorf("notifications a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestOverlayBoard(t *testing.T) {
	board := NewOverlayBoard()
	loc := models.Rect{X: 0.5, Y: 0.5, Width: 0.1, Height: 0.1}

	h1 := board.PlaceOverlay(loc, "rgba(0, 0, 255, 0.1)")
	h2 := board.PlaceOverlay(loc, "rgba(0, 0, 255, 0.2)")
	if h1 == h2 {
		t.Fatal("handles are not unique")
	}
	if board.Revision() != 2 {
		t.Errorf("revision = %d, want 2", board.Revision())
	}

	board.SetColor(h1, "rgba(0, 0, 255, 0.9)")
	board.SetColor(999, "rgba(0, 0, 0, 1)")

	got, ok := board.Get(h1)
	if !ok || got.Color != "rgba(0, 0, 255, 0.9)" || got.Location != loc {
		t.Errorf("Get(h1) = %+v, %v", got, ok)
	}

	list, rev := board.List()
	if rev != 3 {
		t.Errorf("revision = %d, want 3", rev)
	}
	if len(list) != 2 || list[0].Handle != h1 || list[1].Handle != h2 {
		t.Errorf("List = %+v", list)
	}
}
