package renderer

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/letterflock/flock"
)

func TestDrawQueueFlushesInOrder(t *testing.T) {
	q := NewDrawQueue()
	for _, k := range []string{"C", "O", "C", "O"} {
		q.Draw(flock.DrawRequest{Sprite: flock.Sprite{Key: k}})
	}
	if q.Len() != 4 {
		t.Fatalf("expected 4 pending requests, got %d", q.Len())
	}

	var got string
	q.Flush(flock.DrawerFunc(func(req flock.DrawRequest) {
		got += req.Sprite.Key
	}))

	if got != "COCO" {
		t.Errorf("expected draw order COCO, got %s", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after flush, got %d", q.Len())
	}
}

func TestDrawQueueReset(t *testing.T) {
	q := NewDrawQueue()
	q.Draw(flock.DrawRequest{})
	q.Reset()

	calls := 0
	q.Flush(flock.DrawerFunc(func(flock.DrawRequest) { calls++ }))
	if calls != 0 {
		t.Errorf("expected no draws after reset, got %d", calls)
	}
}

func TestPlacementCentresSprite(t *testing.T) {
	req := flock.DrawRequest{
		Center: r2.Vec{X: 100, Y: 50},
		Width:  40,
		Height: 20,
	}
	src, dst, origin := Placement(256, 128, req)

	if src.Width != 256 || src.Height != 128 || src.X != 0 || src.Y != 0 {
		t.Errorf("expected full-texture source, got %+v", src)
	}
	// DrawTexturePro places origin at (dst.X, dst.Y), so the centre lands on req.Center.
	if dst.X != 100 || dst.Y != 50 || dst.Width != 40 || dst.Height != 20 {
		t.Errorf("unexpected destination %+v", dst)
	}
	if origin.X != 20 || origin.Y != 10 {
		t.Errorf("expected origin at sprite centre (20, 10), got %+v", origin)
	}
}

func TestSpritePath(t *testing.T) {
	got := SpritePath("assets/coco-sans", "C", ".png")
	want := filepath.Join("assets", "coco-sans", "C.png")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := loadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing sprite file")
	}
}
