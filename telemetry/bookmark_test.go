package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_TravelMilestones(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Pure flocking
	for i := 0; i < 5; i++ {
		if got := bd.Check(WindowStats{WindowEndTick: int32(i * 60), Agents: 14}); len(got) != 0 {
			t.Fatalf("window %d: expected no bookmarks during flocking, got %v", i, got)
		}
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 360, Agents: 14, TravelWeight: 0.1})
	if !hasBookmark(bookmarks, BookmarkTravelStarted) {
		t.Error("expected travel_started bookmark")
	}

	// Fires once
	bookmarks = bd.Check(WindowStats{WindowEndTick: 420, Agents: 14, TravelWeight: 0.2})
	if hasBookmark(bookmarks, BookmarkTravelStarted) {
		t.Error("travel_started should only trigger once")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 900, Agents: 14, TravelWeight: 1})
	if !hasBookmark(bookmarks, BookmarkTravelComplete) {
		t.Error("expected travel_complete bookmark")
	}
}

func TestBookmarkDetector_Formation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 60, Agents: 14, Settled: 10, TravelWeight: 1})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 120, Agents: 14, Settled: 14, TravelWeight: 1})
	if !hasBookmark(bookmarks, BookmarkFormationReached) {
		t.Error("expected formation_reached bookmark")
	}

	// Stable after consecutive settled windows (the reaching window counts as the first)
	var stableAt int
	for i := 0; i < 6; i++ {
		bookmarks = bd.Check(WindowStats{WindowEndTick: int32(180 + i*60), Agents: 14, Settled: 14, TravelWeight: 1})
		if hasBookmark(bookmarks, BookmarkFormationStable) {
			if stableAt != 0 {
				t.Fatal("formation_stable triggered twice")
			}
			stableAt = i + 2
		}
		if hasBookmark(bookmarks, BookmarkFormationReached) {
			t.Fatal("formation_reached triggered twice")
		}
	}
	if stableAt != stableWindows {
		t.Errorf("expected formation_stable after %d windows, got %d", stableWindows, stableAt)
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 600, Agents: 14, Settled: 13, TravelWeight: 1})
	if !hasBookmark(bookmarks, BookmarkFormationBroken) {
		t.Error("expected formation_broken bookmark")
	}

	// Still broken: no repeat
	bookmarks = bd.Check(WindowStats{WindowEndTick: 660, Agents: 14, Settled: 12, TravelWeight: 1})
	if hasBookmark(bookmarks, BookmarkFormationBroken) {
		t.Error("formation_broken should only trigger on the transition")
	}
}

func TestBookmarkDetector_EmptyFlock(t *testing.T) {
	bd := NewBookmarkDetector(3)
	for i := 0; i < 10; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 60)})
		if hasBookmark(bookmarks, BookmarkFormationReached) || hasBookmark(bookmarks, BookmarkFormationStable) {
			t.Fatal("empty flock should never count as settled")
		}
	}
}
