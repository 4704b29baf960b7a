package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkTravelStarted    BookmarkType = "travel_started"
	BookmarkTravelComplete   BookmarkType = "travel_complete"
	BookmarkFormationReached BookmarkType = "formation_reached"
	BookmarkFormationStable  BookmarkType = "formation_stable"
	BookmarkFormationBroken  BookmarkType = "formation_broken"
)

// stableWindows is how many consecutive fully settled windows make a stable formation.
const stableWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects milestones in the flocking-to-formation handoff.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	travelStarted      bool
	travelComplete     bool
	formationReached   bool
	settledWindowCount int // consecutive windows with every agent settled
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkTravel(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTravelComplete(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFormation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStable(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// previous returns the most recent window in history.
func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkTravel(stats WindowStats) *Bookmark {
	if bd.travelStarted || stats.TravelWeight <= 0 {
		return nil
	}
	bd.travelStarted = true
	return &Bookmark{
		Type:        BookmarkTravelStarted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Travel weight %.2f at %.1fs", stats.TravelWeight, stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkTravelComplete(stats WindowStats) *Bookmark {
	if bd.travelComplete || stats.TravelWeight < 1 {
		return nil
	}
	bd.travelComplete = true
	return &Bookmark{
		Type:        BookmarkTravelComplete,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Flocking fully handed off at %.1fs, %d/%d settled", stats.SimTimeSec, stats.Settled, stats.Agents),
	}
}

func (bd *BookmarkDetector) checkFormation(stats WindowStats) *Bookmark {
	allSettled := stats.Agents > 0 && stats.Settled == stats.Agents

	if !bd.formationReached {
		if !allSettled {
			return nil
		}
		bd.formationReached = true
		return &Bookmark{
			Type:        BookmarkFormationReached,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("All %d agents settled at %.1fs (max distance %.2f)", stats.Agents, stats.SimTimeSec, stats.DistMax),
		}
	}

	// Broken: was fully settled last window, now is not
	prev, ok := bd.previous()
	if ok && !allSettled && prev.Agents > 0 && prev.Settled == prev.Agents {
		return &Bookmark{
			Type:        BookmarkFormationBroken,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Settled dropped from %d to %d (max distance %.2f)", prev.Settled, stats.Settled, stats.DistMax),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Agents == 0 || stats.Settled < stats.Agents {
		bd.settledWindowCount = 0
		return nil
	}

	bd.settledWindowCount++
	if bd.settledWindowCount == stableWindows { // trigger exactly once per run of settled windows
		return &Bookmark{
			Type:        BookmarkFormationStable,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Formation held for %d windows, mean speed %.3f", stableWindows, stats.SpeedMean),
		}
	}
	return nil
}
