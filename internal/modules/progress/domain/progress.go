package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	SchemaVersion = 1

	BookProgressKeyPrefix = "bookProgress_"
	DailyTrackerKeyPrefix = "dailyStepTracker_"
)

// ReadingProgress is the per-book ledger. unlockedCharacters is always
// derived as min(accumulatedSteps, totalCharacters); accumulatedSteps never
// decreases once persisted.
type ReadingProgress struct {
	BookID             string    `json:"bookId"`
	BookTitle          string    `json:"bookTitle"`
	LastStepCount      int       `json:"lastStepCount"`
	AccumulatedSteps   int       `json:"accumulatedSteps"`
	UnlockedCharacters int       `json:"unlockedCharacters"`
	TotalCharacters    int       `json:"totalCharacters"`
	LastUpdated        time.Time `json:"lastUpdated"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (p ReadingProgress) Validate() error {
	if strings.TrimSpace(p.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if p.TotalCharacters < 0 {
		return fmt.Errorf("total characters must be non-negative")
	}
	return nil
}

// Credit adds newly observed steps and re-derives the unlock count. The
// baseline moves to the raw reading, not to the credited delta.
func (p *ReadingProgress) Credit(stepIncrease, currentSteps int, now time.Time) {
	p.AccumulatedSteps += stepIncrease
	p.UnlockedCharacters = min(p.AccumulatedSteps, p.TotalCharacters)
	p.LastStepCount = currentSteps
	p.LastUpdated = now
}

// DailyStepTracker is created once per calendar day. The accrual path does
// not consult it; it stays in the persisted schema for compatibility.
type DailyStepTracker struct {
	Date             string    `json:"date"`
	BaseStepCount    int       `json:"baseStepCount"`
	CurrentStepCount int       `json:"currentStepCount"`
	TotalDailySteps  int       `json:"totalDailySteps"`
	UsedSteps        int       `json:"usedSteps"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// CurrentReading marks the book actively being read. Process-local state,
// lost on restart; the UI layer keeps a separate persisted pointer.
type CurrentReading struct {
	BookID         string
	StartStepCount int
	StartTime      time.Time
}

// Stats is the derived read-only view of one ledger record.
type Stats struct {
	TotalSteps      int
	UnlockedChars   int
	TotalChars      int
	ProgressPercent int
	LastUpdated     time.Time
}

// CatalogEntry is the authoritative title/length pair used to correct a
// drifted ledger record.
type CatalogEntry struct {
	BookID          string
	Title           string
	TotalCharacters int
}

func BookProgressKey(bookID string) string {
	return BookProgressKeyPrefix + bookID
}

func DailyTrackerKey(date string) string {
	return DailyTrackerKeyPrefix + date
}
