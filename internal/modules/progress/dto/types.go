package dto

import "time"

type StartInput struct {
	BookID          string
	BookTitle       string
	TotalCharacters int
}

type ProgressOutput struct {
	BookID             string
	BookTitle          string
	LastStepCount      int
	AccumulatedSteps   int
	UnlockedCharacters int
	TotalCharacters    int
	LastUpdated        time.Time
	CreatedAt          time.Time
}

type StatsOutput struct {
	TotalSteps      int
	UnlockedChars   int
	TotalChars      int
	ProgressPercent int
	LastUpdated     time.Time
}

type TrackerOutput struct {
	Date            string
	BaseStepCount   int
	TotalDailySteps int
	UsedSteps       int
	LastUpdated     time.Time
}

type CatalogEntry struct {
	BookID          string
	Title           string
	TotalCharacters int
}

type CurrentReadingOutput struct {
	BookID         string
	StartStepCount int
	StartTime      time.Time
}
