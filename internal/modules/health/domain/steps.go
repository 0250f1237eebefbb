package domain

// Reading is one best-effort step count. Estimated marks a synthetic value
// substituted because no provider could answer; callers get a usable number
// either way.
type Reading struct {
	Steps     int
	Date      string
	Estimated bool
}

// Manifest describes one external step-provider binary.
type Manifest struct {
	Name   string `yaml:"name"`
	Binary string `yaml:"binary"`
}

type Metadata struct {
	Name    string
	Version string
}

// DateLayout is the calendar-day format used across the step API.
const DateLayout = "2006-01-02"
