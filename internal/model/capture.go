package model

import "time"

// Capture describes a frame written to the capture cache.
type Capture struct {
	Index      int
	Filename   string
	Path       string
	CapturedAt time.Time
}
