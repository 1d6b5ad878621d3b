package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFileStart  EventType = "file_start"
	EventFileDone   EventType = "file_done"
	EventConversion EventType = "conversion"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Step      string    `json:"step"`
}

// FileEvent represents the start or the end of the processing of one file.
type FileEvent struct {
	EventBase
	Path    string `json:"path"`
	Outcome string `json:"outcome,omitempty"` // succeeded, failed or skipped; empty on start
	Err     error  `json:"-"`
}

// ConversionEvent represents one rewritten node inside a view file.
type ConversionEvent struct {
	EventBase
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Hooks defines callbacks for migration observability. Nil fields are skipped.
type Hooks struct {
	OnFileStart  func(context.Context, *FileEvent)
	OnFileDone   func(context.Context, *FileEvent)
	OnConversion func(context.Context, *ConversionEvent)
}
