package ports

import "time"

// Renderer presents compile progress.
// It decouples telemetry collection from presentation.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPhaseStart is called when a compile phase begins.
	// spanID: unique identifier for this phase
	// parentID: spanID of the enclosing span (empty if root)
	OnPhaseStart(spanID, parentID, name string, startTime time.Time)

	// OnPhaseLog is called when a phase emits output.
	OnPhaseLog(spanID string, data []byte)

	// OnPhaseComplete is called when a phase finishes. err is nil on success.
	OnPhaseComplete(spanID string, endTime time.Time, err error)

	// Flush writes any buffered output.
	Flush() error
}
