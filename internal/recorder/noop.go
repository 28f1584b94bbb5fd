package recorder

import "time"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSurge(_ *SurgeEvent) error { return nil }

func (n *NoopRecorder) RecordZones(_ string, _ time.Time, _ []ZoneRecord) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
