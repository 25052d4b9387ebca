package domain

import "context"

// ReportService publishes the outcome of a batch
type ReportService interface {
	// SendSuccess reports the statistics of a completed batch
	SendSuccess(ctx context.Context, stats Statistics) error

	// SendError reports a batch that stopped with an error
	SendError(ctx context.Context, err error) error
}

// Statistics holds the final statistics for a batch
type Statistics struct {
	Command     string
	Total       int
	Exported    int
	Updated     int
	Stored      int
	Skipped     int
	Unsupported int
	DupeCount   int
}
