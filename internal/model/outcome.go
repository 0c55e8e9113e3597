package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// OutcomeStatus is the terminal state of a single downloaded item.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// BatchClassification summarizes how a finished batch went.
type BatchClassification string

const (
	BatchFullSuccess    BatchClassification = "full-success"
	BatchPartialSuccess BatchClassification = "partial-success"
	BatchTotalFailure   BatchClassification = "total-failure"
)

// DownloadOutcome is the per-entry result of one batch item. Every
// selected index yields exactly one outcome.
type DownloadOutcome struct {
	EntryIndex   int           `json:"entry_index"`
	Title        string        `json:"title"`
	Status       OutcomeStatus `json:"status"`
	BytesWritten int64         `json:"bytes_written,omitempty"`
	OutputPath   string        `json:"output_path,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// BatchSummary is the terminal artifact of one batch run, consumed by
// the presentation layer and the history store.
type BatchSummary struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Outcomes  []DownloadOutcome `json:"outcomes"`
}

// NewBatchSummary creates a summary for the given number of selected
// items, with no outcomes recorded yet.
func NewBatchSummary(total int) *BatchSummary {
	return &BatchSummary{
		Total:    total,
		Outcomes: make([]DownloadOutcome, 0, total),
	}
}

// Append records one outcome and updates the success/failure counters.
func (s *BatchSummary) Append(o DownloadOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	if o.Status == OutcomeSuccess {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Classification returns the terminal classification: every item
// succeeded, none did, or something in between.
func (s *BatchSummary) Classification() BatchClassification {
	switch {
	case s.Total > 0 && s.Succeeded == s.Total:
		return BatchFullSuccess
	case s.Succeeded == 0:
		return BatchTotalFailure
	default:
		return BatchPartialSuccess
	}
}

// Err aggregates the failed outcomes into a single error, or nil when
// every item succeeded.
func (s *BatchSummary) Err() error {
	var result error
	for _, o := range s.Outcomes {
		if o.Status == OutcomeFailed {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): %s", o.EntryIndex, o.Title, o.ErrorMessage))
		}
	}
	return result
}
