package sweeper

import (
	"fmt"
	"net/http"

	"golang.org/x/exp/slices"
)

const (
	msgBucketsFound    = "S3 buckets found."
	msgNoBucketsFound  = "No S3 buckets found with prefix %s in %s."
	msgBucketsDeleted  = "S3 buckets deleted."
	msgSomeNotDeleted  = "Some S3 buckets could not be deleted."
	msgNothingToDelete = "No S3 buckets found to delete with prefix %s in %s."
	msgFetchError      = "Error fetching S3 buckets."
	msgDeleteError     = "Error deleting S3 buckets."
)

type BucketCandidate struct {
	Name string `json:"name"`
	ARN  string `json:"arn"`
}

// BucketOutcome is the teardown result for one candidate.
type BucketOutcome struct {
	Name           string `json:"name"`
	Deleted        bool   `json:"deleted"`
	ObjectsDeleted int    `json:"objects_deleted"`
	Error          string `json:"error,omitempty"`
}

// Report is the single output of a run. StatusCode travels in the response
// envelope, not in the body.
type Report struct {
	StatusCode int               `json:"-"`
	Message    string            `json:"message"`
	Buckets    []BucketCandidate `json:"buckets"`
	Outcomes   []BucketOutcome   `json:"outcomes,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Failed returns the outcomes of buckets that were not deleted.
func (r Report) Failed() []BucketOutcome {
	var failed []BucketOutcome
	for _, outcome := range r.Outcomes {
		if !outcome.Deleted {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// BuildReport assembles the report of a run that did not abort. Every
// candidate is listed, whatever its outcome.
func BuildReport(config Config, mode Mode, candidates []BucketCandidate, outcomes []BucketOutcome) Report {
	if candidates == nil {
		candidates = []BucketCandidate{}
	}
	report := Report{
		StatusCode: http.StatusOK,
		Buckets:    candidates,
	}

	switch mode {
	case ModeTeardown:
		report.Outcomes = outcomes
		switch {
		case len(candidates) == 0:
			report.Message = fmt.Sprintf(msgNothingToDelete, config.BucketPrefix, config.Region)
		case slices.ContainsFunc(outcomes, func(o BucketOutcome) bool { return !o.Deleted }):
			report.Message = msgSomeNotDeleted
		default:
			report.Message = msgBucketsDeleted
		}
	default:
		if len(candidates) == 0 {
			report.Message = fmt.Sprintf(msgNoBucketsFound, config.BucketPrefix, config.Region)
		} else {
			report.Message = msgBucketsFound
		}
	}

	return report
}

// ErrorReport converts an aborted run into the failure envelope.
func ErrorReport(mode Mode, err error) Report {
	message := msgFetchError
	if mode == ModeTeardown {
		message = msgDeleteError
	}
	return Report{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Buckets:    []BucketCandidate{},
		Error:      err.Error(),
	}
}
