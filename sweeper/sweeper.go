package sweeper

import (
	"context"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/pkg/errors"

	"github.com/cloud-gov/s3-sweeper/awss3"
)

const (
	modeLogKey   = "mode"
	bucketLogKey = "bucket"
)

// Sweeper finds the buckets matching a prefix and region and, in teardown
// mode, empties and deletes them one after the other.
type Sweeper struct {
	config  Config
	catalog awss3.Catalog
	eraser  awss3.Eraser
	logger  lager.Logger
}

func New(
	config Config,
	catalog awss3.Catalog,
	eraser awss3.Eraser,
	logger lager.Logger,
) *Sweeper {
	return &Sweeper{
		config:  config,
		catalog: catalog,
		eraser:  eraser,
		logger:  logger.Session("sweeper"),
	}
}

// Run performs one invocation. The returned error is a *ProviderError or a
// *TimeoutError when the run aborted; per-bucket failures are recorded in
// the report instead.
func (s *Sweeper) Run(ctx context.Context, mode Mode) (Report, error) {
	logger := s.logger.Session("run", lager.Data{
		modeLogKey: mode,
		"prefix":   s.config.BucketPrefix,
		"region":   s.config.Region,
	})

	// Zero when the caller's deadline is earlier than the configured one.
	var timeout time.Duration
	if s.config.Timeout > 0 {
		parent, hasParent := ctx.Deadline()
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
		if own, _ := ctx.Deadline(); !hasParent || own.Before(parent) {
			timeout = s.config.Timeout
		}
	}

	records, err := s.catalog.ListAllBuckets(ctx)
	if err != nil {
		return Report{}, s.abort(ctx, timeout, "list-buckets", err)
	}

	candidates := SelectCandidates(records, s.config)
	logger.Info("candidates-selected", lager.Data{"listed": len(records), "selected": len(candidates)})

	if mode != ModeTeardown {
		return BuildReport(s.config, mode, candidates, nil), nil
	}

	outcomes := make([]BucketOutcome, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return Report{}, s.abort(ctx, timeout, "teardown", err)
		}

		deleted, err := s.eraser.EmptyAndDelete(ctx, candidate.Name)
		if err != nil {
			if ctx.Err() != nil {
				return Report{}, s.abort(ctx, timeout, "teardown", err)
			}
			logger.Error("delete-bucket-failed", err, lager.Data{bucketLogKey: candidate.Name})
			outcomes = append(outcomes, BucketOutcome{
				Name:           candidate.Name,
				ObjectsDeleted: deleted,
				Error:          err.Error(),
			})
			continue
		}

		logger.Info("bucket-deleted", lager.Data{bucketLogKey: candidate.Name, "objects": deleted})
		outcomes = append(outcomes, BucketOutcome{
			Name:           candidate.Name,
			Deleted:        true,
			ObjectsDeleted: deleted,
		})
	}

	return BuildReport(s.config, mode, candidates, outcomes), nil
}

func (s *Sweeper) abort(ctx context.Context, timeout time.Duration, op string, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return &TimeoutError{Timeout: timeout, Err: err}
	case context.Canceled:
		return errors.Wrap(err, "sweep cancelled")
	}
	return &ProviderError{Op: op, Err: err}
}
