package awss3

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Catalog is the source of truth for bucket existence and location.
type Catalog interface {
	ListAllBuckets(ctx context.Context) ([]BucketRecord, error)
}

// Eraser empties a bucket page by page and then deletes it. It returns the
// number of objects removed, even on failure.
type Eraser interface {
	EmptyAndDelete(ctx context.Context, bucketName string) (int, error)
}

type BucketRecord struct {
	Name   string
	Region string
}

var (
	ErrBucketDoesNotExist = errors.New("s3 bucket does not exist")
	ErrBucketNotEmpty     = errors.New("s3 bucket is not empty")
)

// DeleteError reports a failure to empty or delete one bucket.
type DeleteError struct {
	Bucket string
	Err    error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting bucket %s: %s", e.Bucket, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
