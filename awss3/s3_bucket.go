package awss3

import (
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

const (
	errCodeBucketNotEmpty = "BucketNotEmpty"

	// MaxPageSize is the largest page ListObjectsV2 returns and the largest
	// batch DeleteObjects accepts.
	MaxPageSize int64 = 1000
)

// S3Client is the subset of the S3 API the sweeper needs. *s3.S3 satisfies it.
type S3Client interface {
	ListBucketsWithContext(ctx aws.Context, input *s3.ListBucketsInput, opts ...request.Option) (*s3.ListBucketsOutput, error)
	GetBucketLocationWithContext(ctx aws.Context, input *s3.GetBucketLocationInput, opts ...request.Option) (*s3.GetBucketLocationOutput, error)
	ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error)
	DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error)
	DeleteBucketWithContext(ctx aws.Context, input *s3.DeleteBucketInput, opts ...request.Option) (*s3.DeleteBucketOutput, error)
}

// awsError flattens an SDK error into "Code: Message".
func awsError(err error) error {
	if awsErr, ok := err.(awserr.Error); ok {
		return errors.New(awsErr.Code() + ": " + awsErr.Message())
	}
	return err
}

// bucketError maps errors for calls scoped to one bucket onto the package
// sentinels where possible.
func bucketError(err error) error {
	awsErr, ok := err.(awserr.Error)
	if !ok {
		return err
	}
	switch awsErr.Code() {
	case s3.ErrCodeNoSuchBucket:
		return ErrBucketDoesNotExist
	case errCodeBucketNotEmpty:
		return ErrBucketNotEmpty
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == http.StatusNotFound {
		return ErrBucketDoesNotExist
	}
	return awsError(err)
}

func normalizePageSize(pageSize int64) int64 {
	if pageSize <= 0 || pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}
