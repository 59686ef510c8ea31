package awss3

import (
	"context"

	"code.cloudfoundry.org/lager/v3"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

type S3Eraser struct {
	s3svc    S3Client
	pageSize int64
	logger   lager.Logger
}

func NewS3Eraser(
	s3svc S3Client,
	pageSize int64,
	logger lager.Logger,
) *S3Eraser {
	return &S3Eraser{
		s3svc:    s3svc,
		pageSize: normalizePageSize(pageSize),
		logger:   logger.Session("s3-eraser"),
	}
}

// EmptyAndDelete deletes every object of bucketName, one DeleteObjects call
// per listed page, and then deletes the bucket. Keys that DeleteObjects
// reports as failed are left behind, which makes the final DeleteBucket
// fail with ErrBucketNotEmpty. Every failure is returned as a *DeleteError.
func (e *S3Eraser) EmptyAndDelete(ctx context.Context, bucketName string) (int, error) {
	logger := e.logger.Session("empty-and-delete", lager.Data{"bucket": bucketName})

	deleted, failed := 0, 0
	pager := NewObjectPager(e.s3svc, bucketName, e.pageSize)
	for pager.Next(ctx) {
		keys := pager.Keys()
		if len(keys) == 0 {
			continue
		}

		n, err := e.deleteObjects(ctx, logger, bucketName, keys)
		deleted += n
		if err != nil {
			return deleted, &DeleteError{Bucket: bucketName, Err: err}
		}
		failed += len(keys) - n
	}
	if err := pager.Err(); err != nil {
		logger.Error("aws-s3-error", err)
		return deleted, &DeleteError{Bucket: bucketName, Err: err}
	}
	logger.Debug("bucket-emptied", lager.Data{"pages": pager.Pages(), "deleted": deleted, "failed": failed})

	deleteBucketInput := &s3.DeleteBucketInput{
		Bucket: aws.String(bucketName),
	}
	logger.Debug("delete-bucket", lager.Data{"input": deleteBucketInput})
	if _, err := e.s3svc.DeleteBucketWithContext(ctx, deleteBucketInput); err != nil {
		logger.Error("aws-s3-error", err)
		err = errors.Wrap(bucketError(err), "deleting bucket")
		if failed > 0 {
			err = errors.Wrapf(err, "%d objects could not be deleted", failed)
		}
		return deleted, &DeleteError{Bucket: bucketName, Err: err}
	}
	logger.Info("bucket-deleted", lager.Data{"objects": deleted})

	return deleted, nil
}

// deleteObjects removes one page of keys and returns how many were deleted.
func (e *S3Eraser) deleteObjects(ctx context.Context, logger lager.Logger, bucketName string, keys []string) (int, error) {
	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	deleteObjectsInput := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucketName),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	}
	logger.Debug("delete-objects", lager.Data{"objects": len(objects)})

	deleteObjectsOutput, err := e.s3svc.DeleteObjectsWithContext(ctx, deleteObjectsInput)
	if err != nil {
		logger.Error("aws-s3-error", err)
		return 0, errors.Wrap(bucketError(err), "deleting objects")
	}

	for _, objectErr := range deleteObjectsOutput.Errors {
		logger.Error("delete-object-failed", errors.New(aws.StringValue(objectErr.Code)+": "+aws.StringValue(objectErr.Message)), lager.Data{
			"key": aws.StringValue(objectErr.Key),
		})
	}

	return len(keys) - len(deleteObjectsOutput.Errors), nil
}
