package awss3

import (
	"context"

	"code.cloudfoundry.org/lager/v3"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// RegionNormalizer resolves the provider's "default region" marker.
type RegionNormalizer interface {
	NormalizeRegion(location string) string
}

type S3Catalog struct {
	s3svc   S3Client
	regions RegionNormalizer
	logger  lager.Logger
}

func NewS3Catalog(
	s3svc S3Client,
	regions RegionNormalizer,
	logger lager.Logger,
) *S3Catalog {
	return &S3Catalog{
		s3svc:   s3svc,
		regions: regions,
		logger:  logger.Session("s3-catalog"),
	}
}

// ListAllBuckets lists every bucket visible to the caller and resolves the
// region of each one, in listing order.
func (c *S3Catalog) ListAllBuckets(ctx context.Context) ([]BucketRecord, error) {
	listBucketsInput := &s3.ListBucketsInput{}
	c.logger.Debug("list-buckets", lager.Data{"input": listBucketsInput})

	listBucketsOutput, err := c.s3svc.ListBucketsWithContext(ctx, listBucketsInput)
	if err != nil {
		c.logger.Error("aws-s3-error", err)
		return nil, errors.Wrap(awsError(err), "listing buckets")
	}

	records := make([]BucketRecord, 0, len(listBucketsOutput.Buckets))
	for _, bucket := range listBucketsOutput.Buckets {
		bucketName := aws.StringValue(bucket.Name)
		if bucketName == "" {
			continue
		}

		region, err := c.BucketRegion(ctx, bucketName)
		if err != nil {
			return nil, err
		}
		records = append(records, BucketRecord{Name: bucketName, Region: region})
	}
	c.logger.Info("list-buckets", lager.Data{"buckets": len(records)})

	return records, nil
}

func (c *S3Catalog) BucketRegion(ctx context.Context, bucketName string) (string, error) {
	getLocationInput := &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	}
	c.logger.Debug("get-bucket-location", lager.Data{"input": getLocationInput})

	getLocationOutput, err := c.s3svc.GetBucketLocationWithContext(ctx, getLocationInput)
	if err != nil {
		c.logger.Error("aws-s3-error", err, lager.Data{"bucket": bucketName})
		return "", errors.Wrapf(awsError(err), "getting location of bucket %s", bucketName)
	}
	c.logger.Debug("get-bucket-location", lager.Data{"output": getLocationOutput})

	return c.regions.NormalizeRegion(aws.StringValue(getLocationOutput.LocationConstraint)), nil
}
