package awss3

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// ListObjects fetches one page of keys from bucketName. A nil cursor starts
// the listing; a nil next cursor means there are no further pages.
func ListObjects(ctx context.Context, s3svc S3Client, bucketName string, cursor *string, pageSize int64) ([]string, *string, error) {
	listObjectsInput := &s3.ListObjectsV2Input{
		Bucket:            aws.String(bucketName),
		ContinuationToken: cursor,
		MaxKeys:           aws.Int64(normalizePageSize(pageSize)),
	}

	listObjectsOutput, err := s3svc.ListObjectsV2WithContext(ctx, listObjectsInput)
	if err != nil {
		return nil, nil, errors.Wrap(bucketError(err), "listing objects")
	}

	keys := make([]string, 0, len(listObjectsOutput.Contents))
	for _, object := range listObjectsOutput.Contents {
		if object.Key == nil {
			continue
		}
		keys = append(keys, *object.Key)
	}

	var next *string
	if aws.BoolValue(listObjectsOutput.IsTruncated) && aws.StringValue(listObjectsOutput.NextContinuationToken) != "" {
		next = listObjectsOutput.NextContinuationToken
	}
	return keys, next, nil
}

// ObjectPager walks every object key of one bucket a page at a time.
//
// The pager is forward-only and cannot be restarted. An empty bucket yields
// exactly one empty page. Next returns false once the last page has been
// returned or a listing call failed; check Err afterwards.
type ObjectPager struct {
	s3svc      S3Client
	bucketName string
	pageSize   int64

	cursor *string
	keys   []string
	pages  int
	done   bool
	err    error
}

func NewObjectPager(s3svc S3Client, bucketName string, pageSize int64) *ObjectPager {
	return &ObjectPager{
		s3svc:      s3svc,
		bucketName: bucketName,
		pageSize:   normalizePageSize(pageSize),
	}
}

func (p *ObjectPager) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		p.keys = nil
		return false
	}

	keys, next, err := ListObjects(ctx, p.s3svc, p.bucketName, p.cursor, p.pageSize)
	if err != nil {
		p.err = err
		p.keys = nil
		return false
	}

	p.keys = keys
	p.cursor = next
	p.pages++
	if next == nil {
		p.done = true
	}
	return true
}

// Keys returns the keys of the current page. Only valid after Next
// returned true.
func (p *ObjectPager) Keys() []string {
	return p.keys
}

func (p *ObjectPager) Err() error {
	return p.err
}

// Pages returns how many pages have been fetched so far.
func (p *ObjectPager) Pages() int {
	return p.pages
}
