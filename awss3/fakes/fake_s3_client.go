// Package fakes holds an in-memory S3Client for tests.
package fakes

import (
	"net/http"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	OpListBuckets       = "ListBuckets"
	OpGetBucketLocation = "GetBucketLocation"
	OpListObjectsV2     = "ListObjectsV2"
	OpDeleteObjects     = "DeleteObjects"
	OpDeleteBucket      = "DeleteBucket"
)

// Call records one request made against the fake.
type Call struct {
	Op     string
	Bucket string
	// Keys is the number of keys returned by ListObjectsV2 or sent to
	// DeleteObjects.
	Keys int
}

type FakeBucket struct {
	Name string
	// Location is the raw LocationConstraint; "" is returned as nil.
	Location string
	Objects  []string
}

// FakeS3Client keeps buckets in memory. Continuation tokens are the last key
// of the previous page, so deleting keys while paging does not skip objects.
type FakeS3Client struct {
	mu      sync.Mutex
	buckets []*fakeBucket

	ListBucketsErr       error
	GetBucketLocationErr map[string]error
	ListObjectsErr       map[string]error
	DeleteObjectsErr     map[string]error
	// FailKeys are reported as per-key errors by DeleteObjects and stay in
	// the bucket.
	FailKeys map[string]bool

	Calls []Call
}

type fakeBucket struct {
	name     string
	location string
	objects  map[string]bool
}

func NewFakeS3Client(buckets ...FakeBucket) *FakeS3Client {
	c := &FakeS3Client{
		GetBucketLocationErr: map[string]error{},
		ListObjectsErr:       map[string]error{},
		DeleteObjectsErr:     map[string]error{},
		FailKeys:             map[string]bool{},
	}
	for _, b := range buckets {
		c.AddBucket(b)
	}
	return c
}

func (c *FakeS3Client) AddBucket(b FakeBucket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	objects := make(map[string]bool, len(b.Objects))
	for _, key := range b.Objects {
		objects[key] = true
	}
	c.buckets = append(c.buckets, &fakeBucket{name: b.Name, location: b.Location, objects: objects})
}

// BucketNames returns the buckets that still exist, in creation order.
func (c *FakeS3Client) BucketNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.buckets))
	for _, b := range c.buckets {
		names = append(names, b.name)
	}
	return names
}

// ObjectCount returns the number of objects left in a bucket, or -1 if the
// bucket does not exist.
func (c *FakeS3Client) ObjectCount(bucketName string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b := c.find(bucketName); b != nil {
		return len(b.objects)
	}
	return -1
}

// CallsFor returns the recorded calls of the given operation.
func (c *FakeS3Client) CallsFor(op string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	var calls []Call
	for _, call := range c.Calls {
		if call.Op == op {
			calls = append(calls, call)
		}
	}
	return calls
}

func (c *FakeS3Client) ListBucketsWithContext(ctx aws.Context, input *s3.ListBucketsInput, opts ...request.Option) (*s3.ListBucketsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, Call{Op: OpListBuckets})
	if err := ctx.Err(); err != nil {
		return nil, canceledError(err)
	}
	if c.ListBucketsErr != nil {
		return nil, c.ListBucketsErr
	}

	output := &s3.ListBucketsOutput{Buckets: []*s3.Bucket{}}
	for _, b := range c.buckets {
		output.Buckets = append(output.Buckets, &s3.Bucket{Name: aws.String(b.name)})
	}
	return output, nil
}

func (c *FakeS3Client) GetBucketLocationWithContext(ctx aws.Context, input *s3.GetBucketLocationInput, opts ...request.Option) (*s3.GetBucketLocationOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucketName := aws.StringValue(input.Bucket)
	c.Calls = append(c.Calls, Call{Op: OpGetBucketLocation, Bucket: bucketName})
	if err := ctx.Err(); err != nil {
		return nil, canceledError(err)
	}
	if err := c.GetBucketLocationErr[bucketName]; err != nil {
		return nil, err
	}

	b := c.find(bucketName)
	if b == nil {
		return nil, noSuchBucket()
	}
	output := &s3.GetBucketLocationOutput{}
	if b.location != "" {
		output.LocationConstraint = aws.String(b.location)
	}
	return output, nil
}

func (c *FakeS3Client) ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucketName := aws.StringValue(input.Bucket)
	if err := ctx.Err(); err != nil {
		c.Calls = append(c.Calls, Call{Op: OpListObjectsV2, Bucket: bucketName})
		return nil, canceledError(err)
	}
	if err := c.ListObjectsErr[bucketName]; err != nil {
		c.Calls = append(c.Calls, Call{Op: OpListObjectsV2, Bucket: bucketName})
		return nil, err
	}

	b := c.find(bucketName)
	if b == nil {
		c.Calls = append(c.Calls, Call{Op: OpListObjectsV2, Bucket: bucketName})
		return nil, noSuchBucket()
	}

	maxKeys := int(aws.Int64Value(input.MaxKeys))
	if maxKeys <= 0 {
		maxKeys = 1000
	}
	after := aws.StringValue(input.ContinuationToken)

	var remaining []string
	for _, key := range b.sortedKeys() {
		if after == "" || key > after {
			remaining = append(remaining, key)
		}
	}

	page := remaining
	truncated := false
	if len(remaining) > maxKeys {
		page = remaining[:maxKeys]
		truncated = true
	}

	output := &s3.ListObjectsV2Output{
		Name:        aws.String(bucketName),
		IsTruncated: aws.Bool(truncated),
		KeyCount:    aws.Int64(int64(len(page))),
	}
	for _, key := range page {
		output.Contents = append(output.Contents, &s3.Object{Key: aws.String(key)})
	}
	if truncated {
		output.NextContinuationToken = aws.String(page[len(page)-1])
	}

	c.Calls = append(c.Calls, Call{Op: OpListObjectsV2, Bucket: bucketName, Keys: len(page)})
	return output, nil
}

func (c *FakeS3Client) DeleteObjectsWithContext(ctx aws.Context, input *s3.DeleteObjectsInput, opts ...request.Option) (*s3.DeleteObjectsOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucketName := aws.StringValue(input.Bucket)
	c.Calls = append(c.Calls, Call{Op: OpDeleteObjects, Bucket: bucketName, Keys: len(input.Delete.Objects)})
	if err := ctx.Err(); err != nil {
		return nil, canceledError(err)
	}
	if err := c.DeleteObjectsErr[bucketName]; err != nil {
		return nil, err
	}

	b := c.find(bucketName)
	if b == nil {
		return nil, noSuchBucket()
	}

	output := &s3.DeleteObjectsOutput{}
	for _, object := range input.Delete.Objects {
		key := aws.StringValue(object.Key)
		if c.FailKeys[key] {
			output.Errors = append(output.Errors, &s3.Error{
				Key:     aws.String(key),
				Code:    aws.String("AccessDenied"),
				Message: aws.String("Access Denied"),
			})
			continue
		}
		delete(b.objects, key)
		if !aws.BoolValue(input.Delete.Quiet) {
			output.Deleted = append(output.Deleted, &s3.DeletedObject{Key: aws.String(key)})
		}
	}
	return output, nil
}

func (c *FakeS3Client) DeleteBucketWithContext(ctx aws.Context, input *s3.DeleteBucketInput, opts ...request.Option) (*s3.DeleteBucketOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucketName := aws.StringValue(input.Bucket)
	c.Calls = append(c.Calls, Call{Op: OpDeleteBucket, Bucket: bucketName})
	if err := ctx.Err(); err != nil {
		return nil, canceledError(err)
	}

	for i, b := range c.buckets {
		if b.name != bucketName {
			continue
		}
		if len(b.objects) > 0 {
			return nil, awserr.NewRequestFailure(
				awserr.New("BucketNotEmpty", "The bucket you tried to delete is not empty", nil),
				http.StatusConflict, "fake-request",
			)
		}
		c.buckets = append(c.buckets[:i], c.buckets[i+1:]...)
		return &s3.DeleteBucketOutput{}, nil
	}
	return nil, noSuchBucket()
}

func (c *FakeS3Client) find(bucketName string) *fakeBucket {
	for _, b := range c.buckets {
		if b.name == bucketName {
			return b
		}
	}
	return nil
}

func (b *fakeBucket) sortedKeys() []string {
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func noSuchBucket() error {
	return awserr.NewRequestFailure(
		awserr.New(s3.ErrCodeNoSuchBucket, "The specified bucket does not exist", nil),
		http.StatusNotFound, "fake-request",
	)
}

func canceledError(err error) error {
	return awserr.New(request.CanceledErrorCode, "request context canceled", err)
}
