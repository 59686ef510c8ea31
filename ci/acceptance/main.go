// Command acceptance seeds prefixed buckets in a real account, runs a
// teardown through the Lambda handler and checks that the buckets are gone.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	jsoniter "github.com/json-iterator/go"

	"github.com/cloud-gov/s3-sweeper/app"
	"github.com/cloud-gov/s3-sweeper/config"
	"github.com/cloud-gov/s3-sweeper/sweeper"
)

const value = "test-value"

func main() {
	if err := run(); err != nil {
		log.Fatal(err.Error())
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("Error loading config: %s", err)
	}
	cfg.Mode = string(sweeper.ModeTeardown)
	if os.Getenv("SWEEP_BUCKET_PREFIX") == "" {
		cfg.Sweep.BucketPrefix = fmt.Sprintf("cicd-acceptance-%d-", time.Now().Unix())
	}

	objectCount := 1001
	if v := os.Getenv("OBJECT_COUNT"); v != "" {
		if objectCount, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("OBJECT_COUNT: %s", err)
		}
	}

	logger := cfg.NewLogger("s3-sweeper-acceptance", os.Stdout)
	a, err := app.NewApp(cfg, logger)
	if err != nil {
		return err
	}
	svc, ok := a.S3.(*s3.S3)
	if !ok {
		return fmt.Errorf("unexpected S3 client %T", a.S3)
	}

	ctx := context.Background()
	buckets := []string{cfg.Sweep.BucketPrefix + "full", cfg.Sweep.BucketPrefix + "empty"}
	for _, bucket := range buckets {
		if err := createBucket(ctx, svc, bucket, cfg.Sweep.Region); err != nil {
			return err
		}
	}
	if err := putObjects(ctx, svc, buckets[0], objectCount); err != nil {
		return err
	}
	log.Printf("Seeded %s with %d objects and %s empty", buckets[0], objectCount, buckets[1])

	resp, err := a.Handler.Handle(ctx, nil)
	if err != nil {
		return err
	}
	log.Println(resp.Body)

	var report sweeper.Report
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(resp.Body), &report); err != nil {
		return err
	}
	if resp.StatusCode != 200 || len(report.Failed()) > 0 {
		return fmt.Errorf("teardown failed with status %d: %s", resp.StatusCode, resp.Body)
	}

	for _, bucket := range buckets {
		if err := checkDeleted(ctx, svc, bucket); err != nil {
			return err
		}
	}
	for _, outcome := range report.Outcomes {
		if outcome.Name == buckets[0] && outcome.ObjectsDeleted != objectCount {
			return fmt.Errorf("expected %d objects deleted from %s; got %d", objectCount, buckets[0], outcome.ObjectsDeleted)
		}
	}

	log.Println("Acceptance test passed")
	return nil
}

func createBucket(ctx context.Context, svc *s3.S3, bucket, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(region),
		}
	}
	if _, err := svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf("creating bucket %s: %s", bucket, err)
	}
	return svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
}

func putObjects(ctx context.Context, svc *s3.S3, bucket string, count int) error {
	for i := 0; i < count; i++ {
		if _, err := svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Body:   strings.NewReader(value),
			Bucket: aws.String(bucket),
			Key:    aws.String(fmt.Sprintf("objects/%05d", i)),
		}); err != nil {
			return fmt.Errorf("putting object %d in %s: %s", i, bucket, err)
		}
	}
	return nil
}

func checkDeleted(ctx context.Context, svc *s3.S3, bucket string) error {
	_, err := svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return fmt.Errorf("bucket %s still exists", bucket)
	}
	if reqErr, ok := err.(awserr.RequestFailure); ok && reqErr.StatusCode() == 404 {
		return nil
	}
	return fmt.Errorf("checking bucket %s: %s", bucket, err)
}
