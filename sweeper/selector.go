package sweeper

import (
	"fmt"
	"strings"

	"github.com/cloud-gov/s3-sweeper/awss3"
)

// Matches reports whether a bucket's name starts with prefix (case-sensitive)
// and it lives in region.
func Matches(record awss3.BucketRecord, prefix, region string) bool {
	return strings.HasPrefix(record.Name, prefix) && record.Region == region
}

// BucketARN builds the region-less, account-less ARN of a bucket.
func BucketARN(partition, bucketName string) string {
	return fmt.Sprintf("arn:%s:s3:::%s", partition, bucketName)
}

// SelectCandidates keeps the matching records, in listing order.
func SelectCandidates(records []awss3.BucketRecord, config Config) []BucketCandidate {
	candidates := []BucketCandidate{}
	for _, record := range records {
		if !Matches(record, config.BucketPrefix, config.Region) {
			continue
		}
		candidates = append(candidates, BucketCandidate{
			Name: record.Name,
			ARN:  BucketARN(config.AwsPartition, record.Name),
		})
	}
	return candidates
}
