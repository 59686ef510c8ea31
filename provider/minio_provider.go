package provider

import (
	"github.com/aws/aws-sdk-go/aws/endpoints"
)

const minioDefaultRegion = "us-east-1"

type MinioProvider struct {
	region   string
	endpoint string
}

func (m *MinioProvider) Name() string {
	return Minio
}

func (m *MinioProvider) Region() string {
	if m.region == "" {
		return minioDefaultRegion
	}
	return m.region
}

func (m *MinioProvider) Endpoint() string {
	return m.endpoint
}

func (m *MinioProvider) Partition() string {
	return endpoints.AwsPartitionID
}

func (m *MinioProvider) ForcePathStyle() bool {
	return true
}

// MinIO reports an empty constraint for buckets created in its own region.
func (m *MinioProvider) NormalizeRegion(location string) string {
	if location == "" {
		return m.Region()
	}
	return location
}
