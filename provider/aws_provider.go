package provider

import (
	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/aws/aws-sdk-go/service/s3"
)

type AwsProvider struct {
	region   string
	endpoint string
	useFIPS  bool
}

func (a *AwsProvider) Name() string {
	return AWS
}

func (a *AwsProvider) Region() string {
	return a.region
}

// Endpoint returns an explicit endpoint override, the FIPS endpoint when
// requested, or "" to let the SDK resolve the regional endpoint.
func (a *AwsProvider) Endpoint() string {
	if a.endpoint != "" {
		return a.endpoint
	}
	if !a.useFIPS {
		return ""
	}
	if a.region == "us-east-1" {
		return "s3-fips.amazonaws.com"
	}
	return "s3-fips." + a.region + ".amazonaws.com"
}

func (a *AwsProvider) Partition() string {
	if p, ok := endpoints.PartitionForRegion(endpoints.DefaultPartitions(), a.region); ok {
		return p.ID()
	}
	return endpoints.AwsPartitionID
}

func (a *AwsProvider) ForcePathStyle() bool {
	return false
}

// NormalizeRegion turns the empty constraint into us-east-1 and the legacy
// "EU" constraint into eu-west-1.
func (a *AwsProvider) NormalizeRegion(location string) string {
	return s3.NormalizeBucketLocation(location)
}
