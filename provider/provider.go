package provider

import (
	"crypto/tls"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

const (
	AWS   = "aws"
	Minio = "minio"
)

// Provider describes the S3-compatible service the sweeper talks to.
type Provider interface {
	Name() string
	Region() string
	Endpoint() string
	Partition() string
	ForcePathStyle() bool
	// NormalizeRegion maps a GetBucketLocation constraint to a region name.
	// The empty constraint means the provider's default region.
	NormalizeRegion(location string) string
}

func New(provider, region, endpoint string, useFIPS bool) Provider {
	if provider == Minio {
		return &MinioProvider{
			region:   region,
			endpoint: endpoint,
		}
	}
	return &AwsProvider{
		region:   region,
		endpoint: endpoint,
		useFIPS:  useFIPS,
	}
}

func IsSupported(provider string) bool {
	return provider == AWS || provider == Minio
}

// NewSession builds the AWS session used for every S3 call.
func NewSession(p Provider, insecureSkipVerify bool) (*session.Session, error) {
	awsConfig := aws.NewConfig().WithRegion(p.Region())
	if endpoint := p.Endpoint(); endpoint != "" {
		awsConfig.WithEndpoint(endpoint)
	}
	if p.ForcePathStyle() {
		awsConfig.WithS3ForcePathStyle(true)
	}
	if insecureSkipVerify {
		customTransport := http.DefaultTransport.(*http.Transport).Clone()
		customTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureSkipVerify}
		awsConfig.WithHTTPClient(&http.Client{Transport: customTransport})
	}
	return session.NewSession(awsConfig)
}
