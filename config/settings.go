package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadFromEnv builds the configuration from environment variables, the way
// the Lambda runtime provides it.
func LoadFromEnv() (*Config, error) {
	c := &Config{
		LogLevel: os.Getenv("LOG_LEVEL"),
		Mode:     os.Getenv("SWEEP_MODE"),
	}
	c.Sweep.Region = os.Getenv("SWEEP_REGION")
	c.Sweep.BucketPrefix = os.Getenv("SWEEP_BUCKET_PREFIX")
	c.Sweep.AwsPartition = os.Getenv("SWEEP_AWS_PARTITION")

	c.S3Config.Provider = os.Getenv("S3_PROVIDER")
	c.S3Config.Endpoint = os.Getenv("S3_ENDPOINT")
	if region, ok := os.LookupEnv("S3_REGION"); ok {
		c.S3Config.Region = region
	} else {
		c.S3Config.Region = os.Getenv("AWS_REGION")
	}

	var err error
	if c.Sweep.Timeout, err = durationFromEnv("SWEEP_TIMEOUT"); err != nil {
		return c, err
	}
	if c.S3Config.InsecureSkipVerify, err = boolFromEnv("S3_INSECURE_SKIP_VERIFY"); err != nil {
		return c, err
	}
	if c.S3Config.UseFIPS, err = boolFromEnv("S3_USE_FIPS"); err != nil {
		return c, err
	}
	if c.S3Config.PageSize, err = intFromEnv("S3_PAGE_SIZE"); err != nil {
		return c, err
	}

	c.ApplyDefaults()

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("Validating config contents: %s", err)
	}

	return c, nil
}

func durationFromEnv(key string) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return b, nil
}

func intFromEnv(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: %w", key, err)
	}
	return n, nil
}
