package sweeper

import (
	"errors"
	"time"
)

type Config struct {
	Region       string        `yaml:"region"`
	BucketPrefix string        `yaml:"bucket_prefix"`
	AwsPartition string        `yaml:"aws_partition"`
	// Timeout bounds a whole run; zero means no deadline of its own.
	// config.ApplyDefaults replaces zero with DefaultTimeout.
	Timeout      time.Duration `yaml:"timeout"`
}

func (c Config) Validate() error {
	if c.Region == "" {
		return errors.New("Must provide a non-empty Region")
	}

	if c.BucketPrefix == "" {
		return errors.New("Must provide a non-empty BucketPrefix")
	}

	if c.AwsPartition == "" {
		return errors.New("Must provide a non-empty AwsPartition")
	}

	if c.Timeout < 0 {
		return errors.New("Must provide a non-negative Timeout")
	}

	return nil
}
