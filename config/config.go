package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"gopkg.in/yaml.v2"

	"github.com/cloud-gov/s3-sweeper/awss3"
	"github.com/cloud-gov/s3-sweeper/provider"
	"github.com/cloud-gov/s3-sweeper/sweeper"
)

const (
	DefaultLogLevel     = "INFO"
	DefaultRegion       = "ap-southeast-3"
	DefaultBucketPrefix = "cicd-"
	DefaultTimeout      = 25 * time.Second
)

var logLevels = map[string]lager.LogLevel{
	"DEBUG": lager.DEBUG,
	"INFO":  lager.INFO,
	"ERROR": lager.ERROR,
	"FATAL": lager.FATAL,
}

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Mode     string         `yaml:"mode"`
	Sweep    sweeper.Config `yaml:"sweep"`
	S3Config S3Config       `yaml:"s3_config"`
}

type S3Config struct {
	Provider           string `yaml:"provider"`
	Region             string `yaml:"region"`
	Endpoint           string `yaml:"endpoint"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	UseFIPS            bool   `yaml:"use_fips"`
	PageSize           int64  `yaml:"page_size"`
}

func LoadConfig(configFile string) (config *Config, err error) {
	if configFile == "" {
		return config, errors.New("Must provide a config file")
	}

	file, err := os.Open(configFile)
	if err != nil {
		return config, err
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return config, err
	}

	config = &Config{}
	if err = yaml.Unmarshal(bytes, config); err != nil {
		return config, err
	}
	config.ApplyDefaults()

	if err = config.Validate(); err != nil {
		return config, fmt.Errorf("Validating config contents: %s", err)
	}

	return config, nil
}

// ApplyDefaults fills every unset field. The S3 client region falls back to
// the sweep region, and the ARN partition to the provider's partition. A
// zero timeout counts as unset and becomes DefaultTimeout, which keeps every
// run under the Lambda ceiling.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Mode == "" {
		c.Mode = string(sweeper.ModeDiscover)
	}
	if c.Sweep.Region == "" {
		c.Sweep.Region = DefaultRegion
	}
	if c.Sweep.BucketPrefix == "" {
		c.Sweep.BucketPrefix = DefaultBucketPrefix
	}
	if c.Sweep.Timeout == 0 {
		c.Sweep.Timeout = DefaultTimeout
	}
	if c.S3Config.Provider == "" {
		c.S3Config.Provider = provider.AWS
	}
	if c.S3Config.Region == "" {
		c.S3Config.Region = c.Sweep.Region
	}
	if c.S3Config.PageSize == 0 {
		c.S3Config.PageSize = awss3.MaxPageSize
	}
	if c.Sweep.AwsPartition == "" {
		c.Sweep.AwsPartition = c.Provider().Partition()
	}
}

func (c Config) Validate() error {
	if _, ok := logLevels[strings.ToUpper(c.LogLevel)]; !ok {
		return fmt.Errorf("Invalid LogLevel %q", c.LogLevel)
	}

	if _, err := sweeper.ParseMode(c.Mode); err != nil {
		return err
	}

	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("Validating sweep configuration: %s", err)
	}

	if err := c.S3Config.Validate(); err != nil {
		return fmt.Errorf("Validating S3 configuration: %s", err)
	}

	return nil
}

func (c S3Config) Validate() error {
	if !provider.IsSupported(c.Provider) {
		return fmt.Errorf("Unsupported Provider %q", c.Provider)
	}

	if c.Provider == provider.Minio && c.Endpoint == "" {
		return errors.New("Must provide a non-empty Endpoint for minio")
	}

	if c.PageSize < 1 || c.PageSize > awss3.MaxPageSize {
		return fmt.Errorf("PageSize must be between 1 and %d", awss3.MaxPageSize)
	}

	return nil
}

// SweepMode returns the parsed mode. Only valid after Validate succeeded.
func (c Config) SweepMode() sweeper.Mode {
	return sweeper.Mode(c.Mode)
}

func (c Config) Provider() provider.Provider {
	return provider.New(c.S3Config.Provider, c.S3Config.Region, c.S3Config.Endpoint, c.S3Config.UseFIPS)
}

// NewLogger builds the root logger writing to w at the configured level.
func (c Config) NewLogger(component string, w io.Writer) lager.Logger {
	logLevel, ok := logLevels[strings.ToUpper(c.LogLevel)]
	if !ok {
		logLevel = lager.INFO
	}

	logger := lager.NewLogger(component)
	logger.RegisterSink(lager.NewWriterSink(w, logLevel))

	return logger
}
