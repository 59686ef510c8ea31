package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	. "github.com/cloud-gov/s3-sweeper/config"
	"github.com/cloud-gov/s3-sweeper/sweeper"
)

var envKeys = []string{
	"LOG_LEVEL", "SWEEP_MODE", "SWEEP_REGION", "SWEEP_BUCKET_PREFIX", "SWEEP_AWS_PARTITION",
	"SWEEP_TIMEOUT", "S3_PROVIDER", "S3_ENDPOINT", "S3_REGION", "AWS_REGION",
	"S3_INSECURE_SKIP_VERIFY", "S3_USE_FIPS", "S3_PAGE_SIZE",
}

func setEnv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
}

var _ = Describe("Config", func() {
	var (
		config Config

		validConfig = Config{
			LogLevel: "DEBUG",
			Mode:     "teardown",
			Sweep: sweeper.Config{
				Region:       "ap-southeast-3",
				BucketPrefix: "cicd-",
				AwsPartition: "aws",
				Timeout:      25 * time.Second,
			},
			S3Config: S3Config{
				Provider: "aws",
				Region:   "ap-southeast-3",
				PageSize: 1000,
			},
		}
	)

	Describe("Validate", func() {
		BeforeEach(func() {
			config = validConfig
		})

		It("does not return error if all sections are valid", func() {
			err := config.Validate()
			Expect(err).ToNot(HaveOccurred())
		})

		It("returns error if LogLevel is not valid", func() {
			config.LogLevel = "VERBOSE"

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`Invalid LogLevel "VERBOSE"`))
		})

		It("returns error if Mode is not valid", func() {
			config.Mode = "nuke"

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`invalid mode "nuke"`))
		})

		It("returns error if sweep configuration is not valid", func() {
			config.Sweep = sweeper.Config{}

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Validating sweep configuration"))
		})

		It("returns error if the provider is not supported", func() {
			config.S3Config.Provider = "gcs"

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`Unsupported Provider "gcs"`))
		})

		It("returns error if minio has no endpoint", func() {
			config.S3Config.Provider = "minio"

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Must provide a non-empty Endpoint for minio"))
		})

		It("returns error if PageSize is out of range", func() {
			config.S3Config.PageSize = 1001

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("PageSize must be between 1 and 1000"))
		})
	})

	Describe("ApplyDefaults", func() {
		It("matches the behaviour of the deployed function", func() {
			config = Config{}
			config.ApplyDefaults()

			Expect(config.Validate()).To(Succeed())
			Expect(config.SweepMode()).To(Equal(sweeper.ModeDiscover))
			Expect(config.Sweep.Region).To(Equal("ap-southeast-3"))
			Expect(config.Sweep.BucketPrefix).To(Equal("cicd-"))
			Expect(config.Sweep.AwsPartition).To(Equal("aws"))
			Expect(config.Sweep.Timeout).To(Equal(25 * time.Second))
			Expect(config.S3Config.Region).To(Equal("ap-southeast-3"))
			Expect(config.S3Config.PageSize).To(Equal(int64(1000)))
		})

		It("derives the partition from the client region", func() {
			config = Config{S3Config: S3Config{Region: "us-gov-west-1"}}
			config.ApplyDefaults()

			Expect(config.Sweep.AwsPartition).To(Equal("aws-us-gov"))
		})
	})

	Describe("LoadConfig", func() {
		It("requires a path", func() {
			_, err := LoadConfig("")
			Expect(err).To(MatchError("Must provide a config file"))
		})

		It("reads a YAML file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.yml")
			Expect(os.WriteFile(path, []byte(`
log_level: DEBUG
mode: teardown
sweep:
  region: eu-west-1
  bucket_prefix: ci-
  timeout: 40s
s3_config:
  provider: minio
  endpoint: http://localhost:9000
  page_size: 250
`), 0o600)).To(Succeed())

			loaded, err := LoadConfig(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.SweepMode()).To(Equal(sweeper.ModeTeardown))
			Expect(loaded.Sweep.Region).To(Equal("eu-west-1"))
			Expect(loaded.Sweep.BucketPrefix).To(Equal("ci-"))
			Expect(loaded.Sweep.Timeout).To(Equal(40 * time.Second))
			Expect(loaded.S3Config.Region).To(Equal("eu-west-1"))
			Expect(loaded.S3Config.PageSize).To(Equal(int64(250)))
			Expect(loaded.Provider().Endpoint()).To(Equal("http://localhost:9000"))
		})

		It("treats a zero timeout as the default", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.yml")
			Expect(os.WriteFile(path, []byte("sweep:\n  timeout: 0s\n"), 0o600)).To(Succeed())

			loaded, err := LoadConfig(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.Sweep.Timeout).To(Equal(DefaultTimeout))
		})

		It("rejects invalid contents", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.yml")
			Expect(os.WriteFile(path, []byte("mode: explode\n"), 0o600)).To(Succeed())

			_, err := LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("Validating config contents")))
		})
	})

	Describe("LoadFromEnv", func() {
		BeforeEach(func() {
			saved := map[string]string{}
			for _, key := range envKeys {
				if v, ok := os.LookupEnv(key); ok {
					saved[key] = v
				}
				Expect(os.Unsetenv(key)).To(Succeed())
			}
			DeferCleanup(func() {
				for _, key := range envKeys {
					os.Unsetenv(key)
					if v, ok := saved[key]; ok {
						os.Setenv(key, v)
					}
				}
			})
		})

		It("falls back to the defaults", func() {
			loaded, err := LoadFromEnv()
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.SweepMode()).To(Equal(sweeper.ModeDiscover))
			Expect(loaded.Sweep.BucketPrefix).To(Equal("cicd-"))
			Expect(loaded.S3Config.Region).To(Equal("ap-southeast-3"))
		})

		It("reads every setting", func() {
			setEnv("LOG_LEVEL", "debug")
			setEnv("SWEEP_MODE", "teardown")
			setEnv("SWEEP_REGION", "us-west-2")
			setEnv("SWEEP_BUCKET_PREFIX", "tmp-")
			setEnv("SWEEP_TIMEOUT", "10s")
			setEnv("AWS_REGION", "us-east-1")
			setEnv("S3_USE_FIPS", "true")
			setEnv("S3_PAGE_SIZE", "10")

			loaded, err := LoadFromEnv()
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.SweepMode()).To(Equal(sweeper.ModeTeardown))
			Expect(loaded.Sweep.Region).To(Equal("us-west-2"))
			Expect(loaded.Sweep.BucketPrefix).To(Equal("tmp-"))
			Expect(loaded.Sweep.Timeout).To(Equal(10 * time.Second))
			Expect(loaded.S3Config.Region).To(Equal("us-east-1"))
			Expect(loaded.S3Config.UseFIPS).To(BeTrue())
			Expect(loaded.S3Config.PageSize).To(Equal(int64(10)))
			Expect(loaded.Provider().Endpoint()).To(Equal("s3-fips.amazonaws.com"))
		})

		It("prefers S3_REGION over AWS_REGION", func() {
			setEnv("AWS_REGION", "us-east-1")
			setEnv("S3_REGION", "eu-central-1")

			loaded, err := LoadFromEnv()
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.S3Config.Region).To(Equal("eu-central-1"))
		})

		It("rejects a malformed timeout", func() {
			setEnv("SWEEP_TIMEOUT", "soon")

			_, err := LoadFromEnv()
			Expect(err).To(MatchError(ContainSubstring("environment variable SWEEP_TIMEOUT")))
		})

		It("rejects a malformed boolean", func() {
			setEnv("S3_INSECURE_SKIP_VERIFY", "maybe")

			_, err := LoadFromEnv()
			Expect(err).To(MatchError(ContainSubstring("environment variable S3_INSECURE_SKIP_VERIFY")))
		})
	})

	Describe("NewLogger", func() {
		It("names the logger after the component", func() {
			out := gbytes.NewBuffer()
			logger := validConfig.NewLogger("s3-sweeper", out)
			Expect(logger.SessionName()).To(Equal("s3-sweeper"))

			logger.Debug("hello")
			Eventually(out).Should(gbytes.Say(`"message":"s3-sweeper.hello"`))
		})
	})
})
