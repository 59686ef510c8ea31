package sweeper_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cloud-gov/s3-sweeper/sweeper"
)

var _ = Describe("Config", func() {
	var (
		config sweeper.Config

		validConfig = sweeper.Config{
			Region:       "ap-southeast-3",
			BucketPrefix: "cicd-",
			AwsPartition: "aws",
			Timeout:      25 * time.Second,
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

		It("returns error if Region is not valid", func() {
			config.Region = ""

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Must provide a non-empty Region"))
		})

		It("returns error if BucketPrefix is not valid", func() {
			config.BucketPrefix = ""

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Must provide a non-empty BucketPrefix"))
		})

		It("returns error if AwsPartition is not valid", func() {
			config.AwsPartition = ""

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Must provide a non-empty AwsPartition"))
		})

		It("returns error if Timeout is negative", func() {
			config.Timeout = -time.Second

			err := config.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Must provide a non-negative Timeout"))
		})
	})
})

var _ = Describe("ParseMode", func() {
	It("accepts discover and teardown", func() {
		Expect(sweeper.ParseMode("discover")).To(Equal(sweeper.ModeDiscover))
		Expect(sweeper.ParseMode("teardown")).To(Equal(sweeper.ModeTeardown))
	})

	It("rejects anything else", func() {
		_, err := sweeper.ParseMode("Teardown")
		Expect(err).To(MatchError(ContainSubstring(`invalid mode "Teardown"`)))
	})
})
