package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cloud-gov/s3-sweeper/app"
	"github.com/cloud-gov/s3-sweeper/config"
	"github.com/cloud-gov/s3-sweeper/sweeper"
)

var errSweepFailed = errors.New("sweep failed")

type sweepOptions struct {
	configFile string
	envFile    string
	prefix     string
	region     string
	logLevel   string
	timeout    time.Duration
	yes        bool
}

func (o *sweepOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configFile, "config", "c", "", "YAML config file (default: read the environment)")
	cmd.Flags().StringVar(&o.envFile, "env-file", ".env", "Environment file loaded before reading the environment")
	cmd.Flags().StringVarP(&o.prefix, "prefix", "p", "", "Bucket name prefix (overrides config)")
	cmd.Flags().StringVarP(&o.region, "region", "r", "", "Bucket region (overrides config)")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "DEBUG, INFO, ERROR or FATAL (overrides config)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Deadline for the whole sweep (overrides config)")
}

func newDiscoverCmd() *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the buckets matching the prefix and region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, opts, sweeper.ModeDiscover)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func newTeardownCmd() *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Empty and delete the buckets matching the prefix and region",
		Long: `teardown deletes every object in each matching bucket and then the bucket
itself. Buckets are processed one at a time; a bucket that cannot be deleted
is reported and the others are still processed.

Examples:
    s3-sweeper teardown --prefix cicd- --region ap-southeast-3 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.yes {
				return errors.New("refusing to delete buckets without --yes")
			}
			return runSweep(cmd, opts, sweeper.ModeTeardown)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Confirm that matching buckets should be deleted")

	return cmd
}

func runSweep(cmd *cobra.Command, opts *sweepOptions, mode sweeper.Mode) error {
	cfg, err := loadConfig(opts, mode)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger("s3-sweeper", cmd.ErrOrStderr())

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sweep(ctx, a, mode, logger, cmd.OutOrStdout())
}

// loadConfig reads the file or environment settings and applies the flag
// overrides on top.
func loadConfig(opts *sweepOptions, mode sweeper.Mode) (*config.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "loading %s", opts.envFile)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadConfig(opts.configFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	cfg.Mode = string(mode)
	if opts.prefix != "" {
		cfg.Sweep.BucketPrefix = opts.prefix
	}
	if opts.region != "" {
		cfg.Sweep.Region = opts.region
		cfg.S3Config.Region = opts.region
		cfg.Sweep.AwsPartition = ""
		cfg.ApplyDefaults()
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.timeout != 0 {
		cfg.Sweep.Timeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating flags")
	}

	return cfg, nil
}

// sweep runs one pass and prints the report. errSweepFailed is returned when
// the run aborted or any bucket could not be deleted.
func sweep(ctx context.Context, a *app.App, mode sweeper.Mode, logger lager.Logger, out io.Writer) error {
	report, err := a.Sweeper.Run(ctx, mode)
	if err != nil {
		logger.Error("sweep-failed", err, lager.Data{"kind": sweeper.ErrorKind(err)})
		report = sweeper.ErrorReport(mode, err)
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	fmt.Fprintln(out, string(body))

	if report.StatusCode != http.StatusOK || len(report.Failed()) > 0 {
		return errSweepFailed
	}
	return nil
}
