// Command s3-sweeper runs the bucket sweep from an operator's shell.
//
// Usage:
//
//	s3-sweeper discover                      List buckets matching the prefix and region
//	s3-sweeper teardown --yes                Empty and delete the matching buckets
//	s3-sweeper discover --config sweep.yml   Read settings from a YAML file
//	s3-sweeper version                       Show version
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "s3-sweeper",
		Short: "Find and delete leftover S3 buckets",
		Long: `s3-sweeper finds the S3 buckets whose names start with a prefix and that
live in one region, and optionally empties and deletes them.

Settings come from a YAML file (--config) or from SWEEP_* and S3_*
environment variables. A .env file in the working directory is read first.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newDiscoverCmd(),
		newTeardownCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSweepFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "s3-sweeper %s\n", getVersion())
		},
	}
}
