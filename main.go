package main

import (
	"log"
	"os"

	"code.cloudfoundry.org/lager/v3"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/cloud-gov/s3-sweeper/app"
	"github.com/cloud-gov/s3-sweeper/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	logger := cfg.NewLogger("s3-sweeper", os.Stdout)

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("Error building sweeper: %s", err)
	}

	logger.Info("starting", lager.Data{
		"mode":   cfg.Mode,
		"region": cfg.Sweep.Region,
		"prefix": cfg.Sweep.BucketPrefix,
	})
	lambda.Start(a.Handler.Handle)
}
