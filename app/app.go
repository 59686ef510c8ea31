// Package app wires the configured S3 client, sweeper and handler together.
package app

import (
	"fmt"

	"code.cloudfoundry.org/lager/v3"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/cloud-gov/s3-sweeper/awss3"
	"github.com/cloud-gov/s3-sweeper/config"
	"github.com/cloud-gov/s3-sweeper/handler"
	"github.com/cloud-gov/s3-sweeper/provider"
	"github.com/cloud-gov/s3-sweeper/sweeper"
)

type App struct {
	Logger  lager.Logger
	S3      awss3.S3Client
	Sweeper *sweeper.Sweeper
	Handler *handler.Handler
}

func NewApp(cfg *config.Config, logger lager.Logger) (*App, error) {
	p := cfg.Provider()
	if p.Endpoint() != "" {
		logger.Info("using-alternate-endpoint", lager.Data{"endpoint": p.Endpoint()})
	}
	if cfg.S3Config.InsecureSkipVerify {
		logger.Info("insecure-skip-verify")
	}

	sess, err := provider.NewSession(p, cfg.S3Config.InsecureSkipVerify)
	if err != nil {
		return nil, fmt.Errorf("could not initialize session: %s", err)
	}

	var s3svc s3iface.S3API = s3.New(sess)
	return New(cfg, s3svc, logger), nil
}

// New builds the app around an existing S3 client.
func New(cfg *config.Config, s3svc awss3.S3Client, logger lager.Logger) *App {
	catalog := awss3.NewS3Catalog(s3svc, cfg.Provider(), logger)
	eraser := awss3.NewS3Eraser(s3svc, cfg.S3Config.PageSize, logger)
	s := sweeper.New(cfg.Sweep, catalog, eraser, logger)

	return &App{
		Logger:  logger,
		S3:      s3svc,
		Sweeper: s,
		Handler: handler.New(s, cfg.SweepMode(), logger),
	}
}
