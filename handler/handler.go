package handler

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"net/http"

	"code.cloudfoundry.org/lager/v3"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	jsoniter "github.com/json-iterator/go"

	"github.com/cloud-gov/s3-sweeper/sweeper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Runner runs one sweep. Implemented by *sweeper.Sweeper.
type Runner interface {
	Run(ctx context.Context, mode sweeper.Mode) (sweeper.Report, error)
}

type Handler struct {
	runner Runner
	mode   sweeper.Mode
	logger lager.Logger
}

func New(runner Runner, mode sweeper.Mode, logger lager.Logger) *Handler {
	return &Handler{
		runner: runner,
		mode:   mode,
		logger: logger.Session("handler"),
	}
}

// Handle is the Lambda entry point. The event payload is not read. Failures,
// panics included, are reported in the response body, so the returned error
// is always nil.
func (h *Handler) Handle(ctx context.Context, _ stdjson.RawMessage) (resp events.APIGatewayProxyResponse, err error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithData(lager.Data{"request-id": lc.AwsRequestID})
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := fmt.Errorf("%v", r)
			logger.Error("sweep-panicked", panicErr, lager.Data{"mode": h.mode, "kind": sweeper.ErrorKind(panicErr)})
			resp, err = h.respond(logger, sweeper.ErrorReport(h.mode, panicErr)), nil
		}
	}()

	report, err := h.runner.Run(ctx, h.mode)
	if err != nil {
		logger.Error("sweep-failed", err, lager.Data{"mode": h.mode, "kind": sweeper.ErrorKind(err)})
		report = sweeper.ErrorReport(h.mode, err)
	}

	return h.respond(logger, report), nil
}

func (h *Handler) respond(logger lager.Logger, report sweeper.Report) events.APIGatewayProxyResponse {
	body, err := json.Marshal(report)
	if err != nil {
		logger.Error("encode-report", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message":"Error encoding report.","buckets":[]}`,
		}
	}

	logger.Info("sweep-finished", lager.Data{
		"status":  report.StatusCode,
		"buckets": len(report.Buckets),
		"failed":  len(report.Failed()),
	})

	return events.APIGatewayProxyResponse{
		StatusCode: report.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
