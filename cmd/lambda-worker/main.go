package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"resumelink/internal/bootstrap"
	"resumelink/internal/shared/config"
	"resumelink/internal/shared/metrics"
	"resumelink/internal/shared/telemetry"
	"resumelink/internal/tracking"
	"resumelink/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	sink     tracking.Applier
)

func initApp() {
	cfg := config.Load()
	telemetry.Configure(telemetry.Options{Level: cfg.LogLevel})
	built, err := bootstrap.BuildWithOptions(context.Background(), cfg, bootstrap.Options{SkipMigrations: true, ApplyInline: true})
	if err != nil {
		initErr = err
		return
	}
	sink = built.Sink
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processBatch(ctx, sink, event), nil
}

// processBatch reports only retryable failures. Malformed records are
// dropped so they do not poison the batch.
func processBatch(ctx context.Context, applier tracking.Applier, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, applier, record.Body)
		switch {
		case err == nil:
			metrics.IncWorkerMessage("applied")
		case workerproc.Unrecoverable(err):
			metrics.IncWorkerMessage("discarded")
			telemetry.Error("lambda.tracking.discarded", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
		default:
			metrics.IncWorkerMessage("failed")
			telemetry.Error("lambda.tracking.failed", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err.Error(),
			})
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
