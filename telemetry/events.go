package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
)

// EventDetailType is the detail type of events published by [NewEventsHook].
const EventDetailType = "Archive Extracted"

// EventsAPI is the subset of the EventBridge (CloudWatch Events) client used by [NewEventsHook].
type EventsAPI interface {
	PutEvents(ctx context.Context, params *cloudwatchevents.PutEventsInput, optFns ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error)
}

// NewEventsHook returns a [TelemetryHook] that publishes [Data] as one event to busName.
// Publishing failures are logged to logger and never reach the caller of the run.
func NewEventsHook(client EventsAPI, busName string, source string, logger *slog.Logger) TelemetryHook {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, d *Data) {
		detail, err := json.Marshal(d)
		if err != nil {
			logger.Error("cannot encode telemetry event", "error", err)
			return
		}

		out, err := client.PutEvents(ctx, &cloudwatchevents.PutEventsInput{
			Entries: []types.PutEventsRequestEntry{
				{
					Detail:       aws.String(string(detail)),
					DetailType:   aws.String(EventDetailType),
					EventBusName: aws.String(busName),
					Resources:    []string{d.Archive},
					Source:       aws.String(source),
				},
			},
		})
		if err != nil {
			logger.Error("cannot publish telemetry event", "bus", busName, "error", err)
			return
		}
		for _, e := range out.Entries {
			if e.ErrorCode != nil {
				logger.Error("telemetry event rejected", "bus", busName, "code", aws.ToString(e.ErrorCode), "message", aws.ToString(e.ErrorMessage))
			}
		}
	}
}
