// Package report publishes remediation outcomes to EventBridge for
// downstream automation.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/remediate"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-auto-remediator/internal/report")

const (
	eventSource = "ec2.auto.remediator"
	detailType  = "Remediation Outcome"
)

// EventBridgeAPI defines required EventBridge operations.
type EventBridgeAPI interface {
	PutEvents(
		ctx context.Context,
		params *eventbridge.PutEventsInput,
		optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher publishes remediation outcomes to an EventBridge bus.
type Publisher struct {
	client       EventBridgeAPI
	eventBusName string
}

// NewPublisher creates a new EventBridge publisher.
func NewPublisher(client EventBridgeAPI, eventBusName string) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
	}
}

// Publish sends one event per outcome to the configured bus.
func (p *Publisher) Publish(ctx context.Context, outcomes []remediate.Outcome) error {
	ctx, span := tracer.Start(ctx, "report.eventbridge")
	defer span.End()
	span.SetAttributes(
		attribute.String("eventbus.name", p.eventBusName),
		attribute.Int("outcome.count", len(outcomes)),
	)

	entries := make([]types.PutEventsRequestEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		detail, err := json.Marshal(outcome)
		if err != nil {
			return fmt.Errorf("cannot marshal outcome: %w", err)
		}

		entries = append(entries, types.PutEventsRequestEntry{
			Detail:       aws.String(string(detail)),
			DetailType:   aws.String(detailType),
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(eventSource),
		})
	}

	// PutEvents accepts at most 10 entries per call.
	const batchSize = 10

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries[i:end]})
		if err != nil {
			return fmt.Errorf("cannot put events: %w", err)
		}

		if out.FailedEntryCount > 0 {
			for _, entry := range out.Entries {
				if entry.ErrorCode != nil {
					return fmt.Errorf("event rejected: %s - %s",
						aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
				}
			}
		}
	}

	return nil
}
