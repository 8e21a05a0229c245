// Package handler fans a batch of SNS-delivered alarm events out to
// independent per-event remediation and aggregates the outcomes.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/alarmevent"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/remediate"
)

// Remediator runs the decision sequence for one parsed notification.
type Remediator interface {
	Remediate(ctx context.Context, instanceID string, n *alarmevent.Notification) remediate.Outcome
}

// OutcomePublisher forwards collected outcomes to a downstream bus.
type OutcomePublisher interface {
	Publish(ctx context.Context, outcomes []remediate.Outcome) error
}

// Response is the invocation result: an aggregate status code and the
// JSON-serialized outcome sequence.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// BatchHandler processes SNS event batches.
type BatchHandler struct {
	engine    Remediator
	publisher OutcomePublisher
	logger    *slog.Logger
}

// NewBatchHandler creates a batch handler. publisher may be nil when
// outcome publishing is not configured.
func NewBatchHandler(engine Remediator, publisher OutcomePublisher, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// HandleRequest processes every record in the batch independently: a
// fault in one record becomes that record's outcome and the rest
// continue. Records are processed concurrently; outcome i corresponds
// to record i. The aggregate status is 200 only if every outcome
// succeeded.
func (h *BatchHandler) HandleRequest(ctx context.Context, event events.SNSEvent) (Response, error) {
	if len(event.Records) == 0 {
		h.logger.ErrorContext(ctx, "no records in event")
		return Response{StatusCode: http.StatusBadRequest, Body: "no records in event"}, nil
	}

	outcomes := make([]remediate.Outcome, len(event.Records))

	var wg sync.WaitGroup
	for i, record := range event.Records {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = h.processRecord(ctx, record)
		}()
	}
	wg.Wait()

	h.publishOutcomes(ctx, outcomes)

	status := http.StatusOK
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			status = http.StatusInternalServerError
			break
		}
	}

	body, err := json.Marshal(outcomes)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       fmt.Sprintf("cannot marshal outcomes: %v", err),
		}, nil
	}

	h.logger.InfoContext(ctx, "batch processed",
		slog.Int("records", len(event.Records)),
		slog.Int("statusCode", status))

	return Response{StatusCode: status, Body: string(body)}, nil
}

// processRecord converts any fault, including a panic, into an outcome
// so that sibling records are never aborted.
func (h *BatchHandler) processRecord(ctx context.Context, record events.SNSEventRecord) (outcome remediate.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "panic while processing record",
				slog.String("messageID", record.SNS.MessageID),
				slog.Any("panic", r))
			outcome = remediate.InternalErrorOutcome(fmt.Sprintf("panic: %v", r))
		}
	}()

	n, err := alarmevent.Parse(record.SNS.Message)
	if err != nil {
		h.logger.ErrorContext(ctx, "cannot parse alarm notification",
			slog.String("messageID", record.SNS.MessageID),
			slog.String("error", err.Error()))
		return remediate.MalformedOutcome(err.Error())
	}

	instanceID, err := n.InstanceID()
	if err != nil {
		h.logger.ErrorContext(ctx, "cannot extract instance ID",
			slog.String("alarmName", n.AlarmName),
			slog.String("error", err.Error()))

		o := remediate.MalformedOutcome(err.Error())
		o.AlarmName = n.AlarmName
		return o
	}

	return h.engine.Remediate(ctx, instanceID, n)
}

// publishOutcomes is fire-and-log: a publish failure never changes the
// batch result.
func (h *BatchHandler) publishOutcomes(ctx context.Context, outcomes []remediate.Outcome) {
	if h.publisher == nil {
		return
	}

	if err := h.publisher.Publish(ctx, outcomes); err != nil {
		h.logger.WarnContext(ctx, "cannot publish outcomes",
			slog.String("error", err.Error()))
	}
}
