// Package remediate decides whether an alarm warrants a corrective
// reboot and performs it.
package remediate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/alarmevent"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/notify"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-auto-remediator/internal/remediate")

// unnamedInstance is the label used when an instance has no Name tag.
const unnamedInstance = "unnamed"

var errInstanceNotFound = errors.New("instance not found")

// EC2API defines the EC2 operations the engine requires.
type EC2API interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)

	RebootInstances(
		ctx context.Context,
		params *ec2.RebootInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.RebootInstancesOutput, error)
}

// CooldownGate guards against rebooting the same instance faster than
// it can stabilize.
type CooldownGate interface {
	InCooldown(ctx context.Context, instanceID string, now time.Time) bool
	RecordAction(ctx context.Context, instanceID string, now time.Time)
}

// snapshot is the instance state fetched fresh per decision, never
// cached across invocations.
type snapshot struct {
	state types.InstanceStateName
	name  string
}

// Engine applies the remediation decision sequence to one alarm
// notification at a time. It holds no per-event state and is safe for
// concurrent use.
type Engine struct {
	ec2      EC2API
	gate     CooldownGate
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewEngine creates a remediation engine.
func NewEngine(ec2Client EC2API, gate CooldownGate, notifier notify.Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		ec2:      ec2Client,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
	}
}

// Remediate runs the decision sequence for one notification. The
// cooldown is checked before the instance lookup so a flapping alarm
// is short-circuited without an EC2 call. Failures of the marker write
// and the notification are logged and never change the outcome.
func (e *Engine) Remediate(ctx context.Context, instanceID string, n *alarmevent.Notification) Outcome {
	ctx, span := tracer.Start(ctx, "remediate.instance")
	defer span.End()
	span.SetAttributes(
		attribute.String("instance.id", instanceID),
		attribute.String("alarm.name", n.AlarmName),
	)

	outcome := Outcome{InstanceID: instanceID, AlarmName: n.AlarmName}

	if !n.InAlarm() {
		outcome.Decision = DecisionSkippedStateNotAlarm
		outcome.StatusCode = http.StatusOK
		outcome.Detail = fmt.Sprintf("state %s does not warrant action", n.NewStateValue)
		return outcome
	}

	now := time.Now()
	if e.gate.InCooldown(ctx, instanceID, now) {
		e.logger.InfoContext(ctx, "instance in cooldown, skipping reboot",
			slog.String("instanceID", instanceID),
			slog.String("alarmName", n.AlarmName))

		outcome.Decision = DecisionSkippedCooldown
		outcome.StatusCode = http.StatusOK
		outcome.Detail = "last action within cooldown period"
		return outcome
	}

	snap, err := e.describeInstance(ctx, instanceID)
	if err != nil {
		if errors.Is(err, errInstanceNotFound) {
			outcome.Decision = DecisionResourceNotFound
			outcome.StatusCode = http.StatusNotFound
			outcome.Detail = err.Error()
			return outcome
		}

		outcome.Decision = DecisionActionFailed
		outcome.StatusCode = http.StatusInternalServerError
		outcome.Detail = err.Error()
		return outcome
	}

	if snap.state != types.InstanceStateNameRunning {
		outcome.Decision = DecisionSkippedNotRunning
		outcome.StatusCode = http.StatusOK
		outcome.Detail = fmt.Sprintf("instance state %s, not running", snap.state)
		return outcome
	}

	e.logger.InfoContext(ctx, "rebooting instance",
		slog.String("instanceID", instanceID),
		slog.String("instanceName", snap.name),
		slog.String("alarmName", n.AlarmName))

	if _, err := e.ec2.RebootInstances(ctx, &ec2.RebootInstancesInput{
		InstanceIds: []string{instanceID},
	}); err != nil {
		e.sendNotification(ctx, instanceID, snap.name, n, false)

		outcome.Decision = DecisionActionFailed
		outcome.StatusCode = http.StatusInternalServerError
		outcome.Detail = fmt.Sprintf("cannot reboot instance: %v", err)
		return outcome
	}

	e.gate.RecordAction(ctx, instanceID, now)
	e.sendNotification(ctx, instanceID, snap.name, n, true)

	outcome.Decision = DecisionActed
	outcome.StatusCode = http.StatusOK
	outcome.Detail = "instance rebooted"
	return outcome
}

func (e *Engine) describeInstance(ctx context.Context, instanceID string) (*snapshot, error) {
	out, err := e.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, fmt.Errorf("%w: %s", errInstanceNotFound, instanceID)
		}
		return nil, fmt.Errorf("cannot describe instance %s: %w", instanceID, err)
	}

	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return nil, fmt.Errorf("%w: %s", errInstanceNotFound, instanceID)
	}

	inst := out.Reservations[0].Instances[0]

	var state types.InstanceStateName
	if inst.State != nil {
		state = inst.State.Name
	}

	name := unnamedInstance
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			name = aws.ToString(tag.Value)
			break
		}
	}

	return &snapshot{
		state: state,
		name:  name,
	}, nil
}

// sendNotification is fire-and-log: a dispatch failure never changes
// the outcome already determined.
func (e *Engine) sendNotification(ctx context.Context, instanceID, instanceName string, n *alarmevent.Notification, succeeded bool) {
	m := &notify.Message{
		InstanceID:      instanceID,
		InstanceName:    instanceName,
		AlarmName:       n.AlarmName,
		Reason:          n.NewStateReason,
		StateChangeTime: n.StateChangeTime,
		Succeeded:       succeeded,
	}

	if err := e.notifier.Send(ctx, m.Subject(), m.Body()); err != nil {
		e.logger.WarnContext(ctx, "cannot send notification",
			slog.String("instanceID", instanceID),
			slog.String("error", err.Error()))
	}
}

func isNotFoundErr(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "InvalidInstanceID.NotFound" || code == "InvalidInstanceID.Malformed"
	}
	return false
}
