// Package cooldown enforces a minimum interval between corrective
// actions on the same instance, backed by SSM Parameter Store.
package cooldown

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// markerPrefix is the parameter name prefix for cooldown markers.
// SSM requires hierarchical names to be fully qualified, hence the
// leading slash.
const markerPrefix = "/remediation/last-action/"

// SSMAPI defines the Parameter Store operations the gate requires.
type SSMAPI interface {
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)

	PutParameter(
		ctx context.Context,
		params *ssm.PutParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// Gate tracks the last corrective action per instance. The marker
// write is last-write-wins and deliberately not transactional with the
// action itself: losing a race between overlapping invocations risks
// one extra reboot, never a missed one.
type Gate struct {
	store  SSMAPI
	period time.Duration
	logger *slog.Logger
}

// NewGate creates a cooldown gate with the given period.
func NewGate(store SSMAPI, period time.Duration, logger *slog.Logger) *Gate {
	return &Gate{
		store:  store,
		period: period,
		logger: logger,
	}
}

// MarkerKey returns the parameter name holding the last-action
// timestamp for an instance.
func MarkerKey(instanceID string) string {
	return markerPrefix + instanceID
}

// InCooldown reports whether the instance was acted on within the
// cooldown period before now. An absent marker means the instance was
// never acted on. A marker that cannot be parsed is treated as absent
// so that a corrupt value never blocks remediation.
func (g *Gate) InCooldown(ctx context.Context, instanceID string, now time.Time) bool {
	out, err := g.store.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(MarkerKey(instanceID)),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if !errors.As(err, &notFound) {
			g.logger.WarnContext(ctx, "cannot read cooldown marker",
				slog.String("instanceID", instanceID),
				slog.String("error", err.Error()))
		}
		return false
	}

	last, err := time.Parse(time.RFC3339, aws.ToString(out.Parameter.Value))
	if err != nil {
		g.logger.WarnContext(ctx, "unparsable cooldown marker, treating as absent",
			slog.String("instanceID", instanceID),
			slog.String("value", aws.ToString(out.Parameter.Value)),
			slog.String("error", err.Error()))
		return false
	}

	return now.Sub(last) < g.period
}

// RecordAction stores now as the instance's last-action timestamp,
// overwriting any prior marker. The write is best-effort: a failure is
// logged and swallowed so it never masks a reboot that already
// succeeded.
func (g *Gate) RecordAction(ctx context.Context, instanceID string, now time.Time) {
	_, err := g.store.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(MarkerKey(instanceID)),
		Value:     aws.String(now.UTC().Format(time.RFC3339)),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		g.logger.WarnContext(ctx, "cannot write cooldown marker",
			slog.String("instanceID", instanceID),
			slog.String("error", err.Error()))
	}
}
