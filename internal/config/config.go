// Package config loads runtime configuration from environment variables.
package config

import (
	"time"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/env"
)

// DefaultCooldown is applied when COOLDOWN_MINUTES is unset or invalid.
const DefaultCooldown = 15 * time.Minute

// Config holds the remediator's runtime configuration. Every knob is
// optional: an unset or unparsable value falls back to its default
// instead of failing startup.
type Config struct {
	// Cooldown is the minimum interval between reboots of the same instance.
	Cooldown time.Duration

	// SNSTopicARN is the outcome notification destination.
	// Empty disables notifications.
	SNSTopicARN string

	// EventBusName is the EventBridge bus remediation outcomes are
	// published to. Empty disables outcome publishing.
	EventBusName string
}

// Load reads the configuration from the environment.
func Load() *Config {
	cooldownMinutes := env.Get("COOLDOWN_MINUTES", int64(DefaultCooldown/time.Minute), env.ParseNonNegativeInt)

	return &Config{
		Cooldown:     time.Duration(cooldownMinutes) * time.Minute,
		SNSTopicARN:  env.Get("SNS_TOPIC_ARN", "", env.ParseNonEmptyString),
		EventBusName: env.Get("REMEDIATION_EVENT_BUS", "", env.ParseNonEmptyString),
	}
}
