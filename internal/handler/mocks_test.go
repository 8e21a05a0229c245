package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/alarmevent"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/remediate"
)

// RemediatorMock is a mock implementation of the Remediator interface.
type RemediatorMock struct {
	mock.Mock
}

func (m *RemediatorMock) Remediate(ctx context.Context, instanceID string, n *alarmevent.Notification) remediate.Outcome {
	args := m.Called(ctx, instanceID, n)
	return args.Get(0).(remediate.Outcome)
}

// OutcomePublisherMock is a mock implementation of the OutcomePublisher interface.
type OutcomePublisherMock struct {
	mock.Mock
}

func (m *OutcomePublisherMock) Publish(ctx context.Context, outcomes []remediate.Outcome) error {
	args := m.Called(ctx, outcomes)
	return args.Error(0)
}
