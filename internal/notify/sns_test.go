package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// SNSAPIMock is a mock implementation of the SNSAPI interface.
type SNSAPIMock struct {
	mock.Mock
}

func (m *SNSAPIMock) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, input, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestSNS_Send(t *testing.T) {
	mockSNS := new(SNSAPIMock)
	sender := NewSNS(mockSNS, "arn:aws:sns:us-east-1:123456789012:remediation")

	mockSNS.On("Publish",
		mock.Anything,
		&sns.PublishInput{
			TopicArn: aws.String("arn:aws:sns:us-east-1:123456789012:remediation"),
			Subject:  aws.String("Auto-Healing: i-0abc123 rebooted"),
			Message:  aws.String("body"),
		},
		mock.AnythingOfType("[]func(*sns.Options)"),
	).Return(&sns.PublishOutput{}, nil).Once()

	err := sender.Send(context.Background(), "Auto-Healing: i-0abc123 rebooted", "body")
	require.NoError(t, err)
	mockSNS.AssertExpectations(t)
}

func TestSNS_SendTruncatesSubject(t *testing.T) {
	mockSNS := new(SNSAPIMock)
	sender := NewSNS(mockSNS, "arn:topic")

	mockSNS.On("Publish",
		mock.Anything,
		mock.MatchedBy(func(input *sns.PublishInput) bool {
			return len(aws.ToString(input.Subject)) == 100
		}),
		mock.AnythingOfType("[]func(*sns.Options)"),
	).Return(&sns.PublishOutput{}, nil).Once()

	err := sender.Send(context.Background(), strings.Repeat("s", 150), "body")
	require.NoError(t, err)
	mockSNS.AssertExpectations(t)
}

func TestSNS_SendError(t *testing.T) {
	mockSNS := new(SNSAPIMock)
	sender := NewSNS(mockSNS, "arn:topic")

	mockSNS.On("Publish",
		mock.Anything,
		mock.AnythingOfType("*sns.PublishInput"),
		mock.AnythingOfType("[]func(*sns.Options)"),
	).Return((*sns.PublishOutput)(nil), errors.New("topic gone")).Once()

	err := sender.Send(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic gone")
	mockSNS.AssertExpectations(t)
}

func TestNoop_Send(t *testing.T) {
	assert.NoError(t, Noop{}.Send(context.Background(), "subject", "body"))
}
