package remediate

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/mock"
)

// EC2APIMock is a mock implementation of the EC2API interface.
type EC2APIMock struct {
	mock.Mock
}

func (m *EC2APIMock) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.DescribeInstancesOutput), args.Error(1)
}

func (m *EC2APIMock) RebootInstances(ctx context.Context, params *ec2.RebootInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RebootInstancesOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.RebootInstancesOutput), args.Error(1)
}

// CooldownGateMock is a mock implementation of the CooldownGate interface.
type CooldownGateMock struct {
	mock.Mock
}

func (m *CooldownGateMock) InCooldown(ctx context.Context, instanceID string, now time.Time) bool {
	args := m.Called(ctx, instanceID, now)
	return args.Bool(0)
}

func (m *CooldownGateMock) RecordAction(ctx context.Context, instanceID string, now time.Time) {
	m.Called(ctx, instanceID, now)
}

// NotifierMock is a mock implementation of the notify.Notifier interface.
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Send(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}
