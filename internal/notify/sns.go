package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/ab0utbla-k/ec2-auto-remediator/internal/notify")

// snsSubjectLimit is the maximum subject length SNS accepts.
const snsSubjectLimit = 100

// SNSAPI defines required SNS operations.
type SNSAPI interface {
	Publish(
		ctx context.Context,
		input *sns.PublishInput,
		optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS sends notifications to an SNS topic.
type SNS struct {
	client   SNSAPI
	topicARN string
}

// NewSNS creates a new SNS sender.
func NewSNS(client SNSAPI, topicARN string) *SNS {
	return &SNS{
		client:   client,
		topicARN: topicARN,
	}
}

// Send publishes the message to the configured topic. Subjects longer
// than the SNS limit are truncated.
func (s *SNS) Send(ctx context.Context, subject, message string) error {
	ctx, span := tracer.Start(ctx, "notify.sns")
	defer span.End()
	span.SetAttributes(attribute.String("sns.topic_arn", s.topicARN))

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(TruncateSubject(subject)),
		Message:  aws.String(message),
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("cannot publish to SNS: %w", err)
	}

	return nil
}

// TruncateSubject bounds a subject to the SNS hard limit.
func TruncateSubject(subject string) string {
	if len(subject) <= snsSubjectLimit {
		return subject
	}
	return subject[:snsSubjectLimit]
}
