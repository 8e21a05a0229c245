package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMessage(succeeded bool) *Message {
	return &Message{
		InstanceID:      "i-0abc123",
		InstanceName:    "web-1",
		AlarmName:       "cpu-high",
		Reason:          "Threshold Crossed",
		StateChangeTime: "2026-08-30T10:15:00.000+0000",
		Succeeded:       succeeded,
	}
}

func TestMessage_SuccessSubject(t *testing.T) {
	subject := newMessage(true).Subject()

	assert.Contains(t, subject, "i-0abc123")
	assert.Contains(t, subject, "web-1")
	assert.Contains(t, subject, "rebooted")
	assert.NotContains(t, subject, "FAILED")
}

func TestMessage_FailureSubject(t *testing.T) {
	subject := newMessage(false).Subject()

	assert.Contains(t, subject, "i-0abc123")
	assert.Contains(t, subject, "FAILED")
}

func TestMessage_SubjectBounded(t *testing.T) {
	m := newMessage(true)
	m.InstanceName = strings.Repeat("x", 200)

	subject := m.Subject()
	assert.LessOrEqual(t, len(subject), 100)
	assert.Contains(t, subject, "i-0abc123")
}

func TestMessage_SuccessBody(t *testing.T) {
	body := newMessage(true).Body()

	assert.Contains(t, body, "i-0abc123")
	assert.Contains(t, body, "web-1")
	assert.Contains(t, body, "cpu-high")
	assert.Contains(t, body, "Threshold Crossed")
	assert.Contains(t, body, "2026-08-30T10:15:00.000+0000")
	assert.Contains(t, body, "instance rebooted")
	assert.Contains(t, body, "back online")
}

func TestMessage_FailureBody(t *testing.T) {
	body := newMessage(false).Body()

	assert.Contains(t, body, "i-0abc123")
	assert.Contains(t, body, "reboot FAILED")
	assert.Contains(t, body, "Manual intervention")
	assert.NotContains(t, body, "back online")
}

func TestTruncateSubject(t *testing.T) {
	assert.Equal(t, "short", TruncateSubject("short"))

	long := strings.Repeat("a", 150)
	assert.Len(t, TruncateSubject(long), 100)

	exact := strings.Repeat("b", 100)
	assert.Equal(t, exact, TruncateSubject(exact))
}
