package notify

import (
	"strings"
)

// Message holds the fields of a remediation notification.
type Message struct {
	InstanceID      string
	InstanceName    string
	AlarmName       string
	Reason          string
	StateChangeTime string
	Succeeded       bool
}

// Subject returns the notification subject, bounded to the SNS limit.
func (m *Message) Subject() string {
	var subject string
	if m.Succeeded {
		subject = "Auto-Healing: " + m.InstanceID + " (" + m.InstanceName + ") rebooted"
	} else {
		subject = "Auto-Healing FAILED: " + m.InstanceID + " (" + m.InstanceName + ")"
	}

	return TruncateSubject(subject)
}

// Body returns the human-readable notification body.
func (m *Message) Body() string {
	var msg strings.Builder

	msg.WriteString("Auto-healing triggered\n\n")
	msg.WriteString("Instance: ")
	msg.WriteString(m.InstanceID)
	msg.WriteString(" (")
	msg.WriteString(m.InstanceName)
	msg.WriteString(")\nAlarm: ")
	msg.WriteString(m.AlarmName)
	msg.WriteString("\nReason: ")
	msg.WriteString(m.Reason)
	msg.WriteString("\nTime: ")
	msg.WriteString(m.StateChangeTime)

	if m.Succeeded {
		msg.WriteString("\nAction: instance rebooted\n\n")
		msg.WriteString("The instance will be back online in a few minutes.\n")
	} else {
		msg.WriteString("\nAction: reboot FAILED\n\n")
		msg.WriteString("Manual intervention may be required.\n")
	}

	return msg.String()
}
