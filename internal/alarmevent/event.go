// Package alarmevent parses CloudWatch alarm notifications delivered
// through SNS. Parsing is pure: no I/O, no side effects.
package alarmevent

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StateAlarm is the alarm state value that triggers remediation.
// Every other state (OK, INSUFFICIENT_DATA) is ignored.
const StateAlarm = "ALARM"

// instanceDimension is the dimension name carrying the EC2 instance ID.
const instanceDimension = "InstanceId"

var (
	// ErrMalformedPayload indicates the SNS message body is not a valid
	// alarm notification.
	ErrMalformedPayload = errors.New("malformed alarm payload")
	// ErrNoInstanceID indicates the alarm carries no InstanceId dimension.
	ErrNoInstanceID = errors.New("no instance ID in alarm dimensions")
)

// ParseError describes why an alarm notification could not be parsed.
type ParseError struct {
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Dimension is a single metric dimension. CloudWatch delivers dimension
// keys lowercased in SNS payloads while other producers capitalize
// them, so both casings are accepted.
type Dimension struct {
	Name  string
	Value string
}

func (d *Dimension) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string `json:"name"`
		Value    string `json:"value"`
		AltName  string `json:"Name"`
		AltValue string `json:"Value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Name = raw.Name
	if d.Name == "" {
		d.Name = raw.AltName
	}
	d.Value = raw.Value
	if d.Value == "" {
		d.Value = raw.AltValue
	}

	return nil
}

// Trigger holds the metric the alarm watches. Only the dimensions are
// relevant for remediation.
type Trigger struct {
	Dimensions []Dimension `json:"Dimensions"`
}

// Notification is a CloudWatch alarm state-change notification as
// delivered in an SNS message body.
type Notification struct {
	AlarmName       string  `json:"AlarmName"`
	NewStateValue   string  `json:"NewStateValue"`
	NewStateReason  string  `json:"NewStateReason"`
	StateChangeTime string  `json:"StateChangeTime"`
	Trigger         Trigger `json:"Trigger"`
}

// InAlarm reports whether the notification is a transition into the
// ALARM state.
func (n *Notification) InAlarm() bool {
	return n.NewStateValue == StateAlarm
}

// InstanceID returns the value of the first InstanceId dimension,
// scanning in payload order.
func (n *Notification) InstanceID() (string, error) {
	for _, d := range n.Trigger.Dimensions {
		if d.Name == instanceDimension {
			return d.Value, nil
		}
	}

	return "", &ParseError{Err: ErrNoInstanceID, Detail: "alarm " + n.AlarmName}
}

// Parse decodes the inner JSON payload of an SNS record into a
// Notification. The dimension list must be present; an alarm without
// dimensions cannot identify a target instance.
func Parse(raw string) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, &ParseError{Err: ErrMalformedPayload, Detail: err.Error()}
	}

	if len(n.Trigger.Dimensions) == 0 {
		return nil, &ParseError{Err: ErrMalformedPayload, Detail: "missing trigger dimensions"}
	}

	return &n, nil
}
