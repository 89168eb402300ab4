package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// MessageState represents the delivery state of an email message record
type MessageState int

// Message state constants
const (
	// MessageStateNew indicates the message has been built but not yet sent
	MessageStateNew MessageState = iota
	// MessageStateSent indicates delivery succeeded
	MessageStateSent
	// MessageStateErrored indicates delivery failed
	MessageStateErrored
)

var messageStateNames = []string{
	"new",
	"sent",
	"errored",
}

// EmailTemplate stores the subject and body templates for one kind of
// job notification, looked up by name
type EmailTemplate struct {
	gorm.Model
	Name            string `json:"name" gorm:"not null;unique"`
	SubjectTemplate string `json:"subject_template" gorm:"type:text;not null"`
	BodyTemplate    string `json:"body_template" gorm:"type:text;not null"`
}

// EmailMessage is a rendered notification and its delivery outcome
type EmailMessage struct {
	gorm.Model
	State       MessageState `json:"state" gorm:"index"`
	SenderEmail string       `json:"sender_email" gorm:"not null"`
	ToEmail     string       `json:"to_email" gorm:"not null"`
	Subject     string       `json:"subject" gorm:"type:text"`
	Body        string       `json:"body" gorm:"type:text"`
	ErrorText   string       `json:"error_text" gorm:"type:text"`
}

// ParseMessageState converts a string representation of a message state to MessageState type
func ParseMessageState(str string) (MessageState, error) {
	for i, state := range messageStateNames {
		if state == str {
			return MessageState(i), nil
		}
	}
	return MessageStateNew, fmt.Errorf("invalid message state: %s", str)
}

func (s MessageState) String() string {
	if int(s) < 0 || int(s) >= len(messageStateNames) {
		return messageStateNames[MessageStateNew]
	}
	return messageStateNames[s]
}

// MarshalJSON implements the json.Marshaler interface for MessageState
func (s MessageState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageState
func (s *MessageState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	state, err := ParseMessageState(str)
	if err != nil {
		return err
	}

	*s = state
	return nil
}
