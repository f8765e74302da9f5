// Package forms binds untrusted request data onto models, validates it and
// persists the result.
//
// A [Factory] describes which model fields a form exposes. Binding request
// data through it yields a [ModelForm] with the familiar
// IsValid / Errors / Save lifecycle. [AuthenticationForm] checks login
// credentials the same way.
package forms

import (
	"bytes"
	"encoding/json"
	"errors"
)

// NonFieldErrors is the key of errors that do not belong to a single field.
const NonFieldErrors = "__all__"

var (
	ErrInvalidForm     = errors.New("form is not valid")
	ErrNoFileStorage   = errors.New("form has file uploads but no file storage")
	ErrUnknownField    = errors.New("form field is not a model field")
	ErrNotConfigured   = errors.New("form has no model repository")
	ErrNoAuthenticator = errors.New("authentication form has no authenticator")
)

const (
	invalidValueMessage     = "Enter a valid value."
	wholeNumberMessage      = "Enter a whole number."
	invalidLoginMessage     = "Please enter a correct email and password."
	inactiveAccountMessage  = "This account is inactive."
	invalidReferenceMessage = "Select a valid choice. That choice is not one of the available choices."
)

// Errors holds validation messages per field in the order fields were first
// reported.
type Errors struct {
	fields   []string
	messages map[string][]string
}

// NewErrors returns an empty error list.
func NewErrors() *Errors {
	return &Errors{messages: make(map[string][]string)}
}

// Add appends message to the messages of field.
func (e *Errors) Add(field, message string) {
	if e.messages == nil {
		e.messages = make(map[string][]string)
	}
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], message)
}

// Has reports whether field has at least one message.
func (e *Errors) Has(field string) bool {
	return len(e.messages[field]) > 0
}

// Get returns the messages of field.
func (e *Errors) Get(field string) []string {
	return e.messages[field]
}

// Fields returns the fields with messages in reporting order.
func (e *Errors) Fields() []string {
	return e.fields
}

// Len returns the number of fields with messages.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// First returns the first message of the first field, or "" when there are
// no errors.
func (e *Errors) First() string {
	if e.Len() == 0 {
		return ""
	}
	return e.messages[e.fields[0]][0]
}

// MarshalJSON encodes the errors as an object whose keys keep reporting
// order.
func (e *Errors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.messages[field])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
