package response

import (
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"

	DefaultSuccessMessage = "Success"

	TimestampFormat = "2006-01-02T15:04:05.000000"
)

type Kind string

const (
	KindAuth        Kind = "auth"
	KindValidation  Kind = "validation"
	KindAcquisition Kind = "acquisition"
	KindDecode      Kind = "decode"
	KindDetection   Kind = "detection"
	KindInternal    Kind = "internal"
	KindServing     Kind = "serving"
)

type Meta = map[string]interface{}

// Error is the failure value every pipeline stage returns. Reason is the
// machine-readable code written to the envelope.
type Error struct {
	Kind    Kind
	Reason  string
	Code    int
	Message string
	Meta    Meta
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Reason == t.Reason && e.Code == t.Code
}

func NewError(kind Kind, reason string, code int, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Code: code, Message: message}
}

func (e *Error) clone() *Error {
	c := *e
	if e.Meta != nil {
		c.Meta = make(Meta, len(e.Meta))
		for k, v := range e.Meta {
			c.Meta[k] = v
		}
	}
	return &c
}

func (e *Error) WithMessage(message string) *Error {
	c := e.clone()
	c.Message = message
	return c
}

func (e *Error) WithMeta(meta Meta) *Error {
	c := e.clone()
	if c.Meta == nil {
		c.Meta = Meta{}
	}
	for k, v := range meta {
		c.Meta[k] = v
	}
	return c
}

func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.Err = err
	return c
}

var now = time.Now

func Timestamp() string {
	return now().Format(TimestampFormat)
}

// Success merges data into the top level of a success envelope.
func Success(data map[string]interface{}, message string) map[string]interface{} {
	if message == "" {
		message = DefaultSuccessMessage
	}

	body := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["status"] = StatusSuccess
	body["message"] = message

	return body
}

// Failed builds the failure envelope. meta always ends up with a timestamp.
func Failed(reason, message string, meta Meta) map[string]interface{} {
	m := make(Meta, len(meta)+1)
	for k, v := range meta {
		m[k] = v
	}
	if _, ok := m["timestamp"]; !ok {
		m["timestamp"] = Timestamp()
	}

	return map[string]interface{}{
		"status":  StatusFailed,
		"reason":  reason,
		"message": message,
		"meta":    m,
	}
}

func (e *Error) Body() map[string]interface{} {
	return Failed(e.Reason, e.Message, e.Meta)
}
