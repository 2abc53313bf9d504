package errcodes

import (
	"fmt"
	"net/http"
	"strings"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string

	// Messages holds the individual validation failures for a 422. When
	// set, the error handler renders the response body as a bare JSON
	// array of these strings instead of the error envelope.
	Messages []string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Messages = err.Messages
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// Unauthorized returns a 401 error with the given message.
func Unauthorized(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  msg,
		Code:     "unauthorized",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  action + " is not allowed.",
		Code:     "forbidden",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
		Messages: []string{msg},
	}
}

// ValidationError returns a 422 whose body is a JSON array containing the
// given messages. At least one message is required.
func ValidationError(msgs ...string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  strings.Join(msgs, ", "),
		Code:     "validation_error",
		Messages: msgs,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
