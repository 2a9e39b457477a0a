package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// SuccessCode is the statusCode the server puts in a successful checklist
// list response.
const SuccessCode = 2100

// Envelope is the body shape of every server response.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// HasData reports whether data is present and not null.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Check selects how strictly a 2xx envelope is validated. The server is
// not consistent: only the checklist list carries a reliable statusCode,
// other calls are judged by the presence of data.
type Check int

const (
	CheckNone       Check = iota // any 2xx
	CheckStatusCode              // statusCode == SuccessCode
	CheckData                    // data present
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoToken            = errors.New("no token returned")
	ErrUnexpectedEnvelope = errors.New("unexpected response envelope")
)

// Error is a non-2xx response.
type Error struct {
	Method    string
	Path      string
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// decode validates env with check and unmarshals data into out (if non-nil
// and data present).
func decode(env *Envelope, check Check, out any) error {
	switch check {
	case CheckStatusCode:
		if env.StatusCode != SuccessCode {
			return fmt.Errorf("%w: statusCode %d: %s", ErrUnexpectedEnvelope, env.StatusCode, env.Message)
		}
	case CheckData:
		if !env.HasData() {
			return fmt.Errorf("%w: missing data: %s", ErrUnexpectedEnvelope, env.Message)
		}
	}
	if out == nil || !env.HasData() {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedEnvelope, err)
	}
	return nil
}
