package btc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

var sensitiveParams = []string{"password", "second_password"}

// ErrNoRecipients is returned by SendCoinsMulti for an empty payment map,
// before any request is made.
var ErrNoRecipients = errors.New("sendmany needs at least one recipient")

// StatusError is returned by HTTPTransport for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// TransportError means the request did not complete: connection refused,
// timeout, DNS failure or a non-2xx status. URL has passwords redacted.
type TransportError struct {
	Action     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Action, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Action, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the response body was not a single JSON document.
type DecodeError struct {
	Action string
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid json response: %v", e.Action, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func newTransportError(action, endpoint string, err error) *TransportError {
	te := &TransportError{
		Action: action,
		URL:    redactURL(endpoint),
		Err:    scrubError(err, endpoint),
	}
	var se *StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
		te.Body = se.Body
	}
	return te
}

// redactedError carries an error message with password values masked.
// Unwrap still reaches the original error.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

// scrubError masks the endpoint's password values wherever a Getter echoed
// them into its error, raw or query-escaped.
func scrubError(err error, endpoint string) error {
	err = redactError(err)
	u, perr := url.Parse(endpoint)
	if perr != nil {
		return err
	}
	q := u.Query()
	msg := err.Error()
	scrubbed := msg
	for _, key := range sensitiveParams {
		v := q.Get(key)
		if v == "" {
			continue
		}
		scrubbed = strings.ReplaceAll(scrubbed, url.QueryEscape(v), redacted)
		scrubbed = strings.ReplaceAll(scrubbed, v, redacted)
	}
	if scrubbed == msg {
		return err
	}
	return &redactedError{msg: scrubbed, err: err}
}

// redactURL masks password query parameters so URLs can be logged.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return redacted
	}
	q := u.Query()
	changed := false
	for _, key := range sensitiveParams {
		if q.Has(key) {
			q.Set(key, redacted)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
