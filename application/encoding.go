// Defines functions to encode/decode the JSON messages exchanged
// between clients and the coordinator over HTTP.

package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// An ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// ErrTrailingData indicates a request body that holds more than one
// JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// WriteJSON writes v as the JSON body of a response with the given
// status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes a {"detail": detail} body with the given status code.
func WriteError(w http.ResponseWriter, status int, detail string) error {
	return WriteJSON(w, status, &ErrorBody{Detail: detail})
}

// DecodeJSON decodes exactly one JSON value from r into v.
func DecodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}

// ReadError builds an error from a non-2xx response, using the
// detail of its body when there is one.
func ReadError(resp *http.Response) error {
	var body ErrorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&body); err == nil &&
		body.Detail != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Detail: body.Detail}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Detail: resp.Status}
}

// An HTTPError is a non-2xx response received from the coordinator.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Detail)
}
