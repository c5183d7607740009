package application

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, http.StatusNotFound, "Session not found"); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatal("Unexpected status", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatal("Unexpected content type", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"Session not found"}` {
		t.Fatal("Unexpected body", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		ID string `json:"agent_id"`
	}
	if err := DecodeJSON(strings.NewReader(`{"agent_id":"a","extra":1}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.ID != "a" {
		t.Fatal("Unexpected value", v.ID)
	}
	if err := DecodeJSON(strings.NewReader(`{"agent_id":"a"} {}`), &v); err != ErrTrailingData {
		t.Fatal("Expect ErrTrailingData, got", err)
	}
	if err := DecodeJSON(strings.NewReader(`{"agent_id":`), &v); err == nil {
		t.Fatal("Expect a decoding error")
	}
}

func TestReadError(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"Session not found"}`, "Session not found"},
		{`oops`, "404 Not Found"},
	}
	for _, tt := range tests {
		resp := &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader(tt.body)),
		}
		err := ReadError(resp)
		var herr *HTTPError
		if !errors.As(err, &herr) {
			t.Fatal("Expect an HTTPError")
		}
		if herr.StatusCode != http.StatusNotFound || herr.Detail != tt.want {
			t.Error("Unexpected error", herr)
		}
	}
}
