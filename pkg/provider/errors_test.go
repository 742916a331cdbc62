package provider

import (
	"errors"
	"strings"
	"testing"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassClient, false},
		{ErrorClassServer, true},
		{ErrorClassThrottle, true},
		{ErrorClassNetwork, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := shouldRetry(tt.class); got != tt.want {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}

func TestSourceError_Error(t *testing.T) {
	err := &SourceError{
		StatusCode: 503,
		Class:      ErrorClassServer,
		Message:    "503 Service Unavailable",
	}

	msg := err.Error()
	if !strings.Contains(msg, "server") {
		t.Errorf("Error message should contain the class, got %q", msg)
	}
	if !strings.Contains(msg, "503") {
		t.Errorf("Error message should contain the status, got %q", msg)
	}
}

func TestSourceError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &SourceError{
		Class:   ErrorClassNetwork,
		Message: "request failed",
		Err:     inner,
	}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Error message should include the cause, got %q", err.Error())
	}
}
