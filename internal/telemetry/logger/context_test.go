package logger

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "01HQ8Z6ZK6X4Y7M3V2B1N0P9QR")
	if got := RequestIDFromContext(ctx); got != "01HQ8Z6ZK6X4Y7M3V2B1N0P9QR" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
}

func TestRequestID_StringKeyDoesNotCollide(t *testing.T) {
	ctx := context.WithValue(context.Background(), "qreader.request_id", "wrong")
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
	ctx = WithRequestID(ctx, "right")
	if got := RequestIDFromContext(ctx); got != "right" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "right")
	}
}
