package logger

import (
	"log/slog"
	"testing"
)

func TestRedactSensitive_KeyName(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"password", "hunter2", redactedValue},
		{"Password", "hunter2", redactedValue},
		{"salt", "34682084954d47239577b53caad5baf4", redactedValue},
		{"auth_token", "abc", redactedValue},
		{"X-QReader-Token", "abc", redactedValue},
		{"client_secret", "abc", redactedValue},
		{"password", "", ""},
		{"path", "/api/", "/api/"},
		{"method", "GET", "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := redactSensitive(slog.String(tt.key, tt.value))
			if got.Value.String() != tt.want {
				t.Errorf("redactSensitive(%q=%q) = %q, want %q", tt.key, tt.value, got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactSensitive_DigestValue(t *testing.T) {
	sha1Hex := "d519d84ca3b193b936ab57f840762d9d408c8678"
	got := redactSensitive(slog.String("value", sha1Hex))
	if got.Value.String() != "d51...678" {
		t.Errorf("redactSensitive() = %q, want %q", got.Value.String(), "d51...678")
	}
}

func TestRedactSensitive_NonString(t *testing.T) {
	got := redactSensitive(slog.Int("token_count", 3))
	if got.Value.Int64() != 3 {
		t.Error("non-string values should pass through")
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	attr := slog.Group("security",
		slog.String("password", "hunter2"),
		slog.Int("slot_size", 5),
	)

	got := redactSensitive(attr)
	attrs := got.Value.Group()
	if len(attrs) != 2 {
		t.Fatalf("group has %d attrs, want 2", len(attrs))
	}
	if attrs[0].Value.String() != redactedValue {
		t.Errorf("nested password = %q, want redacted", attrs[0].Value.String())
	}
	if attrs[1].Value.Int64() != 5 {
		t.Error("nested non-secret should pass through")
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"d519d84ca3b193b936ab57f840762d9d408c8678", "d51...678"},
		{"1fdcdc742cf89d43643840c6622682992d0fe6572f056fa5f674a520de2e0137", "1fd...137"},
		{"D519D84CA3B193B936AB57F840762D9D408C8678", "D519D84CA3B193B936AB57F840762D9D408C8678"},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RedactString(tt.input); got != tt.want {
			t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"password", "PASSWD", "auth_token", "salt", "credential", "secret_key"} {
		if !IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"path", "status", "request_id", "remote_ip"} {
		if IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = true, want false", key)
		}
	}
}

func TestMaskValue(t *testing.T) {
	if got := maskValue("short"); got != "***" {
		t.Errorf("maskValue(short) = %q", got)
	}
	if got := maskValue("abcdefghij"); got != "abc...hij" {
		t.Errorf("maskValue() = %q, want %q", got, "abc...hij")
	}
}
