package qtoken

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const (
	testPassword  = "hunter2"
	testAuthSHA1  = "d519d84ca3b193b936ab57f840762d9d408c8678"
	testAuthSHA2  = "1fdcdc742cf89d43643840c6622682992d0fe6572f056fa5f674a520de2e0137"
	testAPISlot00 = "c457a546d6b831f7865799d75ad491b7d131a547"
	testAPISlot01 = "8ed032edb469b68b454c8d8a6eb051700e939718"
)

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestDeriveAuthToken(t *testing.T) {
	if got := DeriveAuthToken(testPassword); got != testAuthSHA1 {
		t.Errorf("DeriveAuthToken() = %q, want %q", got, testAuthSHA1)
	}

	p, err := New(WithDigest(SHA256))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := p.DeriveAuthToken(testPassword); got != testAuthSHA2 {
		t.Errorf("DeriveAuthToken(sha256) = %q, want %q", got, testAuthSHA2)
	}
}

func TestDeriveAuthToken_Deterministic(t *testing.T) {
	a := DeriveAuthToken("secret")
	b := DeriveAuthToken("secret")
	if a != b {
		t.Errorf("same password gave %q and %q", a, b)
	}
	if len(a) != 40 {
		t.Errorf("len = %d, want 40", len(a))
	}
	if a != strings.ToLower(a) {
		t.Errorf("token %q is not lowercase hex", a)
	}
	if DeriveAuthToken("secret2") == a {
		t.Error("different passwords should give different tokens")
	}
}

func TestDeriveAuthToken_Salt(t *testing.T) {
	p, err := New(WithSalt("another-salt"))
	if err != nil {
		t.Fatal(err)
	}
	if p.DeriveAuthToken(testPassword) == testAuthSHA1 {
		t.Error("changing the salt should change the AuthToken")
	}
}

func TestDeriveAuthToken_Argon2id(t *testing.T) {
	p, err := New(WithKDF(KDFArgon2id))
	if err != nil {
		t.Fatal(err)
	}

	got := p.DeriveAuthToken(testPassword)
	if len(got) != Argon2KeyLen*2 {
		t.Errorf("len = %d, want %d", len(got), Argon2KeyLen*2)
	}
	if got == testAuthSHA1 || got == testAuthSHA2 {
		t.Error("argon2id should not match the plain digest")
	}
	if again := p.DeriveAuthToken(testPassword); again != got {
		t.Error("argon2id derivation should be deterministic")
	}
}

func TestComputeAPITokenAt(t *testing.T) {
	tests := []struct {
		name string
		at   string
		want string
	}{
		{"slot 00", "2024-03-01T10:02:30Z", testAPISlot00},
		{"same slot later", "2024-03-01T10:03:59Z", testAPISlot00},
		{"slot 01", "2024-03-01T10:07:30Z", testAPISlot01},
	}

	p := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, _ := time.Parse(time.RFC3339, tt.at)
			if got := p.ComputeAPITokenAt(testAuthSHA1, at); got != tt.want {
				t.Errorf("ComputeAPITokenAt(%s) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

func TestComputeAPIToken_EmptyAuth(t *testing.T) {
	if got := ComputeAPIToken(""); got != "" {
		t.Errorf("ComputeAPIToken(\"\") = %q, want empty", got)
	}
}

func TestComputeAPIToken_Clock(t *testing.T) {
	p, err := New(WithClock(fixedClock("2024-03-01T10:02:30Z")))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.ComputeAPIToken(testAuthSHA1); got != testAPISlot00 {
		t.Errorf("ComputeAPIToken() = %q, want %q", got, testAPISlot00)
	}
	if got := p.CurrentTimeSlot().String(); got != "202403011000" {
		t.Errorf("CurrentTimeSlot() = %q, want %q", got, "202403011000")
	}
}

func TestComputeAPIToken_MonthChangesToken(t *testing.T) {
	p := Default()
	mar := time.Date(2024, 3, 1, 10, 2, 30, 0, time.UTC)
	apr := time.Date(2024, 4, 1, 10, 2, 30, 0, time.UTC)
	if p.ComputeAPITokenAt(testAuthSHA1, mar) == p.ComputeAPITokenAt(testAuthSHA1, apr) {
		t.Error("tokens in different months should differ")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"slot size 0", []Option{WithSlotSize(0)}},
		{"slot size 7", []Option{WithSlotSize(7)}},
		{"slot size 45", []Option{WithSlotSize(45)}},
		{"digest md5", []Option{WithDigest("md5")}},
		{"kdf scrypt", []Option{WithKDF("scrypt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("New() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestParseDigest(t *testing.T) {
	tests := []struct {
		in      string
		want    Digest
		wantErr bool
	}{
		{"", SHA1, false},
		{"sha1", SHA1, false},
		{"SHA256", SHA256, false},
		{"sha-256", SHA256, false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDigest(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDigest(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDigest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if SHA1.Size() != 40 || SHA256.Size() != 64 {
		t.Errorf("Size() = %d/%d, want 40/64", SHA1.Size(), SHA256.Size())
	}
}

func TestParseKDF(t *testing.T) {
	if k, err := ParseKDF(""); err != nil || k != KDFPlain {
		t.Errorf("ParseKDF(\"\") = %q, %v", k, err)
	}
	if k, err := ParseKDF("Argon2id"); err != nil || k != KDFArgon2id {
		t.Errorf("ParseKDF(Argon2id) = %q, %v", k, err)
	}
	if _, err := ParseKDF("bcrypt"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("ParseKDF(bcrypt) error = %v", err)
	}
}
