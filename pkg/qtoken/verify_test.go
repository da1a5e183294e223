package qtoken

import (
	"testing"
	"time"
)

func TestVerify(t *testing.T) {
	p := Default()
	server := time.Date(2024, 3, 1, 10, 7, 30, 0, time.UTC)

	tests := []struct {
		name   string
		client time.Time
		tol    Tolerance
		want   bool
	}{
		{"same slot", server, DefaultTolerance(), true},
		{"one slot behind", server.Add(-5 * time.Minute), DefaultTolerance(), true},
		{"one slot ahead", server.Add(5 * time.Minute), DefaultTolerance(), true},
		{"two slots behind", server.Add(-10 * time.Minute), DefaultTolerance(), false},
		{"two slots behind wide tolerance", server.Add(-10 * time.Minute), Tolerance{Slots: 2}, true},
		{"one slot behind strict", server.Add(-5 * time.Minute), Tolerance{}, false},
		{"hours away", server.Add(-3 * time.Hour), DefaultTolerance(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := p.ComputeAPITokenAt(testAuthSHA1, tt.client)
			if got := p.Verify(token, testAuthSHA1, server, tt.tol); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerify_MonthBoundary(t *testing.T) {
	p := Default()
	client := time.Date(2024, 2, 29, 23, 58, 0, 0, time.UTC)
	server := time.Date(2024, 3, 1, 0, 1, 0, 0, time.UTC)
	token := p.ComputeAPITokenAt(testAuthSHA1, client)

	if !p.Verify(token, testAuthSHA1, server, Tolerance{Slots: 1, Months: true}) {
		t.Error("token from the last slot of the previous month should verify")
	}
	if p.Verify(token, testAuthSHA1, server, Tolerance{Slots: 1}) {
		t.Error("without month tolerance the previous month should be rejected")
	}
}

func TestVerify_Rejects(t *testing.T) {
	p := Default()
	at := time.Date(2024, 3, 1, 10, 2, 30, 0, time.UTC)

	if p.Verify("", testAuthSHA1, at, DefaultTolerance()) {
		t.Error("empty token should be rejected")
	}
	if p.Verify(testAPISlot00, "", at, DefaultTolerance()) {
		t.Error("empty auth token should be rejected")
	}
	if p.Verify(testAPISlot00, DeriveAuthToken("wrong"), at, DefaultTolerance()) {
		t.Error("token for another password should be rejected")
	}

	salted, err := New(WithSalt("other"))
	if err != nil {
		t.Fatal(err)
	}
	if salted.Verify(testAPISlot00, testAuthSHA1, at, DefaultTolerance()) {
		t.Error("token made with another salt should be rejected")
	}
	if !p.Verify(testAPISlot00, testAuthSHA1, at, DefaultTolerance()) {
		t.Error("known-good token should verify")
	}
}

func TestVerify_HourBoundary(t *testing.T) {
	p := Default()

	tests := []struct {
		name   string
		client string
		server string
		tol    Tolerance
		want   bool
	}{
		{"minute 59 token at top of hour", "2024-03-01T10:59:59Z", "2024-03-01T11:00:00Z", DefaultTolerance(), true},
		{"minute 59 token later in next slot", "2024-03-01T10:59:01Z", "2024-03-01T11:04:00Z", DefaultTolerance(), true},
		{"minute 59 token strict", "2024-03-01T10:59:30Z", "2024-03-01T11:00:29Z", Tolerance{}, true},
		{"top of hour token at minute 59", "2024-03-01T11:00:00Z", "2024-03-01T10:59:30Z", DefaultTolerance(), true},
		{"minute 59 token two slots later", "2024-03-01T10:59:30Z", "2024-03-01T11:05:00Z", DefaultTolerance(), true},
		{"minute 59 token three slots later", "2024-03-01T10:59:30Z", "2024-03-01T11:10:00Z", DefaultTolerance(), false},
		{"midnight rollover", "2024-03-01T23:59:30Z", "2024-03-02T00:00:10Z", DefaultTolerance(), true},
		{"midnight rollover reversed", "2024-03-02T00:00:10Z", "2024-03-01T23:59:30Z", DefaultTolerance(), true},
		{"month rollover", "2024-02-29T23:59:30Z", "2024-03-01T00:00:10Z", DefaultTolerance(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := time.Parse(time.RFC3339, tt.client)
			if err != nil {
				t.Fatal(err)
			}
			server, err := time.Parse(time.RFC3339, tt.server)
			if err != nil {
				t.Fatal(err)
			}
			token := p.ComputeAPITokenAt(testAuthSHA1, client)
			if got := p.Verify(token, testAuthSHA1, server, tt.tol); got != tt.want {
				t.Errorf("Verify(client %s, server %s) = %v, want %v", tt.client, tt.server, got, tt.want)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	p := Default()
	at := time.Date(2024, 3, 1, 10, 17, 30, 0, time.UTC)

	got := p.Candidates(testAuthSHA1, at, DefaultTolerance())
	if len(got) != 9 {
		t.Fatalf("len(Candidates) = %d, want 9", len(got))
	}
	if want := p.ComputeAPITokenAt(testAuthSHA1, at); got[0] != want {
		t.Errorf("Candidates()[0] = %q, want current token %q", got[0], want)
	}

	strict := p.Candidates(testAuthSHA1, at, Tolerance{})
	if len(strict) != 1 {
		t.Errorf("len(Candidates strict) = %d, want 1", len(strict))
	}
	if p.Candidates("", at, DefaultTolerance()) != nil {
		t.Error("empty auth token should yield no candidates")
	}
}

func TestCandidates_TopOfHour(t *testing.T) {
	p := Default()
	at := time.Date(2024, 3, 1, 10, 2, 30, 0, time.UTC)

	// 1000 is also written 0912, so the band holds four slot strings.
	got := p.Candidates(testAuthSHA1, at, DefaultTolerance())
	if len(got) != 12 {
		t.Fatalf("len(Candidates) = %d, want 12", len(got))
	}
	if got[0] != testAPISlot00 {
		t.Errorf("Candidates()[0] = %q, want current token %q", got[0], testAPISlot00)
	}

	strict := p.Candidates(testAuthSHA1, at, Tolerance{})
	if len(strict) != 2 {
		t.Errorf("len(Candidates strict) = %d, want 2", len(strict))
	}
}
