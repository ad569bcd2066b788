package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateParam(t *testing.T) {
	d, err := parseDateParam(" 2026-02-28 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.February || d.Day() != 28 {
		t.Errorf("parsed %v", d)
	}

	for _, bad := range []string{"", "28-02-2026", "2026-13-01", "yesterday"} {
		if _, err := parseDateParam(bad); err == nil {
			t.Errorf("parseDateParam(%q) accepted invalid input", bad)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{name: "explicit", query: "year=2025&month=7", wantYear: 2025, wantMonth: time.July},
		{name: "month zero", query: "month=0", wantErr: true},
		{name: "month thirteen", query: "month=13", wantErr: true},
		{name: "year out of range", query: "year=1969", wantErr: true},
		{name: "garbage year", query: "year=abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/transactions/summary?"+tt.query, nil)
			year, month, err := parseYearMonth(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}

	t.Run("defaults to current month", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/transactions/summary", nil)
		year, month, err := parseYearMonth(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		now := time.Now().UTC()
		if year != now.Year() || month != now.Month() {
			t.Errorf("got %d-%d, want current %d-%d", year, month, now.Year(), now.Month())
		}
	})
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "42", want: 42},
		{value: "0", wantErr: true},
		{value: "-3", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "", wantErr: true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/categories/x", nil)
		r.SetPathValue("id", tt.value)
		got, err := pathID(r)
		if tt.wantErr {
			if err == nil {
				t.Errorf("pathID(%q) accepted invalid input", tt.value)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("pathID(%q) = %d, %v, want %d", tt.value, got, err, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  spesa  ", want: "spesa"},
		{in: "riga\nuno", want: "riga\nuno"},
		{in: "null\x00byte", want: "nullbyte"},
		{in: "bell\x07", want: "bell"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
