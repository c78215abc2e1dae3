package http

import (
	"net/http/httptest"
	"testing"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"bell\x07null\x00del\x7f", "bellnulldel"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackPath(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"missing", "", "/"},
		{"same host", "http://example.com/checklist", "/checklist"},
		{"keeps query", "http://example.com/learn?x=1", "/learn?x=1"},
		{"relative", "/forecaster", "/forecaster"},
		{"other host", "http://evil.test/phish", "/"},
		{"protocol relative path", "http://example.com//evil.test", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "http://example.com/theme", nil)
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			if got := backPath(r); got != tt.want {
				t.Errorf("backPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHTMX(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if isHTMX(r) {
		t.Error("plain request reported as htmx")
	}
	r.Header.Set("HX-Request", "true")
	if !isHTMX(r) {
		t.Error("htmx request not detected")
	}
}
