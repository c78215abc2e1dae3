package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"startwise/internal/forecast"
)

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"name": "Lerato", "email": "lerato@example.com", "count": 42.5, "ok": true}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}

	tests := map[string]string{"name": "Lerato", "count": "42.5", "ok": "true", "missing": ""}
	for key, want := range tests {
		if got := parser.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "name=%20Form+Test%07+&message=line1%0Aline2"
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if got := parser.Get("name"); got != "Form Test" {
		t.Errorf("Get('name') = %q, want 'Form Test'", got)
	}
	if got := parser.Get("message"); got != "line1\nline2" {
		t.Errorf("newlines must survive sanitizing, got %q", got)
	}
}

func TestRequestBodyParser_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"name":`))
	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(""))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestParseFormOrFail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=playful"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if result := ParseFormOrFail(httptest.NewRecorder(), req); result != nil {
		t.Fatal("Expected nil for valid form, got error response")
	}
	if req.PostForm.Get("theme") != "playful" {
		t.Error("Form was not parsed correctly")
	}

	bad := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=%zz"))
	bad.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if result := ParseFormOrFail(httptest.NewRecorder(), bad); result == nil {
		t.Error("Expected error response for malformed form")
	}
}

func TestParseChecked(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		wantChecked bool
		wantToggle  bool
		wantErr     bool
	}{
		{"absent toggles", url.Values{}, false, true, false},
		{"on", url.Values{"checked": {"on"}}, true, false, false},
		{"true", url.Values{"checked": {"TRUE"}}, true, false, false},
		{"off", url.Values{"checked": {"off"}}, false, false, false},
		{"empty unchecks", url.Values{"checked": {""}}, false, false, false},
		{"garbage", url.Values{"checked": {"maybe"}}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checked, toggle, err := parseChecked(tt.form)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if checked != tt.wantChecked || toggle != tt.wantToggle {
				t.Errorf("got (%v, %v), want (%v, %v)", checked, toggle, tt.wantChecked, tt.wantToggle)
			}
		})
	}
}

func TestParseForecastForm(t *testing.T) {
	form := url.Values{
		"income_0":    {"1500"},
		"income_1":    {"12,50"},
		"income_2":    {"abc"},
		"expenses_11": {"99.99"},
	}
	in := parseForecastForm(form)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income jan", in.Income[0], "1500"},
		{"income feb", in.Income[1], "12.5"},
		{"income mar", in.Income[2], "0"},
		{"income dec missing", in.Income[11], "0"},
		{"expenses dec", in.Expenses[11], "99.99"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestParseMonthField(t *testing.T) {
	kind, month, raw, err := parseMonthField(url.Values{"kind": {"expenses"}, "month": {"4"}, "expenses_4": {"300"}})
	if err != nil || kind != forecast.Expenses || month != 4 || raw != "300" {
		t.Fatalf("got (%v, %d, %q, %v)", kind, month, raw, err)
	}

	_, _, raw, err = parseMonthField(url.Values{"kind": {"income"}, "month": {"0"}, "value": {"7"}, "income_0": {"8"}})
	if err != nil || raw != "7" {
		t.Errorf("explicit value should win, got %q (%v)", raw, err)
	}
}
