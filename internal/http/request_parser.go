package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"startwise/internal/core"
	"startwise/internal/forecast"
)

// maxBodyBytes bounds every form body; the contact message is the largest.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a JSON or form-encoded body once and serves values
// from whichever it turned out to be.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseFormOrFail parses the request form and returns an error response on
// failure, nil on success.
func ParseFormOrFail(w http.ResponseWriter, r *http.Request) *HTMXResponseBuilder {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

// parseContactMessage reads the contact form fields. Control characters are
// stripped before validation.
func parseContactMessage(p *RequestBodyParser) core.ContactMessage {
	return core.ContactMessage{
		Name:    p.Get("name"),
		Email:   p.Get("email"),
		Subject: p.Get("subject"),
		Body:    p.Get("message"),
	}
}

var errBadChecked = errors.New("checked must be on or off")

// parseChecked reads the checked field. toggle is true when the field is absent.
func parseChecked(form url.Values) (checked, toggle bool, err error) {
	if _, present := form["checked"]; !present {
		return false, true, nil
	}
	switch strings.ToLower(strings.TrimSpace(form.Get("checked"))) {
	case "on", "true", "1":
		return true, false, nil
	case "off", "false", "0", "":
		return false, false, nil
	default:
		return false, false, errBadChecked
	}
}

// parseForecastForm reads income_0..income_11 and expenses_0..expenses_11.
// Missing or non-numeric fields are zero.
func parseForecastForm(form url.Values) forecast.Inputs {
	var in forecast.Inputs
	for i := 0; i < core.MonthsPerYear; i++ {
		in.Income[i] = core.ParseAmount(form.Get("income_" + strconv.Itoa(i)))
		in.Expenses[i] = core.ParseAmount(form.Get("expenses_" + strconv.Itoa(i)))
	}
	return in
}

// parseMonthField reads a single autosaved forecaster input. The amount is
// taken from "value", or from the input's own name (income_3) as htmx sends it.
func parseMonthField(form url.Values) (forecast.Kind, int, string, error) {
	kind := forecast.Kind(form.Get("kind"))
	if kind != forecast.Income && kind != forecast.Expenses {
		return "", 0, "", errors.New("kind must be income or expenses")
	}
	month, err := strconv.Atoi(strings.TrimSpace(form.Get("month")))
	if err != nil || month < 0 || month >= core.MonthsPerYear {
		return "", 0, "", errors.New("month must be between 0 and 11")
	}
	raw, ok := form["value"]
	if !ok {
		raw = form[string(kind)+"_"+strconv.Itoa(month)]
	}
	if len(raw) == 0 {
		return kind, month, "", nil
	}
	return kind, month, raw[0], nil
}
