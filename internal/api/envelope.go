package api

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the response wrapper every endpoint uses:
//
//	{"status": 200, "success": true, "message": "...", "data": ...}
type Envelope struct {
	Status  int                 `json:"status"`
	Success *bool               `json:"success,omitempty"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// OK reports whether the envelope signals success. A missing success field
// counts as success; the HTTP status already passed.
func (e *Envelope) OK() bool {
	return e.Success == nil || *e.Success
}

// HasData reports whether data is present and not null.
func (e *Envelope) HasData() bool {
	d := strings.TrimSpace(string(e.Data))
	return d != "" && d != "null"
}

// Decode unmarshals the data field into out.
func (e *Envelope) Decode(out any) error {
	return json.Unmarshal(e.Data, out)
}

// errorMessage picks the most specific human-readable cause from a failed
// response body. The backend often puts the real reason in data, so a string
// data wins over message:
//
//  1. data, when it is a non-empty string
//  2. the body itself, when it is a JSON string or plain text
//  3. message, when there is no data at all
//  4. error
//  5. data re-encoded as JSON, when it is an object or array
//  6. message, then the HTTP status text
func errorMessage(body []byte, status int) string {
	trimmed := strings.TrimSpace(string(body))
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = "request failed"
	}
	if trimmed == "" {
		return fallback
	}

	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var s string
		if json.Unmarshal(body, &s) == nil && s != "" {
			return s
		}
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return trimmed
		}
		return fallback
	}

	str := func(key string) string {
		var s string
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}
	data := strings.TrimSpace(string(raw["data"]))
	hasData := data != "" && data != "null"

	if s := str("data"); s != "" {
		return s
	}
	if msg := str("message"); msg != "" && !hasData {
		return msg
	}
	if s := str("error"); s != "" {
		return s
	}
	if hasData && (strings.HasPrefix(data, "{") || strings.HasPrefix(data, "[")) {
		return data
	}
	if msg := str("message"); msg != "" {
		return msg
	}
	return fallback
}
