package delivery

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// TrackingFields lists the response fields that may carry a tracking code,
// highest priority first.
var TrackingFields = []string{
	"code_suivi",
	"tracking",
	"tracking_code",
	"trackingCode",
	"tracking_number",
	"code",
	"barcode",
}

// nestedObjects are searched after the top level
var nestedObjects = []string{"data", "order"}

// ExtractTrackingCode returns the first non-empty tracking field of a
// decoded response body, or "".
func ExtractTrackingCode(body map[string]any) string {
	if body == nil {
		return ""
	}
	if code := firstField(body); code != "" {
		return code
	}
	for _, key := range nestedObjects {
		if nested, ok := body[key].(map[string]any); ok {
			if code := firstField(nested); code != "" {
				return code
			}
		}
	}
	return ""
}

func firstField(m map[string]any) string {
	for _, f := range TrackingFields {
		if s := scalarString(m[f]); s != "" {
			return s
		}
	}
	return ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// Flag is an explicit success indicator found in a response body
type Flag int

const (
	FlagAbsent Flag = iota
	FlagPositive
	FlagNegative
)

// SuccessFlag reads "success" and "status" indicators from a body
func SuccessFlag(body map[string]any) Flag {
	if body == nil {
		return FlagAbsent
	}
	if b, ok := body["success"].(bool); ok {
		if b {
			return FlagPositive
		}
		return FlagNegative
	}
	if s, ok := body["status"].(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "success", "ok", "created":
			return FlagPositive
		case "error", "failed", "fail":
			return FlagNegative
		}
	}
	if b, ok := body["status"].(bool); ok {
		if b {
			return FlagPositive
		}
		return FlagNegative
	}
	return FlagAbsent
}

// ClassifySuccess decides the outcome of a registration. A tracking code
// always wins. An explicit negative flag beats a 2xx status.
func ClassifySuccess(httpOK bool, flag Flag, tracking string) bool {
	if tracking != "" {
		return true
	}
	switch flag {
	case FlagNegative:
		return false
	case FlagPositive:
		return true
	default:
		return httpOK
	}
}

// ErrorMessage pulls a human-readable message out of a response body
func ErrorMessage(body map[string]any) string {
	for _, key := range []string{"message", "error", "msg", "errors"} {
		switch v := body[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any, []any:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
	}
	return ""
}

// HasSuccessMarker reports whether a non-JSON body signals success. The word
// must stand alone; negated or failing bodies ("unsuccessful", "not
// successful", "failed") never count.
func HasSuccessMarker(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	found := false
	for i, w := range words {
		switch {
		case strings.HasPrefix(w, "unsuccess"), strings.HasPrefix(w, "fail"), strings.HasPrefix(w, "error"):
			return false
		case successWords[w]:
			if i > 0 && negations[words[i-1]] {
				return false
			}
			found = true
		}
	}
	return found
}

var (
	successWords = map[string]bool{"success": true, "successful": true, "successfully": true, "succès": true, "succes": true}
	negations    = map[string]bool{"not": true, "no": true, "non": true, "pas": true}
)
