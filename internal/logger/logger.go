package logger

import (
	"encoding/json"
	"log"
	"strings"
)

// Fields 附加在訊息後的 key/value，輸出為 JSON
type Fields map[string]any

// sensitiveKeys 輸出前會被遮罩的欄位 (比對時忽略大小寫、底線與連字號)
var sensitiveKeys = map[string]struct{}{
	"password":         {},
	"secret":           {},
	"credentialsecret": {},
	"token":            {},
	"sessiontoken":     {},
	"xsessiontoken":    {},
}

const masked = "******"

func Info(message string, fields Fields) {
	log.Printf("INFO %s %s", message, fieldsJSON(fields))
}

func Warn(message string, fields Fields) {
	log.Printf("WARN %s %s", message, fieldsJSON(fields))
}

// Error 將 err 併入 fields 的 "error" 欄位
func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}

	log.Printf("ERROR %s %s", message, fieldsJSON(base))
}

// SanitizePayload 將任意可序列化的值轉為遮罩過敏感欄位的通用結構
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func fieldsJSON(fields Fields) string {
	if fields == nil {
		fields = Fields{}
	}

	b, err := json.Marshal(SanitizePayload(fields))
	if err != nil {
		return `{}`
	}
	return string(b)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = masked
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(key)))
	_, ok := sensitiveKeys[normalized]
	return ok
}
