package logger

import (
	"regexp"
	"strings"
)

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9-._~+/]+=*)`),
	regexp.MustCompile(`(?i)((password|passwd|secret|token|dsn)[\s:=]+)([^;,\s]{3,})`),
	regexp.MustCompile(`(?i)(://[^:/@\s]+:)([^@\s]+)(@)`),
}

var sensitiveKeys = []string{"password", "passwd", "secret", "token", "dsn", "authorization"}

// RedactSensitiveData replaces credentials embedded in free text with [REDACTED].
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}
	for i, pattern := range sensitivePatterns {
		if i == len(sensitivePatterns)-1 {
			input = pattern.ReplaceAllString(input, "${1}[REDACTED]${3}")
			continue
		}
		input = pattern.ReplaceAllString(input, "${1}[REDACTED]")
	}
	return input
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
