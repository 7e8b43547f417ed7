package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// maskValue replaces sensitive parameter values in log output.
const maskValue = "***REDACTED***"

// Sanitizer masks sensitive data in statement parameters before they reach
// log output. Detection is based on column names appearing in the SQL text.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// defaultSensitiveFields are column names whose parameters are never logged
// in clear text.
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "api_key", "apikey", "api_token",
	"secret", "auth", "authorization",
	"credit_card", "card_number", "cvv", "cvc",
	"ssn", "social_security",
	"private_key", "priv_key",
}

// NewSanitizer creates a sanitizer for the given sensitive column names.
// With no names given, a default set of common sensitive fields is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = defaultSensitiveFields
	}
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return &Sanitizer{patterns: patterns}
}

// MaskArgs returns a copy of args safe for logging alongside the given SQL
// text. When the text references any sensitive column, every parameter is
// masked; statement parameters are positional and cannot be attributed to
// individual columns without parsing the SQL.
func (s *Sanitizer) MaskArgs(sql string, args []any) []any {
	if len(args) == 0 || !s.sensitive(sql) {
		return args
	}
	masked := make([]any, len(args))
	for i := range args {
		masked[i] = maskValue
	}
	return masked
}

// FormatArgs renders parameters as a compact single-line string for log
// output. Long values are truncated.
func (s *Sanitizer) FormatArgs(args []any) string {
	if len(args) == 0 {
		return "[]"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formatValue(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s *Sanitizer) sensitive(sql string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(sql) {
			return true
		}
	}
	return false
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	str := fmt.Sprintf("%v", v)
	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
