package dqi

import (
	"regexp"
	"unicode/utf8"
)

// RedactionMarker replaces any sample value that looks sensitive.
const RedactionMarker = "[REDACTED]"

// maxSampleLength is the longest sample kept before truncation.
const maxSampleLength = 50

// sensitiveValuePatterns flag card numbers, SSNs, e-mail addresses and phone
// numbers. The heuristic can over- and under-redact; it is a privacy layer,
// not a compliance control.
var sensitiveValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{1,7}\b`),
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`^\+?\d{0,3}[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}$`),
}

func isSensitiveValue(s string) bool {
	for _, re := range sensitiveValuePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// redactSample prepares one raw value for inclusion in a report.
func redactSample(column, raw string) string {
	if isSensitiveName(column) || isSensitiveValue(raw) {
		return RedactionMarker
	}
	if utf8.RuneCountInString(raw) > maxSampleLength {
		return string([]rune(raw)[:maxSampleLength]) + "..."
	}
	return raw
}
