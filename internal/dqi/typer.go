package dqi

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals and scientific notation after
// currency symbols and thousands separators are removed.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// leadingZeroRegex matches zero-padded integer literals such as "007" or
// "00123", which are codes rather than quantities.
var leadingZeroRegex = regexp.MustCompile(`^[+-]?0\d+$`)

// nullTokens are cell texts that mean "no value" (compared lowercase).
var nullTokens = map[string]bool{
	"":     true,
	"null": true,
	"na":   true,
	"-":    true,
}

// TypeValue converts one raw cell into a typed Value.
//
// Order: null tokens, number (after stripping "$" and ","), boolean, string.
func TypeValue(raw string) Value {
	lower := strings.ToLower(raw)
	if nullTokens[lower] {
		return Value{Kind: KindNull, Raw: raw}
	}

	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	if numericRegex.MatchString(cleaned) && !leadingZeroRegex.MatchString(cleaned) {
		if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return Value{Kind: KindNumber, Num: n, Raw: raw}
		}
	}

	switch lower {
	case "true":
		return Value{Kind: KindBool, Bool: true, Raw: raw}
	case "false":
		return Value{Kind: KindBool, Bool: false, Raw: raw}
	}

	return Value{Kind: KindString, Raw: raw}
}
