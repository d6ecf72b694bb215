package validation

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule names the check a value failed. The zero value means the value passed.
type Rule string

const (
	RuleNone       Rule = ""
	RuleRequired   Rule = "RequiredField"
	RuleTooShort   Rule = "TooShort"
	RuleTooLong    Rule = "TooLong"
	RuleOutOfRange Rule = "OutOfRange"
)

// Validation rule parameters
var (
	NameMinLength = 2
	// NameMaxLength matches the students.name column width
	NameMaxLength = 255

	MarksMin = 0.0
	MarksMax = 100.0
)

// StringValidation checks a text value
type StringValidation struct {
	Value  string
	MinLen int
	MaxLen int
	Trim   bool
}

// NewStringValidation creates a required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMinLength sets minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// Trimmed makes every check run on the value with surrounding whitespace removed
func (v *StringValidation) Trimmed() *StringValidation {
	v.Trim = true
	return v
}

// Check returns the first rule the value fails, or RuleNone
func (v *StringValidation) Check() Rule {
	value := v.Value
	if v.Trim {
		value = strings.TrimSpace(value)
	}

	if value == "" {
		return RuleRequired
	}

	length := utf8.RuneCountInString(value)
	if v.MinLen > 0 && length < v.MinLen {
		return RuleTooShort
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return RuleTooLong
	}
	return RuleNone
}

// Validate reports whether the value passes every check
func (v *StringValidation) Validate() bool {
	return v.Check() == RuleNone
}

// NumericTextValidation checks a number typed as text against a closed range
type NumericTextValidation struct {
	Value string
	Min   float64
	Max   float64
}

// NewNumericTextValidation creates a required numeric validation over [min, max]
func NewNumericTextValidation(value string, min, max float64) *NumericTextValidation {
	return &NumericTextValidation{
		Value: value,
		Min:   min,
		Max:   max,
	}
}

// Check returns the first rule the value fails, or RuleNone
func (v *NumericTextValidation) Check() Rule {
	if strings.TrimSpace(v.Value) == "" {
		return RuleRequired
	}

	n, ok := ParseNumber(v.Value)
	if !ok || n < v.Min || n > v.Max {
		return RuleOutOfRange
	}
	return RuleNone
}

// Validate reports whether the value passes every check
func (v *NumericTextValidation) Validate() bool {
	return v.Check() == RuleNone
}

// ParseNumber parses decimal text into a finite float64.
// Empty, NaN and infinite inputs are not numbers.
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return math.NaN(), false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return math.NaN(), false
	}
	return n, true
}
