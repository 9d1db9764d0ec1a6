package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Leading-quantity grammar for ingredient lines. Mixed numbers ("1 1/2"),
// simple fractions ("3/4") and decimals ("2.5") are recognized, plus ranges
// joined by a hyphen or en-dash ("2-3", "2–3"). Range parsing runs first so
// "2-3 cups" is not misread as "2" followed by "-3 cups".
var (
	mixedPattern   = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)(\b|[^0-9/])`)
	fracPattern    = regexp.MustCompile(`^(\d+)/(\d+)(\b|[^0-9/])`)
	decimalPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(\b|[^0-9.])`)
	barePattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)$`)
	rangePattern   = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:\s+\d+/\d+)?|\d+/\d+)\s*[-–]\s*(\d+(?:\.\d+)?(?:\s+\d+/\d+)?|\d+/\d+)(\b|[^0-9/.\s])?`)

	mixedToken = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	fracToken  = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// ParseQuantity consumes a leading quantity token from text. It returns the
// numeric value and the number of bytes consumed, including any leading
// whitespace. ok is false when text does not begin with a recognized token.
// A zero denominator rejects the fractional pattern and falls through to the
// next form.
func ParseQuantity(text string) (value float64, consumed int, ok bool) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	pad := len(text) - len(s)

	if m := mixedPattern.FindStringSubmatchIndex(s); m != nil {
		whole, _ := strconv.Atoi(s[m[2]:m[3]])
		num, _ := strconv.Atoi(s[m[4]:m[5]])
		den, _ := strconv.Atoi(s[m[6]:m[7]])
		if den != 0 {
			tail := m[9] - m[8]
			return float64(whole) + float64(num)/float64(den), pad + m[1] - tail, true
		}
	}
	if m := fracPattern.FindStringSubmatchIndex(s); m != nil {
		num, _ := strconv.Atoi(s[m[2]:m[3]])
		den, _ := strconv.Atoi(s[m[4]:m[5]])
		if den != 0 {
			tail := m[7] - m[6]
			return float64(num) / float64(den), pad + m[1] - tail, true
		}
	}
	if m := decimalPattern.FindStringSubmatchIndex(s); m != nil {
		if v, err := strconv.ParseFloat(s[m[2]:m[3]], 64); err == nil {
			tail := m[5] - m[4]
			return v, pad + m[1] - tail, true
		}
	}
	if m := barePattern.FindStringSubmatchIndex(s); m != nil {
		if v, err := strconv.ParseFloat(s[m[2]:m[3]], 64); err == nil {
			return v, pad + m[1], true
		}
	}
	return 0, 0, false
}

// ParseRange consumes a leading quantity range ("2-3", "1 1/2–2"). Either
// endpoint may be a mixed number, fraction or decimal. Consumed bytes include
// leading whitespace.
func ParseRange(text string) (lo, hi float64, consumed int, ok bool) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	pad := len(text) - len(s)

	m := rangePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return 0, 0, 0, false
	}
	lo, okLo := tokenToNumber(s[m[2]:m[3]])
	hi, okHi := tokenToNumber(s[m[4]:m[5]])
	if !okLo || !okHi {
		return 0, 0, 0, false
	}
	tail := 0
	if m[6] >= 0 {
		tail = m[7] - m[6]
	}
	return lo, hi, pad + m[1] - tail, true
}

func tokenToNumber(tok string) (float64, bool) {
	if m := mixedToken.FindStringSubmatch(tok); m != nil {
		whole, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den == 0 {
			return float64(whole), true
		}
		return float64(whole) + float64(num)/float64(den), true
	}
	if m := fracToken.FindStringSubmatch(tok); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if den == 0 {
			return 0, true
		}
		return float64(num) / float64(den), true
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatQuantity rounds to two decimals and trims trailing zeros and a
// trailing decimal point (4.00 -> "4", 1.50 -> "1.5").
func formatQuantity(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// ScaleIngredients multiplies the leading quantity (or range) of every line
// by factor. Lines without a recognized quantity pass through unchanged.
// A factor of exactly 1 returns the input slice as-is without parsing.
func ScaleIngredients(lines []string, factor float64) []string {
	if factor == 1 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = scaleIngredientLine(line, factor)
	}
	return out
}

func scaleIngredientLine(line string, factor float64) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line
	}
	if lo, hi, n, ok := ParseRange(trimmed); ok {
		rest := strings.TrimLeftFunc(trimmed[n:], unicode.IsSpace)
		return strings.TrimSpace(formatQuantity(lo*factor) + "–" + formatQuantity(hi*factor) + " " + rest)
	}
	if v, n, ok := ParseQuantity(trimmed); ok {
		rest := strings.TrimLeftFunc(trimmed[n:], unicode.IsSpace)
		return strings.TrimSpace(formatQuantity(v*factor) + " " + rest)
	}
	return line
}
