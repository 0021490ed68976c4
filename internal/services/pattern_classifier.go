package services

// PatternFlags is the structural classification of a candidate digit string.
// Flags are mutually exclusive in priority order quad > triple > double:
// a quad never also reports triple or double.
type PatternFlags struct {
	HasDouble        bool `json:"has_double"`
	HasTriple        bool `json:"has_triple"`
	HasQuad          bool `json:"has_quad"`
	UniqueDigitCount int  `json:"unique_digit_count"`
}

// Label returns the kit-facing pattern name.
func (p PatternFlags) Label() string {
	switch {
	case p.HasQuad:
		return "QUAD"
	case p.HasTriple:
		return "TRIPLE"
	case p.HasDouble:
		return "DOUBLE"
	case p.UniqueDigitCount > 0:
		return "ALL-UNIQUE"
	default:
		return "NONE"
	}
}

// ClassifyPattern classifies a 3- or 4-digit candidate string. It is a total
// function: malformed input (wrong length, non-digit characters) yields the
// neutral all-false result so classification can never abort the pipeline.
func ClassifyPattern(number string) PatternFlags {
	if len(number) != 3 && len(number) != 4 {
		return PatternFlags{}
	}

	counts := make(map[byte]int, 4)
	for i := 0; i < len(number); i++ {
		c := number[i]
		if c < '0' || c > '9' {
			return PatternFlags{}
		}
		counts[c]++
	}

	maxRepeat := 0
	for _, n := range counts {
		if n > maxRepeat {
			maxRepeat = n
		}
	}

	flags := PatternFlags{UniqueDigitCount: len(counts)}
	switch maxRepeat {
	case 4:
		flags.HasQuad = true
	case 3:
		flags.HasTriple = true
	case 2:
		flags.HasDouble = true
	}
	return flags
}

// IsFrontPair reports whether a 3-digit candidate opens with a pair
// (first two digits equal, third different).
func IsFrontPair(number string) bool {
	if len(number) != 3 || !allDigits(number) {
		return false
	}
	return number[0] == number[1] && number[1] != number[2]
}

// IsBackPair reports whether a 3-digit candidate ends with a pair
// (last two digits equal, first different).
func IsBackPair(number string) bool {
	if len(number) != 3 || !allDigits(number) {
		return false
	}
	return number[1] == number[2] && number[0] != number[1]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DigitSum returns the sum of the digits of a candidate string and whether the
// string parsed cleanly.
func DigitSum(number string) (int, bool) {
	if !allDigits(number) || number == "" {
		return 0, false
	}
	sum := 0
	for i := 0; i < len(number); i++ {
		sum += int(number[i] - '0')
	}
	return sum, true
}
