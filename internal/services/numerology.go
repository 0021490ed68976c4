package services

import (
	"time"
)

// Numerology helpers for life-path alignment. All reductions collapse a
// number to a single 1-9 digit by repeated digit summing; date-level codes
// additionally preserve the master numbers 11, 22 and 33.

func digitSumInt(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// ReduceToNumerologyNumber reduces n to a single digit 1-9.
func ReduceToNumerologyNumber(n int) int {
	if n < 0 {
		n = -n
	}
	for n > 9 {
		n = digitSumInt(n)
	}
	return n
}

// DateNumerologyCode reduces a calendar date's digit sum, preserving master
// numbers. Returns the code and its 0-1 weight.
func DateNumerologyCode(date time.Time) (int, float64) {
	sum := 0
	for _, c := range date.Format("20060102") {
		sum += int(c - '0')
	}
	for sum > 9 && sum != 11 && sum != 22 && sum != 33 {
		sum = digitSumInt(sum)
	}
	if sum == 11 || sum == 22 || sum == 33 {
		return sum, 0.90
	}
	return sum, float64(sum) / 9.0
}

// LifePathFromDOB computes the life-path number for a YYYY-MM-DD date of
// birth. Malformed input yields the neutral 0 with ok=false; numerology must
// never abort a scoring run.
func LifePathFromDOB(dob string) (int, bool) {
	dt, err := time.Parse("2006-01-02", dob)
	if err != nil {
		// Legacy subscriber files sometimes carry US-style dates.
		dt, err = time.Parse("01/02/2006", dob)
		if err != nil {
			return 0, false
		}
	}
	return ReduceToNumerologyNumber(dt.Year() + int(dt.Month()) + dt.Day()), true
}

// UniversalDayNumber reduces a draw date to its universal day number.
func UniversalDayNumber(date time.Time) int {
	return ReduceToNumerologyNumber(date.Year() + int(date.Month()) + date.Day())
}

// PersonalDayNumber combines a life path with a universal day number.
func PersonalDayNumber(lifePath, universalDay int) int {
	return ReduceToNumerologyNumber(lifePath + universalDay)
}

// LifePathAlignment maps the circular distance between a life path and a
// personal day number into the 1-5 alignment band: exact match scores 5,
// and each step of distance drops one band down to the floor of 1. The
// distance is circular because 1 and 9 sit next to each other in the
// numerology wheel.
func LifePathAlignment(lifePath, personalDay int) int {
	wrap9 := func(x int) int {
		return ((x-1)%9+9)%9 + 1
	}
	lp := wrap9(lifePath)
	pd := wrap9(personalDay)

	diff := lp - pd
	if diff < 0 {
		diff = -diff
	}
	if 9-diff < diff {
		diff = 9 - diff
	}

	switch diff {
	case 0:
		return 5
	case 1:
		return 4
	case 2:
		return 3
	case 3:
		return 2
	default:
		return 1
	}
}
