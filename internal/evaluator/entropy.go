// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package evaluator

import (
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"
)

const guessesPerSecond = 1e10

// Entropy is the Shannon entropy of the password's characters times its length, in bits.
func Entropy(password string) float64 {
	if password == "" {
		return 0
	}

	freq := make(map[rune]int)
	n := 0
	for _, r := range password {
		freq[r]++
		n++
	}

	var h float64
	for _, count := range freq {
		p := float64(count) / float64(n)
		h -= p * math.Log2(p)
	}
	return round(h*float64(n), 2)
}

type classes struct {
	lower, upper, digit, special, unicode bool
}

func classify(password string) classes {
	var c classes
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
			// Non ASCII digits are digits and symbols at the same time.
			c.special = c.special || r > unicode.MaxASCII
		default:
			c.special = true
		}
		if r > unicode.MaxASCII {
			c.unicode = true
		}
	}
	return c
}

func (c classes) count() int {
	n := 0
	for _, b := range []bool{c.lower, c.upper, c.digit, c.special} {
		if b {
			n++
		}
	}
	return n
}

// CharsetSize estimates the size of the pool the password's characters were drawn from.
func CharsetSize(password string) uint {
	c := classify(password)
	var size uint
	if c.lower {
		size += 26
	}
	if c.upper {
		size += 26
	}
	if c.digit {
		size += 10
	}
	if c.special {
		size += 33
	}
	if c.unicode {
		size += 128
	}
	if size == 0 {
		return 1
	}
	return size
}

// CrackTime estimates the average time of a brute force attack at 10 billion guesses per second.
func CrackTime(password string, charsetSize uint) string {
	// charset^length overflows quickly, work with logarithms.
	length := float64(utf8.RuneCountInString(password))
	seconds := math.Exp(length*math.Log(float64(charsetSize)) - math.Log(2*guessesPerSecond))
	return humanDuration(seconds)
}

const (
	minute  = 60.0
	hour    = 60 * minute
	day     = 24 * hour
	year    = 365.25 * day
	century = 100 * year
)

func humanDuration(seconds float64) string {
	switch {
	case seconds < 1:
		return "instant"
	case seconds < minute:
		return plural(seconds, 1, "second")
	case seconds < hour:
		return plural(seconds, minute, "minute")
	case seconds < day:
		return plural(seconds, hour, "hour")
	case seconds < year:
		return plural(seconds, day, "day")
	case seconds < century:
		return plural(seconds, year, "year")
	case seconds < 1e6*year:
		return plural(seconds, century, "century")
	case seconds < 1e9*year:
		return fmt.Sprintf("%d million years", int64(seconds/(1e6*year)))
	}
	return "billions of years"
}

func plural(seconds, unit float64, name string) string {
	n := int64(seconds / unit)
	if n == 1 {
		return "1 " + name
	}
	if name == "century" {
		return fmt.Sprintf("%d centuries", n)
	}
	return fmt.Sprintf("%d %ss", n, name)
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
