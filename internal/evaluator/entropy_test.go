// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package evaluator

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(""))
	assert.Equal(t, 0.0, Entropy("aaaa"))
	assert.Equal(t, 8.0, Entropy("abcd"))
	assert.Equal(t, 2.75, Entropy("aab"))
	// Runes, not bytes.
	assert.Equal(t, 2.0, Entropy("éè"))
}

func TestCharsetSize(t *testing.T) {
	cases := map[string]uint{
		"":      1,
		"abc":   26,
		"ABC":   26,
		"123":   10,
		"!!":    33,
		"aA1!":  95,
		"aé":    26 + 33 + 128,
		"abc12": 36,
	}
	for pwd, want := range cases {
		assert.Equal(t, want, CharsetSize(pwd), "charset of %q", pwd)
	}
}

func TestCrackTime(t *testing.T) {
	assert.Equal(t, "instant", CrackTime("", 1))
	assert.Equal(t, "instant", CrackTime("abc", 26))
	assert.Equal(t, "10 seconds", CrackTime("abcdefgh", 26))
	assert.Equal(t, "1 hour", CrackTime("abcdefghij", 26))
	assert.Equal(t, "billions of years", CrackTime("vX9#mQ2!pL7$wR4@kN8%", 95))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 second", humanDuration(1.5))
	assert.Equal(t, "2 minutes", humanDuration(150))
	assert.Equal(t, "3 days", humanDuration(3*day+10))
	assert.Equal(t, "5 years", humanDuration(5*year))
	assert.Equal(t, "2 centuries", humanDuration(250*year))
	assert.Equal(t, "7 million years", humanDuration(7.5e6*year))
}
