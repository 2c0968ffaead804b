// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package evaluator scores passwords against the NIST SP 800-63B memorized secret guidelines.
package evaluator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/dgraph-io/ristretto"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/rs/zerolog/log"
	"unicode/utf8"
)

const (
	nistLength   = "NIST SP 800-63B §5.1.1.1"
	nistBlocked  = "NIST SP 800-63B §5.1.1.2"
	nistEntropy  = "NIST SP 800-63B §5.1.1 (estimated entropy)"
	compromised  = 10.0
	guessableMin = 3
	// zxcvbn gets slow on long inputs and nothing that long is guessable anyway.
	guessableMaxRunes = 100
)

type Options struct {
	// Blocklist defaults to the embedded one.
	Blocklist *Blocklist
	// CacheEntries is how many results are kept in memory, 0 disables the cache.
	CacheEntries int64
}

type Evaluator struct {
	blocklist *Blocklist
	cache     *ristretto.Cache
}

func New(opts Options) (*Evaluator, error) {
	e := &Evaluator{blocklist: opts.Blocklist}
	if e.blocklist == nil {
		b, err := LoadBlocklist("")
		if err != nil {
			return nil, err
		}
		e.blocklist = b
	}

	if opts.CacheEntries > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: opts.CacheEntries * 10,
			MaxCost:     opts.CacheEntries,
			BufferItems: 64,
			// One entry costs one, MaxCost is an entry count.
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating result cache: %w", err)
		}
		e.cache = cache
	}

	return e, nil
}

// Close releases the cache.
func (e *Evaluator) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Analyze evaluates password. Results are cached by the SHA-256 digest of the password, the
// password itself is never stored.
func (e *Evaluator) Analyze(password string) analysis.Result {
	if e.cache == nil {
		return e.analyze(password)
	}

	sum := sha256.Sum256([]byte(password))
	key := hex.EncodeToString(sum[:])
	if cached, ok := e.cache.Get(key); ok {
		return cached.(analysis.Result)
	}

	res := e.analyze(password)
	e.cache.Set(key, res, 1)
	return res
}

func (e *Evaluator) analyze(password string) analysis.Result {
	length := utf8.RuneCountInString(password)
	c := classify(password)

	lengthCheck := checkLength(length)
	common := e.blocklist.IsCommon(password)
	repeated := hasRepetition(password, 3)
	_, walk := e.blocklist.KeyboardWalk(password)
	_, contextual := e.blocklist.ContextualWord(password)
	guessable := e.guessScore(password) < guessableMin

	checks := []analysis.CheckResult{
		lengthCheck,
		flagCheck("not_compromised", "Not a compromised password", !common, 3,
			"Found in the lists of commonly breached passwords",
			"Not found in known breached password lists",
			nistBlocked, analysis.SeverityCritical),
		flagCheck("no_repetition", "No repeated characters", !repeated, 1.5,
			"Repeated character runs found (e.g. aaa, 111, !!!)",
			"No repeated character runs found",
			nistBlocked, analysis.SeverityWarning),
		flagCheck("no_keyboard_walk", "No keyboard sequences", !walk, 1.5,
			"Adjacent key sequence found (e.g. qwerty, asdf, 12345)",
			"No keyboard sequence found",
			nistBlocked, analysis.SeverityWarning),
		flagCheck("no_contextual", "No context specific words", !contextual, 1,
			"Contains words tied to the service (password, login, admin...)",
			"No context specific words found",
			nistBlocked, analysis.SeverityWarning),
		varietyCheck(c),
		unicodeCheck(c.unicode),
		flagCheck("not_guessable", "Resists guessing attacks", !guessable, 1,
			"Predictable with common patterns, dates or dictionary words",
			"No predictable patterns found",
			nistBlocked, analysis.SeverityWarning),
	}

	var total, maxScore float64
	for _, check := range checks {
		total += check.Score
		maxScore += check.MaxScore
	}

	pct := round(total/maxScore*100, 1)
	if common && pct > compromised {
		pct = compromised
	}

	level, label := levelFor(pct, lengthCheck.Passed)
	charset := CharsetSize(password)

	return analysis.Result{
		PasswordLength:     uint(length),
		EntropyBits:        Entropy(password),
		CharsetSize:        charset,
		EstimatedCrackTime: CrackTime(password, charset),
		Score:              round(total, 2),
		MaxScore:           round(maxScore, 2),
		Percentage:         pct,
		Level:              level,
		LevelLabel:         label,
		Checks:             checks,
		Recommendations: recommendations(length, lengthCheck.Passed, common, repeated, walk,
			contextual, guessable, c.count()),
	}
}

func (e *Evaluator) guessScore(password string) (score int) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("zxcvbn failed on a %d character password: %v", utf8.RuneCountInString(password), r)
			score = 0
		}
	}()

	if utf8.RuneCountInString(password) > guessableMaxRunes {
		return guessableMin
	}
	return zxcvbn.PasswordStrength(password, e.blocklist.ContextualWords()).Score
}

func checkLength(length int) analysis.CheckResult {
	check := analysis.CheckResult{
		ID:       "length",
		Label:    "Password length",
		MaxScore: 3,
		NistRef:  nistLength,
		Severity: analysis.SeverityCritical,
		Passed:   true,
	}

	switch {
	case length >= 20:
		check.Score = 3
		check.Description = fmt.Sprintf("%d characters, excellent (20 or more recommended)", length)
	case length >= 15:
		check.Score = 2.5
		check.Description = fmt.Sprintf("%d characters, very good (NIST suggests 15 or more)", length)
	case length >= 8:
		check.Score = 1.5
		check.Description = fmt.Sprintf("%d characters, acceptable (8 is the NIST minimum)", length)
	default:
		check.Passed = false
		check.Description = fmt.Sprintf("%d characters, too short (NIST minimum: 8)", length)
	}
	return check
}

func flagCheck(id, label string, passed bool, weight float64, failed, ok, ref string, sev analysis.Severity) analysis.CheckResult {
	check := analysis.CheckResult{
		ID:          id,
		Label:       label,
		Description: ok,
		Passed:      passed,
		Score:       weight,
		MaxScore:    weight,
		NistRef:     ref,
		Severity:    sev,
	}
	if !passed {
		check.Description = failed
		check.Score = 0
	}
	return check
}

var varietyScores = map[int]float64{1: 0.5, 2: 1, 3: 1.5, 4: 2}

func varietyCheck(c classes) analysis.CheckResult {
	mark := func(b bool, s string) string {
		if b {
			return s
		}
		return "–"
	}

	n := c.count()
	return analysis.CheckResult{
		ID:    "char_variety",
		Label: "Character variety (entropy)",
		Description: fmt.Sprintf("%d/4 categories used (%s|%s|%s|%s)", n,
			mark(c.lower, "abc"), mark(c.upper, "ABC"), mark(c.digit, "123"), mark(c.special, "!@#")),
		Passed:   n >= 2,
		Score:    varietyScores[n],
		MaxScore: 2,
		NistRef:  nistEntropy,
		Severity: analysis.SeverityInfo,
	}
}

func unicodeCheck(present bool) analysis.CheckResult {
	check := analysis.CheckResult{
		ID:          "unicode",
		Label:       "Unicode support (bonus)",
		Description: "ASCII only (Unicode is supported and recommended)",
		Passed:      true,
		MaxScore:    0.5,
		NistRef:     nistLength,
		Severity:    analysis.SeverityInfo,
	}
	if present {
		check.Score = 0.5
		check.Description = "Unicode characters found, widest entropy expansion"
	}
	return check
}

// hasRepetition reports whether the same character appears n or more times in a row.
func hasRepetition(password string, n int) bool {
	var prev rune
	run := 0
	for i, r := range password {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func levelFor(pct float64, lengthPassed bool) (analysis.Level, string) {
	switch {
	case pct < 20 || !lengthPassed:
		return analysis.LevelCritical, "CRITICAL"
	case pct < 45:
		return analysis.LevelWeak, "WEAK"
	case pct < 65:
		return analysis.LevelFair, "FAIR"
	case pct < 82:
		return analysis.LevelGood, "GOOD"
	}
	return analysis.LevelStrong, "STRONG"
}

func recommendations(length int, lengthPassed, common, repeated, walk, contextual, guessable bool, types int) []string {
	var recs []string
	if !lengthPassed {
		recs = append(recs, "Use at least 8 characters (NIST requires 8, 15 or more is advised)")
	} else if length < 15 {
		recs = append(recs, "Raise the length to 15 characters or more")
	}
	if common {
		recs = append(recs, "Replace it with a password that was never used before")
	}
	if repeated {
		recs = append(recs, "Avoid repeated characters (aaa, 111...)")
	}
	if walk {
		recs = append(recs, "Avoid keyboard sequences (qwerty, asdf, 12345...)")
	}
	if contextual {
		recs = append(recs, "Avoid words such as 'password', 'login' or 'admin'")
	}
	if guessable {
		recs = append(recs, "Avoid names, dates and dictionary words, prefer a long random passphrase")
	}
	if types < 3 {
		recs = append(recs, "Add upper case letters, digits or symbols to raise the entropy")
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! This password meets the NIST SP 800-63B criteria")
	}
	return recs
}
