// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package evaluator

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"slices"
	"sort"
	"strings"
)

//go:embed blocklist.yaml
var embeddedBlocklist []byte

type blocklistFile struct {
	CommonPasswords []string `yaml:"common_passwords"`
	KeyboardWalks   struct {
		Rows      map[string][]string `yaml:"rows"`
		Diagonals []string            `yaml:"diagonals"`
		Numpad    []string            `yaml:"numpad"`
	} `yaml:"keyboard_walks"`
	ContextualWords struct {
		Authentication []string `yaml:"authentication"`
		Roles          []string `yaml:"roles"`
		Greetings      []string `yaml:"greetings"`
	} `yaml:"contextual_words"`
}

// Blocklist holds the lower cased lookup data of the evaluator. Read only once loaded.
type Blocklist struct {
	common     map[string]struct{}
	walks      []string
	contextual []string
}

// LoadBlocklist reads a blocklist YAML file, or the embedded one when fileName is empty.
func LoadBlocklist(fileName string) (*Blocklist, error) {
	data := embeddedBlocklist
	if fileName != "" {
		var err error
		if data, err = os.ReadFile(fileName); err != nil {
			return nil, err
		}
	}

	return ParseBlocklist(data)
}

func ParseBlocklist(data []byte) (*Blocklist, error) {
	var f blocklistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid blocklist: %w", err)
	}

	b := &Blocklist{common: make(map[string]struct{}, len(f.CommonPasswords))}
	for _, p := range f.CommonPasswords {
		b.common[strings.ToLower(p)] = struct{}{}
	}

	// Rows come from a map, walk them in key order so the result does not depend on map order.
	rowNames := make([]string, 0, len(f.KeyboardWalks.Rows))
	for name := range f.KeyboardWalks.Rows {
		rowNames = append(rowNames, name)
	}
	sort.Strings(rowNames)

	var walks []string
	for _, name := range rowNames {
		walks = append(walks, f.KeyboardWalks.Rows[name]...)
	}
	walks = append(walks, f.KeyboardWalks.Diagonals...)
	walks = append(walks, f.KeyboardWalks.Numpad...)

	// Longest first, so the first hit is the most specific one.
	b.walks = dedupLower(walks)
	slices.SortStableFunc(b.walks, func(a, c string) int {
		return len(c) - len(a)
	})

	var words []string
	words = append(words, f.ContextualWords.Authentication...)
	words = append(words, f.ContextualWords.Roles...)
	words = append(words, f.ContextualWords.Greetings...)
	b.contextual = dedupLower(words)

	return b, nil
}

func dedupLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(s)
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IsCommon reports whether the password is a known compromised one.
func (b *Blocklist) IsCommon(password string) bool {
	_, ok := b.common[strings.ToLower(password)]
	return ok
}

// KeyboardWalk returns the longest keyboard walk contained in the password.
func (b *Blocklist) KeyboardWalk(password string) (string, bool) {
	return firstContained(b.walks, strings.ToLower(password))
}

// ContextualWord returns the first context word contained in the password.
func (b *Blocklist) ContextualWord(password string) (string, bool) {
	return firstContained(b.contextual, strings.ToLower(password))
}

// ContextualWords is passed to zxcvbn as user inputs.
func (b *Blocklist) ContextualWords() []string {
	return b.contextual
}

func firstContained(list []string, lower string) (string, bool) {
	for _, w := range list {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}
