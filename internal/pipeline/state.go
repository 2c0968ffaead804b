// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
)

// Analyzer is what the pipeline drives. *analysis.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, password string) (*analysis.Result, error)
}

// State is the view state owned by a Pipeline.
//
// Result and Error are both empty until a non-empty value has been debounced. Once a round
// settles exactly one of them is set, or neither when the input was cleared.
type State struct {
	RawInput string
	Loading  bool
	Result   *analysis.Result
	Error    string
	// Stale marks a Result kept from an earlier round after the latest round failed.
	Stale bool
}

// HasError reports whether the connectivity banner should be up.
func (s State) HasError() bool {
	return s.Error != ""
}
