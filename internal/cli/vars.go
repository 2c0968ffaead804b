// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// check
	interactive bool
	// check
	noAnimation bool
	// check
	checkRetries int
	// batch
	batchRetries int
	// batch
	inputFile string
	// batch
	workers int
	// watch
	logFile string
)
