// Copyright 2026 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package matchdebug holds the MATCHCHECK_DEBUG knobs, which tune the
// usefulness computation for debugging.
package matchdebug

import (
	"sync"

	"matchcheck.dev/go/internal/envflag"
	"matchcheck.dev/go/pattern"
)

// Flags holds the set of global MATCHCHECK_DEBUG flags. It is initialized
// by Init.
var Flags Config

// Config holds the set of known MATCHCHECK_DEBUG flags.
type Config struct {
	// Log sets the log level of the usefulness computation.
	//
	//	0: no logging
	//	1: log every matrix and its splitting
	Log int

	// Strict enables internal consistency checks of the usefulness
	// computation, which panic on failure.
	Strict bool

	// NoPruning disables the relevancy optimization.
	NoPruning bool

	// Policy is the validity policy, "legacy" or "strict", of matches
	// that do not set one themselves.
	Policy pattern.ValidityPolicy `envflag:"default:legacy"`
}

// Configure applies the debug settings of c to mcx. Settings that are
// already enabled on mcx are left as is. The policy is not applied: it
// is a default that callers use only for matches without a policy.
func Configure[Ty any](mcx *pattern.MatchCtxt[Ty], c Config) {
	if c.Log > mcx.LogLevel {
		mcx.LogLevel = c.Log
	}
	mcx.Strict = mcx.Strict || c.Strict
	mcx.NoPruning = mcx.NoPruning || c.NoPruning
}

// Init initializes Flags. It is not an init function so that the failure
// mode is an error rather than a panic.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, "MATCHCHECK_DEBUG")
})
