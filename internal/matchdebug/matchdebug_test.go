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

package matchdebug

import (
	"testing"

	"github.com/go-quicktest/qt"

	"matchcheck.dev/go/internal/envflag"
	"matchcheck.dev/go/pattern"
	"matchcheck.dev/go/schema"
)

func TestInit(t *testing.T) {
	// This is just a smoke test to make sure it's all wired up OK.
	t.Setenv("MATCHCHECK_DEBUG", "strict,log=1,policy=strict")
	err := Init()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(Flags.Strict))
	qt.Check(t, qt.Equals(Flags.Log, 1))
	qt.Check(t, qt.Equals(Flags.Policy, pattern.PolicyStrict))
	qt.Check(t, qt.IsFalse(Flags.NoPruning))
}

func TestParse(t *testing.T) {
	var c Config
	qt.Assert(t, qt.IsNil(envflag.Parse(&c, "")))
	qt.Check(t, qt.Equals(c.Policy, pattern.PolicyLegacy))

	err := envflag.Parse(&c, "policy=lenient")
	qt.Check(t, qt.ErrorIs(err, envflag.ErrInvalid))
	qt.Check(t, qt.ErrorMatches(err, `invalid ValidityPolicy value for policy: unknown validity policy "lenient"`))

	err = envflag.Parse(&c, "log")
	qt.Check(t, qt.ErrorMatches(err, `value needed for int flag "log"`))
}

func TestConfigure(t *testing.T) {
	mcx := pattern.NewMatchCtxt[*schema.Type](&schema.Context{})
	mcx.LogLevel = 2
	Configure(mcx, Config{Log: 1, NoPruning: true, Policy: pattern.PolicyStrict})
	qt.Check(t, qt.Equals(mcx.LogLevel, 2))
	qt.Check(t, qt.IsTrue(mcx.NoPruning))
	qt.Check(t, qt.IsFalse(mcx.Strict))
	qt.Check(t, qt.Equals(mcx.Policy, pattern.PolicyLegacy))

	mcx = pattern.NewMatchCtxt[*schema.Type](&schema.Context{})
	mcx.Strict = true
	Configure(mcx, Config{})
	qt.Check(t, qt.IsTrue(mcx.Strict))
	qt.Check(t, qt.Equals(mcx.Policy, pattern.PolicyLegacy))
}
