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

package pattern

import (
	"fmt"
	"log"
	"strings"
)

// Assertf panics if the condition is false and mcx is in strict mode.
func (mcx *MatchCtxt[Ty]) Assertf(b bool, format string, args ...interface{}) {
	if mcx.Strict && !b {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}

func (mcx *MatchCtxt[Ty]) logf(format string, args ...interface{}) {
	if mcx.LogLevel == 0 {
		return
	}
	w := &strings.Builder{}

	mcx.logID++
	fmt.Fprintf(w, "%3d ", mcx.logID)

	for i := 0; i < mcx.nest; i++ {
		w.WriteString("... ")
	}
	fmt.Fprintf(w, format, args...)

	_ = log.Output(2, w.String())
}

func (mcx *MatchCtxt[Ty]) indent()   { mcx.nest++ }
func (mcx *MatchCtxt[Ty]) unindent() { mcx.nest-- }
