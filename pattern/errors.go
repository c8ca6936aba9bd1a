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
	"errors"
	"fmt"
)

// ErrComplexityLimit is matched by errors returned when a computation
// exceeds its [MatchCtxt.ComplexityLimit].
var ErrComplexityLimit = errors.New("pattern complexity limit reached")

// A ComplexityError reports that a usefulness computation was aborted.
type ComplexityError struct {
	Limit int
}

func (e *ComplexityError) Error() string {
	return fmt.Sprintf("%v (limit %d)", ErrComplexityLimit, e.Limit)
}

func (e *ComplexityError) Is(err error) bool { return err == ErrComplexityLimit }
