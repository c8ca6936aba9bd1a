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

// Package pattern checks the arms of a match for usefulness and
// exhaustiveness.
//
// An arm is useful if some value matched by it is not matched by any arm
// before it. A match is exhaustive if every value of the scrutinee type is
// matched by some arm. Both questions are answered by a single pass over a
// matrix of patterns, with one row per arm and one column per place being
// tested.
//
// At each step, the constructors in the first column are split into a
// list of constructors such that each is either covered by or disjoint
// from each constructor of the column. The matrix is then specialized by
// each constructor of that list: rows whose head does not cover the
// constructor are dropped and the head of the other rows is replaced by
// its fields. The constructors that do not occur in the column at all are
// handled together through the Missing constructor.
//
// When no column is left, the first row, if any, is useful, and otherwise
// the matrix matches nothing and the values reaching it are missing from
// the match. Missing values are reported as witness patterns, which are
// built bottom-up by undoing the specializations.
//
// The algorithm is independent of the type system of its client: types
// are opaque values of a type parameter and are only inspected through a
// [TypeCx]. Patterns must be lowered by the client into
// [DeconstructedPat] values beforehand.
//
// # Relevancy
//
// Specializing by a constructor that is absent from a column, while
// Missing is not empty, gives the same result for the rows with a
// wildcard in that column as specializing by Missing. Such rows are marked
// irrelevant for the branch and branches without relevant rows are
// skipped. This may reduce the number of witnesses reported, but not the
// verdicts. [MatchCtxt.NoPruning] disables it.
//
// # Validity
//
// Places that may hold invalid data, such as those behind a reference,
// must be matched even if their type is empty, unless the
// [ValidityPolicy] allows omitting such arms.
package pattern
