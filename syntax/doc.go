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

// Package syntax implements the scanner, parser and printer of the
// language used to declare types and write patterns in match files.
//
// Declarations:
//
//	struct Pair(Option<u32>, bool)
//	struct Point { x: u8, y: u8 }
//	#[non_exhaustive] enum Color { Red, Rgb(u8, u8, u8), #[hidden] Secret }
//	union U { a: u8, b: bool }
//
// Patterns:
//
//	Pair(Some(0..=9), _) | Pair(None, true)
//	Point { x: 0, .. }
//	[first, .., last]
//	&x @ Color::Red
package syntax
