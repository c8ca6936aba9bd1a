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

// A TypeCx describes the types of the patterns being checked. Ty is the
// type representation of the client; the algorithm only passes values of
// Ty back to the TypeCx.
type TypeCx[Ty any] interface {
	// CtorArity returns the number of fields of ctor for a value of type ty.
	// It is never called for Wildcard, Missing, NonExhaustive, Hidden or
	// Opaque, which have no fields.
	CtorArity(ctor Constructor, ty Ty) int

	// CtorSubTypes returns the types of the fields of ctor for a value of
	// type ty. The result has CtorArity(ctor, ty) elements.
	CtorSubTypes(ctor Constructor, ty Ty) []Ty

	// CtorsForTy returns the set of constructors of ty.
	CtorsForTy(ty Ty) (ConstructorSet, error)

	// IsOpaqueTy reports whether ty is a type that should not be used to
	// determine the constructors of a column when a more precise type is
	// available from one of the patterns.
	IsOpaqueTy(ty Ty) bool

	// IsExhaustivePatternsFeatureOn reports whether uninhabited constructors
	// may be omitted from a match regardless of the place validity.
	IsExhaustivePatternsFeatureOn() bool
}

// A MatchCtxt holds the configuration and running state of a usefulness
// computation. It must not be shared between concurrent computations.
type MatchCtxt[Ty any] struct {
	TypeCx[Ty]

	// Policy determines how place validity is relaxed when checking
	// below references and union fields.
	Policy ValidityPolicy

	// ComplexityLimit, if positive, bounds the total number of rows
	// visited by the computation.
	ComplexityLimit int

	// NoPruning disables the relevancy optimization. Only the number of
	// reported witnesses may differ.
	NoPruning bool

	// LogLevel sets the log level of the computation. A level of 0 disables
	// logging.
	LogLevel int

	// Strict enables internal consistency checks that panic on failure.
	Strict bool

	complexity int
	logID      int
	nest       int
}

// NewMatchCtxt returns a MatchCtxt for the given type context with default
// settings.
func NewMatchCtxt[Ty any](cx TypeCx[Ty]) *MatchCtxt[Ty] {
	return &MatchCtxt[Ty]{TypeCx: cx}
}

// increaseComplexity accounts for visiting n more rows.
func (mcx *MatchCtxt[Ty]) increaseComplexity(n int) error {
	mcx.complexity += n
	if mcx.ComplexityLimit > 0 && mcx.complexity > mcx.ComplexityLimit {
		return &ComplexityError{Limit: mcx.ComplexityLimit}
	}
	return nil
}

// Complexity reports the number of rows visited so far.
func (mcx *MatchCtxt[Ty]) Complexity() int { return mcx.complexity }

// A PlaceCtxt is the context of the column being split: the type of the
// place it tests and whether that place is the scrutinee itself.
type PlaceCtxt[Ty any] struct {
	mcx         *MatchCtxt[Ty]
	Ty          Ty
	IsScrutinee bool
}

// isNullary reports whether c is one of the constructors that never have
// fields, regardless of the type. The TypeCx is not consulted for these.
func isNullary(c Constructor) bool {
	switch c.(type) {
	case Wildcard, Missing, NonExhaustive, Hidden, Opaque:
		return true
	}
	return false
}

func (pcx PlaceCtxt[Ty]) ctorArity(c Constructor) int {
	if isNullary(c) {
		return 0
	}
	return pcx.mcx.CtorArity(c, pcx.Ty)
}

func (pcx PlaceCtxt[Ty]) ctorSubTypes(c Constructor) []Ty {
	if isNullary(c) {
		return nil
	}
	return pcx.mcx.CtorSubTypes(c, pcx.Ty)
}

func (pcx PlaceCtxt[Ty]) ctorsForTy() (ConstructorSet, error) {
	return pcx.mcx.CtorsForTy(pcx.Ty)
}

// wildFromCtor returns the witness made of c with wildcard fields.
func (pcx PlaceCtxt[Ty]) wildFromCtor(c Constructor) *WitnessPat[Ty] {
	subTys := pcx.ctorSubTypes(c)
	fields := make([]*WitnessPat[Ty], len(subTys))
	for i, t := range subTys {
		fields[i] = WildcardWitness(t)
	}
	return NewWitness(c, fields, pcx.Ty)
}

// A MatchArm is one arm of a match.
type MatchArm[Ty any] struct {
	Pat      *DeconstructedPat[Ty]
	HasGuard bool

	// Data is left untouched and may be used by clients to associate
	// information with an arm.
	Data any
}
