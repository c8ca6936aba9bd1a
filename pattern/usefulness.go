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
	"slices"
	"strings"
)

// A patStack is a row of the matrix: one pattern per column. A row is
// relevant as long as every constructor it was specialized with is
// relevant for it; irrelevant rows cannot contribute new information and
// whole branches of the computation are skipped when no row is relevant.
type patStack[Ty any] struct {
	pats     []*DeconstructedPat[Ty]
	relevant bool
}

func (s patStack[Ty]) head() *DeconstructedPat[Ty] { return s.pats[0] }

// expandOrPat returns one stack per alternative of the head or-pattern.
func (s patStack[Ty]) expandOrPat() []patStack[Ty] {
	alts := s.head().flatten()
	out := make([]patStack[Ty], len(alts))
	for i, a := range alts {
		pats := make([]*DeconstructedPat[Ty], 0, len(s.pats))
		pats = append(pats, a)
		pats = append(pats, s.pats[1:]...)
		out[i] = patStack[Ty]{pats: pats, relevant: s.relevant}
	}
	return out
}

// popHeadConstructor replaces the head of s with its fields for ctor.
func (s patStack[Ty]) popHeadConstructor(pcx PlaceCtxt[Ty], ctor Constructor, ctorIsRelevant bool) patStack[Ty] {
	head := s.head()
	fields := head.specialize(pcx, ctor)
	pats := make([]*DeconstructedPat[Ty], 0, len(fields)+len(s.pats)-1)
	pats = append(pats, fields...)
	pats = append(pats, s.pats[1:]...)

	// ctor is relevant for this row if it is the actual constructor of the
	// row, or if the row has a wildcard and ctor is relevant for wildcards.
	relevant := !isWildcard(head.ctor) || ctorIsRelevant
	return patStack[Ty]{pats: pats, relevant: s.relevant && relevant}
}

func (s patStack[Ty]) String() string {
	var b strings.Builder
	for _, p := range s.pats {
		b.WriteString(" | ")
		b.WriteString(p.String())
	}
	if !s.relevant {
		b.WriteString(" (irrelevant)")
	}
	return b.String()
}

type matrixRow[Ty any] struct {
	pats patStack[Ty]

	// parentRow is the index of the row of the enclosing matrix this row
	// was specialized from, or the index of the arm for the top matrix.
	parentRow    int
	isUnderGuard bool

	// useful is set when some value reaching this row is not matched by
	// any row above it.
	useful bool
}

func (r *matrixRow[Ty]) head() *DeconstructedPat[Ty] { return r.pats.head() }

func (r *matrixRow[Ty]) popHeadConstructor(pcx PlaceCtxt[Ty], ctor Constructor, ctorIsRelevant bool, parentRow int) matrixRow[Ty] {
	return matrixRow[Ty]{
		pats:         r.pats.popHeadConstructor(pcx, ctor, ctorIsRelevant),
		parentRow:    parentRow,
		isUnderGuard: r.isUnderGuard,
	}
}

// A matrix is a list of rows of equal length. The head of a row is never
// an or-pattern: or-patterns are expanded into sibling rows on insertion.
type matrix[Ty any] struct {
	rows []matrixRow[Ty]

	// wildcardRow holds a wildcard for each column. It carries the column
	// types and tracks the relevancy of the wildcard row.
	wildcardRow patStack[Ty]

	// placeValidity holds the validity of each column.
	placeValidity []ValidityConstraint
}

func newMatrix[Ty any](arms []MatchArm[Ty], scrutTy Ty, validity ValidityConstraint) *matrix[Ty] {
	m := &matrix[Ty]{
		rows: make([]matrixRow[Ty], 0, len(arms)),
		wildcardRow: patStack[Ty]{
			pats:     []*DeconstructedPat[Ty]{NewWildcard(scrutTy)},
			relevant: true,
		},
		placeValidity: []ValidityConstraint{validity},
	}
	for i, arm := range arms {
		m.expandAndPush(matrixRow[Ty]{
			pats:         patStack[Ty]{pats: []*DeconstructedPat[Ty]{arm.Pat}, relevant: true},
			parentRow:    i,
			isUnderGuard: arm.HasGuard,
		})
	}
	return m
}

func (m *matrix[Ty]) columnCount() int { return len(m.wildcardRow.pats) }

// expandAndPush adds row to m, expanding a head or-pattern into one row
// per alternative.
func (m *matrix[Ty]) expandAndPush(row matrixRow[Ty]) {
	if len(row.pats.pats) > 0 && row.head().IsOrPat() {
		for _, s := range row.pats.expandOrPat() {
			m.rows = append(m.rows, matrixRow[Ty]{
				pats:         s,
				parentRow:    row.parentRow,
				isUnderGuard: row.isUnderGuard,
			})
		}
		return
	}
	m.rows = append(m.rows, row)
}

// headTy returns the type of the first column, if any.
func (m *matrix[Ty]) headTy(mcx *MatchCtxt[Ty]) (ty Ty, ok bool) {
	if m.columnCount() == 0 {
		return ty, false
	}
	ty = m.wildcardRow.head().ty
	// Constructors of an opaque type are only known from patterns that
	// reveal its underlying type.
	if mcx.IsOpaqueTy(ty) {
		for i := range m.rows {
			if t := m.rows[i].head().ty; !mcx.IsOpaqueTy(t) {
				return t, true
			}
		}
	}
	return ty, true
}

// hasRelevantRows reports whether the wildcard row or any row is relevant.
func (m *matrix[Ty]) hasRelevantRows() bool {
	if m.wildcardRow.relevant {
		return true
	}
	for i := range m.rows {
		if m.rows[i].pats.relevant {
			return true
		}
	}
	return false
}

// specializeConstructor returns the matrix of the rows of m whose head
// covers ctor, with the head replaced by its fields.
func (m *matrix[Ty]) specializeConstructor(pcx PlaceCtxt[Ty], ctor Constructor, ctorIsRelevant bool) *matrix[Ty] {
	arity := pcx.ctorArity(ctor)
	v := m.placeValidity[0].specialize(ctor)
	validity := make([]ValidityConstraint, 0, arity+len(m.placeValidity)-1)
	for i := 0; i < arity; i++ {
		validity = append(validity, v)
	}
	validity = append(validity, m.placeValidity[1:]...)

	out := &matrix[Ty]{
		wildcardRow:   m.wildcardRow.popHeadConstructor(pcx, ctor, ctorIsRelevant),
		placeValidity: validity,
	}
	for i := range m.rows {
		row := &m.rows[i]
		if IsCoveredBy(ctor, row.head().ctor) {
			out.expandAndPush(row.popHeadConstructor(pcx, ctor, ctorIsRelevant, i))
		}
	}
	return out
}

func (m *matrix[Ty]) String() string {
	var b strings.Builder
	for i := range m.rows {
		r := &m.rows[i]
		fmt.Fprintf(&b, "\n    %s", r.pats)
		if r.isUnderGuard {
			b.WriteString(" // under guard")
		}
	}
	fmt.Fprintf(&b, "\n    %s // wildcard row %v", m.wildcardRow, m.placeValidity)
	return b.String()
}

// A witnessStack is a partially built witness: a list of patterns, one
// for each column of the current matrix, in reverse order. The last
// element is the pattern for the first column.
type witnessStack[Ty any] []*WitnessPat[Ty]

// singlePattern returns the witness of a fully unspecialized stack.
func (w witnessStack[Ty]) singlePattern() *WitnessPat[Ty] {
	if len(w) != 1 {
		panic(fmt.Sprintf("pattern: witness stack of length %d at top level", len(w)))
	}
	return w[0]
}

// applyConstructor wraps the patterns for the first arity columns into a
// single pattern with constructor ctor.
func (w witnessStack[Ty]) applyConstructor(pcx PlaceCtxt[Ty], ctor Constructor) witnessStack[Ty] {
	arity := pcx.ctorArity(ctor)
	n := len(w)
	if n < arity {
		panic(fmt.Sprintf("pattern: witness stack of length %d too short for %v of arity %d", n, ctor, arity))
	}
	fields := make([]*WitnessPat[Ty], arity)
	for i := range fields {
		fields[i] = w[n-1-i]
	}
	return append(w[:n-arity], NewWitness(ctor, fields, pcx.Ty))
}

// A witnessMatrix is a set of witness stacks of equal length. The empty
// matrix means no value is missing; the unit matrix holds one stack of
// length 0.
type witnessMatrix[Ty any] []witnessStack[Ty]

func unitWitness[Ty any]() witnessMatrix[Ty] {
	return witnessMatrix[Ty]{witnessStack[Ty]{}}
}

func (m witnessMatrix[Ty]) clone() witnessMatrix[Ty] {
	out := make(witnessMatrix[Ty], len(m))
	for i, w := range m {
		out[i] = slices.Clip(slices.Clone(w))
	}
	return out
}

// pushPattern adds p as the pattern of a new first column to every stack.
func (m witnessMatrix[Ty]) pushPattern(p *WitnessPat[Ty]) {
	for i := range m {
		m[i] = append(m[i], p)
	}
}

// applyConstructor reverts the specialization of a matrix by ctor on the
// witnesses found for the specialized matrix.
//
// For the Missing constructor, the witnesses are extended with the missing
// constructors of the column: one witness per missing constructor if
// reportIndividual is set, and a single wildcard otherwise.
func (m witnessMatrix[Ty]) applyConstructor(pcx PlaceCtxt[Ty], missing []Constructor, ctor Constructor, reportIndividual bool) witnessMatrix[Ty] {
	if len(m) == 0 {
		return m
	}
	if !isMissing(ctor) {
		for i, w := range m {
			m[i] = w.applyConstructor(pcx, ctor)
		}
		return m
	}
	switch {
	case len(missing) == 0:
		// Nothing to report.
		return nil

	case !reportIndividual:
		m.pushPattern(pcx.wildFromCtor(Wildcard{}))
		return m

	case slices.ContainsFunc(missing, func(c Constructor) bool {
		_, ok := c.(NonExhaustive)
		return ok
	}):
		// A wildcard must be reported anyway, so listing the other
		// constructors adds nothing.
		m.pushPattern(pcx.wildFromCtor(NonExhaustive{}))
		return m
	}

	var out witnessMatrix[Ty]
	for _, c := range missing {
		wm := m.clone()
		wm.pushPattern(pcx.wildFromCtor(c))
		out = append(out, wm...)
	}
	return out
}

// computeExhaustivenessAndUsefulness is the main algorithm. It marks the
// useful rows of m and returns the witnesses of the values matched by the
// wildcard row and by no row.
//
// Each recursive call splits the constructors of the first column,
// specializes the matrix by each of them and recurses. The witnesses of the
// specialized matrices are then unspecialized and merged, and the
// usefulness of specialized rows is reported to their parent rows.
func computeExhaustivenessAndUsefulness[Ty any](mcx *MatchCtxt[Ty], m *matrix[Ty], isTopLevel bool) (witnessMatrix[Ty], error) {
	if mcx.Strict {
		for i := range m.rows {
			mcx.Assertf(len(m.rows[i].pats.pats) == m.columnCount(),
				"row %d has %d columns, want %d", i, len(m.rows[i].pats.pats), m.columnCount())
		}
	}

	// Nothing can be learned from a matrix without relevant rows.
	if !m.hasRelevantRows() {
		mcx.logf("skipping irrelevant matrix")
		return nil, nil
	}

	ty, ok := m.headTy(mcx)
	if !ok {
		// Without columns, a row is useful if no unguarded row precedes it.
		for i := range m.rows {
			row := &m.rows[i]
			row.useful = true
			if !row.isUnderGuard {
				return nil, nil
			}
		}
		// All rows are guarded, so the wildcard row is useful.
		if m.wildcardRow.relevant {
			return unitWitness[Ty](), nil
		}
		return nil, nil
	}

	if err := mcx.increaseComplexity(len(m.rows)); err != nil {
		return nil, err
	}

	mcx.logf("matrix %v:%s", ty, m)

	pcx := PlaceCtxt[Ty]{mcx: mcx, Ty: ty, IsScrutinee: isTopLevel}
	placeValidity := mcx.Policy.relax(m.placeValidity[0])

	ctors := make([]Constructor, len(m.rows))
	for i := range m.rows {
		ctors[i] = m.rows[i].head().ctor
	}
	set, err := pcx.ctorsForTy()
	if err != nil {
		return nil, err
	}
	splitSet := split(pcx, set, ctors)

	// The constructors to specialize with must cover the whole type.
	splitCtors := splitSet.present
	if len(splitSet.missing) > 0 || (len(splitSet.missingEmpty) > 0 && !placeValidity.isKnownValid()) {
		splitCtors = append(splitCtors, Missing{})
	}

	// Report "A and C are missing" rather than "_ is missing" at the top
	// level, and whenever some constructor is present.
	reportIndividual := (isTopLevel && !isIntegers(set)) || len(splitSet.present) > 0

	missing := splitSet.missing
	if !placeValidity.allowsOmittingEmptyArms() {
		missing = append(missing, splitSet.missingEmpty...)
	}

	mcx.logf("split %v: present %v, missing %v", ty, splitSet.present, missing)

	var ret witnessMatrix[Ty]
	for _, ctor := range splitCtors {
		// A constructor is irrelevant if Missing matches strictly more
		// rows than it does.
		ctorIsRelevant := mcx.NoPruning || isMissing(ctor) || len(missing) == 0

		mcx.logf("specialize %v", ctor)
		mcx.indent()
		specMatrix := m.specializeConstructor(pcx, ctor, ctorIsRelevant)
		witnesses, err := computeExhaustivenessAndUsefulness(mcx, specMatrix, false)
		mcx.unindent()
		if err != nil {
			return nil, err
		}

		witnesses = witnesses.applyConstructor(pcx, missing, ctor, reportIndividual)
		ret = append(ret, witnesses...)

		for i := range specMatrix.rows {
			child := &specMatrix.rows[i]
			if child.useful {
				m.rows[child.parentRow].useful = true
			}
		}
	}

	for i := range m.rows {
		if row := &m.rows[i]; row.useful {
			row.head().setUseful()
		}
	}
	if len(ret) > 0 {
		mcx.logf("witnesses %v: %v", ty, ret)
	}
	return ret, nil
}

// Usefulness is the verdict for one arm. An arm is useful if it matches a
// value that no earlier arm matches; RedundantSubpatterns lists parts of a
// useful arm, such as or-pattern alternatives, that are not.
type Usefulness[Ty any] struct {
	Useful               bool
	RedundantSubpatterns []*DeconstructedPat[Ty]
}

// ArmUsefulness pairs an arm with its verdict.
type ArmUsefulness[Ty any] struct {
	Arm        MatchArm[Ty]
	Usefulness Usefulness[Ty]
}

// A UsefulnessReport is the result of [ComputeMatchUsefulness].
type UsefulnessReport[Ty any] struct {
	// ArmUsefulness holds a verdict for each arm, in order.
	ArmUsefulness []ArmUsefulness[Ty]

	// NonExhaustivenessWitnesses holds patterns for the values that no arm
	// matches. It is empty if the match is exhaustive.
	NonExhaustivenessWitnesses []*WitnessPat[Ty]
}

// Exhaustive reports whether the arms cover every value of the scrutinee.
func (r *UsefulnessReport[Ty]) Exhaustive() bool {
	return len(r.NonExhaustivenessWitnesses) == 0
}

// ComputeMatchUsefulness computes the usefulness of each arm of a match on
// a place of type scrutTy and validity validity, as well as the values not
// covered by any arm.
//
// The patterns of arms are marked as a side effect, so the same patterns
// must not be passed to concurrent computations.
//
// An error is returned if the type context fails or if the complexity
// limit of mcx is exceeded. In the latter case the error matches
// ErrComplexityLimit.
func ComputeMatchUsefulness[Ty any](mcx *MatchCtxt[Ty], arms []MatchArm[Ty], scrutTy Ty, validity ValidityConstraint) (*UsefulnessReport[Ty], error) {
	m := newMatrix(arms, scrutTy, validity)
	witnesses, err := computeExhaustivenessAndUsefulness(mcx, m, true)
	if err != nil {
		return nil, err
	}

	report := &UsefulnessReport[Ty]{
		ArmUsefulness: make([]ArmUsefulness[Ty], len(arms)),
	}
	for _, w := range witnesses {
		report.NonExhaustivenessWitnesses = append(report.NonExhaustivenessWitnesses, w.singlePattern())
	}
	for i, arm := range arms {
		u := Usefulness[Ty]{Useful: arm.Pat.IsUseful()}
		if u.Useful {
			u.RedundantSubpatterns = arm.Pat.RedundantSubpatterns()
		}
		report.ArmUsefulness[i] = ArmUsefulness[Ty]{Arm: arm, Usefulness: u}
	}
	return report, nil
}
