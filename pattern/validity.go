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

import "fmt"

// A ValidityConstraint describes what is known about the data held by a
// place. Places that are not known to be valid may hold values that
// violate the invariants of their type, such as an uninhabited type
// reached through a raw pointer.
type ValidityConstraint uint8

const (
	// ValidOnly means the place holds a valid value of its type.
	ValidOnly ValidityConstraint = iota

	// MaybeInvalid means the place may hold invalid data.
	MaybeInvalid

	// MaybeInvalidButAllowOmittingArms is like MaybeInvalid, except that
	// arms matching only empty constructors may be left out. It only
	// arises from relaxing MaybeInvalid under PolicyLegacy.
	MaybeInvalidButAllowOmittingArms
)

// ValidityFromBool returns ValidOnly if validOnly is set and MaybeInvalid
// otherwise.
func ValidityFromBool(validOnly bool) ValidityConstraint {
	if validOnly {
		return ValidOnly
	}
	return MaybeInvalid
}

func (v ValidityConstraint) String() string {
	switch v {
	case ValidOnly:
		return "valid"
	case MaybeInvalid:
		return "maybe-invalid"
	case MaybeInvalidButAllowOmittingArms:
		return "maybe-invalid(omit-arms)"
	}
	return fmt.Sprintf("ValidityConstraint(%d)", uint8(v))
}

// UnmarshalText parses "valid" or "maybe-invalid".
func (v *ValidityConstraint) UnmarshalText(b []byte) error {
	switch string(b) {
	case "valid", "":
		*v = ValidOnly
	case "maybe-invalid":
		*v = MaybeInvalid
	default:
		return fmt.Errorf("unknown validity %q", b)
	}
	return nil
}

func (v ValidityConstraint) isKnownValid() bool {
	return v == ValidOnly
}

func (v ValidityConstraint) allowsOmittingEmptyArms() bool {
	return v == ValidOnly || v == MaybeInvalidButAllowOmittingArms
}

// allowOmittingSideEffectingArms relaxes MaybeInvalid so that empty arms
// may be left out.
func (v ValidityConstraint) allowOmittingSideEffectingArms() ValidityConstraint {
	if v == ValidOnly {
		return ValidOnly
	}
	return MaybeInvalidButAllowOmittingArms
}

// specialize computes the validity of the fields of a place of validity v
// after destructuring it with c. Going through a reference or a union
// field loses validity.
func (v ValidityConstraint) specialize(c Constructor) ValidityConstraint {
	switch c.(type) {
	case Ref, UnionField:
		return MaybeInvalid
	}
	return v
}

// A ValidityPolicy selects how strictly empty types behind possibly
// invalid places are treated.
type ValidityPolicy uint8

const (
	// PolicyLegacy relaxes MaybeInvalid places so that a match on an empty
	// type may omit its arms.
	PolicyLegacy ValidityPolicy = iota

	// PolicyStrict keeps MaybeInvalid as is: such a place must be matched
	// by an arm even when its type is empty.
	PolicyStrict
)

func (p ValidityPolicy) String() string {
	switch p {
	case PolicyLegacy:
		return "legacy"
	case PolicyStrict:
		return "strict"
	}
	return fmt.Sprintf("ValidityPolicy(%d)", uint8(p))
}

// UnmarshalText parses "legacy" or "strict".
func (p *ValidityPolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "legacy", "":
		*p = PolicyLegacy
	case "strict":
		*p = PolicyStrict
	default:
		return fmt.Errorf("unknown validity policy %q", b)
	}
	return nil
}

func (p ValidityPolicy) relax(v ValidityConstraint) ValidityConstraint {
	if p == PolicyStrict {
		return v
	}
	return v.allowOmittingSideEffectingArms()
}
