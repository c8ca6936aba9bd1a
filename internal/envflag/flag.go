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

// Package envflag populates a struct of knobs from a single environment
// variable holding a comma-separated list of name=value pairs.
package envflag

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Init uses Parse with the contents of the given environment variable as input.
func Init[T any](flags *T, envVar string) error {
	if err := Parse(flags, os.Getenv(envVar)); err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse initializes the fields in flags from the attached struct field tags as
// well as the contents of the given string.
//
// The struct field tag may contain a default value other than the zero value,
// such as `envflag:"default:true"`. A field tagged `envflag:"deprecated"`
// may only be set to its default value.
//
// Names are matched case insensitively. A bare name is short for name=true
// and is only accepted for boolean fields. Supported field types are bool,
// int, string and any type whose pointer implements
// [encoding.TextUnmarshaler].
func Parse[T any](flags *T, env string) error {
	fv := reflect.ValueOf(flags).Elem()
	ft := fv.Type()

	fields := make(map[string]*field, ft.NumField())
	for i := 0; i < ft.NumField(); i++ {
		f := &field{
			name:  strings.ToLower(ft.Field(i).Name),
			value: fv.Field(i),
		}
		if err := f.applyTag(ft.Field(i).Tag); err != nil {
			return err
		}
		fields[f.name] = f
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			// Permit joined values such as ",a=1" or "a=1,,b".
			continue
		}
		name, str, hasValue := strings.Cut(elem, "=")
		f, ok := fields[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		if !hasValue {
			if f.value.Kind() != reflect.Bool {
				errs = append(errs, fmt.Errorf("value needed for %s flag %q", f.kindName(), name))
				continue
			}
			str = "true"
		}
		if err := f.set(str); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type field struct {
	name       string
	value      reflect.Value
	deprecated bool
}

func (f *field) applyTag(tag reflect.StructTag) error {
	tagStr, ok := tag.Lookup("envflag")
	if !ok {
		return nil
	}
	for _, item := range strings.Split(tagStr, ",") {
		key, rest, hasRest := strings.Cut(item, ":")
		switch key {
		case "default":
			v, err := f.parse(rest)
			if err != nil {
				return err
			}
			f.value.Set(v)
		case "deprecated":
			if hasRest {
				return fmt.Errorf("cannot have a value for deprecated tag")
			}
			f.deprecated = true
		default:
			return fmt.Errorf("unknown envflag tag %q", item)
		}
	}
	return nil
}

func (f *field) set(str string) error {
	v, err := f.parse(str)
	if err != nil {
		return err
	}
	if f.deprecated {
		// Setting a deprecated flag to its current value is a no-op.
		if !reflect.DeepEqual(f.value.Interface(), v.Interface()) {
			return fmt.Errorf("cannot change default value of deprecated flag %q", f.name)
		}
		return nil
	}
	f.value.Set(v)
	return nil
}

func (f *field) kindName() string {
	if f.textUnmarshaler() {
		return f.value.Type().Name()
	}
	return f.value.Kind().String()
}

func (f *field) textUnmarshaler() bool {
	return reflect.PointerTo(f.value.Type()).Implements(textUnmarshalerType)
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func (f *field) parse(str string) (reflect.Value, error) {
	typ := f.value.Type()
	if f.textUnmarshaler() {
		p := reflect.New(typ)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(str)); err != nil {
			return reflect.Value{}, errInvalid{fmt.Errorf("invalid %s value for %s: %v", typ.Name(), f.name, err)}
		}
		return p.Elem(), nil
	}
	var (
		val any
		err error
	)
	switch typ.Kind() {
	case reflect.Bool:
		val, err = strconv.ParseBool(str)
	case reflect.Int:
		val, err = strconv.Atoi(str)
	case reflect.String:
		val = str
	default:
		return reflect.Value{}, errInvalid{fmt.Errorf("unsupported kind %s", typ.Kind())}
	}
	if err != nil {
		return reflect.Value{}, errInvalid{fmt.Errorf("invalid %s value for %s: %v", typ.Kind(), f.name, err)}
	}
	return reflect.ValueOf(val).Convert(typ), nil
}

// An ErrInvalid indicates a malformed input string.
var ErrInvalid = errors.New("invalid value")

type errInvalid struct{ error }

func (errInvalid) Is(err error) bool {
	return err == ErrInvalid
}
