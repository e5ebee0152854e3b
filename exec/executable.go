// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package exec prepares and runs the external programs which make up a build:
// the native toolchain, the meta-build and the simulator.
package exec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/shlex"
)

type Executable struct {
	bin  string
	args []string
}

// NewExecutable accepts an input argument bin which is the path or executable
// name to be ultimately executed.  A bin containing spaces is split with shell
// quoting rules.  The optional face can use the attribute annotation tags
// `flag:"--myarg"` to derive additional command-line arguments.
func NewExecutable(bin string, face interface{}, args ...string) (*Executable, error) {
	if len(strings.TrimSpace(bin)) == 0 {
		return nil, fmt.Errorf("binary argument cannot be empty")
	}

	e := &Executable{bin: bin}

	if strings.ContainsAny(bin, " \t") {
		split, err := shlex.Split(bin)
		if err != nil {
			return nil, fmt.Errorf("could not split binary argument: %w", err)
		}
		e.bin = split[0]
		e.args = split[1:]
	}

	e.args = append(e.args, args...)

	if face != nil {
		ifaceArgs, err := ParseInterfaceArgs(face)
		if err != nil {
			return nil, err
		}

		e.args = append(e.args, ifaceArgs...)
	}

	return e, nil
}

func (e *Executable) Bin() string {
	return e.bin
}

func (e *Executable) Args() []string {
	return e.args
}

type flag struct {
	flag        string
	omitvalueif string
}

func parseFlag(tag reflect.StructTag) (*flag, error) {
	raw, ok := tag.Lookup("flag")
	if !ok {
		return nil, fmt.Errorf("could not parse flag without tag")
	}

	parts := strings.Split(raw, ",")
	f := &flag{
		flag: parts[0],
	}

	for _, part := range parts[1:] {
		if !strings.HasPrefix(part, "omitvalueif") {
			continue
		}

		omit := strings.Split(part, "=")
		if len(omit) == 1 {
			return nil, fmt.Errorf("omitvalueif requires value")
		}
		f.omitvalueif = omit[1]
	}

	return f, nil
}

// ParseInterfaceArgs returns the array of arguments detected from an interface
// with tag annotations `flag`
func ParseInterfaceArgs(face interface{}, args ...string) ([]string, error) {
	if face != nil && reflect.ValueOf(face).Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	t := reflect.TypeOf(face)
	v := reflect.ValueOf(face)

	for i := 0; i < t.NumField(); i++ {
		f, err := parseFlag(t.Field(i).Tag)
		if err != nil {
			// Recursively iterate through embedded structures
			if v.Field(i).Kind() == reflect.Struct {
				structArgs, err := ParseInterfaceArgs(v.Field(i).Interface())
				if err != nil {
					return nil, err
				}
				args = append(args, structArgs...)
			}
			continue
		}

		field := v.Field(i)

		switch field.Kind() {
		case reflect.Ptr:
			if field.IsNil() {
				continue
			}

			value := fmt.Sprintf("%d", reflect.Indirect(field).Int())
			args = append(args, f.flag)
			if value != f.omitvalueif {
				args = append(args, value)
			}

		case reflect.Bool:
			if field.Bool() {
				args = append(args, f.flag)
			}

		case reflect.Int:
			if field.Int() == 0 {
				continue
			}

			args = append(args, f.flag, fmt.Sprintf("%d", field.Int()))

		case reflect.String:
			if field.Len() == 0 {
				continue
			}

			args = append(args, f.flag, field.String())

		case reflect.Slice:
			for j := 0; j < field.Len(); j++ {
				var str string
				switch item := field.Index(j).Interface().(type) {
				case string:
					str = item
				case fmt.Stringer:
					str = item.String()
				}

				if len(str) == 0 {
					continue
				}

				args = append(args, f.flag, str)
			}

		default:
			if !field.CanInterface() {
				continue
			}

			value, ok := field.Interface().(fmt.Stringer)
			if !ok {
				continue
			}

			if str := value.String(); len(str) > 0 {
				args = append(args, f.flag, str)
			}
		}
	}

	return args, nil
}
