// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Acorn Labs, Inc; All rights reserved.
// Copyright 2022 Unikraft GmbH; All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
package cmdfactory

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rel4kit.sh/internal/errs"
	"rel4kit.sh/log"
)

var caseRegexp = regexp.MustCompile("([a-z])([A-Z])")

type PersistentPreRunnable interface {
	PersistentPre(cmd *cobra.Command, args []string) error
}

type PreRunnable interface {
	Pre(cmd *cobra.Command, args []string) error
}

type Runnable interface {
	Run(ctx context.Context, args []string) error
}

type fieldInfo struct {
	FieldType  reflect.StructField
	FieldValue reflect.Value
}

func fields(obj any) []fieldInfo {
	objValue := reflect.ValueOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
	}

	var result []fieldInfo

	for i := 0; i < objValue.NumField(); i++ {
		fieldType := objValue.Type().Field(i)
		if fieldType.Anonymous && fieldType.Type.Kind() == reflect.Struct {
			result = append(result, fields(objValue.Field(i).Addr().Interface())...)
		} else if !fieldType.Anonymous {
			result = append(result, fieldInfo{
				FieldValue: objValue.Field(i),
				FieldType:  fieldType,
			})
		}
	}

	return result
}

func Name(obj any) string {
	objValue := reflect.ValueOf(obj).Elem()
	commandName := strings.Replace(objValue.Type().Name(), "Command", "", 1)
	commandName, _ = name(commandName, "", "")
	return commandName
}

// Main executes the given command and returns the status the process should
// exit with.
func Main(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.G(ctx).Error(err)
		return errs.ExitCode(err)
	}

	return 0
}

// AttributeFlags associates a given struct with public attributes and a set of
// tags with the provided cobra command so as to enable dynamic population of
// CLI flags.
//
// Supported tags are `long`, `short`, `usage`, `default`, `env`, `local`,
// `hidden` and `noattribute`.  Fields which implement pflag.Value are
// registered as-is.  The value of a flag is seeded, in increasing order of
// precedence, from its `default` tag, the current value of the field and the
// environment variable named by its `env` tag.
func AttributeFlags(c *cobra.Command, obj any) error {
	for _, info := range fields(obj) {
		fieldType := info.FieldType
		v := info.FieldValue

		if !fieldType.IsExported() {
			continue
		}

		// Any structure attribute which has the tag `noattribute:"true"` is skipped
		if fieldType.Tag.Get("noattribute") == "true" {
			continue
		}

		if fieldType.Type.Kind() == reflect.Struct && !implementsValue(v) {
			// Recursively set nested structs
			if err := AttributeFlags(c, v.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		name, alias := name(fieldType.Name, fieldType.Tag.Get("long"), fieldType.Tag.Get("short"))
		usage := fieldType.Tag.Get("usage")
		defValue := fieldType.Tag.Get("default")

		strValue := defValue
		if value, ok := v.Interface().(pflag.Value); ok && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				continue
			}
			if defValue == "" {
				strValue = value.String()
			}
		} else if !v.IsZero() {
			strValue = fmt.Sprint(v.Interface())
		}

		// The environment takes precedence over the value which would otherwise
		// come from a configuration file.
		if envName := fieldType.Tag.Get("env"); envName != "" {
			if envValue := os.Getenv(envName); envValue != "" {
				strValue = envValue
			}
		}

		flags := c.PersistentFlags()
		if fieldType.Tag.Get("local") == "true" {
			flags = c.Flags()
		}

		target := v.Addr().Interface()
		if _, ok := v.Interface().(pflag.Value); ok && v.Kind() == reflect.Ptr {
			target = v.Interface()
		}

		switch ptr := target.(type) {
		case pflag.Value:
			flags.VarP(ptr, name, alias, usage)
		case *string:
			flags.StringVarP(ptr, name, alias, defValue, usage)
		case *bool:
			flags.BoolVarP(ptr, name, alias, false, usage)
		case *int:
			flags.IntVarP(ptr, name, alias, 0, usage)
		case *[]string:
			flags.StringSliceVarP(ptr, name, alias, *ptr, usage)
		default:
			continue
		}

		if strValue != "" {
			if err := flags.Set(name, strValue); err != nil {
				return fmt.Errorf("could not set default of --%s: %w", name, err)
			}

			// Seeding is not a user change
			flag := flags.Lookup(name)
			flag.DefValue = flag.Value.String()
			flag.Changed = false
		}

		if fieldType.Tag.Get("hidden") == "true" {
			if err := flags.MarkHidden(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func implementsValue(v reflect.Value) bool {
	if !v.CanAddr() {
		return false
	}

	_, ok := v.Addr().Interface().(pflag.Value)
	return ok
}

// New populates a cobra.Command object by extracting args from struct tags of the
// Runnable obj passed.  Also the Run method is assigned to the RunE of the command.
func New(obj Runnable, cmd cobra.Command) (*cobra.Command, error) {
	c := cmd
	if c.Use == "" {
		c.Use = fmt.Sprintf("%s [FLAGS]", Name(obj))
	}

	if p, ok := obj.(PersistentPreRunnable); ok {
		c.PersistentPreRunE = p.PersistentPre
	}

	if p, ok := obj.(PreRunnable); ok {
		c.PreRunE = p.Pre
	}

	c.SilenceErrors = true
	c.SilenceUsage = true
	c.DisableFlagsInUseLine = true
	c.CompletionOptions.DisableDefaultCmd = true
	c.InitDefaultHelpFlag()

	if obj != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return obj.Run(cmd.Context(), args)
		}

		// Parse the attributes of this object into addressable flags for this command
		if err := AttributeFlags(&c, obj); err != nil {
			return nil, err
		}
	}

	// Set help and usage methods
	c.SetHelpFunc(rootHelpFunc)
	c.SetUsageFunc(rootUsageFunc)
	c.SetFlagErrorFunc(rootFlagErrorFunc)

	return &c, nil
}

func name(name, setName, short string) (string, string) {
	if setName != "" {
		return setName, short
	}
	parts := strings.Split(name, "_")
	i := len(parts) - 1
	name = caseRegexp.ReplaceAllString(parts[i], "$1-$2")
	name = strings.ToLower(name)
	result := append([]string{name}, parts[0:i]...)
	for i := 0; i < len(result); i++ {
		result[i] = strings.ToLower(result[i])
	}
	if short == "" && len(result) > 1 {
		short = result[1]
	}
	return result[0], short
}
