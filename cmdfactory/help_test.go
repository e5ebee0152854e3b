// SPDX-License-Identifier: MIT
// Copyright (c) 2019 GitHub Inc.
// Copyright (c) 2022 Unikraft GmbH.
package cmdfactory

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rel4kit.sh/iostreams"
)

type helpRootOptions struct {
	Verbose bool `long:"verbose" usage:"Talk more"`
}

func (*helpRootOptions) Run(context.Context, []string) error { return nil }

type helpSubOptions struct {
	CPUs int `long:"cpus" usage:"Number of cores" default:"1" local:"true"`
}

func (*helpSubOptions) Run(context.Context, []string) error { return nil }

func newHelpTree(t *testing.T) *cobra.Command {
	t.Helper()

	root, err := New(&helpRootOptions{}, cobra.Command{
		Use:   "rel4",
		Short: "Build reL4",
	})
	require.NoError(t, err)
	root.AddGroup(&cobra.Group{ID: "build", Title: "BUILD COMMANDS"})

	subs := []cobra.Command{
		{
			Use:         "build",
			Short:       "Build the kernel",
			Example:     "$ rel4 build --cpus 4",
			Annotations: map[string]string{AnnotationHelpGroup: "build"},
		},
		{
			Use:         "secret",
			Short:       "Not listed",
			Annotations: map[string]string{AnnotationHelpHidden: "true"},
		},
		{
			Use:   "version",
			Short: "Show the version",
		},
	}

	for _, sub := range subs {
		cmd, err := New(&helpSubOptions{}, sub)
		require.NoError(t, err)
		root.AddCommand(cmd)
	}

	return root
}

func renderHelp(t *testing.T, args ...string) string {
	t.Helper()

	ios, _, out, _ := iostreams.Test()
	cmd := newHelpTree(t)
	cmd.SetArgs(args)

	require.NoError(t, cmd.ExecuteContext(iostreams.WithIOStreams(context.Background(), ios)))

	return out.String()
}

func TestRootHelpGroupsCommands(t *testing.T) {
	help := renderHelp(t, "--help")

	assert.True(t, strings.HasPrefix(help, "Build reL4\n\nUSAGE\n  rel4\n\n"))
	assert.Contains(t, help, "BUILD COMMANDS\n  build    Build the kernel\n\n")
	assert.Contains(t, help, "COMMANDS\n  help     Help about any command\n  version  Show the version\n\n")
	assert.NotContains(t, help, "secret")
	assert.Contains(t, help, "FLAGS\n")
	assert.Contains(t, help, "--verbose")
	assert.NotContains(t, help, "GLOBAL FLAGS")

	assert.Less(t, strings.Index(help, "BUILD COMMANDS"), strings.Index(help, "\nCOMMANDS"))
	assert.Less(t, strings.Index(help, "\nCOMMANDS"), strings.Index(help, "FLAGS"))
}

func TestSubcommandHelp(t *testing.T) {
	help := renderHelp(t, "build", "--help")

	assert.True(t, strings.HasPrefix(help, "Build the kernel\n\nUSAGE\n  rel4 build\n\n"))
	assert.Contains(t, help, "--cpus")
	assert.Contains(t, help, "GLOBAL FLAGS\n")
	assert.Contains(t, help, "EXAMPLES\n  $ rel4 build --cpus 4\n\n")
	assert.Less(t, strings.Index(help, "--cpus"), strings.Index(help, "GLOBAL FLAGS"))
	assert.Greater(t, strings.Index(help, "--verbose"), strings.Index(help, "GLOBAL FLAGS"))
	assert.NotContains(t, help, "COMMANDS")
}

func TestDedent(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "common indent removed",
			in:   "  -c, --cpus int\n      --mcs",
			want: "-c, --cpus int\n    --mcs",
		},
		{
			name: "blank lines kept",
			in:   "    a\n\n      b\n",
			want: "a\n\n  b\n",
		},
		{
			name: "no indent",
			in:   "a\n  b",
			want: "a\n  b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dedent(tc.in))
		})
	}
}

func TestDirArg(t *testing.T) {
	assert.Equal(t, "kernel", DirArg([]string{"kernel"}, "."))
	assert.Equal(t, ".", DirArg(nil, "."))
	assert.Equal(t, "/crate", DirArg([]string{""}, "/crate"))
}
