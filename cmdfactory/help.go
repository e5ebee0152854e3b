// SPDX-License-Identifier: MIT
// Copyright (c) 2019 GitHub Inc.
// Copyright (c) 2022 Unikraft GmbH.
package cmdfactory

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rel4kit.sh/iostreams"
)

const (
	// AnnotationHelpGroup names the cobra.Group, by ID, a subcommand is listed
	// under.
	AnnotationHelpGroup = "help:group"

	// AnnotationHelpHidden keeps a subcommand out of the help output.
	AnnotationHelpHidden = "help:hidden"
)

// helpSection is one titled block of the help output.  Sections with an empty
// body are not printed.
type helpSection struct {
	title string
	body  string
}

func listed(c *cobra.Command) bool {
	_, hidden := c.Annotations[AnnotationHelpHidden]
	return c.Short != "" && !hidden
}

// commandSections lists the subcommands of cmd under the title of their help
// group, in the order the groups were added.  Subcommands without a known group
// go under COMMANDS.
func commandSections(cmd *cobra.Command) []helpSection {
	pad := 0
	for _, c := range cmd.Commands() {
		if listed(c) {
			pad = max(pad, len(c.Name()))
		}
	}

	grouped := map[string][]string{}
	for _, g := range cmd.Groups() {
		grouped[g.ID] = []string{}
	}

	var other []string
	for _, c := range cmd.Commands() {
		if !listed(c) {
			continue
		}

		line := fmt.Sprintf("%-*s  %s", pad, c.Name(), c.Short)
		if lines, ok := grouped[c.Annotations[AnnotationHelpGroup]]; ok {
			grouped[c.Annotations[AnnotationHelpGroup]] = append(lines, line)
		} else {
			other = append(other, line)
		}
	}

	sections := make([]helpSection, 0, len(cmd.Groups())+1)
	for _, g := range cmd.Groups() {
		sections = append(sections, helpSection{g.Title, strings.Join(grouped[g.ID], "\n")})
	}

	return append(sections, helpSection{"COMMANDS", strings.Join(other, "\n")})
}

func rootHelpFunc(cmd *cobra.Command, _ []string) {
	long := cmd.Long
	if long == "" {
		long = cmd.Short
	}

	sections := []helpSection{
		{"", long},
		{"USAGE", cmd.UseLine()},
	}
	sections = append(sections, commandSections(cmd)...)
	sections = append(sections,
		helpSection{"FLAGS", dedent(cmd.LocalFlags().FlagUsages())},
		helpSection{"GLOBAL FLAGS", dedent(cmd.InheritedFlags().FlagUsages())},
		helpSection{"EXAMPLES", cmd.Example},
	)

	out := iostreams.G(cmd.Context()).Out
	cs := iostreams.G(cmd.Context()).ColorScheme()

	for _, s := range sections {
		body := strings.Trim(s.body, "\r\n")
		if body == "" {
			continue
		}

		if s.title != "" {
			fmt.Fprintln(out, cs.Bold(s.title))
			body = indent(body, "  ")
		}

		fmt.Fprintf(out, "%s\n\n", body)
	}
}

func rootUsageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage:  %s\n", cmd.UseLine())

	if flags := cmd.LocalFlags().FlagUsagesWrapped(80); flags != "" {
		cmd.Printf("\nFlags:\n%s\n", indent(dedent(flags), "  "))
	}

	return nil
}

func rootFlagErrorFunc(_ *cobra.Command, err error) error {
	if err == pflag.ErrHelp {
		return err
	}
	return FlagErrorWrap(err)
}

// indent prefixes every non-empty line of s with pad.
func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if len(l) > 0 {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// dedent strips the indentation shared by every non-empty line of s.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	common := -1
	for _, l := range lines {
		if len(l) == 0 {
			continue
		}
		if n := len(l) - len(strings.TrimLeft(l, " ")); common == -1 || n < common {
			common = n
		}
	}

	if common <= 0 {
		return s
	}

	for i, l := range lines {
		if len(l) > 0 {
			lines[i] = l[common:]
		}
	}
	return strings.Join(lines, "\n")
}
