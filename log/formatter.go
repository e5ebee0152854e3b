// SPDX-License-Identifier: MIT
// Copyright (c) 2017, Denis Parchenko.
// Copyright (c) 2022, Unikraft GmbH. All rights reserved.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// StepField is the entry field rendered as a prefix before the message, e.g.
// "native" or "meta" while a toolchain step is running.
const StepField = "step"

type renderFunc func(...string) string

func badge(bg string) renderFunc {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "0"}).
		Render
}

var plain = lipgloss.NewStyle().Render

type ColorScheme struct {
	Levels map[logrus.Level]renderFunc
	Step   renderFunc
}

var (
	defaultColorScheme = &ColorScheme{
		Levels: map[logrus.Level]renderFunc{
			logrus.TraceLevel: badge("0"),
			logrus.DebugLevel: badge("12"),
			logrus.InfoLevel:  badge("8"),
			logrus.WarnLevel:  badge("11"),
			logrus.ErrorLevel: badge("9"),
			logrus.FatalLevel: badge("9"),
			logrus.PanicLevel: badge("9"),
		},
		Step: badge("8"),
	}
	noColorsColorScheme = &ColorScheme{
		Levels: map[logrus.Level]renderFunc{},
		Step:   plain,
	}
)

var levelGlyphs = map[logrus.Level]string{
	logrus.TraceLevel: "T",
	logrus.DebugLevel: "D",
	logrus.InfoLevel:  "i",
	logrus.WarnLevel:  "W",
	logrus.ErrorLevel: "E",
	logrus.FatalLevel: "!",
	logrus.PanicLevel: "X",
}

// TextFormatter renders entries as a single line consisting of a level badge,
// an optional timestamp, the step prefix, the message and the sorted fields.
// When the output is not a terminal, and formatting is not forced, entries are
// rendered as logfmt-style key/value pairs.
type TextFormatter struct {
	// Set to true to bypass checking for a TTY before outputting colors.
	ForceColors bool

	// Force disabling colors.
	DisableColors bool

	// Force formatted layout, even for non-TTY output.
	ForceFormatting bool

	// Disable timestamp logging.
	DisableTimestamp bool

	// Timestamp format to use, defaults to time.Kitchen.
	TimestampFormat string

	colorScheme *ColorScheme
	isTerminal  bool

	sync.Once
}

func (f *TextFormatter) init(entry *logrus.Entry) {
	if entry.Logger == nil {
		return
	}

	if file, ok := entry.Logger.Out.(*os.File); ok {
		f.isTerminal = term.IsTerminal(int(file.Fd()))
	}
}

// SetColorScheme overrides the default color scheme.
func (f *TextFormatter) SetColorScheme(colorScheme *ColorScheme) {
	f.colorScheme = colorScheme
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	f.Do(func() { f.init(entry) })

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == StepField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = time.Kitchen
	}

	if f.ForceFormatting || f.isTerminal {
		scheme := noColorsColorScheme
		if (f.ForceColors || f.isTerminal) && !f.DisableColors {
			scheme = defaultColorScheme
			if f.colorScheme != nil {
				scheme = f.colorScheme
			}
		}
		f.printFormatted(b, entry, keys, timestampFormat, scheme)
	} else {
		f.printKeyValues(b, entry, keys, timestampFormat)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) printFormatted(b *bytes.Buffer, entry *logrus.Entry, keys []string, timestampFormat string, scheme *ColorScheme) {
	render, ok := scheme.Levels[entry.Level]
	if !ok {
		render = plain
	}

	fmt.Fprint(b, render(" "+levelGlyphs[entry.Level]+" "))

	if !f.DisableTimestamp {
		fmt.Fprintf(b, " %s", entry.Time.Format(timestampFormat))
	}

	if step, ok := entry.Data[StepField]; ok {
		fmt.Fprint(b, scheme.Step(fmt.Sprintf(" %v:", step)))
	}

	fmt.Fprintf(b, " %s", entry.Message)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%+v", render(k), entry.Data[k])
	}
}

func (f *TextFormatter) printKeyValues(b *bytes.Buffer, entry *logrus.Entry, keys []string, timestampFormat string) {
	if !f.DisableTimestamp {
		appendKeyValue(b, "time", entry.Time.Format(timestampFormat))
	}

	appendKeyValue(b, "level", entry.Level.String())

	if step, ok := entry.Data[StepField]; ok {
		appendKeyValue(b, StepField, step)
	}

	if entry.Message != "" {
		appendKeyValue(b, "msg", entry.Message)
	}

	for _, k := range keys {
		appendKeyValue(b, k, entry.Data[k])
	}

	// Drop the trailing separator
	if b.Len() > 0 {
		b.Truncate(b.Len() - 1)
	}
}

func needsQuoting(text string) bool {
	if len(text) == 0 {
		return true
	}

	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '/' || ch == '_') {
			return true
		}
	}

	return false
}

func appendKeyValue(b *bytes.Buffer, key string, value interface{}) {
	b.WriteString(key)
	b.WriteByte('=')

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case error:
		str = v.Error()
	default:
		fmt.Fprint(b, v)
		b.WriteByte(' ')
		return
	}

	if needsQuoting(str) {
		fmt.Fprintf(b, "%q", str)
	} else {
		b.WriteString(str)
	}

	b.WriteByte(' ')
}

// New returns a logger entry configured after the given logger type, level and
// timestamp preference, writing to out.
func New(out io.Writer, t LoggerType, level logrus.Level, timestamps bool) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch t {
	case QUIET:
		logger.SetLevel(logrus.ErrorLevel)
		logger.Formatter = &TextFormatter{DisableTimestamp: true}

	case BASIC:
		logger.Formatter = &TextFormatter{
			DisableTimestamp: !timestamps,
			DisableColors:    true,
			ForceFormatting:  true,
		}

	case FANCY:
		logger.Formatter = &TextFormatter{
			DisableTimestamp: !timestamps,
		}

	case JSON:
		logger.Formatter = &logrus.JSONFormatter{
			DisableTimestamp: !timestamps,
		}
	}

	return logrus.NewEntry(logger)
}
