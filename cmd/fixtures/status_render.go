package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const ansiReset = "\x1b[0m"

// statusLine is one labelled row of a doctor section.
type statusLine struct {
	label   string
	kind    statusKind
	message string
}

// statusSection renders a titled block whose labels share one column width.
type statusSection struct {
	title string
	lines []statusLine
}

func (s *statusSection) add(label string, kind statusKind, message string) {
	s.lines = append(s.lines, statusLine{label: label, kind: kind, message: message})
}

// worst returns the most severe kind in the section.
func (s *statusSection) worst() statusKind {
	worst := statusInfo
	for _, line := range s.lines {
		if line.kind > worst {
			worst = line.kind
		}
	}
	return worst
}

func (s *statusSection) render(colorize bool) []string {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(s.title))
	out := []string{paint(header, statusInfo, colorize), paint(strings.Repeat("-", utf8.RuneCountInString(header)), statusInfo, colorize)}

	width := 0
	for _, line := range s.lines {
		width = max(width, utf8.RuneCountInString(line.label)+1)
	}
	for _, line := range s.lines {
		text := fmt.Sprintf("[%s]", statusStyles[line.kind].label)
		if line.message != "" {
			text += " " + line.message
		}
		out = append(out, paint(fmt.Sprintf("  %-*s %s", width, line.label+":", text), line.kind, colorize))
	}
	return out
}

func paint(text string, kind statusKind, colorize bool) string {
	if !colorize {
		return text
	}
	return statusStyles[kind].color + text + ansiReset
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
