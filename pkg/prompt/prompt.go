// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package prompt is the interactive confirmation gate in front of
// destructive commands: a yes/no question and an enumerated choice, both
// requiring a real terminal unless the gate is bypassed with --yes.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

// Prompter reads confirmations from the operator.
type Prompter struct {
	in         *bufio.Reader
	out        io.Writer
	assumeYes  bool
	isTerminal func() bool
}

// New creates a Prompter over stdin/stderr. With assumeYes every question is
// answered positively without touching the terminal.
func New(assumeYes bool) *Prompter {
	return &Prompter{
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stderr,
		assumeYes: assumeYes,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// newForTest wires the prompter to in-memory streams.
func newForTest(in io.Reader, out io.Writer, assumeYes bool, isTerminal func() bool) *Prompter {
	return &Prompter{
		in:         bufio.NewReader(in),
		out:        out,
		assumeYes:  assumeYes,
		isTerminal: isTerminal,
	}
}

// Confirm asks a yes/no question and reports the answer. Only "y" and "yes"
// (case-insensitive) confirm; everything else declines.
func (p *Prompter) Confirm(question string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if !p.isTerminal() {
		return false, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			"confirmation requires a terminal; pass --yes to proceed non-interactively")
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to read answer", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose presents numbered options and returns the index of the selected
// one. With assumeYes the first option is selected.
func (p *Prompter) Choose(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, hwperrors.New(hwperrors.ErrCodeInvalidRequest, "no options to choose from")
	}
	if p.assumeYes {
		return 0, nil
	}
	if !p.isTerminal() {
		return 0, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			"choice requires a terminal; pass --yes to accept the default")
	}

	fmt.Fprintln(p.out, question)
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintf(p.out, "selection [1-%d]: ", len(options))

	answer, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to read selection", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(options) {
		return 0, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("selection must be a number between 1 and %d", len(options)))
	}
	return n - 1, nil
}
