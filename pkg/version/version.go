// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package version parses and compares the operator version strings embedded
// in ClusterServiceVersion names and Subscription channels (e.g. "2.16.0",
// "v3.0", "fast-3"). Comparisons are used to refuse downgrades during the
// upgrade command.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is a semantic version with up to three significant components.
// Precision records how many components were present in the source string so
// that "3" and "3.0.0" compare equal but round-trip faithfully. Extras keeps
// any build suffix (e.g. "-rc1") without participating in ordering.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	Precision int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Extras    string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// Parse parses a version string such as "2.16.0", "v3.0" or "3.0.0-rc1".
// A leading "v" is tolerated; anything after the first "-" or "+" is kept
// verbatim in Extras.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	var extras string
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		extras = s[i:]
		s = s[:i]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrTooManyComponents, s)
	}

	v := Version{Precision: len(parts), Extras: extras}
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		*dst[i] = n
	}

	return v, nil
}

// String renders the version at its recorded precision, with Extras appended.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", v.Major)
	if v.Precision >= 2 {
		fmt.Fprintf(&b, ".%d", v.Minor)
	}
	if v.Precision >= 3 {
		fmt.Fprintf(&b, ".%d", v.Patch)
	}
	b.WriteString(v.Extras)
	return b.String()
}

// Compare returns -1, 0 or 1 ordering v against other. Missing components
// compare as zero; Extras is ignored.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is greater than or equal to other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// FromCSVName extracts the version from a ClusterServiceVersion name of the
// form "<operator>.v<version>" (e.g. "rhods-operator.2.16.0" or
// "rhods-operator.v3.0.0"). The whole name is tried as a fallback so plain
// version strings also parse.
func FromCSVName(name string) (Version, error) {
	if i := strings.LastIndex(name, ".v"); i >= 0 {
		if v, err := Parse(name[i+2:]); err == nil {
			return v, nil
		}
	}
	for i := 0; i < len(name); i++ {
		if name[i] >= '0' && name[i] <= '9' && i > 0 && name[i-1] == '.' {
			return Parse(name[i:])
		}
	}
	return Parse(name)
}
