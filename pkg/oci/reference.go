// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

// URIScheme marks a push target as an OCI registry reference.
const URIScheme = "oci://"

// Reference is a parsed push target: either a registry coordinate or a local
// directory.
type Reference struct {
	// IsOCI is true for registry references, false for local paths.
	IsOCI bool
	// Registry is the registry host, e.g. "quay.io". OCI only.
	Registry string
	// Repository is the repository path, e.g. "myorg/hwp-captures". OCI only.
	Repository string
	// Tag is the image tag; empty means the caller applies a default. OCI only.
	Tag string
	// LocalPath is the directory path for non-OCI targets.
	LocalPath string
}

// ParseTarget classifies a target string. oci:// URIs are parsed and
// validated as image references; everything else is a local path.
func ParseTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	named, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid OCI reference %q", target), err)
	}

	ref := &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
	}
	if tagged, ok := named.(reference.Tagged); ok {
		ref.Tag = tagged.Tag()
	}
	return ref, nil
}

// String renders the reference back to its target form.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}
