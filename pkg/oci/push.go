// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

// ArtifactType identifies pushed capture bundles. Consumers that do not
// understand it should treat the artifact as a non-executable blob.
const ArtifactType = "application/vnd.rhoai.hwp-migration.capture"

// PushOptions configures one capture push.
type PushOptions struct {
	// SourceDir is the capture directory to push.
	SourceDir string
	// Reference is the registry coordinate; must be OCI with a tag.
	Reference *Reference
	// Annotations are added to the artifact manifest (run id, phase).
	Annotations map[string]string
	// PlainHTTP uses HTTP for the registry connection, for local registries.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult reports where the capture landed.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push packages a capture directory as a single-layer OCI artifact and
// copies it to the remote repository. Docker credential helpers provide
// authentication.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || !opts.Reference.IsOCI {
		return nil, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			"push requires an oci:// target")
	}
	if opts.Reference.Tag == "" {
		return nil, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			"push requires a tagged oci:// target")
	}

	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			"failed to resolve capture directory", err)
	}

	pushCtx, cancel := context.WithTimeout(ctx, defaults.CapturePushTimeout)
	defer cancel()

	fs, err := file.New(sourceDir)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			"failed to open capture directory as file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(pushCtx, ".", ociv1.MediaTypeImageLayerGzip, sourceDir)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			"failed to stage capture directory", err)
	}

	annotations := map[string]string{
		ociv1.AnnotationCreated: time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range opts.Annotations {
		annotations[k] = v
	}

	manifest, err := oras.PackManifest(pushCtx, fs, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers:              []ociv1.Descriptor{layer},
			ManifestAnnotations: annotations,
		})
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(pushCtx, manifest, opts.Reference.Tag); err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	repo, err := remote.NewRepository(
		fmt.Sprintf("%s/%s", opts.Reference.Registry, opts.Reference.Repository))
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInvalidRequest,
			"failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = newAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(pushCtx, fs, opts.Reference.Tag, repo, opts.Reference.Tag,
		oras.DefaultCopyOptions)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("failed to push capture to %s", opts.Reference), err)
	}

	return &PushResult{
		Digest: desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s",
			opts.Reference.Registry, opts.Reference.Repository, opts.Reference.Tag),
	}, nil
}

// newAuthClient builds the registry HTTP client with Docker credential
// support and optional TLS relaxation.
func newAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
