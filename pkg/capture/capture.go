// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/header"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/client"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/serializer"
)

// Phases a capture can be taken in.
const (
	PhasePre  = "pre"
	PhasePost = "post"
)

// DefaultKinds is the resource catalog a capture exports when no explicit
// kind filter is given, in export order.
var DefaultKinds = []string{
	"catalogsources",
	"subscriptions",
	"installplans",
	"operatorgroups",
	"clusterserviceversions",
	"dscinitializations",
	"datascienceclusters",
	"acceleratorprofiles",
	"hardwareprofiles",
	"notebooks",
	"servingruntimes",
	"inferenceservices",
	"configmaps",
	"namespaces",
	"customresourcedefinitions",
}

// Config scopes one capture run.
type Config struct {
	// Phase is "pre" or "post".
	Phase string
	// Dir is the output directory, created if missing.
	Dir string
	// Format selects yaml or json output.
	Format serializer.Format
	// Kinds filters the exported catalog; empty means DefaultKinds.
	Kinds []string
	// OperatorNamespace holds the OLM resources.
	OperatorNamespace string
	// ApplicationsNamespace holds the platform workloads and ConfigMaps.
	ApplicationsNamespace string
}

// FileEntry is one exported file in the capture manifest.
type FileEntry struct {
	Kind  string `json:"kind" yaml:"kind"`
	Path  string `json:"path" yaml:"path"`
	Count int    `json:"count" yaml:"count"`
}

// Manifest identifies a capture run and lists what it exported.
type Manifest struct {
	Header *header.Header `json:"header" yaml:"header"`
	Files  []FileEntry    `json:"files" yaml:"files"`
}

// RunID returns the unique id stamped on the capture.
func (m *Manifest) RunID() string {
	return m.Header.GetMetadata()["runID"]
}

// Capturer exports cluster state for one cluster.
type Capturer struct {
	clients *client.Clients
	config  Config
}

// New creates a Capturer, validating the phase and the kind filter. Unknown
// kinds are rejected with a closest-match hint.
func New(clients *client.Clients, cfg Config) (*Capturer, error) {
	if cfg.Phase != PhasePre && cfg.Phase != PhasePost {
		return nil, hwperrors.New(hwperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("phase must be %q or %q, got %q", PhasePre, PhasePost, cfg.Phase))
	}
	if cfg.Dir == "" {
		cfg.Dir = "captures"
	}
	if cfg.Format.IsUnknown() {
		cfg.Format = serializer.FormatYAML
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = DefaultKinds
	}
	for _, kind := range cfg.Kinds {
		if _, ok := gvr.Lookup(kind); !ok {
			msg := fmt.Sprintf("unknown kind %q", kind)
			if suggestion, ok := gvr.Suggest(kind); ok {
				msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
			}
			return nil, hwperrors.New(hwperrors.ErrCodeInvalidRequest, msg)
		}
	}
	return &Capturer{clients: clients, config: cfg}, nil
}

// Run exports each configured kind to <dir>/<phase>-<kind>.<ext> and writes
// the manifest to <dir>/<phase>-manifest.<ext>. Kinds are exported one at a
// time; a list failure aborts the run.
func (c *Capturer) Run(ctx context.Context) (*Manifest, error) {
	start := time.Now()

	if err := os.MkdirAll(c.config.Dir, 0o755); err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create capture directory %s", c.config.Dir), err)
	}

	manifest := &Manifest{
		Header: header.New(
			header.WithKind(header.KindCapture),
			header.WithMetadata("runID", uuid.NewString()),
			header.WithMetadata("phase", c.config.Phase),
			header.WithMetadata("clusterVersion", c.clients.ServerVersion()),
		),
	}

	for _, kind := range c.config.Kinds {
		entry, err := c.exportKind(ctx, kind)
		if err != nil {
			return nil, err
		}
		manifest.Files = append(manifest.Files, entry)
		resourcesExported.WithLabelValues(kind).Add(float64(entry.Count))
	}

	manifestPath := filepath.Join(c.config.Dir,
		fmt.Sprintf("%s-manifest.%s", c.config.Phase, c.config.Format.Extension()))
	if err := c.writeFile(manifestPath, manifest); err != nil {
		return nil, err
	}

	captureDuration.Observe(time.Since(start).Seconds())
	slog.Info("capture complete",
		"phase", c.config.Phase, "dir", c.config.Dir,
		"kinds", len(manifest.Files), "runID", manifest.RunID())
	return manifest, nil
}

// exportKind lists one kind, bounded, and writes its items to the phase file.
func (c *Capturer) exportKind(ctx context.Context, kind string) (FileEntry, error) {
	resource, _ := gvr.Lookup(kind)

	listCtx, cancel := context.WithTimeout(ctx, defaults.CaptureListTimeout)
	defer cancel()

	var list *unstructured.UnstructuredList
	var err error
	if namespace := c.namespaceFor(kind); namespace != "" {
		list, err = c.clients.Dynamic.Resource(resource).Namespace(namespace).
			List(listCtx, metav1.ListOptions{})
	} else {
		list, err = c.clients.Dynamic.Resource(resource).List(listCtx, metav1.ListOptions{})
	}
	if err != nil {
		return FileEntry{}, hwperrors.Wrap(hwperrors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to list %s", kind), err)
	}

	items := c.filterClusterScoped(kind, list.Items)

	// Raw object maps serialize cleanly in both formats.
	bodies := make([]map[string]any, 0, len(items))
	for _, item := range items {
		bodies = append(bodies, item.Object)
	}

	path := filepath.Join(c.config.Dir,
		fmt.Sprintf("%s-%s.%s", c.config.Phase, kind, c.config.Format.Extension()))
	if err := c.writeFile(path, bodies); err != nil {
		return FileEntry{}, err
	}

	slog.Info("kind exported", "kind", kind, "count", len(items), "path", path)
	return FileEntry{Kind: kind, Path: path, Count: len(items)}, nil
}

// namespaceFor maps a catalog kind to the namespace it is captured from.
// Cluster-scoped kinds return empty.
func (c *Capturer) namespaceFor(kind string) string {
	if gvr.IsClusterScoped(kind) {
		return ""
	}
	switch kind {
	case "catalogsources":
		return "openshift-marketplace"
	case "subscriptions", "installplans", "operatorgroups", "clusterserviceversions":
		return c.config.OperatorNamespace
	default:
		return c.config.ApplicationsNamespace
	}
}

// filterClusterScoped trims cluster-wide listings down to the entries the
// migration cares about: the helper's namespaces and the platform CRDs.
func (c *Capturer) filterClusterScoped(kind string, items []unstructured.Unstructured) []unstructured.Unstructured {
	switch kind {
	case "namespaces":
		var out []unstructured.Unstructured
		for _, item := range items {
			name := item.GetName()
			if name == c.config.OperatorNamespace || name == c.config.ApplicationsNamespace {
				out = append(out, item)
			}
		}
		return out
	case "customresourcedefinitions":
		var out []unstructured.Unstructured
		for _, item := range items {
			name := item.GetName()
			if strings.Contains(name, "opendatahub.io") || strings.Contains(name, "kserve.io") {
				out = append(out, item)
			}
		}
		return out
	default:
		return items
	}
}

func (c *Capturer) writeFile(path string, v any) error {
	w, err := serializer.NewFileWriter(c.config.Format, path)
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("failed to create capture file %s", path), err)
	}
	defer w.Close()

	if err := w.Serialize(v); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("failed to write capture file %s", path), err)
	}
	return w.Close()
}
