// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package gvr is the catalog of resource kinds the helper reads, creates or
// deletes, addressed by GroupVersionResource for the dynamic client.
package gvr

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// OLM resources driving the operator install lifecycle.
var (
	CatalogSources = schema.GroupVersionResource{
		Group: "operators.coreos.com", Version: "v1alpha1", Resource: "catalogsources",
	}
	Subscriptions = schema.GroupVersionResource{
		Group: "operators.coreos.com", Version: "v1alpha1", Resource: "subscriptions",
	}
	InstallPlans = schema.GroupVersionResource{
		Group: "operators.coreos.com", Version: "v1alpha1", Resource: "installplans",
	}
	ClusterServiceVersions = schema.GroupVersionResource{
		Group: "operators.coreos.com", Version: "v1alpha1", Resource: "clusterserviceversions",
	}
	OperatorGroups = schema.GroupVersionResource{
		Group: "operators.coreos.com", Version: "v1", Resource: "operatorgroups",
	}
)

// Data-science platform resources.
var (
	DSCInitializations = schema.GroupVersionResource{
		Group: "dscinitialization.opendatahub.io", Version: "v1", Resource: "dscinitializations",
	}
	DataScienceClusters = schema.GroupVersionResource{
		Group: "datasciencecluster.opendatahub.io", Version: "v1", Resource: "datascienceclusters",
	}
	AcceleratorProfiles = schema.GroupVersionResource{
		Group: "dashboard.opendatahub.io", Version: "v1", Resource: "acceleratorprofiles",
	}
	HardwareProfiles = schema.GroupVersionResource{
		Group: "infrastructure.opendatahub.io", Version: "v1alpha1", Resource: "hardwareprofiles",
	}
	Notebooks = schema.GroupVersionResource{
		Group: "kubeflow.org", Version: "v1", Resource: "notebooks",
	}
	ServingRuntimes = schema.GroupVersionResource{
		Group: "serving.kserve.io", Version: "v1alpha1", Resource: "servingruntimes",
	}
	InferenceServices = schema.GroupVersionResource{
		Group: "serving.kserve.io", Version: "v1beta1", Resource: "inferenceservices",
	}
)

// Cluster-scoped plumbing.
var (
	CustomResourceDefinitions = schema.GroupVersionResource{
		Group: "apiextensions.k8s.io", Version: "v1", Resource: "customresourcedefinitions",
	}
	Namespaces = schema.GroupVersionResource{
		Version: "v1", Resource: "namespaces",
	}
	ConfigMaps = schema.GroupVersionResource{
		Version: "v1", Resource: "configmaps",
	}
)

// catalog maps the short kind name accepted on the CLI to its GVR.
var catalog = map[string]schema.GroupVersionResource{
	"catalogsources":            CatalogSources,
	"subscriptions":             Subscriptions,
	"installplans":              InstallPlans,
	"clusterserviceversions":    ClusterServiceVersions,
	"operatorgroups":            OperatorGroups,
	"dscinitializations":        DSCInitializations,
	"datascienceclusters":       DataScienceClusters,
	"acceleratorprofiles":       AcceleratorProfiles,
	"hardwareprofiles":          HardwareProfiles,
	"notebooks":                 Notebooks,
	"servingruntimes":           ServingRuntimes,
	"inferenceservices":         InferenceServices,
	"customresourcedefinitions": CustomResourceDefinitions,
	"namespaces":                Namespaces,
	"configmaps":                ConfigMaps,
}

// clusterScoped marks catalog entries that are not namespaced.
var clusterScoped = map[string]bool{
	"clusterserviceversions":    false,
	"customresourcedefinitions": true,
	"namespaces":                true,
	"dscinitializations":        true,
	"datascienceclusters":       true,
}

// Lookup resolves a short kind name to its GVR.
func Lookup(kind string) (schema.GroupVersionResource, bool) {
	res, ok := catalog[kind]
	return res, ok
}

// IsClusterScoped reports whether the catalog kind is cluster-scoped.
func IsClusterScoped(kind string) bool {
	return clusterScoped[kind]
}

// Names returns the catalog kind names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maxSuggestDistance bounds how far a typo may be from a catalog name to
// still produce a suggestion.
const maxSuggestDistance = 5

// Suggest returns the catalog kind closest to the given (unknown) name, for
// "did you mean" hints on CLI typos. Returns false when nothing is close.
func Suggest(kind string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, name := range Names() {
		if d := levenshtein.ComputeDistance(kind, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, best != ""
}
