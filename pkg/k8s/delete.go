// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package k8s

import (
	"context"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// Outcome classifies what a delete actually did.
type Outcome string

const (
	// OutcomeDeleted means the resource existed and the delete was accepted.
	OutcomeDeleted Outcome = "Deleted"
	// OutcomeAlreadyAbsent means there was nothing to delete.
	OutcomeAlreadyAbsent Outcome = "AlreadyAbsent"
	// OutcomeFailed means the delete was rejected. Advisory on secondary
	// resources: teardown continues past it.
	OutcomeFailed Outcome = "Failed"
	// OutcomeSkipped means a dry run did not attempt the delete.
	OutcomeSkipped Outcome = "Skipped"
)

// DeleteResult is one line of a teardown report.
type DeleteResult struct {
	Kind      string  `json:"kind" yaml:"kind"`
	Name      string  `json:"name" yaml:"name"`
	Namespace string  `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Outcome   Outcome `json:"outcome" yaml:"outcome"`
	Error     string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Delete removes one resource via the dynamic client and classifies the
// outcome instead of returning an error: absence is a result, not a failure.
func Delete(ctx context.Context, client dynamic.Interface, resource schema.GroupVersionResource, kind, namespace, name string) DeleteResult {
	result := DeleteResult{Kind: kind, Name: name, Namespace: namespace}

	var err error
	if namespace == "" {
		err = client.Resource(resource).Delete(ctx, name, metav1.DeleteOptions{})
	} else {
		err = client.Resource(resource).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	}

	switch {
	case err == nil:
		result.Outcome = OutcomeDeleted
		slog.Info("deleted", "kind", kind, "name", name, "namespace", namespace)
	case apierrors.IsNotFound(err):
		result.Outcome = OutcomeAlreadyAbsent
		slog.Info("already absent", "kind", kind, "name", name, "namespace", namespace)
	default:
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		slog.Warn("delete failed", "kind", kind, "name", name, "error", err)
	}
	return result
}
