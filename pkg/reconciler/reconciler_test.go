// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package reconciler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
	"k8s.io/utils/ptr"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

const testNamespace = "redhat-ods-applications"

func newNamespace() *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: testNamespace}}
}

func newConfigMap(annotations map[string]string, payload string) *corev1.ConfigMap {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:        DefaultConfigMapName,
			Namespace:   testNamespace,
			Annotations: annotations,
		},
	}
	if payload != "" {
		cm.Data = map[string]string{DefaultPayloadKey: payload}
	}
	return cm
}

// newController returns a kserve controller Deployment that reports ready
// immediately, so restart waits succeed without polling.
func newController() *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      DefaultDeployment,
			Namespace: testNamespace,
		},
		Spec: appsv1.DeploymentSpec{Replicas: ptr.To(int32(1))},
		Status: appsv1.DeploymentStatus{
			UpdatedReplicas:   1,
			AvailableReplicas: 1,
		},
	}
}

func newReconciler(clientset *fake.Clientset, cfg Config) *Reconciler {
	if cfg.Namespace == "" {
		cfg.Namespace = testNamespace
	}
	if cfg.RestartTimeout == 0 {
		cfg.RestartTimeout = 100 * time.Millisecond
	}
	return newWithWaiter(clientset, cfg, waiter.NewWithInterval(time.Millisecond))
}

// configMapPatches returns the bodies of all patches issued against ConfigMaps.
func configMapPatches(clientset *fake.Clientset) [][]byte {
	var patches [][]byte
	for _, action := range clientset.Actions() {
		patch, ok := action.(k8stesting.PatchAction)
		if ok && patch.GetResource().Resource == "configmaps" {
			patches = append(patches, patch.GetPatch())
		}
	}
	return patches
}

func disallowedListOf(t *testing.T, clientset *fake.Clientset) []string {
	t.Helper()
	cm, err := clientset.CoreV1().ConfigMaps(testNamespace).
		Get(context.Background(), DefaultConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(cm.Data[DefaultPayloadKey]), &payload))

	raw, _ := payload[disallowedListField].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func TestReconcile_ScenarioA_FreshConfigMap(t *testing.T) {
	// No managed annotation, empty list: one annotation patch plus one data
	// patch appending both entries in order.
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`), newController())
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.True(t, result.AnnotationPatched)
	assert.True(t, result.DataPatched)
	assert.Equal(t, DesiredDisallowedEntries, result.EntriesAppended)
	assert.Empty(t, result.EntriesPresent)
	assert.False(t, result.RestartTimedOut)
	assert.Len(t, configMapPatches(clientset), 2)

	cm, err := clientset.CoreV1().ConfigMaps(testNamespace).
		Get(context.Background(), DefaultConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "false", cm.Annotations[ManagedAnnotation])
	assert.Equal(t, DesiredDisallowedEntries, disallowedListOf(t, clientset))
}

func TestReconcile_ScenarioB_PartialList(t *testing.T) {
	// Annotation satisfied, list holds the first entry: zero annotation
	// patches, one data patch appending only the second entry.
	clientset := fake.NewSimpleClientset(
		newNamespace(),
		newConfigMap(
			map[string]string{ManagedAnnotation: "false"},
			`{"serviceAnnotationDisallowedList":["opendatahub.io/hardware-profile-name"]}`,
		),
		newController(),
	)
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, result.AnnotationPatched)
	assert.True(t, result.DataPatched)
	assert.Equal(t, []string{"opendatahub.io/hardware-profile-namespace"}, result.EntriesAppended)
	assert.Equal(t, []string{"opendatahub.io/hardware-profile-name"}, result.EntriesPresent)
	assert.Len(t, configMapPatches(clientset), 1)
	assert.Equal(t, DesiredDisallowedEntries, disallowedListOf(t, clientset))
}

func TestReconcile_ScenarioC_AlreadySatisfied(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		newNamespace(),
		newConfigMap(
			map[string]string{ManagedAnnotation: "false"},
			`{"serviceAnnotationDisallowedList":["opendatahub.io/hardware-profile-name","opendatahub.io/hardware-profile-namespace"]}`,
		),
		newController(),
	)
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Changed())
	assert.Empty(t, configMapPatches(clientset))
}

func TestReconcile_Idempotent(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`), newController())
	r := newReconciler(clientset, Config{})

	_, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	firstWrites := len(configMapPatches(clientset))

	second, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.False(t, second.Changed(), "second run must find nothing to do")
	assert.Len(t, configMapPatches(clientset), firstWrites, "second run must produce zero writes")
}

func TestReconcile_PreservesForeignEntriesAndOrder(t *testing.T) {
	// Entries already in the list stay in place, in order; desired entries
	// are appended after them in their fixed order.
	clientset := fake.NewSimpleClientset(
		newNamespace(),
		newConfigMap(
			map[string]string{ManagedAnnotation: "false"},
			`{"serviceAnnotationDisallowedList":["z.example.com/keep-last","a.example.com/keep-first"],"other":{"nested":true}}`,
		),
		newController(),
	)
	r := newReconciler(clientset, Config{})

	_, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"z.example.com/keep-last",
		"a.example.com/keep-first",
		"opendatahub.io/hardware-profile-name",
		"opendatahub.io/hardware-profile-namespace",
	}, disallowedListOf(t, clientset))

	// Untouched payload fields survive the rewrite.
	cm, err := clientset.CoreV1().ConfigMaps(testNamespace).
		Get(context.Background(), DefaultConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(cm.Data[DefaultPayloadKey]), &payload))
	assert.Contains(t, payload, "other")
}

func TestReconcile_PreservesNonStringListElements(t *testing.T) {
	// A hand-edited list may hold elements that are not strings. They stay
	// in the rewritten list verbatim; the desired entries go after them.
	clientset := fake.NewSimpleClientset(
		newNamespace(),
		newConfigMap(
			map[string]string{ManagedAnnotation: "false"},
			`{"serviceAnnotationDisallowedList":["a.example.com/tracked",7,true]}`,
		),
		newController(),
	)
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DesiredDisallowedEntries, result.EntriesAppended)

	cm, err := clientset.CoreV1().ConfigMaps(testNamespace).
		Get(context.Background(), DefaultConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(cm.Data[DefaultPayloadKey]), &payload))
	assert.Equal(t, []any{
		"a.example.com/tracked",
		float64(7),
		true,
		"opendatahub.io/hardware-profile-name",
		"opendatahub.io/hardware-profile-namespace",
	}, payload[disallowedListField])
}

func TestReconcile_MissingPayloadKeyTreatedAsEmpty(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, ""), newController())
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DesiredDisallowedEntries, result.EntriesAppended)
	assert.Equal(t, DesiredDisallowedEntries, disallowedListOf(t, clientset))
}

func TestReconcile_DryRun_NeverMutates(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`), newController())
	r := newReconciler(clientset, Config{DryRun: true})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	// The change set is still computed and reported.
	assert.True(t, result.AnnotationPatched)
	assert.True(t, result.DataPatched)
	assert.Equal(t, DesiredDisallowedEntries, result.EntriesAppended)

	// But nothing was written and the controller was not restarted.
	assert.Empty(t, configMapPatches(clientset))
	for _, action := range clientset.Actions() {
		assert.False(t, action.GetVerb() == "patch",
			"dry run must not issue any patch, got %v", action)
	}
}

func TestReconcile_MalformedPayload_FatalBeforeAnyPatch(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		newNamespace(),
		newConfigMap(nil, `{not json`),
		newController(),
	)
	r := newReconciler(clientset, Config{})

	_, err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodeMalformedPayload, hwperrors.CodeOf(err))
	assert.Empty(t, configMapPatches(clientset),
		"malformed payload must fail before any patch is attempted")
}

func TestReconcile_NamespaceNotFound(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	r := newReconciler(clientset, Config{Namespace: "missing"})

	_, err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodeNotFound, hwperrors.CodeOf(err))
}

func TestReconcile_ConfigMapMissing(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNamespace())
	r := newReconciler(clientset, Config{})

	_, err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodeFetchFailed, hwperrors.CodeOf(err))
}

func TestReconcile_PatchRejected(t *testing.T) {
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`), newController())
	clientset.PrependReactor("patch", "configmaps",
		func(_ k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, assert.AnError
		})
	r := newReconciler(clientset, Config{})

	_, err := r.Reconcile(context.Background())
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodePatchRejected, hwperrors.CodeOf(err))
}

func TestReconcile_RestartTimeoutIsAdvisory(t *testing.T) {
	// Controller deployment missing entirely: the restart trigger fails, the
	// reconciliation still succeeds with the advisory flag set.
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`))
	r := newReconciler(clientset, Config{})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Changed())
	assert.True(t, result.RestartTimedOut)
}

func TestReconcile_RestartWaitsForRollout(t *testing.T) {
	// Controller whose status never catches up: the wait times out, advisory.
	stale := newController()
	stale.Status.AvailableReplicas = 0
	clientset := fake.NewSimpleClientset(newNamespace(), newConfigMap(nil, `{}`), stale)
	r := newReconciler(clientset, Config{RestartTimeout: 30 * time.Millisecond})

	result, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, result.RestartTimedOut)
}
