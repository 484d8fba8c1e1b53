// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The exact values are judgment calls; the relationships between them are not.
func TestTimeoutRelationships(t *testing.T) {
	assert.Less(t, PollInterval, CatalogSourceReadyTimeout,
		"poll interval must be far below any wait bound")
	assert.Less(t, InstallPlanTimeout, CSVSucceededTimeout,
		"CSV installation includes the InstallPlan phase")
	assert.LessOrEqual(t, DSCInitializationReadyTimeout, DataScienceClusterReadyTimeout,
		"DSC readiness includes component rollout on top of initialization")
	assert.Less(t, ConfigMapPatchTimeout, ControllerRestartTimeout,
		"a single patch must be quicker than a controller rollout")
	assert.Positive(t, PollRatePerSecond)
}
