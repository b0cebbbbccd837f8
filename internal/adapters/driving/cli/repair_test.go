package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

func TestRepairCmd_NothingToPatch(t *testing.T) {
	old := repairerService
	repairerService = &mockRepairer{}
	defer func() { repairerService = old }()

	out, err := execute("repair")

	require.NoError(t, err)
	assert.Contains(t, out, "All payloads are in sync.")
}

func TestRepairCmd_PrintsPatches(t *testing.T) {
	old := repairerService
	repairerService = &mockRepairer{patches: []driving.Patch{
		{Identifier: "6fa459ea-ee8a-3ca4-894e-db77e160355e", PointID: "p1", OldFileID: "stale", NewFileID: "f1"},
		{Identifier: "6fa459ea-ee8a-3ca4-894e-db77e160355e", PointID: "p2", OldFileID: "", NewFileID: "f1"},
	}}
	defer func() { repairerService = old }()

	out, err := execute("repair")

	require.NoError(t, err)
	assert.Contains(t, out, "Patched 2 points:")
	assert.Contains(t, out, `6fa459ea-ee8a-3ca4-894e-db77e160355e point p1: "stale" -> "f1"`)
	assert.Contains(t, out, `6fa459ea-ee8a-3ca4-894e-db77e160355e point p2: "" -> "f1"`)
}

func TestRepairCmd_ServiceNotConfigured(t *testing.T) {
	old := repairerService
	repairerService = nil
	defer func() { repairerService = old }()

	_, err := execute("repair")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "repairer service not configured")
}

func TestRepairCmd_ServiceError(t *testing.T) {
	old := repairerService
	repairerService = &mockRepairer{err: errBackendDown}
	defer func() { repairerService = old }()

	_, err := execute("repair")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "repair failed")
}
