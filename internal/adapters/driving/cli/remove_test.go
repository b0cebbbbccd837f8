package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

func TestRemoveCmd_NothingTagged(t *testing.T) {
	old := deleterService
	deleterService = &mockDeleter{}
	defer func() { deleterService = old }()

	out, err := execute("remove")

	require.NoError(t, err)
	assert.Contains(t, out, "No rows tagged for deletion.")
}

func TestRemoveCmd_PrintsOutcomes(t *testing.T) {
	old := deleterService
	deleterService = &mockDeleter{results: []driving.RowResult{
		{Identifier: "6fa459ea-ee8a-3ca4-894e-db77e160355e", FileName: "alpha.pdf", Outcome: driving.OutcomeApplied},
	}}
	defer func() { deleterService = old }()

	out, err := execute("remove")

	require.NoError(t, err)
	assert.Contains(t, out, "ok      6fa459ea-ee8a-3ca4-894e-db77e160355e (alpha.pdf)")
}

func TestRemoveCmd_RowFailureExitsNonZero(t *testing.T) {
	old := deleterService
	deleterService = &mockDeleter{results: []driving.RowResult{
		{Identifier: "6fa459ea-ee8a-3ca4-894e-db77e160355e", FileName: "alpha.pdf", Outcome: driving.OutcomeFailed, Reason: "deleting points: backend down"},
	}}
	defer func() { deleterService = old }()

	_, err := execute("remove")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 rows failed")
}

func TestRemoveCmd_ServiceNotConfigured(t *testing.T) {
	old := deleterService
	deleterService = nil
	defer func() { deleterService = old }()

	_, err := execute("remove")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deleter service not configured")
}

func TestRemoveCmd_ServiceError(t *testing.T) {
	old := deleterService
	deleterService = &mockDeleter{err: errBackendDown}
	defer func() { deleterService = old }()

	_, err := execute("remove")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "removal failed")
}
