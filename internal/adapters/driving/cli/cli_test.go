package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// execute runs the root command with args and captures its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// Mocks for the driving ports.

type mockValidator struct {
	result *domain.ValidationResult
	err    error
}

func (m *mockValidator) Validate(_ context.Context) (*domain.ValidationResult, error) {
	return m.result, m.err
}

type mockReconciler struct {
	run *domain.ReconciliationRun
	err error
}

func (m *mockReconciler) Run(_ context.Context) (*domain.ReconciliationRun, error) {
	return m.run, m.err
}

type mockPromoter struct {
	results []driving.RowResult
	err     error
}

func (m *mockPromoter) Promote(_ context.Context) ([]driving.RowResult, error) {
	return m.results, m.err
}

type mockDeleter struct {
	results []driving.RowResult
	err     error
}

func (m *mockDeleter) Delete(_ context.Context) ([]driving.RowResult, error) {
	return m.results, m.err
}

type mockRepairer struct {
	patches []driving.Patch
	err     error
}

func (m *mockRepairer) Repair(_ context.Context) ([]driving.Patch, error) {
	return m.patches, m.err
}

type mockProposer struct {
	results []driving.RowResult
	err     error
	lastDir string
}

func (m *mockProposer) Propose(_ context.Context, dir string) ([]driving.RowResult, error) {
	m.lastDir = dir
	return m.results, m.err
}

var errBackendDown = errors.New("backend down")
