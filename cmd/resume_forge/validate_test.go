package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-forge/internal/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateOn(t *testing.T, path string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	validateInput = path
	t.Cleanup(func() { validateInput = "" })

	err := runValidate(cmd, nil)
	return buf.String(), err
}

func TestValidateCommand_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	writeResume(t, path, &types.Resume{
		Summary:     "Engineer",
		Experiences: []types.Experience{{ID: "exp_1", Company: "Acme", Role: "Dev", Dates: "2020", Bullets: []string{"Shipped"}}},
		Skills:      []string{"Go"},
	})

	output, err := runValidateOn(t, path)
	require.NoError(t, err)
	assert.Contains(t, output, "NO VIOLATIONS FOUND")
}

func TestValidateCommand_DuplicateSkills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	writeResume(t, path, &types.Resume{Summary: "Engineer", Skills: []string{"Go", "Go"}})

	output, err := runValidateOn(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 violation(s)")
	assert.Contains(t, output, "skills[1]")
}

func TestValidateCommand_SchemaFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary": "x", "skills": [null]}`), 0644))

	_, err := runValidateOn(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := runValidateOn(t, filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "failed to read resume file")
}

func TestValidateCommand_WatchReportsThenStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	writeResume(t, path, &types.Resume{Summary: "Engineer", Skills: []string{"Go", "Go"}})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd.SetContext(ctx)

	validateInput = path
	validateWatch = true
	t.Cleanup(func() {
		validateInput = ""
		validateWatch = false
	})

	// violations are reported, not returned, while watching
	require.NoError(t, runValidate(cmd, nil))
	assert.Contains(t, buf.String(), "1 violation(s)")
}
