package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsolve-labs/lsolve/internal/config"
)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string)
		args     []string
		wantErr  bool
	}{
		{
			name: "init empty directory",
			args: []string{},
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "lsolve.yaml"), []byte("existing"), 0600))
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "lsolve.yaml"), []byte("existing"), 0600))
			},
			args: []string{"--force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testWorkspace(t)
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			cmd := NewInitCommand()
			buf := &bytes.Buffer{}
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range []string{"lsolve.yaml", "example.lse"} {
				_, err := os.Stat(filepath.Join(dir, f))
				assert.NoError(t, err, "expected %q to exist", f)
			}
			assert.Contains(t, buf.String(), "initialized")
		})
	}
}

func TestInitCommandTargetDirectory(t *testing.T) {
	testWorkspace(t)

	cmd := NewInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"proj"})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join("proj", "lsolve.yaml"))
	assert.NoError(t, err)
}

func TestInitCreatesLoadableConfig(t *testing.T) {
	testWorkspace(t)

	cmd := NewInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	config.ResetConfig()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAlgorithm, cfg.Algorithm.String())
	assert.InEpsilon(t, 1e-6, cfg.Tolerance, 1e-12)
	assert.NotEmpty(t, config.GetConfigFileUsed())
}

func TestInitExampleSolves(t *testing.T) {
	testWorkspace(t)

	initCmd := NewInitCommand()
	initCmd.SetOut(&bytes.Buffer{})
	initCmd.SetErr(&bytes.Buffer{})
	initCmd.SetArgs([]string{})
	require.NoError(t, initCmd.Execute())
	config.ResetConfig()

	runCmd := NewRunCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	runCmd.SetOut(out)
	runCmd.SetErr(errOut)
	runCmd.SetArgs([]string{"example.lse"})

	require.NoError(t, runCmd.Execute(), "stderr: %s", errOut.String())
	assert.Contains(t, out.String(), "example: solved")
	assert.Contains(t, out.String(), "DT_m")
}
