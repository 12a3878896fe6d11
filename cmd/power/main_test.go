// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, source, toml string) (dir, path string) {
	dir = t.TempDir()
	path = filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	if toml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "power.toml"), []byte(toml), 0o644))
	}
	return dir, path
}

func TestVersion(t *testing.T) {
	assert.Equal(t, 0, execute([]string{"power", "version"}))
}

func TestBuildWritesIR(t *testing.T) {
	dir, path := writeProject(t, "let x = 40;\nreturn x + 2;\n", "")
	out := filepath.Join(dir, "main.ll")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "power.toml"),
		[]byte("[build]\nmodule-name = \"demo\"\noutput = \""+filepath.ToSlash(out)+"\"\n"), 0o644))

	require.Equal(t, 0, execute([]string{"power", "build", path}))

	ir, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(ir), "define i32 @main()")
}

func TestCheckReportsErrors(t *testing.T) {
	_, good := writeProject(t, "let a = 1;\nreturn a;\n", "")
	assert.Equal(t, 0, execute([]string{"power", "check", good}))

	_, bad := writeProject(t, "return b;\n", "")
	assert.Equal(t, 1, execute([]string{"power", "check", bad}))

	_, syntax := writeProject(t, "let = ;\n", "")
	assert.Equal(t, 1, execute([]string{"power", "check", syntax}))
}

func TestRunExitsWithMainResult(t *testing.T) {
	_, path := writeProject(t, "let i = 0;\nwhile (i < 42) { i++; }\nreturn i;\n", "")
	assert.Equal(t, 42, execute([]string{"power", "run", path}))
}

func TestModuleModeFromConfig(t *testing.T) {
	_, path := writeProject(t, "import \"lib\";\nreturn 1;\n", "[build]\nmode = \"module\"\n")
	assert.Equal(t, 1, execute([]string{"power", "check", path}))

	_, path = writeProject(t, "let a = 3;\nreturn a;\n", "[build]\nmode = \"module\"\n")
	assert.Equal(t, 3, execute([]string{"power", "run", path}))
}

func TestInvalidConfig(t *testing.T) {
	_, path := writeProject(t, "return 0;\n", "[build]\nmode = \"amd\"\n")
	assert.Equal(t, 1, execute([]string{"power", "check", path}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ns", formatDuration(500*time.Nanosecond))
	assert.Equal(t, "1.5ms", formatDuration(1500*time.Microsecond))
	assert.Equal(t, "2.00s", formatDuration(2*time.Second))
}
