// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiklasRosenstein/tire/internal/cacheutil"
	"github.com/NiklasRosenstein/tire/internal/config"
	"github.com/NiklasRosenstein/tire/internal/profile"
	"github.com/NiklasRosenstein/tire/internal/tool"
)

const projectText = `
[project]
name = "demo"

[tool.mypy]
strict = false

[tool.ruff]
line-length = 80
`

type testEnv struct {
	root    string
	cfgFile string
	tmp     string
}

// newTestEnv isolates config, cache and temp dirs and creates a project.
func newTestEnv(t *testing.T, cfgText string) *testEnv {
	t.Helper()
	base := t.TempDir()

	env := &testEnv{
		root:    filepath.Join(base, "project"),
		cfgFile: filepath.Join(base, "tire.yaml"),
		tmp:     filepath.Join(base, "tmp"),
	}
	require.NoError(t, os.MkdirAll(env.root, 0o755))
	require.NoError(t, os.MkdirAll(env.tmp, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.root, "pyproject.toml"), []byte(projectText), 0o600))
	require.NoError(t, os.WriteFile(env.cfgFile, []byte(cfgText), 0o600))

	t.Setenv("TIRE_CFG_FILE", env.cfgFile)
	t.Setenv("TIRE_CACHE_DIR", filepath.Join(base, "cache"))
	t.Setenv("TIRE_CACHE", "")
	t.Setenv("TIRE_PROFILE", "")
	t.Setenv("TIRE_DESTINATION", "")
	t.Setenv("TIRE_VALIDATION", "")
	t.Setenv("TMPDIR", env.tmp)

	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
	return env
}

// run executes tire with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	args = append([]string{"tire"}, args...)

	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err = app.Run(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func writeProfile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

var configFileRe = regexp.MustCompile(`--config(?:-file)? (\S+)`)

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := run(t, "config", "show", "--cwd", env.root, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"line-length":80`)
	assert.Contains(t, out, `"warn_no_return":true`)
	assert.Contains(t, out, `"strict":false`)

	out, _, err = run(t, "config", "show", "--cwd", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "[tool.ruff]")
}

func TestConfigShow_InvalidOutput(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := run(t, "config", "show", "--cwd", env.root, "-o", "xml")
	assert.Error(t, err)
}

func TestConfigGet(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "tool.ruff.line-length", want: "80\n"},
		{path: "tool.mypy.warn_no_return", want: "true\n"},
		{path: "project.name", want: "demo\n"},
		{path: "tool.flake8", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, _, err := run(t, "config", "get", "--cwd", env.root, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := run(t, "config", "path", "--cwd", env.root)
	require.NoError(t, err)

	want := filepath.Join(env.root, ".tire", "pyproject.toml")
	assert.Equal(t, want+"\n", out)
	_, err = os.Stat(want)
	assert.NoError(t, err)
}

func TestConfigDiff(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := run(t, "config", "diff", "--cwd", env.root)
	require.NoError(t, err)
	assert.Contains(t, out, "warn_no_return")
	assert.NotContains(t, out, "\x1b[")

	out, _, err = run(t, "config", "diff", "--cwd", env.root, "--diff_filter", "tool")
	require.NoError(t, err)
	assert.Contains(t, out, "identical")
}

func TestProfileValidate(t *testing.T) {
	env := newTestEnv(t, "")

	out, _, err := run(t, "profile", "validate", "--cwd", env.root)
	require.NoError(t, err)
	assert.Equal(t, "default: ok (tools: [mypy ruff])\n", out)

	bad := writeProfile(t, "[tool.flake8]\nmax-line-length = 100\n")
	_, _, err = run(t, "profile", "validate", "-p", bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, profile.ErrValidation))

	// Lenient mode does not apply to validate.
	_, _, err = run(t, "profile", "validate", "-p", bad, "--validation", "lenient")
	assert.True(t, errors.Is(err, profile.ErrValidation))
}

func TestProfileShow(t *testing.T) {
	newTestEnv(t, "")
	source := writeProfile(t, "[tool.ruff]\nline-length = 120\n\n[tool.flake8]\nx = 1\n")

	_, _, err := run(t, "profile", "show", "-p", source)
	assert.True(t, errors.Is(err, profile.ErrValidation), "file profiles are strict by default")

	out, stderr, err := run(t, "profile", "show", "-p", source, "--validation", "lenient", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\"tool\":{\"ruff\":{\"line-length\":120}}}\n", out)
	_ = stderr
}

func TestProfileFromEnv(t *testing.T) {
	env := newTestEnv(t, "")
	source := writeProfile(t, "[tool.ruff]\nindent-width = 2\n")
	t.Setenv("TIRE_PROFILE", source)

	out, _, err := run(t, "config", "get", "--cwd", env.root, "tool.ruff.indent-width")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestProfileFromConfigFile(t *testing.T) {
	source := writeProfile(t, "[tool.ruff]\nindent-width = 8\n")
	env := newTestEnv(t, "config:\n  profile: "+source+"\n")

	out, _, err := run(t, "config", "get", "--cwd", env.root, "tool.ruff.indent-width")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)

	// The namespaced key does not leak into other commands.
	out, _, err = run(t, "profile", "show", "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "indent-width")
}

func TestRemoteProfileCacheTTL(t *testing.T) {
	var width atomic.Int32
	width.Store(2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, "[tool.ruff]\nindent-width = %d\n", width.Load())
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name   string
		cfg    string
		args   []string
		second string
	}{
		{name: "cached", second: "2\n"},
		{name: "flag disables disk cache", args: []string{"--cache-ttl", "0"}, second: "4\n"},
		{name: "config disables disk cache", cfg: "cache:\n  ttl: 0s\n", second: "4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.cfg)
			width.Store(2)
			args := append([]string{"config", "get", "--cwd", env.root, "-p", srv.URL}, tt.args...)
			args = append(args, "tool.ruff.indent-width")

			out, _, err := run(t, args...)
			require.NoError(t, err)
			assert.Equal(t, "2\n", out)

			width.Store(4)
			out, _, err = run(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.second, out)
		})
	}
}

func TestInvalidDestination(t *testing.T) {
	env := newTestEnv(t, "")
	_, _, err := run(t, "check", "--cwd", env.root, "--destination", "elsewhere", "--dry-run")
	assert.Error(t, err)
}

func TestCheck_DryRun(t *testing.T) {
	env := newTestEnv(t, "")

	_, stderr, err := run(t, "check", "--cwd", env.root, "--dry-run", "src")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[tire] $ uv run --with mypy mypy --config-file ")
	assert.Contains(t, stderr, " src\n")

	m := configFileRe.FindStringSubmatch(stderr)
	require.Len(t, m, 2)
	assert.Equal(t, env.tmp, filepath.Dir(filepath.Dir(m[1])))
	_, err = os.Stat(m[1])
	assert.True(t, errors.Is(err, os.ErrNotExist), "ephemeral configuration is removed")
}

func TestCheck_Daemon(t *testing.T) {
	env := newTestEnv(t, "")

	_, stderr, err := run(t, "check", "--cwd", env.root, "--daemon", "--dry-run")
	require.NoError(t, err)

	config := filepath.Join(env.root, ".tire", "pyproject.toml")
	assert.Contains(t, stderr, "--status-file "+filepath.Join(env.root, ".tire", tool.StatusFileName))
	assert.Contains(t, stderr, "--config-file "+config+" .")
	_, err = os.Stat(config)
	assert.NoError(t, err)
}

func TestFmt_DryRun(t *testing.T) {
	env := newTestEnv(t, "")

	_, stderr, err := run(t, "fmt", "--cwd", env.root, "--check", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, " format --check .\n")
	assert.Contains(t, stderr, " check --select I .\n")
}

func TestLint(t *testing.T) {
	env := newTestEnv(t, "")

	_, _, err := run(t, "lint", "--cwd", env.root, "--unsafe-fixes", "--dry-run")
	assert.True(t, errors.Is(err, tool.ErrUnsafeWithoutFix))

	_, stderr, err := run(t, "lint", "--cwd", env.root, "--fix", "--unsafe-fixes", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, " check --fix --unsafe-fixes .\n")
}

func TestTest_DryRun(t *testing.T) {
	env := newTestEnv(t, "")

	_, stderr, err := run(t, "test", "--cwd", env.root, "-n", "2", "-k", "fast", "--dry-run", "tests")
	require.NoError(t, err)
	assert.Contains(t, stderr, "pytest --config-file ")
	assert.Contains(t, stderr, " -n 2 -k fast tests\n")
}

func TestProjectParseError(t *testing.T) {
	env := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(env.root, "pyproject.toml"), []byte("[tool\n"), 0o600))

	_, _, err := run(t, "check", "--cwd", env.root, "--dry-run")
	require.Error(t, err)

	entries, err := os.ReadDir(env.tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCache(t *testing.T) {
	newTestEnv(t, "")
	require.NoError(t, cacheutil.Write([]string{"profiles"}, "https://example.com/a.toml", []byte("[tool]\n")))

	out, _, err := run(t, "cache", "list", "--titles")
	require.NoError(t, err)
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "profiles")
	assert.Contains(t, out, "1 entries")

	_, _, err = run(t, "cache", "purge", "--older-than", "0")
	assert.Error(t, err)

	_, _, err = run(t, "cache", "purge", "--all")
	require.NoError(t, err)

	entries, err := cacheutil.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdd_Auto(t *testing.T) {
	newTestEnv(t, "")
	_, _, err := run(t, "add", "--auto")
	assert.True(t, errors.Is(err, tool.ErrNotImplemented))
}

func TestRun_MissingTarget(t *testing.T) {
	newTestEnv(t, "")
	_, _, err := run(t, "run", "--with", "-q")
	assert.True(t, errors.Is(err, tool.ErrMissingTarget))
}

func TestCompletion(t *testing.T) {
	newTestEnv(t, "")

	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _tire tire")

	out, _, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef tire")
}
