package builtin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallshell/smsh/core/shell"
)

func testEnv() (*Env, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Env{
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(key string) string {
			if key == "HOME" {
				return "/home/tester"
			}
			return ""
		},
		Chdir:    func(string) error { return nil },
		Run:      func(*shell.Pipeline) int { return 0 },
		Shutdown: func(int) {},
	}
	return env, &stdout, &stderr
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"exit", "cd", "checkEnv"} {
		b, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, b.Name)
		assert.NotNil(t, b.Main)
	}

	_, ok := Lookup("ls")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	list := List()
	require.Len(t, list, 3)
	assert.Equal(t, "cd", list[0].Name)
	assert.Equal(t, "checkEnv", list[1].Name)
	assert.Equal(t, "exit", list[2].Name)
}

func TestCd(t *testing.T) {
	cases := []struct {
		name       string
		argv       []string
		wantDir    string
		wantStatus int
	}{
		{"no args goes home", []string{"cd"}, "/home/tester", 0},
		{"tilde expands", []string{"cd", "~/x"}, "/home/tester/x", 0},
		{"bare tilde", []string{"cd", "~"}, "/home/tester", 0},
		{"literal path", []string{"cd", "/tmp"}, "/tmp", 0},
		{"too many args", []string{"cd", "a", "b"}, "", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, _, stderr := testEnv()
			var gotDir string
			env.Chdir = func(dir string) error {
				gotDir = dir
				return nil
			}

			status := Cd(env, tc.argv)

			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantDir, gotDir)
			if tc.wantStatus != 0 {
				assert.Contains(t, stderr.String(), "too many arguments")
			}
		})
	}
}

func TestCdReportsFailure(t *testing.T) {
	env, _, stderr := testEnv()
	env.Chdir = func(string) error { return assert.AnError }

	status := Cd(env, []string{"cd", "/nope"})

	assert.Equal(t, 1, status)
	assert.Contains(t, stderr.String(), "cd:")
}

func TestCheckEnv(t *testing.T) {
	t.Run("no args", func(t *testing.T) {
		env, _, _ := testEnv()
		var got *shell.Pipeline
		env.Run = func(p *shell.Pipeline) int {
			got = p
			return 0
		}

		status := CheckEnv(env, []string{"checkEnv"})

		assert.Equal(t, 0, status)
		require.NotNil(t, got)
		assert.Equal(t, "printenv | sort | pager", got.String())
		assert.False(t, got.Background)
	})

	t.Run("with pattern", func(t *testing.T) {
		env, _, _ := testEnv()
		var got *shell.Pipeline
		env.Run = func(p *shell.Pipeline) int {
			got = p
			return 0
		}

		status := CheckEnv(env, []string{"checkEnv", "FOO"})

		assert.Equal(t, 0, status)
		require.NotNil(t, got)
		require.Len(t, got.Stages, 4)
		assert.Equal(t, "printenv | grep FOO | sort | pager", got.String())
	})

	t.Run("dash args reach grep untouched", func(t *testing.T) {
		env, _, stderr := testEnv()
		var got *shell.Pipeline
		env.Run = func(p *shell.Pipeline) int {
			got = p
			return 0
		}

		status := CheckEnv(env, []string{"checkEnv", "-i", "path"})

		assert.Equal(t, 0, status)
		require.NotNil(t, got)
		assert.Equal(t, "printenv | grep -i path | sort | pager", got.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("help", func(t *testing.T) {
		env, stdout, _ := testEnv()
		env.Run = func(*shell.Pipeline) int {
			t.Fatal("help must not run a pipeline")
			return 1
		}

		status := CheckEnv(env, []string{"checkEnv", "--help"})

		assert.Equal(t, 0, status)
		assert.Contains(t, stdout.String(), "usage: checkEnv [PATTERN]")
	})
}

func TestCheckEnvPropagatesStatus(t *testing.T) {
	env, _, _ := testEnv()
	env.Run = func(*shell.Pipeline) int { return 3 }

	assert.Equal(t, 3, CheckEnv(env, []string{"checkEnv"}))
}

func TestExit(t *testing.T) {
	env, _, _ := testEnv()
	called := -1
	env.Shutdown = func(status int) { called = status }

	status := Exit(env, []string{"exit"})

	assert.Equal(t, 0, status)
	assert.Equal(t, 0, called)
}

func TestHelpFlag(t *testing.T) {
	env, stdout, _ := testEnv()

	status := Cd(env, []string{"cd", "--help"})

	assert.Equal(t, 0, status)
	assert.Contains(t, stdout.String(), "usage: cd [DIR]")
}
