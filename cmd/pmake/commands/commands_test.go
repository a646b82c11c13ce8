package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pmake/cmd/pmake/commands"
	"go.trai.ch/pmake/internal/app"
	"go.trai.ch/pmake/internal/build"
	"go.trai.ch/pmake/internal/core/domain"
)

type mockApp struct {
	runFunc   func(ctx context.Context, targetNames []string, opts app.RunOptions) error
	graphFunc func(ctx context.Context, w io.Writer, targetNames []string, opts app.LoadOptions) error
	rulesFunc func(w io.Writer, opts app.LoadOptions) error
	logOpts   app.LogOptions
}

func (m *mockApp) Run(ctx context.Context, targetNames []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Graph(ctx context.Context, w io.Writer, targetNames []string, opts app.LoadOptions) error {
	if m.graphFunc != nil {
		return m.graphFunc(ctx, w, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Rules(w io.Writer, opts app.LoadOptions) error {
	if m.rulesFunc != nil {
		return m.rulesFunc(w, opts)
	}
	return nil
}

func (m *mockApp) ConfigureLogging(opts app.LogOptions) {
	m.logOpts = opts
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"run", "build/main.o", "test",
			"-j", "3", "-f", "rules.yaml", "-C", "sub", "--policy", "reject-ambiguous", "--progress",
		})

		require.NoError(t, cli.Execute(t.Context()))
		assert.Equal(t, []string{"build/main.o", "test"}, capturedTargets)
		assert.Equal(t, app.RunOptions{
			LoadOptions: app.LoadOptions{File: "rules.yaml", Directory: "sub", Policy: "reject-ambiguous"},
			Jobs:        3,
			Progress:    true,
		}, capturedOpts)
	})

	t.Run("defaults", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(t.Context()))
		assert.Empty(t, capturedTargets)
		assert.Equal(t, domain.DefaultRuleFile, capturedOpts.File)
		assert.Empty(t, capturedOpts.Directory)
		assert.Equal(t, runtime.NumCPU(), capturedOpts.Jobs)
		assert.False(t, capturedOpts.Progress)
		assert.Equal(t, app.LogOptions{}, mock.logOpts)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "target"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("configures logging", func(t *testing.T) {
		mock := &mockApp{}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "--log-json", "-v"})

		require.NoError(t, cli.Execute(t.Context()))
		assert.Equal(t, app.LogOptions{JSON: true, Verbose: true}, mock.logOpts)
	})
}

func TestCommands_Graph(t *testing.T) {
	var capturedTargets []string
	var capturedOpts app.LoadOptions

	mock := &mockApp{
		graphFunc: func(_ context.Context, w io.Writer, targetNames []string, opts app.LoadOptions) error {
			capturedTargets = targetNames
			capturedOpts = opts
			_, err := io.WriteString(w, "digraph pmake {}\n")
			return err
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"graph", "all", "--file", "other.yaml"})

	require.NoError(t, cli.Execute(t.Context()))
	assert.Equal(t, []string{"all"}, capturedTargets)
	assert.Equal(t, "other.yaml", capturedOpts.File)
	assert.Equal(t, "digraph pmake {}\n", buf.String())
}

func TestCommands_Rules(t *testing.T) {
	mock := &mockApp{
		rulesFunc: func(w io.Writer, _ app.LoadOptions) error {
			_, err := io.WriteString(w, "PATTERN\n")
			return err
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"rules"})

	require.NoError(t, cli.Execute(t.Context()))
	assert.Equal(t, "PATTERN\n", buf.String())
}

func TestCommands_RulesRejectsArgs(t *testing.T) {
	cli := commands.New(&mockApp{})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"rules", "extra"})

	assert.Error(t, cli.Execute(t.Context()))
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(t.Context()))
	assert.Contains(t, buf.String(), "pmake version "+build.Version)
}
