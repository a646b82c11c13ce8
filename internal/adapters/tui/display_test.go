package tui_test

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"

	"go.trai.ch/pmake/internal/adapters/tui"
)

type fakeSubscriber struct {
	writers []progrock.Writer
}

func (f *fakeSubscriber) Subscribe(w progrock.Writer) {
	f.writers = append(f.writers, w)
}

func TestDisplay_RunEndsWithRecording(t *testing.T) {
	source := &fakeSubscriber{}
	var out bytes.Buffer
	display := tui.NewDisplay(&out, source, tea.WithoutRenderer(), tea.WithoutSignalHandler())

	display.Open()
	require.Len(t, source.writers, 1)

	w := source.writers[0]
	require.NoError(t, w.WriteStatus(&progrock.StatusUpdate{
		Vertexes: []*progrock.Vertex{{Id: "1", Name: "main.o"}},
	}))
	require.NoError(t, w.Close())

	assert.NoError(t, display.Run(context.Background()))
}

func TestDisplay_RunCanceled(t *testing.T) {
	source := &fakeSubscriber{}
	var out bytes.Buffer
	display := tui.NewDisplay(&out, source, tea.WithoutRenderer(), tea.WithoutSignalHandler())
	display.Open()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, display.Run(ctx))
}

func TestDisplay_RunWithoutOpen(t *testing.T) {
	display := tui.NewDisplay(&bytes.Buffer{}, &fakeSubscriber{})

	assert.Error(t, display.Run(context.Background()))
}
