package staleness_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports/mocks"
	"go.trai.ch/pmake/internal/engine/staleness"
)

var (
	older = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer = older.Add(time.Minute)
)

func fileTarget(name string, prereqs ...string) *domain.ResolvedTarget {
	return &domain.ResolvedTarget{
		Name:          name,
		Rule:          &domain.Rule{Pattern: domain.LiteralPattern(name)},
		Prerequisites: prereqs,
	}
}

func phonyTarget(session *domain.BuildSession, name string) *domain.ResolvedTarget {
	target := session.Begin(name)
	target.Rule = &domain.Rule{Pattern: domain.LiteralPattern(name), Kind: domain.KindPhony}
	return target
}

func TestIsStale(t *testing.T) {
	type file struct {
		exists bool
		mtime  time.Time
	}

	tests := []struct {
		name   string
		target *domain.ResolvedTarget
		phony  []string
		files  map[string]file
		want   bool
	}{
		{
			name:   "missing target",
			target: fileTarget("app", "main.c"),
			files:  map[string]file{"app": {exists: false}},
			want:   true,
		},
		{
			name:   "prerequisite newer",
			target: fileTarget("app", "main.c"),
			files:  map[string]file{"app": {true, older}, "main.c": {true, newer}},
			want:   true,
		},
		{
			name:   "target newer",
			target: fileTarget("app", "main.c"),
			files:  map[string]file{"app": {true, newer}, "main.c": {true, older}},
			want:   false,
		},
		{
			name:   "equal timestamps are fresh",
			target: fileTarget("app", "main.c"),
			files:  map[string]file{"app": {true, older}, "main.c": {true, older}},
			want:   false,
		},
		{
			name:   "missing prerequisite",
			target: fileTarget("app", "all"),
			files:  map[string]file{"app": {true, older}, "all": {exists: false}},
			want:   true,
		},
		{
			name:   "no prerequisites and file exists",
			target: fileTarget("config.h"),
			files:  map[string]file{"config.h": {true, older}},
			want:   false,
		},
		{
			name:   "one of several prerequisites newer",
			target: fileTarget("app", "a.o", "b.o"),
			files:  map[string]file{"app": {true, older}, "a.o": {true, older}, "b.o": {true, newer}},
			want:   true,
		},
		{
			name:   "phony prerequisite with existing older file",
			target: fileTarget("app", "gen"),
			phony:  []string{"gen"},
			files:  map[string]file{"app": {true, newer}, "gen": {true, older}},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fsys := mocks.NewMockFileSystem(ctrl)
			for path, f := range tt.files {
				fsys.EXPECT().Exists(path).Return(f.exists, nil).AnyTimes()
				if f.exists {
					fsys.EXPECT().ModTime(path).Return(f.mtime, nil).AnyTimes()
				}
			}

			session := domain.NewBuildSession()
			for _, name := range tt.phony {
				session.Complete(phonyTarget(session, name))
			}

			got, err := staleness.New(fsys).IsStale(session, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsStale_PhonyAlwaysStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)

	target := &domain.ResolvedTarget{
		Name: "clean",
		Rule: &domain.Rule{Pattern: domain.LiteralPattern("clean"), Kind: domain.KindPhony},
	}

	stale, err := staleness.New(fsys).IsStale(domain.NewBuildSession(), target)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestIsStale_OrderOnlyIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().Exists("out/app").Return(true, nil)
	fsys.EXPECT().ModTime("out/app").Return(older, nil)
	fsys.EXPECT().Exists("main.c").Return(true, nil)
	fsys.EXPECT().ModTime("main.c").Return(older, nil)

	target := fileTarget("out/app", "main.c")
	target.OrderOnly = []string{"out"}

	stale, err := staleness.New(fsys).IsStale(domain.NewBuildSession(), target)
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestIsStale_SourceNeverStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)

	stale, err := staleness.New(fsys).IsStale(domain.NewBuildSession(), &domain.ResolvedTarget{Name: "main.c"})
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestIsStale_FileSystemError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)
	statErr := errors.New("io error")
	fsys.EXPECT().Exists("app").Return(true, nil)
	fsys.EXPECT().ModTime("app").Return(time.Time{}, statErr)

	_, err := staleness.New(fsys).IsStale(domain.NewBuildSession(), fileTarget("app", "main.c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, statErr)
}
