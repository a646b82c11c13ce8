package domain_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pmake/internal/core/domain"
)

func TestBuildSession_ResolutionLifecycle(t *testing.T) {
	s := domain.NewBuildSession()

	_, ok := s.Lookup("app")
	assert.False(t, ok)

	target := s.Begin("app")
	assert.Equal(t, domain.StatusBuilding, target.Status)

	got, ok := s.Lookup("app")
	require.True(t, ok)
	assert.Same(t, target, got)
	assert.Equal(t, 0, s.Len())

	s.Complete(target)
	assert.Equal(t, domain.StatusDone, target.Status)
	assert.Equal(t, 1, s.Len())
}

func TestBuildSession_WalkIsCompletionOrder(t *testing.T) {
	s := domain.NewBuildSession()
	app := s.Begin("app")
	obj := s.Begin("main.o")
	src := s.Begin("main.c")
	s.Complete(src)
	s.Complete(obj)
	s.Complete(app)

	var names []string
	for target := range s.Walk() {
		names = append(names, target.Name)
	}
	assert.Equal(t, []string{"main.c", "main.o", "app"}, names)
}

func TestBuildSession_Abandon(t *testing.T) {
	s := domain.NewBuildSession()
	s.Begin("broken")
	s.Abandon("broken")

	_, ok := s.Lookup("broken")
	assert.False(t, ok)
}

func TestBuildSession_ClaimOnce(t *testing.T) {
	s := domain.NewBuildSession()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		owners int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, owner := s.Claim("shared.o"); owner {
				mu.Lock()
				owners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, owners)
}

func TestBuildRecord_WaitersSeeOwnerResult(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := domain.NewBuildSession()
		record, owner := s.Claim("lib.a")
		require.True(t, owner)

		results := make(chan domain.Outcome, 3)
		for range 3 {
			go func() {
				rec, isOwner := s.Claim("lib.a")
				assert.False(t, isOwner)
				outcome, err := rec.Wait(t.Context())
				assert.NoError(t, err)
				results <- outcome
			}()
		}

		synctest.Wait()
		assert.Equal(t, domain.OutcomeUnknown, s.Outcome("lib.a"))

		record.Finish(domain.OutcomeBuilt, nil)
		for range 3 {
			assert.Equal(t, domain.OutcomeBuilt, <-results)
		}
		assert.Equal(t, domain.OutcomeBuilt, s.Outcome("lib.a"))
	})
}

func TestBuildRecord_WaitHonorsContext(t *testing.T) {
	s := domain.NewBuildSession()
	record, _ := s.Claim("slow")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := record.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvedTarget_Kinds(t *testing.T) {
	source := &domain.ResolvedTarget{Name: "main.c"}
	assert.True(t, source.IsSource())
	assert.False(t, source.IsPhony())

	phony := &domain.ResolvedTarget{
		Name: "clean",
		Rule: &domain.Rule{Pattern: domain.LiteralPattern("clean"), Kind: domain.KindPhony},
	}
	assert.False(t, phony.IsSource())
	assert.True(t, phony.IsPhony())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "built", domain.OutcomeBuilt.String())
	assert.Equal(t, "up-to-date", domain.OutcomeUpToDate.String())
	assert.Equal(t, "pending", domain.StatusPending.String())
}
