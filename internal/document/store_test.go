package document

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResume() *types.Resume {
	return &types.Resume{
		Summary:     "Engineer",
		Experiences: []types.Experience{{ID: "exp_1", Company: "Acme", Role: "Dev", Dates: "2020", Bullets: []string{"Shipped"}}},
		Skills:      []string{"Python"},
		Projects:    []types.Project{},
		Education:   []types.Education{},
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(testResume())

	snap := s.Snapshot()
	snap.Skills[0] = "Changed"
	snap.Experiences[0].Bullets[0] = "Changed"

	again := s.Snapshot()
	assert.Equal(t, "Python", again.Skills[0])
	assert.Equal(t, "Shipped", again.Experiences[0].Bullets[0])
}

func TestStore_NewStoreCopiesInitial(t *testing.T) {
	initial := testResume()
	s := NewStore(initial)
	initial.Summary = "mutated by caller"

	assert.Equal(t, "Engineer", s.Snapshot().Summary)
	assert.Equal(t, 2, s.Snapshot().NextIDs.Experience)
}

func TestStore_TransactCommits(t *testing.T) {
	s := NewStore(testResume())

	rev, err := s.Transact(context.Background(), func(c *types.Resume) error {
		c.Skills = append(c.Skills, "AWS")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)
	assert.Equal(t, uint64(1), s.Revision())
	assert.Equal(t, []string{"Python", "AWS"}, s.Snapshot().Skills)
}

func TestStore_TransactRollsBackOnError(t *testing.T) {
	s := NewStore(testResume())
	boom := errors.New("boom")

	_, err := s.Transact(context.Background(), func(c *types.Resume) error {
		c.Skills = append(c.Skills, "AWS")
		c.Summary = ""
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), s.Revision())
	assert.Equal(t, testResume().Skills, s.Snapshot().Skills)
	assert.Equal(t, "Engineer", s.Snapshot().Summary)
}

func TestStore_TransactHonorsCancellation(t *testing.T) {
	s := NewStore(testResume())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := s.Transact(ctx, func(c *types.Resume) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, uint64(0), s.Revision())
}

func TestStore_CancellationDuringMutationDiscardsCandidate(t *testing.T) {
	s := NewStore(testResume())
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Transact(ctx, func(c *types.Resume) error {
		c.Skills = append(c.Skills, "AWS")
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Python"}, s.Snapshot().Skills)
}

func TestStore_ConcurrentTransactionsSerialize(t *testing.T) {
	s := NewStore(testResume())

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Transact(context.Background(), func(c *types.Resume) error {
				c.Experiences[0].Bullets = append(c.Experiences[0].Bullets, "bullet")
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	// Readers run alongside writers and must always see a consistent count
	for i := 0; i < writers; i++ {
		snap, rev := s.SnapshotAt()
		assert.Equal(t, int(rev)+1, len(snap.Experiences[0].Bullets))
	}
	wg.Wait()

	assert.Equal(t, uint64(writers), s.Revision())
	assert.Len(t, s.Snapshot().Experiences[0].Bullets, writers+1)
}
