package specialist

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatchers(t *testing.T) (map[types.Section]*Dispatcher, *document.Store) {
	t.Helper()
	store := document.NewStore(&types.Resume{
		Summary:     "Engineer",
		Experiences: []types.Experience{{ID: "exp_1", Company: "Acme", Role: "Dev", Dates: "2020", Bullets: []string{"Shipped"}}},
		Skills:      []string{"Python"},
	})
	return NewAll(store, invoker.New(store, nil, nil)), store
}

func TestNewAll_OneDispatcherPerSection(t *testing.T) {
	all, _ := newDispatchers(t)
	require.Len(t, all, len(types.Sections))
	for _, section := range types.Sections {
		d, ok := all[section]
		require.True(t, ok, section)
		assert.Equal(t, section, d.Section())
		assert.NotEmpty(t, d.Operations())
	}
	assert.Equal(t,
		[]tools.Operation{tools.OpGet, tools.OpAdd, tools.OpRemove},
		all[types.SectionSkills].Operations())
}

func TestResolve(t *testing.T) {
	all, _ := newDispatchers(t)
	skills := all[types.SectionSkills]

	inv, err := skills.Resolve("add", map[string]any{"skill": "Go"})
	require.NoError(t, err)
	assert.Equal(t, "add_skill", inv.Tool.Name)
	assert.Equal(t, "Go", inv.Args.String("skill"))

	_, err = skills.Resolve("update", map[string]any{"skill": "Go"})
	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, types.SectionSkills, unknown.Section)

	_, err = skills.Resolve("add", map[string]any{"skills": "Go"})
	var argErr *tools.InvalidArgumentError
	require.True(t, errors.As(err, &argErr))
}

func TestHandle_ReadReturnsCopy(t *testing.T) {
	all, store := newDispatchers(t)

	result, err := all[types.SectionSkills].Handle(context.Background(), "get", nil)
	require.NoError(t, err)
	assert.Nil(t, result.Outcome)

	skills := result.Data.([]string)
	skills[0] = "Changed"
	assert.Equal(t, []string{"Python"}, store.Snapshot().Skills)
}

func TestHandle_ReadNotFound(t *testing.T) {
	all, _ := newDispatchers(t)

	_, err := all[types.SectionExperience].Handle(context.Background(), "get_by_id", map[string]any{"experience_id": "exp_9"})
	var notFound *tools.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestHandle_Mutation(t *testing.T) {
	all, store := newDispatchers(t)

	result, err := all[types.SectionExperience].Handle(context.Background(), "add_bullet", map[string]any{
		"experience_id": "exp_1", "bullet": "Mentored interns",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.Committed)
	assert.Equal(t, "add_bullet", result.Tool)
	assert.Equal(t, result.Outcome.Message, result.Message())
	assert.Equal(t, []string{"Shipped", "Mentored interns"}, store.Snapshot().Experiences[0].Bullets)
}

func TestHandle_FailedMutationKeepsResult(t *testing.T) {
	all, _ := newDispatchers(t)

	result, err := all[types.SectionSkills].Handle(context.Background(), "add", map[string]any{"skill": "Python"})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Outcome.Committed)
	assert.Equal(t, err.Error(), result.Message())
}
