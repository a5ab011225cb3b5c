package tools

import (
	"testing"

	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SectionOperations(t *testing.T) {
	want := map[types.Section][]Operation{
		types.SectionSummary:    {OpGet, OpUpdate},
		types.SectionExperience: {OpGetAll, OpGetByID, OpUpdate, OpAdd, OpRemove, OpAddBullet, OpUpdateBullet, OpRemoveBullet},
		types.SectionSkills:     {OpGet, OpAdd, OpRemove},
		types.SectionProjects:   {OpGetAll, OpGetByID, OpUpdate, OpAdd, OpRemove, OpAddTechnology, OpRemoveTechnology},
		types.SectionEducation:  {OpGetAll, OpGetByID, OpUpdate, OpAdd, OpRemove},
	}

	for section, ops := range want {
		t.Run(string(section), func(t *testing.T) {
			got := ForSection(section)
			require.Len(t, got, len(ops))
			for i, op := range ops {
				assert.Equal(t, op, got[i].Operation)
				tool, ok := Lookup(section, op)
				require.True(t, ok)
				assert.Same(t, got[i], tool)
			}
		})
	}
}

func TestRegistry_ReadOnlyTools(t *testing.T) {
	for _, tool := range Catalog() {
		isRead := tool.Operation == OpGet || tool.Operation == OpGetAll || tool.Operation == OpGetByID
		assert.Equal(t, isRead, tool.ReadOnly(), tool.Name)
	}
}

func TestRegistry_ByName(t *testing.T) {
	tool, ok := ByName("add_skill")
	require.True(t, ok)
	assert.Equal(t, types.SectionSkills, tool.Section)
	assert.Equal(t, OpAdd, tool.Operation)

	_, ok = ByName("add_hobby")
	assert.False(t, ok)

	_, ok = Lookup(types.SectionSkills, OpUpdate)
	assert.False(t, ok, "skills has no update operation")
}

func TestCatalog_IsACopy(t *testing.T) {
	catalog := Catalog()
	catalog[0] = nil
	assert.NotNil(t, Catalog()[0])
}
