package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *Resume {
	return &Resume{
		Summary: "Backend engineer",
		Experiences: []Experience{
			{ID: "exp_1", Company: "Acme", Role: "Engineer", Dates: "2020-2023", Bullets: []string{"Built APIs"}},
			{ID: "exp_3", Company: "Initech", Role: "Intern", Dates: "2019", Bullets: []string{}},
		},
		Skills:    []string{"Go", "SQL"},
		Projects:  []Project{{ID: "proj_2", Name: "Forge", Description: "Resume editor", Technologies: []string{"Go"}}},
		Education: []Education{{ID: "edu_1", Institution: "State U", Degree: "BSc", Dates: "2015-2019"}},
	}
}

func TestResume_CloneIsDeep(t *testing.T) {
	original := sampleResume()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Experiences[0].Bullets[0] = "changed"
	clone.Skills[0] = "Rust"
	clone.Projects[0].Technologies = append(clone.Projects[0].Technologies, "SQL")
	clone.Education[0].Details = "honors"

	assert.Equal(t, "Built APIs", original.Experiences[0].Bullets[0])
	assert.Equal(t, "Go", original.Skills[0])
	assert.Equal(t, []string{"Go"}, original.Projects[0].Technologies)
	assert.Empty(t, original.Education[0].Details)
}

func TestResume_CloneNil(t *testing.T) {
	var r *Resume
	assert.Nil(t, r.Clone())
}

func TestResume_NormalizeInitializesCounters(t *testing.T) {
	r := sampleResume()
	r.Normalize()

	assert.Equal(t, 4, r.NextIDs.Experience)
	assert.Equal(t, 3, r.NextIDs.Projects)
	assert.Equal(t, 2, r.NextIDs.Education)
}

func TestResume_NormalizeNeverLowersCounters(t *testing.T) {
	r := sampleResume()
	r.NextIDs = IDCounters{Experience: 10, Projects: 1, Education: 7}
	r.Normalize()

	assert.Equal(t, 10, r.NextIDs.Experience)
	assert.Equal(t, 3, r.NextIDs.Projects)
	assert.Equal(t, 7, r.NextIDs.Education)
}

func TestResume_NormalizeReplacesNilLists(t *testing.T) {
	r := &Resume{
		Summary:     "x",
		Experiences: []Experience{{ID: "exp_1", Company: "a", Role: "b", Dates: "c"}},
	}
	r.Normalize()

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Equal(t, []string{}, r.Experiences[0].Bullets)
}

func TestResume_AllocatedIDsAreNeverReused(t *testing.T) {
	r := sampleResume()
	r.Normalize()

	first := r.NextExperienceID()
	assert.Equal(t, "exp_4", first)

	// Removing the newest entry does not rewind the counter
	r.Experiences = r.Experiences[:1]
	assert.Equal(t, "exp_5", r.NextExperienceID())
	assert.Equal(t, "proj_3", r.NextProjectID())
	assert.Equal(t, "edu_2", r.NextEducationID())
}

func TestResume_Finders(t *testing.T) {
	r := sampleResume()

	assert.Equal(t, 1, r.FindExperience("exp_3"))
	assert.Equal(t, -1, r.FindExperience("exp_2"))
	assert.Equal(t, 0, r.FindProject("proj_2"))
	assert.Equal(t, -1, r.FindEducation("edu_9"))
	assert.True(t, r.HasSkill("Go"))
	assert.False(t, r.HasSkill("go"), "skills are case-sensitive")
}

func TestIDSequence(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
		want   int
	}{
		{name: "simple", id: "exp_7", prefix: ExperienceIDPrefix, want: 7},
		{name: "wrong prefix", id: "proj_7", prefix: ExperienceIDPrefix, want: 0},
		{name: "non numeric", id: "exp_x", prefix: ExperienceIDPrefix, want: 0},
		{name: "negative", id: "edu_-2", prefix: EducationIDPrefix, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IDSequence(tt.id, tt.prefix))
		})
	}
}

func TestParseSection(t *testing.T) {
	for _, name := range []string{"summary", "Experience", "experiences", " skills ", "projects", "education"} {
		_, ok := ParseSection(name)
		assert.True(t, ok, name)
	}
	_, ok := ParseSection("hobbies")
	assert.False(t, ok)
}
