package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Ranvijay Singh", p.Profile.Name)
	assert.Len(t, p.Profile.About, 4)
	assert.Len(t, p.Education, 3)
	assert.Len(t, p.Certifications, 2)
	assert.Len(t, p.Experience, 2)
	assert.Len(t, p.Skills, 8)
	assert.Len(t, p.Projects, 6)
	assert.Len(t, p.Channels, 2)

	assert.Equal(t, "CGPA: 8.64", p.Education[0].Grade)
	assert.Equal(t, "Sales & Revenue Dashboard", p.Projects[0].Title)
}

func TestEverySectionResolves(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	for _, name := range Sections {
		t.Run(name, func(t *testing.T) {
			v, ok := p.Section(name)
			assert.True(t, ok)
			assert.NotNil(t, v)
			assert.True(t, IsSection(name))
		})
	}

	_, ok := p.Section("blog")
	assert.False(t, ok)
	assert.False(t, IsSection("blog"))
}

func TestEducationSectionIncludesCertifications(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	v, _ := p.Section("education")
	want := EducationSection{Education: p.Education, Certifications: p.Certifications}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("education section mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsIncompleteEntries(t *testing.T) {
	doc := []byte(`
profile:
  name: ""
education:
  - institution: Somewhere
skills:
  - category: Empty
projects:
  - description: untitled
`)

	_, err := Parse(doc)
	require.Error(t, err)
	for _, want := range []string{
		"profile name is required",
		"education[0]",
		"skills[0]",
		"projects[0]",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("profile: [unterminated"))
	assert.ErrorContains(t, err, "content: decode")
}
