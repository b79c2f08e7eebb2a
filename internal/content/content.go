package content

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

type Profile struct {
	Name     string   `yaml:"name" json:"name"`
	Headline string   `yaml:"headline" json:"headline"`
	Summary  string   `yaml:"summary" json:"summary"`
	Tagline  string   `yaml:"tagline" json:"tagline"`
	Resume   string   `yaml:"resume" json:"resume,omitempty"`
	About    []string `yaml:"about" json:"about"`
}

type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Period      string `yaml:"period" json:"period"`
	Grade       string `yaml:"grade" json:"grade,omitempty"`
}

type Certification struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Experience struct {
	Role         string   `yaml:"role" json:"role"`
	Company      string   `yaml:"company" json:"company"`
	Period       string   `yaml:"period" json:"period"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

type SkillCategory struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Project struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Tags        []string `yaml:"tags" json:"tags"`
	DemoURL     string   `yaml:"demo_url" json:"demoUrl,omitempty"`
	RepoURL     string   `yaml:"repo_url" json:"repoUrl,omitempty"`
}

// Channel is a public way to reach the site owner besides the contact form.
type Channel struct {
	Kind  string `yaml:"kind" json:"kind"`
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Portfolio is the fixed content shown on the site.
type Portfolio struct {
	Profile        Profile         `yaml:"profile" json:"profile"`
	Education      []Education     `yaml:"education" json:"education"`
	Certifications []Certification `yaml:"certifications" json:"certifications"`
	Experience     []Experience    `yaml:"experience" json:"experience"`
	Skills         []SkillCategory `yaml:"skills" json:"skills"`
	Projects       []Project       `yaml:"projects" json:"projects"`
	Channels       []Channel       `yaml:"channels" json:"channels"`
}

// Sections lists the section names accepted by Section, in site order.
var Sections = []string{"profile", "about", "skills", "projects", "experience", "education", "contact"}

// EducationSection groups degrees with certifications, as shown on the
// education page.
type EducationSection struct {
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
}

// Load parses the embedded portfolio document.
func Load() (*Portfolio, error) {
	return Parse(portfolioYAML)
}

// Parse decodes and validates a portfolio document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every entry missing a required field.
func (p *Portfolio) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("content: "+format, args...))
		}
	}

	check(p.Profile.Name != "", "profile name is required")
	for i, e := range p.Education {
		check(e.Degree != "" && e.Institution != "", "education[%d]: degree and institution are required", i)
	}
	for i, c := range p.Certifications {
		check(c.Title != "", "certifications[%d]: title is required", i)
	}
	for i, e := range p.Experience {
		check(e.Role != "" && e.Company != "", "experience[%d]: role and company are required", i)
	}
	for i, s := range p.Skills {
		check(s.Category != "" && len(s.Items) > 0, "skills[%d]: category and items are required", i)
	}
	for i, pr := range p.Projects {
		check(pr.Title != "", "projects[%d]: title is required", i)
	}
	for i, c := range p.Channels {
		check(c.URL != "", "channels[%d]: url is required", i)
	}

	return errors.Join(errs...)
}

// Section returns the data behind a named section.
func (p *Portfolio) Section(name string) (any, bool) {
	switch name {
	case "profile":
		return p.Profile, true
	case "about":
		return p.Profile.About, true
	case "skills":
		return p.Skills, true
	case "projects":
		return p.Projects, true
	case "experience":
		return p.Experience, true
	case "education":
		return EducationSection{Education: p.Education, Certifications: p.Certifications}, true
	case "contact":
		return p.Channels, true
	default:
		return nil, false
	}
}

// IsSection reports whether name is a known section.
func IsSection(name string) bool {
	return slices.Contains(Sections, name)
}
