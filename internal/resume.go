package internal

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultJobType is stored when an experience entry arrives without a job type.
const DefaultJobType = "Not Specified"

// Section names, in rendering order.
const (
	SectionPersonal   = "personal"
	SectionSummary    = "summary"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionExperience = "experience"
	SectionProjects   = "projects"
)

// Resume is the structured document built up over a session.
// Every field is always present; emptiness stands in for absence.
type Resume struct {
	Personal   PersonalInfo      `json:"personal_info" yaml:"personal_info"`
	Summary    string            `json:"summary" yaml:"summary"`
	Experience []ExperienceEntry `json:"experience" yaml:"experience"`
	Education  EducationList     `json:"education" yaml:"education"`
	Projects   []ProjectEntry    `json:"projects" yaml:"projects"`
	Skills     Skills            `json:"skills" yaml:"skills"`
}

// PersonalInfo is replaced as a whole on every update.
type PersonalInfo struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
}

// ExperienceEntry is one position. An empty EndDate means the position is current.
type ExperienceEntry struct {
	Company          string   `json:"company" yaml:"company"`
	Title            string   `json:"title" yaml:"title"`
	StartDate        string   `json:"start_date" yaml:"start_date"`
	EndDate          string   `json:"end_date" yaml:"end_date"`
	JobType          string   `json:"job_type" yaml:"job_type"`
	Location         string   `json:"location,omitempty" yaml:"location,omitempty"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

// EducationEntry is one degree.
type EducationEntry struct {
	Institution    string `json:"institution" yaml:"institution"`
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
	Degree         string `json:"degree" yaml:"degree"`
	GraduationDate string `json:"graduation_date" yaml:"graduation_date"`
}

// ProjectEntry is one project.
type ProjectEntry struct {
	Title     string   `json:"title" yaml:"title"`
	TechStack []string `json:"tech_stack" yaml:"tech_stack"`
	Features  []string `json:"features" yaml:"features"`
	Duration  string   `json:"duration" yaml:"duration"`
}

// Skills holds the four skill buckets.
type Skills struct {
	Languages      []string `json:"languages" yaml:"languages"`
	Frameworks     []string `json:"frameworks" yaml:"frameworks"`
	DeveloperTools []string `json:"developer_tools" yaml:"developer_tools"`
	Libraries      []string `json:"libraries" yaml:"libraries"`
}

// EducationList decodes from either a single education object or a list of them.
type EducationList []EducationEntry

// UnmarshalJSON accepts an object, a list of objects or null.
func (l *EducationList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "" || trimmed == "null":
		*l = EducationList{}
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var entry EducationEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to parse education entry: %w", err)
		}
		*l = EducationList{entry}
		return nil
	}

	var entries []EducationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse education list: %w", err)
	}
	*l = entries
	return nil
}

// UnmarshalYAML accepts a mapping, a sequence of mappings or null.
func (l *EducationList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		var entry EducationEntry
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("failed to parse education entry: %w", err)
		}
		*l = EducationList{entry}
		return nil
	case yaml.SequenceNode:
		var entries []EducationEntry
		if err := value.Decode(&entries); err != nil {
			return fmt.Errorf("failed to parse education list: %w", err)
		}
		*l = entries
		return nil
	}
	*l = EducationList{}
	return nil
}

// NewResume returns a document with every section in its empty state.
func NewResume() *Resume {
	r := &Resume{}
	r.Normalize()
	return r
}

// Normalize restores the no-nil invariant after decoding and fills entry defaults.
func (r *Resume) Normalize() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	for i := range r.Experience {
		r.Experience[i].normalize()
	}
	if r.Education == nil {
		r.Education = EducationList{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectEntry{}
	}
	for i := range r.Projects {
		r.Projects[i].normalize()
	}
	r.Skills.normalize()
}

func (e *ExperienceEntry) normalize() {
	if e.JobType == "" {
		e.JobType = DefaultJobType
	}
	e.Responsibilities = nonNil(e.Responsibilities)
}

func (p *ProjectEntry) normalize() {
	p.TechStack = nonNil(p.TechStack)
	p.Features = nonNil(p.Features)
}

func (s *Skills) normalize() {
	s.Languages = nonNil(s.Languages)
	s.Frameworks = nonNil(s.Frameworks)
	s.DeveloperTools = nonNil(s.DeveloperTools)
	s.Libraries = nonNil(s.Libraries)
}

// SetPersonalInfo replaces the personal section.
func (r *Resume) SetPersonalInfo(info PersonalInfo) {
	r.Personal = info
}

// SetSummary replaces the objective/summary text.
func (r *Resume) SetSummary(summary string) {
	r.Summary = summary
}

// AddExperience appends a new entry. Existing entries are never merged.
func (r *Resume) AddExperience(entry ExperienceEntry) {
	entry.Responsibilities = slices.Clone(entry.Responsibilities)
	entry.normalize()
	r.Experience = append(r.Experience, entry)
}

// SetEducation replaces the education section with the given entries.
func (r *Resume) SetEducation(entries ...EducationEntry) {
	r.Education = append(EducationList{}, entries...)
}

// AddProject appends a new project entry.
func (r *Resume) AddProject(project ProjectEntry) {
	project.TechStack = slices.Clone(project.TechStack)
	project.Features = slices.Clone(project.Features)
	project.normalize()
	r.Projects = append(r.Projects, project)
}

// SetSkills replaces all four skill buckets.
func (r *Resume) SetSkills(skills Skills) {
	r.Skills = skills.clone()
	r.Skills.normalize()
}

// Clone returns a deep copy.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return NewResume()
	}
	c := &Resume{
		Personal:   r.Personal,
		Summary:    r.Summary,
		Experience: make([]ExperienceEntry, len(r.Experience)),
		Education:  append(EducationList{}, r.Education...),
		Projects:   make([]ProjectEntry, len(r.Projects)),
		Skills:     r.Skills.clone(),
	}
	for i, e := range r.Experience {
		e.Responsibilities = slices.Clone(e.Responsibilities)
		c.Experience[i] = e
	}
	for i, p := range r.Projects {
		p.TechStack = slices.Clone(p.TechStack)
		p.Features = slices.Clone(p.Features)
		c.Projects[i] = p
	}
	c.Normalize()
	return c
}

func (s Skills) clone() Skills {
	return Skills{
		Languages:      slices.Clone(s.Languages),
		Frameworks:     slices.Clone(s.Frameworks),
		DeveloperTools: slices.Clone(s.DeveloperTools),
		Libraries:      slices.Clone(s.Libraries),
	}
}

// IsEmpty reports whether every personal field is blank.
func (p PersonalInfo) IsEmpty() bool {
	return allBlank(p.Name, p.Email, p.Phone, p.GitHub, p.LinkedIn)
}

// IsEmpty reports whether every field of the entry is blank.
func (e EducationEntry) IsEmpty() bool {
	return allBlank(e.Institution, e.Location, e.Degree, e.GraduationDate)
}

// IsEmpty reports whether no bucket holds a non-blank item.
func (s Skills) IsEmpty() bool {
	return allBlank(s.Languages...) && allBlank(s.Frameworks...) &&
		allBlank(s.DeveloperTools...) && allBlank(s.Libraries...)
}

// FilledSections lists the sections that carry content, in rendering order.
func (r *Resume) FilledSections() []string {
	var sections []string
	if !r.Personal.IsEmpty() {
		sections = append(sections, SectionPersonal)
	}
	if strings.TrimSpace(r.Summary) != "" {
		sections = append(sections, SectionSummary)
	}
	if slices.ContainsFunc(r.Education, func(e EducationEntry) bool { return !e.IsEmpty() }) {
		sections = append(sections, SectionEducation)
	}
	if !r.Skills.IsEmpty() {
		sections = append(sections, SectionSkills)
	}
	if len(r.Experience) > 0 {
		sections = append(sections, SectionExperience)
	}
	if len(r.Projects) > 0 {
		sections = append(sections, SectionProjects)
	}
	return sections
}

// IsEmpty reports whether no section carries content.
func (r *Resume) IsEmpty() bool {
	return len(r.FilledSections()) == 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func allBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
