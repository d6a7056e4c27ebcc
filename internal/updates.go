package internal

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Update kinds. Each one touches exactly one section of a Resume.
const (
	UpdateSetPersonalInfo = "set_personal_info"
	UpdateAddExperience   = "add_experience"
	UpdateSetEducation    = "set_education"
	UpdateAddProject      = "add_project"
	UpdateSetSkills       = "set_skills"
	UpdateSetSummary      = "set_summary"
)

// toolAliases maps the agent tool names onto update kinds.
var toolAliases = map[string]string{
	"addpersonalinformation": UpdateSetPersonalInfo,
	"addexperience":          UpdateAddExperience,
	"addeducation":           UpdateSetEducation,
	"addprojects":            UpdateAddProject,
	"addskills":              UpdateSetSkills,
	"addsummary":             UpdateSetSummary,
}

// Update is one structured update operation. Args is decoded lazily
// according to Kind, so the same envelope serves JSON and YAML input.
type Update struct {
	Kind string    `yaml:"kind"`
	Args yaml.Node `yaml:"args"`
}

type experienceArgs struct {
	Company          string   `yaml:"company"`
	Title            string   `yaml:"title"`
	JobTitle         string   `yaml:"job_title"`
	StartDate        string   `yaml:"start_date"`
	EndDate          string   `yaml:"end_date"`
	JobType          string   `yaml:"job_type"`
	Location         string   `yaml:"location"`
	Responsibilities []string `yaml:"responsibilities"`
}

type summaryArgs struct {
	Summary string `yaml:"summary"`
}

// NewUpdate builds an update from a Go value holding its arguments.
func NewUpdate(kind string, args any) (Update, error) {
	u := Update{Kind: kind}
	if args == nil {
		return u, nil
	}
	if err := u.Args.Encode(args); err != nil {
		return Update{}, &UpdateError{Kind: kind, Err: err}
	}
	return u, nil
}

// ParseUpdates decodes a single update or a list of updates. JSON input is
// accepted as well since it is valid YAML.
func ParseUpdates(data []byte) ([]Update, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Source: "update", Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	var updates []Update
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&updates); err != nil {
			return nil, &ParseError{Source: "update", Err: err}
		}
	case yaml.MappingNode:
		var u Update
		if err := doc.Decode(&u); err != nil {
			return nil, &ParseError{Source: "update", Err: err}
		}
		updates = []Update{u}
	default:
		return nil, &ParseError{Source: "update", Err: fmt.Errorf("expected an object or a list, got %s", doc.Tag)}
	}

	for i := range updates {
		updates[i].Kind = canonicalKind(updates[i].Kind)
	}
	return updates, nil
}

func canonicalKind(kind string) string {
	k := strings.TrimSpace(kind)
	if alias, ok := toolAliases[strings.ToLower(k)]; ok {
		return alias
	}
	return k
}

// ApplyUpdate applies u to doc. Missing fields fall back to their defaults;
// only an unknown kind or undecodable arguments produce an error.
func ApplyUpdate(doc *Resume, u Update) error {
	kind := canonicalKind(u.Kind)
	switch kind {
	case UpdateSetPersonalInfo:
		var info PersonalInfo
		if err := decodeArgs(u, &info); err != nil {
			return err
		}
		doc.SetPersonalInfo(info)
	case UpdateAddExperience:
		var args experienceArgs
		if err := decodeArgs(u, &args); err != nil {
			return err
		}
		title := args.Title
		if title == "" {
			title = args.JobTitle
		}
		doc.AddExperience(ExperienceEntry{
			Company:          args.Company,
			Title:            title,
			StartDate:        args.StartDate,
			EndDate:          args.EndDate,
			JobType:          args.JobType,
			Location:         args.Location,
			Responsibilities: args.Responsibilities,
		})
	case UpdateSetEducation:
		var entries EducationList
		if err := decodeArgs(u, &entries); err != nil {
			return err
		}
		doc.SetEducation(entries...)
	case UpdateAddProject:
		var project ProjectEntry
		if err := decodeArgs(u, &project); err != nil {
			return err
		}
		doc.AddProject(project)
	case UpdateSetSkills:
		var skills Skills
		if err := decodeArgs(u, &skills); err != nil {
			return err
		}
		doc.SetSkills(skills)
	case UpdateSetSummary:
		var args summaryArgs
		if u.Args.Kind == yaml.ScalarNode {
			args.Summary = u.Args.Value
		} else if err := decodeArgs(u, &args); err != nil {
			return err
		}
		doc.SetSummary(args.Summary)
	default:
		return &UpdateError{Kind: u.Kind, Err: fmt.Errorf("unknown update kind")}
	}

	LogDebug("Applied update %s", kind)
	return nil
}

// ApplyUpdates applies updates in order and stops at the first failure.
func ApplyUpdates(doc *Resume, updates []Update) error {
	for _, u := range updates {
		if err := ApplyUpdate(doc, u); err != nil {
			return err
		}
	}
	return nil
}

func decodeArgs(u Update, v any) error {
	if u.Args.Kind == 0 {
		return nil
	}
	if err := u.Args.Decode(v); err != nil {
		return &UpdateError{Kind: u.Kind, Err: err}
	}
	return nil
}
