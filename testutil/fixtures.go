package testutil

import (
	"path/filepath"
	"testing"
)

// SampleUpdatesYAML is a batch of structured updates covering every kind
const SampleUpdatesYAML = `
- kind: set_personal_info
  args:
    name: Ada Lovelace
    email: ada@x.io
    github: https://github.com/ada
- kind: set_summary
  args: Writes programs for engines & looms.
- kind: set_education
  args:
    institution: University of London
    degree: Mathematics
    graduation_date: "1835"
- kind: set_skills
  args:
    languages: [Notation G]
- kind: add_experience
  args:
    company: Analytical Engines
    job_title: Engineer
    start_date: "1842"
    responsibilities:
      - "• Designed punched-card programs"
- kind: add_project
  args:
    title: Bernoulli numbers
    tech_stack: [Analytical Engine]
    features: [First published algorithm]
`

// SampleUpdatesJSON is a single tool-call update in JSON, using a tool name as kind
const SampleUpdatesJSON = `{"kind": "AddExperience", "args": {"company": "Babbage & Co", "title": "Analyst", "responsibilities": ["- Notes on the engine"]}}`

// CreateUpdatesFixture writes the sample YAML updates to dir and returns the path
func CreateUpdatesFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "updates.yaml")
	WriteFile(t, path, []byte(SampleUpdatesYAML))
	return path
}

// CreateConfigFixture writes a config file selecting backend with data under dir
func CreateConfigFixture(t *testing.T, dir, backend string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := "backend: " + backend + "\n" +
		"log_level: error\n" +
		"file:\n  dir: " + filepath.Join(dir, "sessions") + "\n" +
		"sqlite:\n  path: " + filepath.Join(dir, "sessions.db") + "\n"
	WriteFile(t, path, []byte(content))
	return path
}
