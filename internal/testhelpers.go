package internal

import (
	"time"
)

// CreateTestResume creates a résumé with every section filled
func CreateTestResume() *Resume {
	r := NewResume()
	r.SetPersonalInfo(PersonalInfo{
		Name:     "Ada Lovelace",
		Email:    "ada@x.io",
		Phone:    "+44 20 7946 0000",
		GitHub:   "https://github.com/ada",
		LinkedIn: "https://www.linkedin.com/in/ada-lovelace/",
	})
	r.SetSummary("Mathematician writing programs for machines that do not exist yet.")
	r.SetEducation(EducationEntry{
		Institution:    "University of London",
		Location:       "London",
		Degree:         "Mathematics",
		GraduationDate: "1835-06",
	})
	r.SetSkills(Skills{
		Languages:      []string{"Punched cards", "Notation G"},
		DeveloperTools: []string{"Difference Engine"},
	})
	r.AddExperience(ExperienceEntry{
		Company:          "Analytical Engines",
		Title:            "Engineer",
		StartDate:        "1842-01",
		Responsibilities: []string{"Designed punched-card programs"},
	})
	r.AddProject(ProjectEntry{
		Title:     "Bernoulli numbers",
		TechStack: []string{"Analytical Engine"},
		Features:  []string{"- First published algorithm"},
		Duration:  "9 months",
	})
	return r
}

// CreateTestRecord creates a test session record with sample data
func CreateTestRecord(id string) *SessionRecord {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &SessionRecord{
		ID: id,
		Messages: []RawMessage{
			{Type: "human", Content: "Hello, I want to build a resume."},
			{Type: "ai", Content: "Great, what is your name?"},
		},
		Resume:    CreateTestResume(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestRecordWithMessages creates a test record with custom messages and an empty résumé
func CreateTestRecordWithMessages(id string, messages []RawMessage) *SessionRecord {
	return &SessionRecord{
		ID:       id,
		Messages: messages,
		Resume:   NewResume(),
	}
}
