package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Go models that match schema/resume.schema.json, used for validation,
// filtering, optimization and rendering.

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Experience struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Location  string   `json:"location,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`

	// Relevance is attached by the filter for debugging only; it carries no
	// meaning downstream.
	Relevance *float64 `json:"relevance_score,omitempty"`
}

type Project struct {
	Name      string   `json:"name"`
	URL       string   `json:"url,omitempty"`
	Tech      []string `json:"tech,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	Relevance *float64 `json:"relevance_score,omitempty"`
}

type Education struct {
	Institution        string   `json:"institution"`
	Degree             string   `json:"degree"`
	StartDate          string   `json:"start_date,omitempty"`
	EndDate            string   `json:"end_date,omitempty"`
	Location           string   `json:"location,omitempty"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework,omitempty"`
}

type ResumeDocument struct {
	PersonalInfo PersonalInfo        `json:"personal_info"`
	Experience   []Experience        `json:"experience"`
	Projects     []Project           `json:"projects"`
	Education    []Education         `json:"education"`
	Skills       map[string][]string `json:"skills"`
}

// Clone returns a deep copy via a JSON round trip, so derived documents
// never alias the source.
func (d *ResumeDocument) Clone() (*ResumeDocument, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone marshal: %w", err)
	}
	var out ResumeDocument
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("clone unmarshal: %w", err)
	}
	out.normalize()
	return &out, nil
}

// normalize replaces nil collections with empty ones so marshaled documents
// always carry arrays/objects where the schema expects them.
func (d *ResumeDocument) normalize() {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = map[string][]string{}
	}
}

// Load reads a combined resume document from a single JSON file.
func Load(path string) (*ResumeDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume %s: %w", path, err)
	}
	var doc ResumeDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse resume %s: %w", path, err)
	}
	doc.normalize()
	return &doc, nil
}

// Save writes the document as indented JSON, creating parent directories.
func Save(doc *ResumeDocument, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write resume %s: %w", path, err)
	}
	return nil
}
