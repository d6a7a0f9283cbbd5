package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Per-section source files in the data directory. Each file may either wrap
// its payload under the section key ({"experience": [...]}) or hold the
// payload bare.
const (
	personalInfoFile = "personal_info.json"
	educationFile    = "education.json"
	experienceFile   = "experience.json"
	projectsFile     = "projects.json"
	skillsFile       = "skills.json"
)

// LoadFromSourceDir assembles a ResumeDocument from the per-section JSON
// files in dir. Missing section files leave that section empty; the schema
// validator decides afterwards whether the result is acceptable.
func LoadFromSourceDir(dir string) (*ResumeDocument, error) {
	doc := &ResumeDocument{}

	if b, err := readIfExists(filepath.Join(dir, personalInfoFile)); err != nil {
		return nil, err
	} else if b != nil {
		if err := json.Unmarshal(b, &doc.PersonalInfo); err != nil {
			return nil, fmt.Errorf("parse %s: %w", personalInfoFile, err)
		}
	}

	if err := loadSection(filepath.Join(dir, experienceFile), "experience", &doc.Experience); err != nil {
		return nil, err
	}
	if err := loadSection(filepath.Join(dir, projectsFile), "projects", &doc.Projects); err != nil {
		return nil, err
	}
	if err := loadSection(filepath.Join(dir, educationFile), "education", &doc.Education); err != nil {
		return nil, err
	}

	if b, err := readIfExists(filepath.Join(dir, skillsFile)); err != nil {
		return nil, err
	} else if b != nil {
		skills, err := parseSkills(b)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", skillsFile, err)
		}
		doc.Skills = skills
	}

	doc.normalize()
	return doc, nil
}

func readIfExists(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// loadSection decodes a list section, accepting both the wrapped and the
// bare array form.
func loadSection[T any](path, key string, out *[]T) error {
	b, err := readIfExists(path)
	if err != nil || b == nil {
		return err
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapped); err == nil {
		if raw, ok := wrapped[key]; ok {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("parse %s.%s: %w", filepath.Base(path), key, err)
			}
			return nil
		}
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// parseSkills accepts {"skills": {...}} or the bare category map.
func parseSkills(b []byte) (map[string][]string, error) {
	var wrapped struct {
		Skills map[string][]string `json:"skills"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && len(wrapped.Skills) > 0 {
		return wrapped.Skills, nil
	}

	var bare map[string][]string
	if err := json.Unmarshal(b, &bare); err != nil {
		return nil, err
	}
	delete(bare, "skills")
	return bare, nil
}
