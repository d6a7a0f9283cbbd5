package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"resume-pipeline/internal/logger"
)

// Config holds every pipeline setting. Precedence, lowest to highest:
// defaults, pipeline.yaml, environment (loaded from .env when present),
// CLI flags.
type Config struct {
	SourceDir     string `yaml:"source_dir"`
	OutputDir     string `yaml:"output_dir"`
	FinalDir      string `yaml:"final_dir"`
	BuildDir      string `yaml:"build_dir"`
	TemplateDir   string `yaml:"template_dir"`
	CoverTemplate string `yaml:"cover_template"`
	SchemaPath    string `yaml:"schema_path"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Limits struct {
		MaxExperiences       int `yaml:"max_experiences"`
		MaxProjects          int `yaml:"max_projects"`
		MaxSkillsPerCategory int `yaml:"max_skills_per_category"`
	} `yaml:"limits"`

	Optimizer struct {
		RequestDelayMS int `yaml:"request_delay_ms"`
	} `yaml:"optimizer"`

	Logger logger.Config `yaml:"logger"`
}

func Default() *Config {
	cfg := &Config{
		SourceDir:     "about-me",
		OutputDir:     "intermediate-outputs",
		FinalDir:      "output",
		BuildDir:      ".build/latex",
		TemplateDir:   "latex-template",
		CoverTemplate: "templates/cover_letter.tex",
		SchemaPath:    "schema/resume.schema.json",
	}
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Limits.MaxExperiences = 3
	cfg.Limits.MaxProjects = 2
	cfg.Limits.MaxSkillsPerCategory = 8
	cfg.Optimizer.RequestDelayMS = 500
	cfg.Logger = logger.Config{Level: "info", Format: "pretty"}
	return cfg
}

// Load builds the effective configuration. path may be empty, in which case
// pipeline.yaml is read only if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = "pipeline.yaml"
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// optional default config file
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env is optional; real environment always wins over it.
	_ = godotenv.Load()

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logger.Level = level
	}

	return cfg, nil
}
