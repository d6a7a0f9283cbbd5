package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"resume-pipeline/internal/config"
	"resume-pipeline/internal/filter"
	"resume-pipeline/internal/logger"
	"resume-pipeline/internal/optimizer"
	"resume-pipeline/internal/pipeline"
)

var (
	flagConfig      string
	flagSteps       string
	flagSourceDir   string
	flagOutputDir   string
	flagFinalOutput string
	flagAPIKey      string
	flagModel       string
	flagDry         bool
	flagConcise     bool
	flagCoverLetter bool
	flagCompany     string
	flagMaxExp      int
	flagMaxProj     int
	flagMaxSkills   int
)

func main() {
	root := &cobra.Command{
		Use:   "resume-pipeline <job-description.txt>",
		Short: "Tailor a resume to a job description and compile it to PDF",
		Long: `resume-pipeline reads structured resume data, filters it against a job
description, rewrites bullet points with Gemini, and compiles the result
to PDF through LaTeX. Intermediate outputs are written after every stage
so runs can be resumed with --step.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "path to pipeline.yaml")
	root.Flags().StringVar(&flagSteps, "step", "all", `stages to run: "all", "2", or "1-3"`)
	root.Flags().StringVar(&flagSourceDir, "source-dir", "", "directory with resume source JSON")
	root.Flags().StringVar(&flagOutputDir, "output-dir", "", "directory for intermediate artifacts")
	root.Flags().StringVarP(&flagFinalOutput, "final-output", "o", "", "path for the final resume PDF")
	root.Flags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	root.Flags().StringVar(&flagModel, "model", "", "Gemini model name")
	root.Flags().BoolVar(&flagDry, "dry-run", false, "skip the text service, keep content unchanged")
	root.Flags().BoolVar(&flagConcise, "concise", false, "rewrite bullets for a tighter one-page layout")
	root.Flags().BoolVar(&flagCoverLetter, "cover-letter", false, "also generate a cover letter PDF")
	root.Flags().StringVar(&flagCompany, "company-name", "", "company name for the cover letter")
	root.Flags().IntVar(&flagMaxExp, "max-experiences", 0, "max experience entries to keep")
	root.Flags().IntVar(&flagMaxProj, "max-projects", 0, "max project entries to keep")
	root.Flags().IntVar(&flagMaxSkills, "max-skills-per-category", 0, "max skills per category")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logger)

	steps, err := pipeline.ParseSteps(flagSteps)
	if err != nil {
		return err
	}

	if flagSourceDir != "" {
		cfg.SourceDir = flagSourceDir
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagAPIKey != "" {
		cfg.Gemini.APIKey = flagAPIKey
	}
	if flagModel != "" {
		cfg.Gemini.Model = flagModel
	}
	if flagMaxExp > 0 {
		cfg.Limits.MaxExperiences = flagMaxExp
	}
	if flagMaxProj > 0 {
		cfg.Limits.MaxProjects = flagMaxProj
	}
	if flagMaxSkills > 0 {
		cfg.Limits.MaxSkillsPerCategory = flagMaxSkills
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen optimizer.TextGenerator
	if needsGenerator(steps, flagCoverLetter) && !flagDry {
		if cfg.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set; pass --api-key or use --dry-run")
		}
		gen, err = optimizer.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return fmt.Errorf("create text client: %w", err)
		}
	}

	p := pipeline.New(pipeline.Options{
		JobDescriptionPath: args[0],
		Steps:              steps,
		SourceDir:          cfg.SourceDir,
		OutputDir:          cfg.OutputDir,
		FinalOutput:        flagFinalOutput,
		FinalDir:           cfg.FinalDir,
		BuildDir:           cfg.BuildDir,
		TemplateDir:        cfg.TemplateDir,
		CoverTemplate:      cfg.CoverTemplate,
		SchemaPath:         cfg.SchemaPath,
		Limits:             limits(cfg),
		Dry:                flagDry,
		Concise:            flagConcise,
		CoverLetter:        flagCoverLetter,
		CompanyName:        flagCompany,
		RequestDelay:       time.Duration(cfg.Optimizer.RequestDelayMS) * time.Millisecond,
	}, gen)

	if err := p.Run(ctx); err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		return err
	}
	return nil
}

// needsGenerator reports whether any selected stage talks to the text service.
func needsGenerator(steps pipeline.StepRange, coverLetter bool) bool {
	if steps.Contains(pipeline.StageOptimize) || steps.Contains(pipeline.StageCoverLetter) {
		return true
	}
	return coverLetter && steps.To >= pipeline.StageRender
}

func limits(cfg *config.Config) filter.Limits {
	return filter.Limits{
		MaxExperiences:       cfg.Limits.MaxExperiences,
		MaxProjects:          cfg.Limits.MaxProjects,
		MaxSkillsPerCategory: cfg.Limits.MaxSkillsPerCategory,
	}
}
