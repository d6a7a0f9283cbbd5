package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-pipeline/internal/compiler"
	"resume-pipeline/internal/coverletter"
	"resume-pipeline/internal/filter"
	"resume-pipeline/internal/model"
	"resume-pipeline/internal/optimizer"
	"resume-pipeline/internal/render"
)

// Options configures one pipeline run.
type Options struct {
	JobDescriptionPath string
	Steps              StepRange

	SourceDir     string
	OutputDir     string // intermediate artifacts
	FinalOutput   string // final PDF path; derived from job name when empty
	FinalDir      string
	BuildDir      string
	TemplateDir   string
	CoverTemplate string
	SchemaPath    string

	Limits       filter.Limits
	Dry          bool
	Concise      bool
	CoverLetter  bool
	CompanyName  string
	RequestDelay time.Duration
}

// Pipeline sequences the stages: filter, optimize, render+compile, and the
// optional cover letter. Every stage output is persisted before the next
// stage runs; a stage failure halts the chain and reports the stage.
type Pipeline struct {
	opts     Options
	gen      optimizer.TextGenerator
	compiler *compiler.Compiler
	runID    uuid.UUID
	log      zerolog.Logger
}

// New wires a pipeline. gen may be nil only when every selected stage that
// talks to the text service runs in dry mode.
func New(opts Options, gen optimizer.TextGenerator) *Pipeline {
	runID := uuid.New()
	return &Pipeline{
		opts:     opts,
		gen:      gen,
		compiler: compiler.New(),
		runID:    runID,
		log:      log.With().Str("component", "pipeline").Str("run_id", runID.String()).Logger(),
	}
}

// Run executes the selected stages in order.
func (p *Pipeline) Run(ctx context.Context) error {
	jobText, err := os.ReadFile(p.opts.JobDescriptionPath)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}

	jobName := strings.TrimSuffix(filepath.Base(p.opts.JobDescriptionPath), filepath.Ext(p.opts.JobDescriptionPath))
	timestamp := time.Now().Format("20060102_150405")

	run := &runState{
		jobName:   jobName,
		jobText:   string(jobText),
		timestamp: timestamp,
	}

	p.log.Info().
		Str("job", jobName).
		Str("steps", fmt.Sprintf("%d-%d", p.opts.Steps.From, p.opts.Steps.To)).
		Bool("dry", p.opts.Dry).
		Msg("starting pipeline")

	stages := []struct {
		num int
		fn  func(context.Context, *runState) error
	}{
		{StageFilter, p.runFilter},
		{StageOptimize, p.runOptimize},
		{StageRender, p.runRender},
		{StageCoverLetter, p.runCoverLetter},
	}

	for _, stage := range stages {
		if !p.selected(stage.num) {
			continue
		}
		name := stageNames[stage.num]
		p.log.Info().Int("stage", stage.num).Str("name", name).Msg("stage starting")
		if err := stage.fn(ctx, run); err != nil {
			p.log.Error().Int("stage", stage.num).Err(err).Msg("stage failed")
			return &StageError{Stage: stage.num, Name: name, Err: err}
		}
		p.log.Info().Int("stage", stage.num).Str("name", name).Msg("stage completed")
	}

	p.log.Info().Msg("pipeline completed")
	return nil
}

func (p *Pipeline) selected(stage int) bool {
	if stage == StageCoverLetter {
		return p.opts.Steps.Contains(stage) || (p.opts.CoverLetter && p.opts.Steps.To >= StageRender)
	}
	return p.opts.Steps.Contains(stage)
}

// runState carries the per-run values and the artifact paths produced so
// far, so later stages can prefer this run's outputs over older artifacts.
type runState struct {
	jobName   string
	jobText   string
	timestamp string

	filteredPath  string
	optimizedPath string
}

func (p *Pipeline) runFilter(ctx context.Context, run *runState) error {
	doc, err := model.LoadFromSourceDir(p.opts.SourceDir)
	if err != nil {
		return err
	}
	// fail fast: nothing downstream sees an invalid document
	if err := model.Validate(p.opts.SchemaPath, doc); err != nil {
		return err
	}

	f := filter.New(p.opts.Limits)
	filtered, err := f.Apply(doc, run.jobText)
	if err != nil {
		return err
	}

	out := filepath.Join(p.opts.OutputDir, artifactName(run.jobName, StageFilter, run.timestamp))
	if err := model.Save(filtered, out); err != nil {
		return err
	}
	run.filteredPath = out
	p.log.Info().Str("artifact", out).Msg("filtered resume saved")
	return nil
}

func (p *Pipeline) runOptimize(ctx context.Context, run *runState) error {
	in, err := p.stageInput(run.filteredPath, StageFilter, StageOptimize, run.jobName)
	if err != nil {
		return err
	}
	doc, err := model.Load(in)
	if err != nil {
		return err
	}

	opt := optimizer.New(p.gen, optimizer.Options{
		Dry:          p.opts.Dry,
		Concise:      p.opts.Concise,
		RequestDelay: p.opts.RequestDelay,
	})
	res, err := opt.Optimize(ctx, doc, run.jobText)
	if err != nil {
		return err
	}
	if res.Fallback {
		p.log.Warn().Msg("optimization fell back to unmodified content for some entries; continuing")
	}

	out := filepath.Join(p.opts.OutputDir, artifactName(run.jobName, StageOptimize, run.timestamp))
	if err := model.Save(res.Document, out); err != nil {
		return err
	}
	run.optimizedPath = out
	p.log.Info().Str("artifact", out).Msg("optimized resume saved")
	return nil
}

func (p *Pipeline) runRender(ctx context.Context, run *runState) error {
	in, err := p.stageInput(run.optimizedPath, StageOptimize, StageRender, run.jobName)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := model.ValidateBytes(p.opts.SchemaPath, raw); err != nil {
		return err
	}
	doc, err := model.Load(in)
	if err != nil {
		return err
	}

	r := render.New(p.opts.TemplateDir)
	if err := r.Render(doc, p.opts.BuildDir); err != nil {
		return err
	}

	finalOutput := p.opts.FinalOutput
	if finalOutput == "" {
		finalOutput = filepath.Join(p.opts.FinalDir, fmt.Sprintf("%s_resume_%s.pdf", run.jobName, run.timestamp))
	}
	return p.compiler.Compile(ctx, p.opts.BuildDir, "resume.tex", finalOutput)
}

func (p *Pipeline) runCoverLetter(ctx context.Context, run *runState) error {
	in, err := p.stageInput(run.optimizedPath, StageOptimize, StageCoverLetter, run.jobName)
	if err != nil {
		return err
	}
	doc, err := model.Load(in)
	if err != nil {
		return err
	}

	gen := coverletter.New(p.gen, p.opts.CoverTemplate)
	letter, fellBack := gen.Generate(ctx, doc, run.jobText, p.opts.CompanyName, p.opts.Dry)
	if fellBack && !p.opts.Dry {
		p.log.Warn().Msg("cover letter degraded to the fallback template; continuing")
	}

	tex, err := gen.RenderTeX(letter, doc.PersonalInfo)
	if err != nil {
		return err
	}

	texPath := filepath.Join(p.opts.BuildDir, fmt.Sprintf("cover_letter_%s.tex", run.timestamp))
	if err := os.MkdirAll(p.opts.BuildDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(texPath, []byte(tex), 0o644); err != nil {
		return fmt.Errorf("write cover letter source: %w", err)
	}

	out := filepath.Join(p.opts.FinalDir, fmt.Sprintf("%s_cover_letter_%s.pdf", run.jobName, run.timestamp))
	return p.compiler.CompileOnce(ctx, texPath, out)
}

// stageInput resolves a stage's input: the artifact this run just wrote,
// or the most recent matching artifact from an earlier run.
func (p *Pipeline) stageInput(fromThisRun string, producedBy, neededBy int, jobName string) (string, error) {
	if fromThisRun != "" {
		return fromThisRun, nil
	}
	path, err := latestArtifact(p.opts.OutputDir, jobName, producedBy, neededBy)
	if err != nil {
		return "", err
	}
	p.log.Info().Str("artifact", path).Int("stage", neededBy).Msg("reusing existing artifact")
	return path, nil
}
