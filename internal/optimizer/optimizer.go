package optimizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-pipeline/internal/model"
)

const rewriteTemperature = 0.3

// Options controls how the optimizer behaves.
type Options struct {
	// Dry skips the external service entirely and returns the input
	// unchanged, for deterministic testing.
	Dry bool
	// Concise tightens the length instruction in the prompt.
	Concise bool
	// RequestDelay is the minimum wait between successive service calls.
	RequestDelay time.Duration
}

// Result carries the optimized document plus degradation flags. Fallback is
// true when at least one entry kept its original wording because the
// service failed or returned something unusable.
type Result struct {
	Document *model.ResumeDocument
	Fallback bool
	Warnings []string
}

// Optimizer asks an external text service for minor terminology adjustments
// to bullet points. Factual fields never leave this package's control: only
// bullets are replaced, and a response with the wrong bullet count is
// discarded in favor of the original.
type Optimizer struct {
	gen  TextGenerator
	opts Options
	log  zerolog.Logger
}

func New(gen TextGenerator, opts Options) *Optimizer {
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = 500 * time.Millisecond
	}
	return &Optimizer{gen: gen, opts: opts, log: log.With().Str("component", "optimizer").Logger()}
}

// Optimize returns a reworded copy of doc. It never fails on service
// errors: affected entries pass through unchanged and the result is flagged
// as a fallback. Only context cancellation and clone failures abort.
func (o *Optimizer) Optimize(ctx context.Context, doc *model.ResumeDocument, jobText string) (*Result, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, err
	}
	res := &Result{Document: out}

	if o.opts.Dry {
		o.log.Info().Msg("dry mode: skipping optimization")
		return res, nil
	}
	if o.gen == nil {
		return nil, fmt.Errorf("optimizer: no text generator configured")
	}

	first := true
	for i := range out.Experience {
		e := &out.Experience[i]
		if len(e.Bullets) == 0 {
			continue
		}
		if err := o.pace(ctx, &first); err != nil {
			return nil, err
		}
		label := fmt.Sprintf("Experience at %s as %s", e.Company, e.Role)
		o.log.Info().Int("entry", i+1).Int("total", len(out.Experience)).Str("company", e.Company).Msg("optimizing experience")
		e.Bullets = o.rewrite(ctx, e.Bullets, jobText, label, e.Priority, res)
	}

	for i := range out.Projects {
		p := &out.Projects[i]
		if len(p.Bullets) == 0 {
			continue
		}
		if err := o.pace(ctx, &first); err != nil {
			return nil, err
		}
		label := fmt.Sprintf("Project: %s using %s", p.Name, strings.Join(p.Tech, ", "))
		o.log.Info().Int("entry", i+1).Int("total", len(out.Projects)).Str("project", p.Name).Msg("optimizing project")
		p.Bullets = o.rewrite(ctx, p.Bullets, jobText, label, p.Priority, res)
	}

	// Other sections (personal info, education, skills) are factual and are
	// never sent to the service.

	if res.Fallback {
		o.log.Warn().Strs("warnings", res.Warnings).Msg("optimizer degraded to pass-through for some entries")
	}
	return res, nil
}

// pace enforces the inter-request delay, skipping the wait before the first
// call. Cancellation during the wait aborts the run.
func (o *Optimizer) pace(ctx context.Context, first *bool) error {
	if *first {
		*first = false
		return nil
	}
	select {
	case <-time.After(o.opts.RequestDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rewrite asks the service for reworded bullets and validates the response
// structurally. Any failure keeps the originals and records a warning.
func (o *Optimizer) rewrite(ctx context.Context, bullets []string, jobText, label, priority string, res *Result) []string {
	prompt := bulletPrompt(bullets, jobText, label, o.opts.Concise, priority)

	text, err := o.gen.GenerateText(ctx, prompt, rewriteTemperature)
	if err != nil {
		o.fallback(res, fmt.Sprintf("%s: service error: %v", label, err))
		return bullets
	}

	reworded := parseBullets(text)
	if len(reworded) != len(bullets) {
		o.fallback(res, fmt.Sprintf("%s: got %d bullets, expected %d", label, len(reworded), len(bullets)))
		return bullets
	}
	return reworded
}

func (o *Optimizer) fallback(res *Result, warning string) {
	res.Fallback = true
	res.Warnings = append(res.Warnings, warning)
	o.log.Warn().Msg(warning)
}
