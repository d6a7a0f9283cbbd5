package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Runner abstracts subprocess execution so the fallback sequence is
// testable without TeX installed.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// CompileError is fatal: a failed compiler invocation halts the pipeline
// with the raw compiler output attached.
type CompileError struct {
	Command string
	Output  []byte
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s failed: %v\n%s", e.Command, e.Err, e.Output)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compiler turns a build workspace of rendered .tex sources into a PDF via
// an external TeX toolchain. latexmk is preferred because it manages
// multi-pass builds itself; when it is not installed, pdflatex runs exactly
// twice so cross-references resolve.
type Compiler struct {
	runner Runner
	log    zerolog.Logger
}

func New() *Compiler { return NewWithRunner(execRunner{}) }

func NewWithRunner(r Runner) *Compiler {
	return &Compiler{runner: r, log: log.With().Str("component", "compiler").Logger()}
}

// Compile builds entry (a .tex file inside buildDir) and copies the
// produced PDF to outputPath.
func (c *Compiler) Compile(ctx context.Context, buildDir, entry, outputPath string) error {
	if _, err := c.runner.LookPath("latexmk"); err == nil {
		c.log.Info().Str("entry", entry).Msg("compiling with latexmk")
		if err := c.run(ctx, buildDir, "latexmk", "-pdf", "-interaction=nonstopmode", entry); err != nil {
			return err
		}
	} else {
		c.log.Info().Str("entry", entry).Msg("latexmk not found, compiling with pdflatex (two passes)")
		for pass := 1; pass <= 2; pass++ {
			if err := c.run(ctx, buildDir, "pdflatex", "-interaction=nonstopmode", entry); err != nil {
				return err
			}
		}
	}

	produced := filepath.Join(buildDir, pdfName(entry))
	if _, err := os.Stat(produced); err != nil {
		return &CompileError{Command: "latex", Err: fmt.Errorf("expected PDF not found at %s", produced)}
	}
	if err := copyFile(produced, outputPath); err != nil {
		return fmt.Errorf("copy PDF to %s: %w", outputPath, err)
	}
	c.log.Info().Str("output", outputPath).Msg("compiled PDF")
	return nil
}

// CompileOnce runs a single pdflatex pass against a standalone .tex file,
// writing the PDF next to outputPath and cleaning auxiliary files. Used for
// documents without cross-references, like cover letters.
func (c *Compiler) CompileOnce(ctx context.Context, texPath, outputPath string) error {
	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	jobname := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	err := c.run(ctx, filepath.Dir(texPath), "pdflatex",
		"-interaction=nonstopmode",
		"-output-directory", outDir,
		"-jobname", jobname,
		texPath)

	for _, ext := range []string{".aux", ".log", ".out"} {
		_ = os.Remove(filepath.Join(outDir, jobname+ext))
	}
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(outputPath); statErr != nil {
		return &CompileError{Command: "pdflatex", Err: fmt.Errorf("expected PDF not found at %s", outputPath)}
	}
	return nil
}

func (c *Compiler) run(ctx context.Context, dir, name string, args ...string) error {
	out, err := c.runner.Run(ctx, dir, name, args...)
	if err != nil {
		return &CompileError{
			Command: name + " " + strings.Join(args, " "),
			Output:  out,
			Err:     err,
		}
	}
	return nil
}

func pdfName(entry string) string {
	return strings.TrimSuffix(entry, filepath.Ext(entry)) + ".pdf"
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
