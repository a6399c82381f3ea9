package wix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dosanma1/msiforge/internal/manifest"
	"github.com/dosanma1/msiforge/internal/toolchain"
	"github.com/dosanma1/msiforge/pkg/xos"
)

// Config carries one build's settings, assembled from CLI flags before the
// pipeline runs.
type Config struct {
	Overrides
	Input        string // explicit authoring source, empty to locate one
	Sign         bool
	TimestampURL string // only honored when Sign is set
	Capture      bool   // buffer tool output instead of inheriting streams
	OutputDir    string // defaults to DefaultOutputDir under the project root
}

// Artifact describes the installer a build produced.
type Artifact struct {
	Path   string
	Signed bool
}

// errStageSkipped marks a stage that did not apply to this build.
var errStageSkipped = errors.New("stage skipped")

// Pipeline drives one installer build: resolve variables, locate the
// authoring source, compile, link and optionally sign. A Pipeline is good
// for a single Run; concurrent builds against the same output directory are
// the caller's problem to prevent.
type Pipeline struct {
	cfg     Config
	project *manifest.Project
	runner  toolchain.Runner
	log     *slog.Logger

	vars     Variables
	source   Source
	workDir  string
	object   string
	artifact *Artifact
	report   *Report
}

// NewPipeline assembles a pipeline for one build of the given project.
func NewPipeline(cfg Config, project *manifest.Project, runner toolchain.Runner, log *slog.Logger) *Pipeline {
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(project.Root, DefaultOutputDir)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, project: project, runner: runner, log: log}
}

// Run executes the stages in order, failing fast on the first error. The
// build report is written to the output directory on success and failure
// alike. A signing failure still returns the artifact: the installer stays
// on disk, unsigned.
func (p *Pipeline) Run(ctx context.Context) (*Artifact, error) {
	p.report = newReport()
	defer func() {
		p.report.finish(p.artifact)
		if err := p.report.write(p.cfg.OutputDir); err != nil {
			p.log.Warn("could not write build report", "error", err)
		}
	}()

	workDir, err := os.MkdirTemp("", "msiforge-*")
	if err != nil {
		return nil, ioError(err, "creating build directory")
	}
	p.workDir = workDir
	defer os.RemoveAll(workDir)

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"resolve", p.stageResolve},
		{"source", p.stageSource},
		{"compile", p.stageCompile},
		{"link", p.stageLink},
		{"sign", p.stageSign},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return p.artifact, err
		}
		t0 := time.Now()
		err := st.fn(ctx)
		dur := time.Since(t0)
		switch {
		case err == nil:
			p.report.record(st.name, StatusOK, dur, nil)
			p.log.Debug("stage complete", "stage", st.name, "elapsed", dur)
		case errors.Is(err, errStageSkipped):
			p.report.record(st.name, StatusSkipped, 0, nil)
		default:
			p.report.record(st.name, StatusFailed, dur, err)
			return p.artifact, err
		}
	}
	return p.artifact, nil
}

func (p *Pipeline) stageResolve(ctx context.Context) error {
	vars, err := Resolve(p.project, p.cfg.Overrides)
	if err != nil {
		return err
	}
	p.vars = vars
	p.log.Debug("variables resolved",
		"product", vars["product-name"], "version", vars["version"])
	return nil
}

func (p *Pipeline) stageSource(ctx context.Context) error {
	src, err := LocateSource(p.project.Root, p.cfg.Input, p.vars)
	if err != nil {
		return err
	}
	if src.InMemory() {
		// The compiler reads files, not pipes. Materialize into the
		// build directory so cleanup takes it along.
		path := filepath.Join(p.workDir, SourceFile)
		if err := os.WriteFile(path, []byte(src.Content), 0644); err != nil {
			return ioError(err, "materializing authoring source")
		}
		src.Path = path
		p.log.Debug("no authoring source on disk, using embedded template")
	}
	p.source = src
	p.log.Debug("authoring source located", "path", src.Path)
	return nil
}

func (p *Pipeline) stageCompile(ctx context.Context) error {
	p.object = filepath.Join(p.workDir, "main.wixobj")
	args := []string{"-nologo", "-out", p.object, p.source.Path}
	res, err := p.runner.Run(ctx, toolchain.Candle, args, p.cfg.Capture)
	if err != nil {
		return toolError(KindCompileFailed, toolchain.Candle, res, err)
	}
	return nil
}

func (p *Pipeline) stageLink(ctx context.Context) error {
	if err := xos.CreateDir(p.cfg.OutputDir, 0755); err != nil {
		return ioError(err, "creating %s", p.cfg.OutputDir)
	}
	msi := filepath.Join(p.cfg.OutputDir, installerName(p.vars))
	args := []string{
		"-nologo",
		"-ext", "WixUIExtension",
		"-cultures:en-us",
		"-dProductName=" + p.vars["product-name"],
		"-dManufacturer=" + p.vars["manufacturer"],
		"-dVersion=" + p.vars["version"],
		"-out", msi,
		p.object,
	}
	res, err := p.runner.Run(ctx, toolchain.Light, args, p.cfg.Capture)
	if err != nil {
		return toolError(KindLinkFailed, toolchain.Light, res, err)
	}
	p.artifact = &Artifact{Path: msi}
	return nil
}

func (p *Pipeline) stageSign(ctx context.Context) error {
	if !p.cfg.Sign {
		return errStageSkipped
	}
	if err := SignArtifact(ctx, p.runner, p.artifact.Path, p.cfg.TimestampURL, p.cfg.Capture); err != nil {
		return err
	}
	p.artifact.Signed = true
	return nil
}

// installerName builds the artifact file name from the resolved variables.
func installerName(vars Variables) string {
	return fmt.Sprintf("%s-%s-x86_64.msi", vars["product-name"], vars["version"])
}

// toolError folds a runner failure into the build error taxonomy, keeping
// the captured output so the failure explains itself without a re-run.
func toolError(kind Kind, tool string, res *toolchain.Result, err error) *Error {
	var nf *toolchain.NotFoundError
	if errors.As(err, &nf) {
		return &Error{Kind: KindToolNotFound, Msg: nf.Error(), Tool: tool, Err: err}
	}

	e := &Error{Kind: kind, Msg: fmt.Sprintf("%s failed", tool), Tool: tool, Err: err}
	var xe *toolchain.ExitError
	if errors.As(err, &xe) {
		e.Msg = xe.Error()
		e.Output = xe.Output
	} else if res != nil {
		e.Output = res.Output
	}
	return e
}
