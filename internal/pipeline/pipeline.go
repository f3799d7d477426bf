package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AnyUserName/purehash/internal/manifest"
	"github.com/AnyUserName/purehash/internal/phash"
	"github.com/AnyUserName/purehash/internal/profile"
)

// Config holds all parameters for a pipeline run.
type Config struct {
	InputDir   string
	Profile    profile.Profile
	Algorithms []phash.Algorithm // nil = all
	Workers    int               // 0 = NumCPU
	Log        logrus.FieldLogger
}

// Pipeline orchestrates image hashing.
type Pipeline struct {
	cfg Config
	log logrus.FieldLogger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = phash.Algorithms
	}
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run scans InputDir, hashes every image and returns the manifest. Per-file
// failures are logged and counted; Run fails only when every file failed
// or ctx was cancelled before the pool drained.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	if err := p.cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.WithField("images", len(sources)).Debug("scan complete")

	// Step 2: Hash images in parallel.
	results := p.Process(ctx, sources)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)
	m.BasePath = p.cfg.InputDir

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		m.Images[r.Source.RelPath] = r.Image()
	}

	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", failed)
		}
		p.log.Warnf("%d of %d images had errors", failed, len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:     p.cfg.Workers,
		AverageSize: p.cfg.Profile.AverageSize,
		DCTSize:     p.cfg.Profile.DCTSize,
		MaxDim:      p.cfg.Profile.MaxDim,
	}
	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}

// Process hashes sources on the worker pool. Results are in source order
// regardless of scheduling; a cancelled ctx marks unstarted sources with
// ctx.Err().
func (p *Pipeline) Process(ctx context.Context, sources []Source) []Result {
	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = Result{Source: s, Err: err}
				return
			}

			flog := p.log.WithField("file", s.RelPath)
			flog.Debug("hashing")

			results[idx] = processImage(s, p.cfg)

			if err := results[idx].Err; err != nil {
				flog.WithError(err).Error("hash failed")
				return
			}
			flog.WithField("grid", fmt.Sprintf("%dx%d",
				results[idx].GridWidth, results[idx].GridHeight)).Debug("done")
		}(i, src)
	}
	wg.Wait()

	return results
}
