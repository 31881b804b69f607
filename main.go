package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/PurpleSec/logx"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"

	"gopehdr/common"
	"gopehdr/elfrw"
	"gopehdr/perw"
)

type Config struct {
	Verbose      bool
	Trace        bool
	Parallel     bool
	MaxWorkers   int
	Strict       bool
	CrossCheck   bool
	SectionsOnly bool
	ShowHelp     bool
	ShowVersion  bool
}

type ProcessStats struct {
	Processed int
	Failed    int
	Sections  int
}

// ProcessResult holds everything produced for one input file. Output is
// buffered so parallel workers never interleave reports.
type ProcessResult struct {
	Index       int
	Filename    string
	Size        int64
	File        *perw.File
	Checks      []*common.CheckResult
	Diagnostics []perw.Diagnostic
	Report      bytes.Buffer
	Error       error
}

const versionString = "gopehdr, version 0.3 (strict PE64 header decoder)"

var ErrNotPE = errors.New("not a PE image")

func customUsage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		_, _ = fmt.Fprintf(w, "Usage: %s [OPTIONS] FILE...\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(w, "Decode and validate the headers of PE64 images.")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Options:")
		fs.SetOutput(w)
		fs.PrintDefaults()
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Environment:")
		_, _ = fmt.Fprintln(w, "  GOPEHDR_WORKERS, GOPEHDR_STRICT, GOPEHDR_VERBOSE, GOPEHDR_CROSSCHECK")
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Examples:")
		_, _ = fmt.Fprintf(w, "  %s program.exe              # Full header report\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintf(w, "  %s -j -workers=8 *.dll      # Parallel decoding with 8 workers\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintf(w, "  %s -strict -crosscheck a.exe # Loader checks and reference parsers\n", filepath.Base(os.Args[0]))
	}
}

// parseFlags reads defaults from the environment and lets flags override
// them.
func parseFlags(args []string, stderr io.Writer) (*Config, *flag.FlagSet, error) {
	config := &Config{
		Verbose:    env.Bool("GOPEHDR_VERBOSE"),
		MaxWorkers: env.Int("GOPEHDR_WORKERS", 4),
		Strict:     env.Bool("GOPEHDR_STRICT"),
		CrossCheck: env.Bool("GOPEHDR_CROSSCHECK"),
	}
	fs := flag.NewFlagSet("gopehdr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = customUsage(fs, stderr)
	fs.BoolVar(&config.Verbose, "v", config.Verbose, "Enable verbose output")
	fs.BoolVar(&config.Trace, "trace", false, "Enable trace logging")
	fs.BoolVar(&config.Parallel, "j", false, "Process files in parallel")
	fs.IntVar(&config.MaxWorkers, "workers", config.MaxWorkers, "Maximum number of parallel workers")
	fs.BoolVar(&config.Strict, "strict", config.Strict, "Fail on loader consistency checks (alignment, checksum, sizes)")
	fs.BoolVar(&config.CrossCheck, "crosscheck", config.CrossCheck, "Compare against independent PE parsers")
	fs.BoolVar(&config.SectionsOnly, "sections", false, "Only print the section table")
	fs.BoolVar(&config.ShowHelp, "help", false, "Display this help and exit")
	fs.BoolVar(&config.ShowVersion, "version", false, "Display version information and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if config.MaxWorkers > 16 {
		config.MaxWorkers = 16
	}
	return config, fs, nil
}

func newLogger(config *Config, w io.Writer) logx.Log {
	level := logx.Warning
	switch {
	case config.Trace:
		level = logx.Trace
	case config.Verbose:
		level = logx.Debug
	}
	log := logx.Writer(w, level)
	log.SetPrefix("gopehdr")
	return log
}

type processor struct {
	config *Config
	log    logx.Log
}

func (p *processor) processFile(index int, filename string) *ProcessResult {
	result := &ProcessResult{Index: index, Filename: filename}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		result.Error = errors.Wrap(err, "cannot access file")
		return result
	}
	if !fileInfo.Mode().IsRegular() {
		result.Error = errors.New("not a regular file")
		return result
	}

	img, err := perw.Open(filename)
	if err != nil {
		result.Error = err
		return result
	}
	defer func() {
		if err := img.Close(); err != nil {
			p.log.Warning("%s: %s", filename, err)
		}
	}()
	result.Size = img.Size()
	p.log.Debug("Decoding %s (%d bytes)...", filename, result.Size)

	if info, ok := elfrw.Identify(img.Data); ok {
		result.Error = errors.Wrapf(ErrNotPE, "%s", info)
		return result
	}

	f, err := img.Decode()
	if err != nil {
		result.Error = err
		result.Diagnostics = perw.Diagnose(err)
		p.log.Trace("%s: %d diagnostics", filename, len(result.Diagnostics))
		return result
	}
	result.File = f

	if p.config.Strict {
		result.Checks = append(result.Checks, perw.Validate(f, img.Data)...)
	}
	if p.config.CrossCheck {
		result.Checks = append(result.Checks, p.crossCheck(f, img.Data)...)
	}

	if p.config.SectionsOnly {
		f.WriteSectionTable(&result.Report)
	} else {
		f.WriteReport(&result.Report, filename, result.Size)
	}
	if len(result.Checks) > 0 {
		fmt.Fprintln(&result.Report, common.FormatCheckResults("🔎 CHECKS", result.Checks))
		if common.Failed(result.Checks) {
			result.Error = errors.New("consistency checks failed")
		}
	}
	return result
}

func (p *processor) crossCheck(f *perw.File, data []byte) []*common.CheckResult {
	var results []*common.CheckResult
	for _, load := range []struct {
		name string
		fn   func([]byte) (*perw.Reference, error)
	}{
		{"binject", perw.BinjectReference},
		{"velocidex", perw.VelocidexReference},
	} {
		ref, err := load.fn(data)
		if err != nil {
			p.log.Debug("Reference parser %s failed: %s", load.name, err)
			results = append(results, common.NewSkipped(load.name, err.Error()))
			continue
		}
		results = append(results, f.CrossCheck(ref)...)
	}
	return results
}

func (p *processor) processFilesSequential(filenames []string) []*ProcessResult {
	results := make([]*ProcessResult, 0, len(filenames))
	for i, filename := range filenames {
		results = append(results, p.processFile(i, filename))
	}
	return results
}

func (p *processor) processFilesParallel(filenames []string) []*ProcessResult {
	jobs := make(chan int, len(filenames))
	out := make(chan *ProcessResult, len(filenames))

	var wg sync.WaitGroup
	for i := 0; i < p.config.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out <- p.processFile(idx, filenames[idx])
			}
		}()
	}

	for i := range filenames {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]*ProcessResult, len(filenames))
	for r := range out {
		results[r.Index] = r
	}
	return results
}

func printResult(stdout, stderr io.Writer, result *ProcessResult) {
	if result.Report.Len() > 0 {
		_, _ = result.Report.WriteTo(stdout)
	}
	if result.Error == nil {
		return
	}
	_, _ = fmt.Fprintf(stderr, "❌ %s: %v\n", result.Filename, result.Error)
	for _, d := range result.Diagnostics {
		_, _ = fmt.Fprintln(stderr, d.String())
	}
}

func collectStats(results []*ProcessResult) *ProcessStats {
	stats := &ProcessStats{}
	for _, result := range results {
		stats.Processed++
		if result.Error != nil {
			stats.Failed++
		}
		if result.File != nil {
			stats.Sections += len(result.File.Sections)
		}
	}
	return stats
}

func printSummary(w io.Writer, stats *ProcessStats) {
	if stats.Processed == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\nSummary:\n")
	_, _ = fmt.Fprintf(w, "  Files processed: %d\n", stats.Processed)
	_, _ = fmt.Fprintf(w, "  Successful: %d\n", stats.Processed-stats.Failed)
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", stats.Failed)
	_, _ = fmt.Fprintf(w, "  Sections decoded: %d\n", stats.Sections)
}

func run(args []string, stdout, stderr io.Writer) int {
	config, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if config.ShowHelp {
		fs.Usage()
		return 0
	}
	if config.ShowVersion {
		_, _ = fmt.Fprintln(stdout, versionString)
		return 0
	}
	filenames := fs.Args()
	if len(filenames) == 0 {
		fs.Usage()
		return 2
	}

	p := &processor{config: config, log: newLogger(config, stderr)}
	var results []*ProcessResult
	if config.Parallel && len(filenames) > 1 {
		p.log.Info("Processing %d files with %d workers...", len(filenames), config.MaxWorkers)
		results = p.processFilesParallel(filenames)
	} else {
		results = p.processFilesSequential(filenames)
	}

	for _, result := range results {
		printResult(stdout, stderr, result)
	}

	stats := collectStats(results)
	if len(filenames) > 1 || config.Verbose {
		printSummary(stdout, stats)
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
