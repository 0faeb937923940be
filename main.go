package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"auto-api-docs/internal/config"
	"auto-api-docs/internal/executor"
	"auto-api-docs/internal/index"
	"auto-api-docs/internal/llm"
	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/parser"
	"auto-api-docs/internal/reporter"
	"auto-api-docs/internal/swagger"
	"auto-api-docs/internal/testdata"
	"auto-api-docs/internal/types"
)

const usage = `Usage: auto-api-docs <command> [flags]

Commands:
  scaffold  -url <base-url> | -file <document> [-output dir]
            write a scenarios template from an existing Swagger/OpenAPI document
  record    [-config file] [-scenarios dir] [-index file] [-append]
            call the API for every scenario and save the recorded examples
  generate  [-config file] [-index file]
            build the Swagger 2.0 documents from recorded examples
  run       record, then generate (default)
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	command := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "scaffold":
		return scaffoldCmd(ctx, args, out)
	case "record":
		return recordCmd(ctx, args, out)
	case "generate":
		return generateCmd(args, out)
	case "run":
		return runCmd(ctx, args, out)
	case "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

// commonFlags are shared by the commands that read the configuration
type commonFlags struct {
	configPath string
	indexPath  string
	logDir     string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", config.DefaultPath, "Path to the configuration file")
	fs.StringVar(&c.indexPath, "index", "", "Path to the recorded examples index (default <docs_dir>/index.json)")
	fs.StringVar(&c.logDir, "log-dir", "logs", "Directory for log files; empty logs to stderr only")
}

// setup loads the configuration and opens the logger
func (c *commonFlags) setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if c.indexPath == "" {
		c.indexPath = filepath.Join(cfg.DocsDir, index.DefaultFileName)
	}

	if c.logDir == "" {
		return cfg, logger.NewStderrLogger(), nil
	}
	log, err := logger.NewLogger(c.logDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func scaffoldCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	baseURL := fs.String("url", "", "Base URL of an API serving its Swagger/OpenAPI document")
	file := fs.String("file", "", "Path to a local Swagger/OpenAPI document")
	outputDir := fs.String("output", "scenarios", "Directory for the scenarios template")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*baseURL == "") == (*file == "") {
		return errors.New("scaffold needs exactly one of -url or -file")
	}

	log := logger.NewStderrLogger()
	swaggerParser := parser.NewSwaggerParser(*baseURL, log)

	var endpoints []types.Endpoint
	var err error
	if *file != "" {
		endpoints, err = swaggerParser.ParseFile(*file)
	} else {
		endpoints, err = swaggerParser.ParseEndpoints(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to parse endpoints: %w", err)
	}
	fmt.Fprintf(out, "Found %d endpoints\n", len(endpoints))

	path, err := testdata.NewGenerator(*outputDir).GenerateTemplate(endpoints, swaggerParser.Definitions())
	if err != nil {
		return fmt.Errorf("failed to generate scenarios template: %w", err)
	}

	fmt.Fprintf(out, "Scenarios template generated successfully in %s\n", path)
	fmt.Fprintln(out, "Please review and fill in the template, then rename it to scenarios.yaml to record examples.")
	return nil
}

type recordFlags struct {
	commonFlags
	scenariosDir string
	appendIndex  bool
}

func (r *recordFlags) register(fs *flag.FlagSet) {
	r.commonFlags.register(fs)
	fs.StringVar(&r.scenariosDir, "scenarios", "scenarios", "Directory holding the scenarios file")
	fs.BoolVar(&r.appendIndex, "append", false, "Append to an existing index instead of replacing it")
}

func recordCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	var flags recordFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := flags.setup()
	if err != nil {
		return err
	}
	defer log.Close()

	return record(ctx, cfg, log, flags, out)
}

func generateCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var flags commonFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := flags.setup()
	if err != nil {
		return err
	}
	defer log.Close()

	return generate(cfg, log, flags.indexPath, out)
}

func runCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var flags recordFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := flags.setup()
	if err != nil {
		return err
	}
	defer log.Close()

	recordErr := record(ctx, cfg, log, flags, out)
	var partial *partialRecordingError
	if recordErr != nil && !errors.As(recordErr, &partial) {
		return recordErr
	}
	if err := generate(cfg, log, flags.indexPath, out); err != nil {
		return err
	}
	return recordErr
}

// partialRecordingError reports scenarios that could not be recorded while
// the others were saved.
type partialRecordingError struct {
	failed int
	total  int
}

func (e *partialRecordingError) Error() string {
	return fmt.Sprintf("%d of %d scenarios could not be recorded", e.failed, e.total)
}

func record(ctx context.Context, cfg *config.Config, log *logger.Logger, flags recordFlags, out io.Writer) error {
	if err := cfg.RequireBaseURL(); err != nil {
		return err
	}

	scenarios, err := testdata.NewLoader(flags.scenariosDir).LoadScenarios()
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d scenarios\n", len(scenarios))

	recorder := executor.NewRecorder(executor.RecorderConfig{
		BaseURL:    cfg.Environment.BaseURL,
		Concurrent: cfg.Test.Concurrent,
		MaxWorkers: cfg.Test.MaxWorkers,
		Timeout:    time.Duration(cfg.Test.Timeout) * time.Second,
		Retry: executor.RetryConfig{
			Attempts: cfg.Test.Retry.Attempts,
			Delay:    time.Duration(cfg.Test.Retry.Delay) * time.Second,
		},
		Auth: executor.AuthConfig{
			Type:   cfg.Environment.Auth.Type,
			Token:  cfg.Environment.Auth.Token,
			Header: cfg.Environment.Auth.Header,
		},
	}, log)

	examples, results := recorder.Record(ctx, scenarios)

	if cfg.LLM.Enabled() {
		llmConfig := llm.NewDefaultConfig()
		llmConfig.Provider = cfg.LLM.Provider
		llmConfig.APIKey = cfg.LLM.APIKey
		llmConfig.Model = cfg.LLM.Model
		llmConfig.BaseURL = cfg.LLM.BaseURL

		client, err := llm.NewClient(llmConfig, log)
		if err != nil {
			log.Errorf("Skipping example descriptions: %v", err)
		} else {
			log.Infof("Described %d example(s)", client.Enrich(ctx, examples))
		}
	}

	// The index is saved before the report so a reporting failure never
	// discards a finished recording run.
	if flags.appendIndex {
		_, err = index.Merge(flags.indexPath, examples)
	} else {
		err = index.Save(flags.indexPath, &types.Index{Examples: examples})
	}
	if err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	fmt.Fprintf(out, "Recorded %d of %d scenarios into %s\n", len(examples), len(scenarios), flags.indexPath)

	reports, err := reporter.NewReporter(reporter.ReportingConfig{
		Format:    cfg.Reporting.Format,
		OutputDir: cfg.Reporting.OutputDir,
		Detailed:  cfg.Reporting.Detailed,
	}).GenerateReport(results)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	for _, path := range reports {
		fmt.Fprintf(out, "Report written to %s\n", path)
	}

	failed := len(scenarios) - len(examples)
	if failed > 0 {
		return &partialRecordingError{failed: failed, total: len(scenarios)}
	}
	return nil
}

func generate(cfg *config.Config, log *logger.Logger, indexPath string, out io.Writer) error {
	idx, err := index.Load(indexPath)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	if err := index.Validate(idx); err != nil {
		return fmt.Errorf("invalid index %s: %w", indexPath, err)
	}

	generator, err := swagger.NewGenerator(swagger.Config{
		APIName:      cfg.APIName,
		NullConsumes: cfg.ConsumesNullEntry,
	}, cfg.Format, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DocsDir, 0755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	paths, err := generator.Generate(cfg.DocsDir, idx.Examples)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(out, "Documentation written to %s\n", path)
	}
	return nil
}
