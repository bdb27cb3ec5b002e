package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/CORaleigh/NextCenturyCities/internal/config"
	"github.com/CORaleigh/NextCenturyCities/internal/logging"
	"github.com/CORaleigh/NextCenturyCities/internal/server"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/project"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/scene"
	"github.com/CORaleigh/NextCenturyCities/pkg/scene2d"
	"github.com/CORaleigh/NextCenturyCities/pkg/source"
	"github.com/CORaleigh/NextCenturyCities/pkg/validation"
)

// env is what every subcommand starts from.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	project *project.Project
}

// setup loads the configuration, builds the logger and reads the project
// named by args, or ZONEPLANNER_PROJECT when args is empty.
func setup(flags *globalFlags, args []string) (*env, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	dir := cfg.ProjectDir
	if len(args) > 0 {
		dir = args[0]
	}
	p, err := project.LoadProject(dir)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return &env{cfg: cfg, logger: logger, project: p}, nil
}

// openSource validates the project and opens its data source.
func (e *env) openSource() (source.Source, error) {
	report := validation.ValidateProject(e.project)
	if err := report.Err(); err != nil {
		printValidationReport(report)
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return e.project.OpenSource(e.logger)
}

func (e *env) newStore() *scenario.Store {
	return scenario.New(scenario.Options{
		Logger:     e.logger,
		MaxStories: e.project.MaxStories,
		Seed:       e.project.Seed,
	})
}

// loadScenario opens the project source and loads a sample into a new store.
func (e *env) loadScenario(ctx context.Context) (*scenario.Store, error) {
	src, err := e.openSource()
	if err != nil {
		return nil, err
	}
	store := e.newStore()
	p := e.project
	if err := store.LoadFrom(ctx, src, p.Source.Where, p.Source.OutFields, p.SampleSize); err != nil {
		return nil, err
	}
	return store, nil
}

func runValidate(ctx context.Context, e *env) error {
	report := validation.ValidateProject(e.project)
	if report.Valid {
		src, err := e.project.OpenSource(e.logger)
		if err != nil {
			return err
		}
		p := e.project
		records, err := src.Query(ctx, p.Source.Where, p.Source.OutFields, true)
		if err != nil {
			return fmt.Errorf("querying buildings: %w", err)
		}
		report.Merge(validation.ValidateRecords(records, p.MaxStories, p.SampleSize))
	}

	printValidationReport(report)
	if !report.Valid {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func runReport(ctx context.Context, e *env, asJSON bool) error {
	store, err := e.loadScenario(ctx)
	if err != nil {
		return err
	}
	summary := store.Summary()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"project":   e.project.Name,
			"summary":   summary,
			"buildings": store.Entries(),
		})
	}

	printSummary(e.project.Name, summary)
	fmt.Println()
	printBuildings(store.Entries())
	return nil
}

func runScene(ctx context.Context, e *env, plan bool) error {
	store, err := e.loadScenario(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if plan {
		return enc.Encode(scene2d.Assemble2D(scene2d.Input{
			Entries: store.Entries(),
			Changed: store.IsChanged,
		}))
	}

	entries := store.Entries()
	stacks := make([][]massing.FloorVolume, 0, len(entries))
	for _, en := range entries {
		stack, err := massing.RegenerateStack(en.Attributes, en.Location)
		if err != nil {
			return fmt.Errorf("building %s: %w", en.ID, err)
		}
		stacks = append(stacks, stack)
	}
	graph := scene.Assemble(stacks, nil)

	output := map[string]any{
		"project":     e.project.Name,
		"validation":  scene.ValidateGraph(graph),
		"scene_graph": graph,
	}
	return enc.Encode(output)
}

func runServe(ctx context.Context, e *env, preload bool) error {
	src, err := e.openSource()
	if err != nil {
		return err
	}
	store := e.newStore()
	p := e.project
	if preload {
		if err := store.LoadFrom(ctx, src, p.Source.Where, p.Source.OutFields, p.SampleSize); err != nil {
			return err
		}
		e.logger.Info("scenario loaded", "project", p.Name, "buildings", len(store.Entries()))
	}

	srv := server.New(server.Options{
		Store:      store,
		Source:     src,
		Where:      p.Source.Where,
		Fields:     p.Source.OutFields,
		SampleSize: p.SampleSize,

		AllowedOrigins: e.cfg.CORSOrigins,
		Logger:         e.logger,
	})
	return srv.ListenAndServe(ctx, e.cfg.Addr())
}
