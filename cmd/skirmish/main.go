// Package main provides the skirmish binary: it resolves a scenario file into
// a squad-versus-enemies fight and either prints the full report (preview) or
// plays it back tick by tick over a websocket (serve).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/config"
	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/encounter"
	"github.com/cory-johannsen/wasteland/internal/observability"
	"github.com/cory-johannsen/wasteland/internal/scenario"
	"github.com/cory-johannsen/wasteland/internal/scripting"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "preview":
		err = runPreview(os.Args[2:], os.Stdout)
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "skirmish: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: skirmish preview|serve -config configs/dev.yaml -scenario scenarios/ambush.yaml [-seed N]")
}

// options are the flags shared by every subcommand.
type options struct {
	configPath   string
	scenarioPath string
	seed         uint64
}

func (o *options) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "configs/dev.yaml", "path to configuration file")
	fs.StringVar(&o.scenarioPath, "scenario", "scenarios/ambush.yaml", "path to scenario YAML file")
	fs.Uint64Var(&o.seed, "seed", 0, "RNG seed; 0 uses the scenario seed, or a random one if it has none")
}

// app is everything a subcommand needs, wired from configuration.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	engine    *combat.Engine
	runner    *encounter.Runner
	doctrines *scripting.Doctrines
	setup     encounter.Setup
}

func (a *app) Close() {
	a.doctrines.Close()
	_ = a.logger.Sync()
}

func newApp(o options) (*app, error) {
	start := time.Now()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "skirmish")
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	contentStart := time.Now()
	content, err := encounter.LoadContent(cfg.Content.Dirs())
	if err != nil {
		return nil, err
	}
	weapons, armors, accessories := content.Items.Counts()
	logger.Info("content loaded",
		zap.Int("weapons", weapons),
		zap.Int("armor", armors),
		zap.Int("accessories", accessories),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	registry := ai.NewRegistry()
	doctrines, err := loadDoctrines(cfg, registry, logger)
	if err != nil {
		return nil, err
	}

	planner := ai.NewPlanner(registry)
	planner.Thresholds = cfg.Simulation.Tactics
	engine := combat.NewEngine(cfg.Simulation.Combat, planner, logger)
	runner := encounter.NewRunner(content, cfg.Simulation.Modifiers, cfg.Scaling, engine, logger)
	runner.Resolver.Tuning = cfg.Simulation.Resolver

	sc, err := scenario.Load(o.scenarioPath)
	if err != nil {
		doctrines.Close()
		return nil, err
	}
	su, err := sc.Setup(content.Enemies, o.seed)
	if err != nil {
		doctrines.Close()
		return nil, err
	}

	logger.Info("skirmish ready",
		zap.String("scenario", sc.Name),
		zap.Duration("startup", time.Since(start)),
	)
	return &app{cfg: cfg, logger: logger, engine: engine, runner: runner, doctrines: doctrines, setup: su}, nil
}

// loadDoctrines registers every scripted doctrine alongside the built-ins.
// An empty doctrine directory setting disables scripting.
func loadDoctrines(cfg config.Config, registry *ai.Registry, logger *zap.Logger) (*scripting.Doctrines, error) {
	if cfg.Content.Doctrines == "" {
		return nil, nil
	}
	doctrines, err := scripting.LoadDoctrines(cfg.Content.Doctrines, cfg.Scripting.InstructionLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("loading doctrines: %w", err)
	}
	for _, name := range doctrines.Names() {
		if err := registry.Register(name, doctrines); err != nil {
			doctrines.Close()
			return nil, err
		}
	}
	logger.Info("doctrines loaded", zap.Strings("scripted", doctrines.Names()))
	return doctrines, nil
}
