package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seawolf/tactsim/internal/config"
	"github.com/seawolf/tactsim/internal/core/event"
	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/metrics"
	"github.com/seawolf/tactsim/internal/persist"
	"github.com/seawolf/tactsim/internal/replay"
	"github.com/seawolf/tactsim/internal/scripting"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/seawolf/tactsim/internal/system"
	"github.com/seawolf/tactsim/internal/weapon"
	"github.com/seawolf/tactsim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(scenario string, seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌──────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            tactsim  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     convoy and U-boat tactical model     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └──────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscenario:\033[0m %s \033[90m(seed %d)\033[0m\n\n", scenario, seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/tactsim.toml"
	if p := os.Getenv("TACTSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 1. Class tables and scenario
	ships, err := data.LoadShipTable(cfg.Data.ShipList)
	if err != nil {
		return fmt.Errorf("load ship table: %w", err)
	}
	subs, err := data.LoadSubmarineTable(cfg.Data.SubmarineList)
	if err != nil {
		return fmt.Errorf("load submarine table: %w", err)
	}
	torps, err := data.LoadTorpedoTable(cfg.Data.TorpedoList)
	if err != nil {
		return fmt.Errorf("load torpedo table: %w", err)
	}
	sc, err := data.LoadScenario(cfg.Data.Scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if err := sc.Validate(ships, subs, torps); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	printBanner(sc.Name, cfg.Simulation.Seed)
	printSection("data")
	printStat("ship classes", ships.Count())
	printStat("submarine classes", subs.Count())
	printStat("torpedo types", torps.Count())
	fmt.Println()

	// 2. World options, scripted hooks when enabled
	bus := event.NewBus()
	opts := world.Options{
		Seed:           cfg.Simulation.Seed,
		Bus:            bus,
		Log:            log,
		Ships:          ships,
		Submarines:     subs,
		Torpedoes:      torps,
		Failure:        weapon.ConstantFailure(cfg.Simulation.FailureChance),
		PingRemainTime: cfg.Simulation.PingRemainTime,
		SinkDuration:   cfg.Simulation.SinkDuration,
	}
	base := sensor.Conditions{
		Visibility:      sc.Environment.Visibility,
		MaxViewDistance: sc.Environment.MaxViewDistance,
	}
	// a resumed world skips Populate, so the scenario conditions are set here
	opts.Environment = world.FixedConditions(base)
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		engine.SetFailureFallback(cfg.Simulation.FailureChance)
		engine.SetBaseConditions(base)
		opts.Failure = engine
		opts.Environment = engine
		opts.Doctrine = engine
		printOK("lua hooks loaded from " + cfg.Scripting.ScriptsDir)
	}
	ws := world.NewState(opts)

	// 3. Runner and systems
	runner := coresys.NewRunner()
	sim := system.NewSimulationSystem(ws, cfg.TickSeconds())
	input := system.NewInputSystem(ws, 256, 64, log)
	runner.Register(input)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(sim)

	// 4. Database: resume or populate, then periodic snapshots
	var persistence *system.PersistenceSystem
	resumed := false
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		files, err := persist.MigrationFiles()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (%d embedded)", len(files)))

		snapRepo := persist.NewSnapshotRepo(db)
		if cfg.Database.Resume {
			snap, tick, err := snapRepo.LoadLatest(ctx, cfg.Database.RunName)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if snap != nil {
				if err := ws.Restore(snap); err != nil {
					return fmt.Errorf("restore snapshot: %w", err)
				}
				sim.SetTicks(tick)
				resumed = true
				printOK(fmt.Sprintf("resumed run %q at tick %d", cfg.Database.RunName, tick))
			}
		}
		persistence = system.NewPersistenceSystem(ws, sim, snapRepo, persist.NewLossRepo(db),
			cfg.Database.RunName, log, cfg.Database.SnapshotInterval)
		runner.Register(persistence)
		fmt.Println()
	}
	if !resumed {
		if err := ws.Populate(sc); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}

	printSection("world")
	n := ws.Counts()
	printStat("ships", n.Ships)
	printStat("submarines", n.Submarines)
	printStat("convoys", n.Convoys)
	fmt.Println()

	// 5. Metrics endpoint
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		col, err := metrics.NewSimCollector(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		col.Subscribe(bus)
		runner.Register(system.NewMetricsSystem(ws, sim, col))

		mux := http.NewServeMux()
		mux.Handle("/metrics", col.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.BindAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// 6. Replay bundle
	var replaySys *system.ReplaySystem
	if cfg.Replay.Enabled {
		w, err := replay.NewWriter(cfg.Replay.Dir, replay.Manifest{
			RunName:       cfg.Database.RunName,
			Seed:          cfg.Simulation.Seed,
			TickSeconds:   cfg.TickSeconds(),
			FrameInterval: cfg.Replay.FrameInterval,
		}, nil)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		replaySys = system.NewReplaySystem(ws, replay.NewRecorder(w, bus, cfg.Replay.FrameInterval, log))
		runner.Register(replaySys)
		printOK("recording to " + w.Directory())
	}

	// 7. Simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("running")
	if metricsSrv != nil {
		printReady("metrics on http://" + cfg.Metrics.BindAddress + "/metrics")
	}
	printReady(fmt.Sprintf("tick %s, %.1f simulated s per tick", cfg.Simulation.TickRate, cfg.TickSeconds()))
	fmt.Println()

	stop := func(reason string) {
		log.Info("simulation stopping", zap.String("reason", reason), zap.Float64("sim_time", ws.Time()), zap.Int64("ticks", sim.Ticks()))
		bus.SwapBuffers()
		bus.DispatchAll()
		if persistence != nil {
			persistence.SaveNow()
		}
		if replaySys != nil {
			if err := replaySys.Close(); err != nil {
				log.Error("replay close failed", zap.Error(err))
			}
		}
		if metricsSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			metricsSrv.Shutdown(ctx)
		}
		printReport(ws)
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
			if cfg.Simulation.MaxTicks > 0 && sim.Ticks() >= int64(cfg.Simulation.MaxTicks) {
				stop("max ticks")
				return nil
			}
		case sig := <-shutdownCh:
			stop(sig.String())
			return nil
		}
	}
}

// printReport lists the losses of the run with grouped tonnage figures.
func printReport(ws *world.State) {
	p := message.NewPrinter(language.English)
	printSection("losses")
	var ships, subs int
	for _, r := range ws.Sunk() {
		kind := "ship"
		if r.Submarine {
			kind = "U-boat"
			subs += r.Tonnage
		} else {
			ships += r.Tonnage
		}
		p.Printf("  %7.0fs  %-6s %-20s %7d t  %s\n", r.Time, kind, r.Name, r.Tonnage, r.Cause)
	}
	p.Printf("  merchant and escort tonnage sunk: %d t\n", ships)
	p.Printf("  U-boat tonnage lost: %d t\n\n", subs)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
