package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/kasuganosora/gridbattle/config"
	"github.com/kasuganosora/gridbattle/game/battle"
	"github.com/kasuganosora/gridbattle/game/grid"
	"github.com/kasuganosora/gridbattle/game/mechanics"
	"github.com/kasuganosora/gridbattle/resource"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "config YAML path (optional, built-in defaults otherwise)")
		dataPath   = flag.String("data", "data", "content data directory (units.yaml, abilities.yaml)")
		rosterPath = flag.String("roster", "data/roster.yaml", "roster YAML path")
		outPath    = flag.String("out", "", "write the report JSON here instead of stdout")
	)
	flag.Parse()

	var cfg *config.Config
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Log.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Content data ----
	loader := resource.NewLoader(*dataPath)
	if err := loader.Load(); err != nil {
		logger.Fatal("load resources", zap.Error(err))
	}
	roster, err := resource.LoadRoster(*rosterPath)
	if err != nil {
		logger.Fatal("load roster", zap.Error(err))
	}

	// ---- Battle assembly ----
	board := grid.Grid{
		Width:      cfg.Board.Width,
		Height:     cfg.Board.Height,
		DeployRows: cfg.Board.DeployRows,
	}
	initial, err := battle.BuildState(roster.Seed, loader, roster, board)
	if err != nil {
		logger.Fatal("build state", zap.Error(err))
	}

	pipeline := mechanics.New(mechanics.Options{
		Grid:      board,
		Engine:    cfg.Engine,
		Mechanics: cfg.Mechanics,
		Abilities: loader.AbilityTable(),
		Logger:    logger,
	})
	inst, err := battle.NewInstance(battle.Config{
		Grid:        board,
		MaxRounds:   cfg.Engine.MaxRounds,
		MinDamage:   cfg.Engine.MinDamage,
		DodgeCap:    cfg.Engine.DodgeCap,
		PathMaxIter: cfg.Engine.PathMaxIter,
		Pipeline:    pipeline,
		Logger:      logger,
	}, initial)
	if err != nil {
		logger.Fatal("battle setup", zap.Error(err))
	}

	report, err := inst.Run()
	if err != nil {
		logger.Fatal("battle run", zap.Error(err))
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("open output", zap.Error(err))
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reportDocument(report)); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
}

// reportDocument flattens the report into a JSON shape where every event
// carries its type tag next to its payload.
func reportDocument(r *battle.Report) map[string]any {
	events := make([]map[string]any, 0, len(r.Events))
	for _, e := range r.Events {
		raw, err := json.Marshal(e)
		if err != nil {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		m["type"] = e.EventType()
		events = append(events, m)
	}
	return map[string]any{
		"outcome": r.Outcome,
		"rounds":  r.Rounds,
		"events":  events,
		"final":   r.Final,
	}
}
