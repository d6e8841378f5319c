package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/config"
	"platenav/internal/microscope"
	"platenav/internal/navigator"
	"platenav/internal/plate"
	"platenav/internal/store"
	"platenav/internal/tui"
	"platenav/internal/viewport"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to configuration file")
	logPath := flag.String("log", "platenav.log", "log file (the terminal belongs to the UI)")
	plateID := flag.String("plate", "", "plate model to load, overrides the stored document")
	offline := flag.Bool("offline", false, "run without a microscope server")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	f, err := tea.LogToFile(*logPath, "platenav")
	if err != nil {
		fatalf("open log: %v", err)
	}
	defer f.Close()

	lib := plate.Builtin()
	if cfg.Plates.Library != "" {
		if lib, err = plate.LoadLibrary(cfg.Plates.Library); err != nil {
			fatalf("plate library: %v", err)
		}
	}
	id := cfg.Plates.Default
	if *plateID != "" {
		id = *plateID
	}
	p, ok := lib[id]
	if !ok {
		fatalf("unknown plate model %q (have %v)", id, lib.IDs())
	}

	st, err := store.Open(cfg.Store.Path, func() (*plate.Document, error) {
		g, err := plate.NewGrid(cfg.Grid.NumX, cfg.Grid.NumY, cfg.Grid.DeltaXMM, cfg.Grid.DeltaYMM)
		if err != nil {
			return nil, err
		}
		return plate.NewDocument(p, g)
	})
	if err != nil {
		fatalf("open document: %v", err)
	}
	log.Printf("document %s", st.Path())

	var (
		mover navigator.Mover
		areas navigator.ForbiddenAreaProvider
	)
	if !*offline {
		client := microscope.NewClient(microscope.Config{
			BaseURL: cfg.Microscope.BaseURL,
			Timeout: cfg.Microscope.Timeout(),
		})
		mover, areas = client, client
		log.Printf("microscope at %s", cfg.Microscope.BaseURL)
	}
	if cfg.Microscope.ForbiddenAreas != "" {
		areas = plate.AreaFile(cfg.Microscope.ForbiddenAreas)
	}

	events := tui.NewEvents()
	nav, err := navigator.New(st, mover, areas, 160, 96, navigator.Options{
		Limits: viewport.Limits{
			MinZoom:     cfg.Navigator.MinZoom,
			MaxZoom:     cfg.Navigator.MaxZoom,
			ScrollSpeed: cfg.Navigator.ScrollSpeed,
		},
		FOV:         r2.Vec{X: cfg.Navigator.FOVXMM, Y: cfg.Navigator.FOVYMM},
		CacheSize:   cfg.Navigator.CacheSize,
		OnWarning:   events.Warn,
		OnMoveError: events.MoveFailed,
	})
	if err != nil {
		fatalf("%v", err)
	}
	if err := nav.Reload(); err != nil {
		fatalf("load plate: %v", err)
	}
	if doc := st.Document(); *plateID != "" && (doc.Plate == nil || doc.Plate.ModelID != id) {
		if err := nav.LoadPlate(p); err != nil {
			fatalf("load plate %s: %v", id, err)
		}
	}

	m := tui.New(nav, events, tui.Options{
		Library: lib,
		ExportW: cfg.Render.Width,
		ExportH: cfg.Render.Height,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	fmt.Fprintln(os.Stderr, "platenav: "+msg)
	os.Exit(1)
}
