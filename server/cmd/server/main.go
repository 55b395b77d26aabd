package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/server/core"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/protocol"
	"github.com/automoto/ballguys-mp/spawn"
)

func main() {
	configPath := flag.String("config", "", "YAML tuning file (optional)")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate in updates per second (overrides config)")
	name := flag.String("name", "", "Server display name (overrides config)")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	levelPath := flag.String("level", "", "TMX level file (overrides config)")
	watch := flag.Bool("watch", true, "Reload spawn points when the level file changes")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *port != 0 {
		config.Server.Port = *port
	}
	if *tickRate != 0 {
		config.Server.TickRate = *tickRate
	}
	if *name != "" {
		config.Server.Name = *name
	}
	if *version != "" {
		config.Server.Version = *version
	}
	if *levelPath != "" {
		config.Server.LevelPath = *levelPath
	}
	config.Server.WatchLevel = config.Server.WatchLevel && *watch
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arena, err := core.LoadLevel(config.Server.LevelPath)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}
	spawns := spawn.NewLiveSource(spawn.FromLevel(arena.SpawnPoints))

	opts := core.OptionsFromConfig()
	opts.LevelName = leveldata.LevelName(config.Server.LevelPath)
	opts.Arena = arena
	opts.Spawns = spawns

	server, err := core.NewServer(opts)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	var watcher *core.LevelWatcher
	if config.Server.WatchLevel {
		watcher, err = core.WatchLevel(config.Server.LevelPath, spawns)
		if err != nil {
			log.Printf("Level watching disabled: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		if watcher != nil {
			_ = watcher.Close()
		}
		os.Exit(0)
	}()

	log.Printf("Starting %q on port %d (tick rate: %d/s, level: %s, version: %s)",
		config.Server.Name, config.Server.Port, config.Server.TickRate, opts.LevelName, config.Server.Version)
	if err := server.Start(config.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
