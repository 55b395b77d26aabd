package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/ballguys-mp/client"
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/automoto/ballguys-mp/shared/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:7373", "Server address")
	name := flag.String("name", "", "Player name (default: bot-<pid>)")
	version := flag.String("version", "", "Client version sent in the join request")
	difficulty := flag.String("difficulty", "normal", "Bot difficulty: easy, normal, hard")
	levelPath := flag.String("level", "", "TMX level used for prediction (overrides config)")
	configPath := flag.String("config", "", "YAML tuning file (optional)")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *levelPath != "" {
		config.Server.LevelPath = *levelPath
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if *name == "" {
		*name = fmt.Sprintf("bot-%d", os.Getpid())
	}
	diff, err := config.ParseBotDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	dir, file := filepath.Split(config.Server.LevelPath)
	if dir == "" {
		dir = "."
	}
	arena, err := leveldata.LoadArenaData(os.DirFS(dir), file)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	c := client.NewClient()
	c.Connect(*addr, *version, *name)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = c.WaitJoined(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Join failed: %v", err)
	}
	log.Printf("[bot] joined as %s (%s)", c.ParticipantID(), diff)

	if err := c.SendMessage(messages.SetReadyIntent{Ready: true}); err != nil {
		log.Printf("[bot] failed to send ready: %v", err)
	}

	b := &bot{
		client:    c,
		self:      c.ParticipantID(),
		predictor: client.NewPredictor(arena, config.Avatar, config.Physics, config.Prediction),
		brain:     client.NewBrain(diff, uint64(time.Now().UnixNano())),
		world:     client.NewTracker(config.Match.MaxLives),
		lives:     config.Match.MaxLives,
	}
	if len(arena.SpawnPoints) > 0 {
		sp := arena.SpawnPoints[0]
		b.brain.Home = gamemath.Vec3{X: sp.X, Y: sp.Y, Z: sp.Z}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rate := config.Prediction.SendRate
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	dt := 1 / float64(rate)

	for {
		select {
		case <-sigChan:
			log.Println("[bot] shutting down")
			c.Disconnect()
			return
		case <-ticker.C:
			if c.State() == client.StateError || c.State() == client.StateDisconnected {
				log.Fatalf("[bot] connection lost: %v", c.LastError())
			}
			b.tick(dt)
		}
	}
}

type bot struct {
	client    *client.Client
	self      netconfig.ParticipantID
	predictor *client.Predictor
	brain     *client.Brain
	world     *client.Tracker
	lives     int
	phase     config.MatchPhase
}

func (b *bot) tick(dt float64) {
	for _, evt := range b.client.DrainEvents() {
		switch e := evt.(type) {
		case messages.SpawnEvent:
			if e.ParticipantID == b.self {
				b.predictor.Spawn(gamemath.Vec3{X: e.X, Y: e.Y, Z: e.Z})
			}
		case messages.EliminatedEvent:
			if e.ParticipantID == b.self {
				log.Println("[bot] eliminated")
				b.predictor.Despawn()
			}
		case messages.PhaseChangedEvent:
			log.Printf("[bot] phase %s -> %s", e.From, e.To)
			b.phase = e.To
		}
	}

	if b.world.Update(b.client.LatestSnapshot()) {
		view := b.world.View()
		if me, ok := view.Avatars[b.self]; ok {
			var acked uint32
			if p, ok := view.Participant(b.self); ok {
				acked = p.LastSequence
			}
			if corr := b.predictor.Reconcile(me, acked); corr.Snapped && corr.Error > 0 {
				log.Printf("[bot] snapped to server (error %.1f)", corr.Error)
			}
		}
		if p, ok := b.world.Roster().Get(b.self); ok && p.Lives != b.lives {
			log.Printf("[bot] lives %d -> %d", b.lives, p.Lives)
			b.lives = p.Lives
		}
	}

	body := b.predictor.Body()
	if body == nil {
		b.predictor.Step(dt)
		return
	}

	d := b.brain.Decide(body.Position(), b.world.Opponents(b.self))
	b.send(b.predictor.Move(d.Forward, d.Right, d.Yaw))
	if d.Jump {
		b.send(b.predictor.Jump())
	}
	if d.Boost && b.phase == config.PhasePlaying {
		b.send(b.predictor.Boost())
	}
	b.predictor.Step(dt)
}

func (b *bot) send(msg any) {
	if err := b.client.SendMessage(msg); err != nil {
		log.Printf("[bot] send %T: %v", msg, err)
	}
}
