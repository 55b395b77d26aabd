package core

import (
	"fmt"
	"log"
	"sync"

	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/match"
	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/automoto/ballguys-mp/spawn"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Options configures a Server.
type Options struct {
	Name       string
	Version    string // Required client version (empty = accept any)
	TickRate   int
	MaxPlayers int
	InboxSize  int

	LevelName string
	Arena     *leveldata.ArenaData
	Spawns    spawn.Source

	Avatar  config.AvatarConfig
	Match   config.MatchConfig
	Physics config.PhysicsConfig

	// Replicator defaults to necs esync replication.
	Replicator Replicator
	Seed       uint64
}

// OptionsFromConfig builds options from the global configuration. The
// caller still supplies the level.
func OptionsFromConfig() Options {
	return Options{
		Name:       config.Server.Name,
		Version:    config.Server.Version,
		TickRate:   config.Server.TickRate,
		MaxPlayers: config.Server.MaxPlayers,
		InboxSize:  config.Server.InboxSize,
		Avatar:     config.Avatar,
		Match:      config.Match,
		Physics:    config.Physics,
	}
}

// Server runs the authoritative simulation. Connection callbacks only submit
// commands; everything else happens on the tick goroutine.
type Server struct {
	opts Options

	world      donburi.World
	loop       *GameLoop
	transport  *transports.WsServerTransport
	replicator Replicator
	inbox      chan any
	pending    commandQueue

	physics      *physics.World
	registry     *participant.Registry
	spawns       *spawn.Manager
	rules        match.Rules
	state        match.State
	matchEntity  donburi.Entity
	tuning       avatar.Tuning
	sessions     map[netconfig.ParticipantID]*session
	bodies       map[*physics.Sphere]*session
	fallen       []netconfig.ParticipantID
	nextLocalNum int

	// Network clients by connection (router goroutines)
	clients map[*router.NetworkClient]netconfig.ParticipantID
	mu      sync.RWMutex
}

// NewServer creates a server for one level.
func NewServer(opts Options) (*Server, error) {
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", opts.TickRate)
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 256
	}
	if opts.Spawns == nil {
		var points []spawn.Transform
		if opts.Arena != nil {
			points = spawn.FromLevel(opts.Arena.SpawnPoints)
		}
		opts.Spawns = spawn.StaticSource(points)
	}
	if opts.Replicator == nil {
		opts.Replicator = NewNecsReplicator()
	}

	s := &Server{
		opts:       opts,
		world:      donburi.NewWorld(),
		replicator: opts.Replicator,
		inbox:      make(chan any, opts.InboxSize),
		registry:   participant.NewRegistry(opts.Match.MaxLives),
		rules:      match.RulesFromConfig(opts.Match),
		state:      match.NewState(),
		tuning:     avatar.TuningFromConfig(opts.Avatar),
		sessions:   make(map[netconfig.ParticipantID]*session),
		bodies:     make(map[*physics.Sphere]*session),
		clients:    make(map[*router.NetworkClient]netconfig.ParticipantID),
	}
	s.spawns = spawn.NewManager(opts.Spawns, lifecycle{s}, opts.Seed)

	s.physics = physics.NewWorld(opts.Arena, physics.ConfigFromSettings(opts.Physics))
	s.physics.OnContact = s.onContact
	s.physics.OnFell = s.onFell

	if err := s.replicator.Attach(s.world); err != nil {
		return nil, fmt.Errorf("attach replication: %w", err)
	}

	s.matchEntity = s.world.Create(netcomponents.NetMatch)
	if err := s.replicator.TrackMatch(s.world, &s.matchEntity); err != nil {
		return nil, fmt.Errorf("replicate match: %w", err)
	}
	s.writeMatch()

	s.loop = NewGameLoop(s, opts.TickRate)
	return s, nil
}

// Start runs the tick loop and serves websocket connections on port. It
// blocks until the transport stops.
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts the tick loop.
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[server] client %s disconnected", client.Id())
		}
		s.mu.Lock()
		id, joined := s.clients[client]
		delete(s.clients, client)
		s.mu.Unlock()
		if joined {
			s.submit(leaveCommand{ID: id})
		}
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		id := netconfig.ParticipantID(client.Id())
		s.mu.Lock()
		s.clients[client] = id
		s.mu.Unlock()
		s.submit(joinCommand{ID: id, Name: req.PlayerName, Version: req.Version, Sender: client})
	})

	router.On(func(client *router.NetworkClient, msg messages.MoveIntent) {
		s.forward(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.JumpIntent) {
		s.forward(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.BoostIntent) {
		s.forward(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.SetReadyIntent) {
		s.forward(client, msg)
	})
	router.On(func(client *router.NetworkClient, msg messages.ToggleReadyIntent) {
		s.forward(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) forward(client *router.NetworkClient, msg any) {
	s.mu.RLock()
	id, ok := s.clients[client]
	s.mu.RUnlock()
	if !ok {
		return
	}
	s.submit(intentCommand{ID: id, Msg: msg})
}

// Join submits a join for a session that is not a websocket client, such as
// an in-process bot.
func (s *Server) Join(id netconfig.ParticipantID, name string, to Sender) bool {
	return s.submit(joinCommand{ID: id, Name: name, Version: s.opts.Version, Sender: to})
}

// Leave submits a leave for a session.
func (s *Server) Leave(id netconfig.ParticipantID) bool {
	return s.submit(leaveCommand{ID: id})
}

// Submit forwards an intent message from a session.
func (s *Server) Submit(id netconfig.ParticipantID, msg any) bool {
	return s.submit(intentCommand{ID: id, Msg: msg})
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// SpawnSource returns the spawn point set respawns read from.
func (s *Server) SpawnSource() spawn.Source {
	return s.opts.Spawns
}

func (s *Server) logf(format string, args ...any) {
	log.Printf("[server] "+format, args...)
}
