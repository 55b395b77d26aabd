package core

import (
	"log"
	"time"
)

type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	interval := time.Second / time.Duration(g.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[server] game loop started at %d ticks/second", g.tickRate)

	dt := interval.Seconds()
	for {
		select {
		case <-g.stopChan:
			log.Println("[server] game loop stopped")
			return
		case <-ticker.C:
			g.server.Tick(dt)
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

// Tick advances the authoritative simulation by dt seconds. It is called by
// the game loop; tests call it directly.
func (s *Server) Tick(dt float64) {
	s.drainInbox()
	s.tickBoosts(dt)

	s.physics.Step(dt)
	s.resolveDeaths()

	s.advanceMatch(dt)

	s.writeComponents()
	if err := s.replicator.Flush(); err != nil {
		log.Printf("[server] sync error: %v", err)
	}
}
