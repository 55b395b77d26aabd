package messages

import "github.com/automoto/ballguys-mp/shared/netconfig"

// JoinRequest is sent by a client after connecting to request joining the game.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	ParticipantID netconfig.ParticipantID
	ServerName    string
	TickRate      int
	Level         string
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
