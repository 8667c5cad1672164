// Package tunas has services for interacting with the TunaMUD server backend
// decoupled from the API that accesses it.
package tunas

import (
	"github.com/dekarrin/tunamud/internal/game"
	"github.com/dekarrin/tunamud/internal/transcript"
	"github.com/dekarrin/tunamud/internal/world"
)

// Service performs the actions requested of the server against the world and
// keeps the transcript of every command.
//
// The zero-value of Service is not ready to be used; all fields must be set.
type Service struct {
	// World is where the characters live.
	World world.Store

	// Transcript records every command run through the Service.
	Transcript transcript.Repository

	// Interpreter answers commands. It must run against World.
	Interpreter *game.Interpreter
}
