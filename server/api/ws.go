package api

import (
	"net/http"
	"time"

	"github.com/dekarrin/tunamud/internal/game"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/middle"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MaxLineSize is the largest message a websocket client may send.
const MaxLineSize = 4096

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  MaxLineSize,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HTTPLineSession returns a HandlerFunc that upgrades the connection to a
// websocket and plays the logged-in character over it. Every message from
// the client is one line of input, and every message sent back is the
// response to it ending in game.LineTerminator. Lines are handled one at a
// time in the order they arrive.
//
// The context of the request must hold the logged-in character, as set by
// middle.RequireAuth.
func (api API) HTTPLineSession() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		caller := req.Context().Value(middle.AuthCharacter).(world.Character)
		log := api.logger().With(zap.String("character", caller.Name))

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			// Upgrade has already written the error response.
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()
		conn.SetReadLimit(MaxLineSize)

		log.Info("line session started")
		defer log.Info("line session ended")

		ctx := req.Context()
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("read failed", zap.Error(err))
				}
				return
			}
			if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
				continue
			}

			entry, err := api.Backend.RunCommand(ctx, caller, msg)
			if err != nil {
				// the player still gets their answer.
				log.Error("could not record command", zap.Error(err))
			}

			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, game.Terminate(entry.Output)); err != nil {
				log.Debug("write failed", zap.Error(err))
				return
			}
		}
	}
}
