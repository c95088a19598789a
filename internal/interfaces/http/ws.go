package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Serve mode binds to localhost by default; the UI is same-host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsError mirrors errorResponse for the websocket channel.
type wsError struct {
	Error string `json:"error"`
}

// handleSessionWS upgrades to a websocket over which the client streams
// analysis parameters. Every message triggers a fresh pipeline run on the
// session's dataset and the result is pushed back, which is what the UI's
// window-size slider and granularity dropdown are wired to.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("session_id", sess.ID).Msg("Websocket analysis channel opened")

	for {
		var req analyzeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session_id", sess.ID).Msg("Websocket read failed")
			}
			return
		}

		resp, _, err := s.analyze(r.Context(), sess, req)
		if err != nil {
			if werr := conn.WriteJSON(wsError{Error: err.Error()}); werr != nil {
				log.Warn().Err(werr).Str("session_id", sess.ID).Msg("Websocket write failed")
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("Websocket write failed")
			return
		}
	}
}
