package server

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wsInbound struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type wsOutbound struct {
	Intent   string `json:"intent"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleWebSocket upgrades the connection and routes each inbound frame like
// a /query call. One connection, one loop; the connection closes when the
// client goes away or a write fails.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	s.logger.Debug("WebSocket client connected: %s", c.ClientIP())

	ctx := c.Request.Context()
	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read failed: %v", err)
			}
			return
		}
		if in.Query == "" {
			if err := conn.WriteJSON(wsOutbound{Error: "missing query"}); err != nil {
				return
			}
			continue
		}

		result, err := s.deps.Router.Dispatch(ctx, in.Query)
		if err != nil {
			if werr := conn.WriteJSON(wsOutbound{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}

		s.recordTurn(in.SessionID, in.Query, result)

		out := wsOutbound{Intent: string(result.Intent)}
		if !result.NoReply {
			out.Response = result.Reply
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}
