package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "ask" or "refresh"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type             string   `json:"type"` // "response" or "error"
	SessionID        string   `json:"session_id"`
	Content          string   `json:"content"`
	Intent           string   `json:"intent,omitempty"`
	Fallback         bool     `json:"fallback,omitempty"`
	FactsUsed        []string `json:"facts_used,omitempty"`
	KnowledgeVersion string   `json:"knowledge_version,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "ask":
			s.handleChatAsk(conn, r, req)
		case "refresh":
			s.engine.RefreshSession(req.SessionID)
			s.sendChatResponse(conn, chatResponse{
				Type:             "response",
				SessionID:        req.SessionID,
				Content:          "session refreshed",
				KnowledgeVersion: s.engine.KnowledgeVersion(),
			})
		default:
			s.sendChatError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatAsk(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if req.Content == "" {
		s.sendChatError(conn, req.SessionID, "content is required")
		return
	}

	result, err := s.engine.Ask(r.Context(), req.SessionID, req.Content)
	if err != nil {
		s.sendChatError(conn, req.SessionID, err.Error())
		return
	}

	s.sendChatResponse(conn, chatResponse{
		Type:             "response",
		SessionID:        result.SessionID,
		Content:          result.Text,
		Intent:           string(result.Intent),
		Fallback:         result.Fallback,
		FactsUsed:        result.FactsUsed,
		KnowledgeVersion: result.KnowledgeVersion,
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
