package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"familyconnect/internal/llm"
	"familyconnect/internal/router"
	"familyconnect/internal/session"
)

func (s *Server) handleHealth(c *gin.Context) {
	personas := make([]gin.H, 0)
	for _, p := range s.deps.Personas.List() {
		personas = append(personas, gin.H{
			"id":   p.ID,
			"name": p.Name,
			"role": p.Role,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"personas": personas,
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
	// SessionID, when set, records the turn into the session log.
	SessionID string `json:"session_id"`
}

// handleQuery routes one free-text query and returns the reply. The
// file/document branch produces no payload; that surfaces as an empty
// response with the intent still reported.
func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}

	result, err := s.deps.Router.Dispatch(c.Request.Context(), req.Query)
	if err != nil {
		s.logger.Error("Dispatch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.recordTurn(req.SessionID, req.Query, result)

	resp := gin.H{"intent": string(result.Intent)}
	if !result.NoReply {
		resp["response"] = result.Reply
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListPersonas(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, p := range s.deps.Personas.List() {
		out = append(out, gin.H{
			"id":           p.ID,
			"name":         p.Name,
			"role":         p.Role,
			"description":  p.Description,
			"capabilities": p.Capabilities,
		})
	}
	c.JSON(http.StatusOK, gin.H{"personas": out})
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages" binding:"required"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// handleChatCompletions speaks the OpenAI chat-completions shape so persona
// clients can point a standard SDK at this server. The model field selects
// the persona. Without an LLM client the persona answers from its keyword
// fallback table.
func (s *Server) handleChatCompletions(c *gin.Context) {
	var req chatCompletionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "messages required", "type": "invalid_request_error"}})
		return
	}

	personaID := req.Model
	if personaID == "" {
		personaID = s.deps.Personas.List()[0].ID
	}
	p, err := s.deps.Personas.Get(personaID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": err.Error(), "type": "invalid_request_error"}})
		return
	}

	lastUser := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUser = req.Messages[i].Content
			break
		}
	}

	var (
		content string
		usage   llm.TokenUsage
	)
	if s.deps.LLMClient != nil {
		messages := append([]llm.Message{{Role: "system", Content: p.SystemPrompt}}, req.Messages...)
		resp, err := s.deps.LLMClient.Complete(c.Request.Context(), llm.CompletionRequest{
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if err != nil {
			s.logger.Warn("Persona %s LLM call failed, using fallback: %v", p.ID, err)
			content = p.LocalReply(lastUser)
		} else {
			content = resp.Content
			usage = resp.Usage
			if s.deps.Metrics != nil {
				s.deps.Metrics.CountLLMRequest(c.Request.Context(), s.deps.LLMClient.Model(), usage.PromptTokens, usage.CompletionTokens)
			}
		}
	} else {
		content = p.LocalReply(lastUser)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      "chatcmpl-" + uuid.NewString(),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   p.ID,
		"choices": []gin.H{{
			"index":         0,
			"message":       gin.H{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": gin.H{
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
		},
	})
}

func (s *Server) handleTodaysBirthdays(c *gin.Context) {
	matches := s.deps.Store.TodaysBirthdays()
	c.JSON(http.StatusOK, gin.H{"birthdays": matches})
}

func (s *Server) handleUpcomingEvents(c *gin.Context) {
	events := s.deps.Store.UpcomingEvents()
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type addEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) handleAddEvent(c *gin.Context) {
	var req addEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and date required"})
		return
	}
	if err := s.deps.Store.AddEvent(req.Name, req.Date, req.Description); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess, err := s.deps.Sessions.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.deps.Sessions.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("session not found: %s", c.Param("id"))})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.deps.Sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// recordTurn appends a query/reply pair to a session when session storage is
// wired, best effort.
func (s *Server) recordTurn(id, query string, result router.Result) {
	if s.deps.Sessions == nil || id == "" {
		return
	}
	if err := s.deps.Sessions.Append(id, session.Entry{Role: "user", Content: query, Intent: string(result.Intent)}); err != nil {
		s.logger.Warn("Session append failed: %v", err)
		return
	}
	if !result.NoReply {
		if err := s.deps.Sessions.Append(id, session.Entry{Role: "assistant", Content: result.Reply}); err != nil {
			s.logger.Warn("Session append failed: %v", err)
		}
	}
}
