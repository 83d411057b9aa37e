package web

import "github.com/gofiber/fiber/v2"

// handleHealth is the liveness endpoint.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"clients": s.eventsHub.ClientCount(),
	})
}

// handleStatus returns the assistant's current state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handleConversation returns the recent conversation log.
func (s *Server) handleConversation(c *fiber.Ctx) error {
	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	return c.JSON(s.conversation)
}
