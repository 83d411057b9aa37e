// Package web provides the intake console: health and status endpoints, a
// live event stream for supervisors, and the websocket audio bridge the
// caller's client connects to.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/servicemed/go-intake/internal/log"
	"github.com/servicemed/go-intake/pkg/hub"
)

// State is the assistant's current status for the console.
type State struct {
	PipelineConnected    bool   `json:"pipeline_connected"`
	CallActive           bool   `json:"call_active"`
	CallID               string `json:"call_id,omitempty"`
	AvailabilityDegraded bool   `json:"availability_degraded"`
	BusySlotCount        int    `json:"busy_slot_count"`
	Bookings             int    `json:"bookings"`
	LastCallerMessage    string `json:"last_caller_message"`
	LastAssistantMessage string `json:"last_assistant_message"`
}

// ConversationEntry is one message in the conversation log.
type ConversationEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // caller, assistant, tool
	Message string `json:"message"`
}

// Event is one console event, broadcast to /ws/events subscribers.
type Event struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // transcript, response, tool, call, error
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
}

const conversationBuffer = 200

// Server is the console and call-bridge server.
type Server struct {
	app  *fiber.App
	port string

	state   State
	stateMu sync.RWMutex

	conversation   []ConversationEntry
	conversationMu sync.RWMutex

	eventsHub *hub.Hub

	// Call bridge: one caller at a time.
	callConn    *websocket.Conn
	callWriteMu sync.Mutex
	callMu      sync.Mutex

	// OnCallAudio receives binary PCM16 frames from the connected caller.
	OnCallAudio func(pcm16 []byte)

	// OnCallStart fires when a caller connects, with the call's ID.
	OnCallStart func(callID string)

	// OnCallEnd fires when the caller disconnects. Any in-flight turn is
	// abandoned by the app; nothing is rolled back.
	OnCallEnd func(callID string)
}

// NewServer creates a console server listening on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:         port,
		conversation: make([]ConversationEntry, 0, conversationBuffer),
		eventsHub:    hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "intake console",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/conversation", s.handleConversation)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/call", websocket.New(s.handleCallWS))

	s.app = app
	return s
}

// Start runs the hub loop and the HTTP listener. It blocks; run it in a
// goroutine.
func (s *Server) Start() error {
	go s.eventsHub.Run()
	log.Info("console listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleEventsWS subscribes a console client to the event stream.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.eventsHub, c).Run()
}

// UpdateState applies fn to the console state under lock.
func (s *Server) UpdateState(fn func(*State)) {
	s.stateMu.Lock()
	fn(&s.state)
	s.stateMu.Unlock()
}

// AddConversation appends to the conversation log and broadcasts it.
func (s *Server) AddConversation(role, message string) {
	entry := ConversationEntry{
		Time:    time.Now().Format(time.TimeOnly),
		Role:    role,
		Message: message,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > conversationBuffer {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()

	s.stateMu.Lock()
	switch role {
	case "caller":
		s.state.LastCallerMessage = message
	case "assistant":
		s.state.LastAssistantMessage = message
	}
	s.stateMu.Unlock()

	s.Emit(Event{Type: "transcript", Role: role, Message: message})
}

// Emit broadcasts a console event. The timestamp is filled in if unset.
func (s *Server) Emit(ev Event) {
	if ev.Time == "" {
		ev.Time = time.Now().Format(time.TimeOnly)
	}
	if err := s.eventsHub.BroadcastJSON(ev); err != nil {
		log.Warn("failed to broadcast console event", "error", err)
	}
}
