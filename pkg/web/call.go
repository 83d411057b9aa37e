package web

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/servicemed/go-intake/internal/log"
)

// handleCallWS bridges one caller's audio to the voice pipeline: binary PCM16
// frames in, synthesized audio out on the same socket. One caller at a time;
// a second connection is refused while a call is active.
func (s *Server) handleCallWS(c *websocket.Conn) {
	s.callMu.Lock()
	if s.callConn != nil {
		s.callMu.Unlock()
		c.WriteJSON(busyPayload{Error: "a call is already in progress"})
		c.Close()
		return
	}
	s.callConn = c
	s.callMu.Unlock()

	callID := uuid.NewString()
	log.Info("caller connected", "call_id", callID)

	s.UpdateState(func(st *State) {
		st.CallActive = true
		st.CallID = callID
	})
	s.Emit(Event{Type: "call", Message: "caller connected"})
	if s.OnCallStart != nil {
		s.OnCallStart(callID)
	}

	for {
		msgType, data, err := c.ReadMessage()
		if err != nil {
			break
		}
		if msgType == websocket.BinaryMessage && s.OnCallAudio != nil {
			s.OnCallAudio(data)
		}
	}

	s.callMu.Lock()
	s.callConn = nil
	s.callMu.Unlock()

	log.Info("caller disconnected", "call_id", callID)
	s.UpdateState(func(st *State) {
		st.CallActive = false
		st.CallID = ""
	})
	s.Emit(Event{Type: "call", Message: "caller disconnected"})
	if s.OnCallEnd != nil {
		s.OnCallEnd(callID)
	}
}

// WriteCallAudio sends a synthesized audio frame to the connected caller.
// A frame arriving between calls is dropped silently.
func (s *Server) WriteCallAudio(pcm16 []byte) {
	s.callMu.Lock()
	conn := s.callConn
	s.callMu.Unlock()
	if conn == nil {
		return
	}

	s.callWriteMu.Lock()
	defer s.callWriteMu.Unlock()
	if err := conn.WriteMessage(websocket.BinaryMessage, pcm16); err != nil {
		log.Warn("failed to write call audio", "error", err)
	}
}

type busyPayload struct {
	Error string `json:"error"`
}
