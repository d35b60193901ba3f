package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Print(message)

	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
			// Channel full, drop rather than stall a render worker
		}
	}
}

// drainConsole collects everything buffered in a closed console channel
func drainConsole(consoleChan <-chan ConsoleMessage) []ConsoleMessage {
	var messages []ConsoleMessage
	for msg := range consoleChan {
		messages = append(messages, msg)
	}
	return messages
}

func (s *Server) setConsole(messages []ConsoleMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = messages
}

// handleConsole returns the log lines of the most recent render
func (s *Server) handleConsole(c echo.Context) error {
	s.mu.Lock()
	messages := append([]ConsoleMessage{}, s.console...)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, messages)
}
