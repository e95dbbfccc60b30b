package websocket

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/jpeg"
	"sync"

	"github.com/gorilla/websocket"

	"facescope/internal/dto"
	"facescope/internal/logger"
)

const (
	// broadcastBuffer bounds the messages waiting for the hub loop.
	broadcastBuffer = 16
	jpegQuality     = 75
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// HubService fans display updates out to connected viewers.
type HubService struct {
	clients    map[Conn]bool
	broadcast  chan []byte
	register   chan Conn
	unregister chan Conn
	done       chan struct{} // zamknięty, gdy Run się skończy
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[Conn]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled. It must be called once.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", count)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer disconnected. Total: %d", count)

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

func (h *HubService) send(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Error("Error sending message: %v", err)
			delete(h.clients, client)
			client.Close()
		}
	}
}

func (h *HubService) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// Register adds a viewer. After Run has stopped the viewer is closed instead.
func (h *HubService) Register(client Conn) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes and closes a viewer. It returns immediately once Run has stopped.
func (h *HubService) Unregister(client Conn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for all viewers. When the queue is full the
// message is dropped so the display loop never waits on viewers.
func (h *HubService) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		return false
	}
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ShowFrame encodes the frame as JPEG for viewers. Skipped while nobody watches.
func (h *HubService) ShowFrame(frame image.Image) {
	if h.GetClientCount() == 0 {
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		h.logger.Error("Failed to encode frame: %v", err)
		return
	}
	h.publish(dto.ViewMessage{
		Type:  dto.ViewFrame,
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

// ShowClock forwards the timestamp label.
func (h *HubService) ShowClock(text string) {
	if h.GetClientCount() == 0 {
		return
	}
	h.publish(dto.ViewMessage{Type: dto.ViewClock, Text: text})
}

// ShowAttributes forwards the four result labels.
func (h *HubService) ShowAttributes(labels dto.AttributeLabels) {
	h.publish(dto.ViewMessage{Type: dto.ViewAttributes, Attributes: &labels})
}

func (h *HubService) publish(msg dto.ViewMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode view message: %v", err)
		return
	}
	h.Broadcast(data)
}
