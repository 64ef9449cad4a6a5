// roof-mri-backend/internal/handlers/events_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/adam1capps/roof-mri-backend/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // дашборд живет на другом origin
	},
}

// Event — событие жизненного цикла для живой ленты дашборда.
type Event struct {
	Type          string    `json:"type"` // created | opened | signed | paid
	ProposalID    string    `json:"proposalId"`
	ContactName   string    `json:"contactName"`
	Company       string    `json:"company"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	OpenCount     int       `json:"openCount"`
	At            time.Time `json:"at"`
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub раздает события всем подключенным клиентам дашборда.
// Реализует lifecycle.EventSink.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan Event
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Publish не блокирует обработку запроса: если лента не успевает,
// событие просто теряется. Это телеметрия, не источник истины.
func (h *Hub) Publish(event string, p *models.Proposal) {
	ev := Event{
		Type:          event,
		ProposalID:    p.ID,
		ContactName:   p.ContactName,
		Company:       p.Company,
		Status:        p.Status,
		PaymentStatus: p.PaymentStatus,
		OpenCount:     p.OpenCount,
		At:            time.Now().UTC(),
	}
	select {
	case h.broadcast <- ev:
	default:
		slog.Warn("Лента событий переполнена, событие отброшено", "type", event, "id", p.ID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Клиент ленты подключился", "clients", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("Не удалось сериализовать событие", "error", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Медленный клиент: отключаем, чтобы не копить бэклог.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (cl *wsClient) writePump() {
	defer cl.conn.Close()
	for data := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (cl *wsClient) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()
	for {
		// Клиенты ничего не шлют; читаем только ради close-фреймов.
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// EventsWS апгрейдит соединение и подписывает клиента на ленту.
func (h *Set) EventsWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Не удалось апгрейдить соединение", "error", err)
		return
	}

	client := &wsClient{hub: h.hub, conn: conn, send: make(chan []byte, 16)}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
