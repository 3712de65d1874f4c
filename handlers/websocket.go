package handlers

import (
	"map-panel/logger"
	"map-panel/models"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// jsonConn - 클라이언트 연결 (테스트에서 교체 가능)
type jsonConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	Conn       jsonConn
	RemoteAddr string
}

// 웹 클라이언트 관리자
type ClientManager struct {
	clients    map[*Client]bool
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	done       chan struct{}
	mutex      sync.RWMutex
	log        logger.Logger
}

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager(log logger.Logger) *ClientManager {
	return &ClientManager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// 클라이언트 관리 시작 (Stop까지 블록)
func (manager *ClientManager) Start() {
	defer close(manager.done)

	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client] = true
			manager.mutex.Unlock()
			manager.log.Infof("클라이언트 등록: web (%s)", client.RemoteAddr)

		case client := <-manager.unregister:
			manager.remove(client)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)

		case <-manager.quit:
			manager.mutex.Lock()
			for client := range manager.clients {
				_ = client.Conn.Close()
				delete(manager.clients, client)
			}
			manager.mutex.Unlock()
			return
		}
	}
}

// Stop - 관리 루프 종료, 모든 연결 닫기
func (manager *ClientManager) Stop() {
	select {
	case <-manager.quit:
		return
	default:
	}
	close(manager.quit)
	<-manager.done
}

func (manager *ClientManager) remove(client *Client) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if _, ok := manager.clients[client]; ok {
		delete(manager.clients, client)
		_ = client.Conn.Close()
		manager.log.Infof("클라이언트 해제: web (%s)", client.RemoteAddr)
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	var failed []*Client

	manager.mutex.RLock()
	for client := range manager.clients {
		if err := client.Conn.WriteJSON(message); err != nil {
			manager.log.Warnf("전송 실패 (%s): %v", client.RemoteAddr, err)
			failed = append(failed, client)
		}
	}
	manager.mutex.RUnlock()

	for _, client := range failed {
		manager.remove(client)
	}
}

// BroadcastMessage queues msg for every web client. A full queue drops the
// message; the next state push supersedes it.
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	select {
	case manager.broadcast <- msg:
	default:
		manager.log.Warnf("⚠️ broadcast 채널 가득 참, %s 메시지 버림", msg.Type)
	}
}

// GetClientCount - 연결된 웹 클라이언트 수
func (manager *ClientManager) GetClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// Web 클라이언트 WebSocket Handler
//
// 연결 직후 현재 패널 상태를 보내고, 이후에는 상태 변경 브로드캐스트를 받는다.
func (manager *ClientManager) HandleWebClientWebSocket(state func() models.PanelState) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		client := &Client{
			Conn:       c,
			RemoteAddr: c.RemoteAddr().String(),
		}

		welcomeMsg := models.WebSocketMessage{
			Type: models.MessageTypeSystemInfo,
			Data: map[string]interface{}{
				"message":      "웹 클라이언트 연결됨",
				"connected_at": time.Now().Format(time.RFC3339),
				"state":        state(),
			},
			Timestamp: time.Now().UnixMilli(),
		}
		// 등록 전에 보내야 브로드캐스트와 동시에 쓰지 않는다
		if err := c.WriteJSON(welcomeMsg); err != nil {
			return
		}

		select {
		case manager.register <- client:
		case <-manager.quit:
			return
		}
		defer func() {
			select {
			case manager.unregister <- client:
			case <-manager.quit:
			}
		}()

		// 패널 조작은 HTTP API로 받는다. 읽기 루프는 연결 종료 감지용.
		for {
			var msg models.WebSocketMessage
			if err := c.ReadJSON(&msg); err != nil {
				manager.log.Debugf("웹 메시지 읽기 종료: %v", err)
				return
			}
			manager.log.Debugf("웹 메시지 무시: %s", msg.Type)
		}
	}
}
