package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/study-assistant-be/types"
)

// readWait is how long a connection may stay silent before reads fail.
const readWait = 60 * time.Second

type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
}

func NewWebSocketService(chat *ChatService) *WebSocketService {
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readWait))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			conn.WriteMessage(messageType, []byte("Error processing message"))
			log.Println("Unmarshal error:", err)
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				conn.WriteMessage(messageType, []byte("Error processing message"))
				log.Println("Marshal error:", err)
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				conn.WriteMessage(messageType, []byte("Error processing message"))
				log.Println("Unmarshal error:", err)
				continue
			}

			response, err := s.chat.Answer(ctx, payload.Message, payload.DocumentID, payload.History)
			if err != nil {
				log.Println("Chat error:", err)
				errRes := types.WebSocketResponse{
					Type:    types.TypeWebsocketError,
					Payload: err.Error(),
				}
				if err := conn.WriteJSON(errRes); err != nil {
					log.Println("Write error:", err)
				}
				continue
			}

			botMessage := types.WebSocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.WebSocketChatResponse{
					Message:   response.Response,
					Citations: response.Citations,
				},
			}
			if err := conn.WriteJSON(botMessage); err != nil {
				log.Println("Write error:", err)
			}

		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type")
		}
	}
}
