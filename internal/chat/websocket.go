// internal/chat/websocket.go

package chat

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the web client's domains are final
		return true
	},
}

// ServeWS upgrades an authenticated request to a websocket connection
func ServeWS(hub *Hub, service Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		NewClient(hub, conn, userID, service).Start()
	}
}
