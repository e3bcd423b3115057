package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/earnlearn/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and runs it as a hub
// client scoped to the caller's role.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // family LAN, any origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		var childID int64
		if !ac.IsParent() {
			childID = ac.ChildID
		}
		NewClient(hub, conn, childID).Run(r.Context())
	}
}
