package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-backoffice/kds"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type DashboardController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewDashboardController accepts websocket connections from allowedOrigin,
// or from anywhere when it is "*" or empty.
func NewDashboardController(hub *kds.Hub, allowedOrigin string) *DashboardController {
	return &DashboardController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Feed upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are ignored.
func (dc *DashboardController) Feed(c *gin.Context) {
	ws, err := dc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	dc.Hub.Register(ws)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	dc.Hub.Unregister(ws)
}
