package notify

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"stackit/helper"
	"stackit/models"
)

// pushConn is the slice of *websocket.Conn the hub uses.
type pushConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks one live websocket connection per user and pushes stored
// notifications to whoever is online. Users who are offline simply pick
// their notifications up from the store later.
type Hub struct {
	mut   sync.Mutex
	conns map[primitive.ObjectID]pushConn
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[primitive.ObjectID]pushConn),
		log:   log,
	}
}

// HandleWS upgrades the request and holds the connection open until the
// client goes away. Requires an authenticated session.
func (h *Hub) HandleWS(c *gin.Context) {
	user, ok := helper.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.register(user.ID, conn)
	defer h.unregister(user.ID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Str("user", user.ID.Hex()).Msg("websocket read ended")
			}
			return
		}
	}
}

func (h *Hub) register(userID primitive.ObjectID, conn pushConn) {
	h.mut.Lock()
	old := h.conns[userID]
	h.conns[userID] = conn
	h.mut.Unlock()

	// a newer tab supersedes the old connection
	if old != nil {
		old.Close()
	}
}

func (h *Hub) unregister(userID primitive.ObjectID, conn pushConn) {
	h.mut.Lock()
	if h.conns[userID] == conn {
		delete(h.conns, userID)
	}
	h.mut.Unlock()
	conn.Close()
}

// Push writes the notification to the addressee's connection if one exists.
// Reports whether a live delivery happened.
func (h *Hub) Push(notification models.Notification) bool {
	h.mut.Lock()
	conn, online := h.conns[notification.User]
	h.mut.Unlock()

	if !online {
		return false
	}
	if err := conn.WriteJSON(notification); err != nil {
		h.log.Debug().Err(err).Str("user", notification.User.Hex()).Msg("websocket push failed")
		h.unregister(notification.User, conn)
		return false
	}
	return true
}

// Online reports whether the user currently holds a connection.
func (h *Hub) Online(userID primitive.ObjectID) bool {
	h.mut.Lock()
	defer h.mut.Unlock()
	_, ok := h.conns[userID]
	return ok
}
