package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
)

// Headers identifying the calling station and its session
const (
	StationHeader   = "X-Station"
	SessionIDHeader = "X-Session-ID"

	// DefaultStation attributes edits made without a station header
	DefaultStation = "Admin"

	actorKey = "actor"
)

// ActorContext resolves who is making the request. It must run after
// EnsureValidToken on authenticated routes so the token subject is known.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		station := strings.TrimSpace(c.GetHeader(StationHeader))
		if station == "" {
			station = DefaultStation
		}
		sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader))
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		userID, _ := GetUserID(c)

		c.Set(actorKey, services.ActorContext{
			Station:   station,
			SessionID: sessionID,
			UserID:    userID,
		})
		c.Writer.Header().Set(SessionIDHeader, sessionID)
		c.Next()
	}
}

// GetActor returns the actor resolved by ActorContext, or the default
// station actor when the middleware did not run.
func GetActor(c *gin.Context) services.ActorContext {
	if value, exists := c.Get(actorKey); exists {
		if actor, ok := value.(services.ActorContext); ok {
			return actor
		}
	}
	userID, _ := GetUserID(c)
	return services.ActorContext{Station: DefaultStation, SessionID: uuid.New().String(), UserID: userID}
}
