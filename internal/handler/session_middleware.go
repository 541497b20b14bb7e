package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"TripPlanner-App/internal/domain/service"
)

const (
	SessionHeader = "X-Trip-Session"
	SessionCookie = "trip_session"

	sessionContextKey   = "tripSession"
	sessionIDContextKey = "tripSessionID"
)

// SessionMiddleware はヘッダーまたはクッキーからセッションIDを取り出し、対応するストアをコンテキストに設定する
// セッションIDがない (または不正な) 場合は新しく発行する
func SessionMiddleware(sessions *service.TripSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, 0, "/", "", false, true)
		}

		c.Header(SessionHeader, sessionID)
		c.Set(sessionIDContextKey, sessionID)
		c.Set(sessionContextKey, sessions.Get(sessionID))
		c.Next()
	}
}

// sessionFrom はミドルウェアが設定したストアを取り出す
func sessionFrom(c *gin.Context) *service.TripSessionStore {
	return c.MustGet(sessionContextKey).(*service.TripSessionStore)
}
