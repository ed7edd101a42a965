package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader идентификатор пользователя, проставленный upstream-аутентификацией
const UserIDHeader = "X-User-ID"

const userIDKey = "user_id"

// RequireUser 401 без валидного X-User-ID
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(UserIDHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + UserIDHeader})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// OptionalUser запоминает пользователя, если заголовок есть и валиден
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(UserIDHeader)); err == nil {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// UserID пользователь запроса или nil
func UserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// MustUserID для маршрутов под RequireUser
func MustUserID(c *gin.Context) uuid.UUID {
	if id := UserID(c); id != nil {
		return *id
	}
	return uuid.Nil
}
