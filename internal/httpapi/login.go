package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-deepresearch/internal/auth"
	"go-deepresearch/internal/user"
)

const sessionDuration = 7 * 24 * time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// loginHandler verifies a username/password against users, issues a JWT,
// and records the session in Redis so auth.Middleware can find it again.
func loginHandler(jwtSecret string, rdb *redis.Client, users *user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request"}})
			return
		}

		u, err := users.ByUsername(c.Request.Context(), req.Username)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid username or password"}})
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid username or password"}})
			return
		}

		token, err := auth.GenerateJWT(jwtSecret, u.ID, u.Username, sessionDuration)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to generate token"}})
			return
		}
		if err := auth.SetSession(c.Request.Context(), rdb, u.ID, token, sessionDuration); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to record session"}})
			return
		}

		c.JSON(http.StatusOK, loginResponse{Token: token, UserID: u.ID, Username: u.Username})
	}
}

// logoutHandler clears the caller's session, requiring auth.Middleware to
// have already populated "userId" on the context.
func logoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated"}})
			return
		}
		if err := auth.DeleteSession(c.Request.Context(), rdb, userID.(uint)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to clear session"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
