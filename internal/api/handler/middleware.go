package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"urbaniq/backend/internal/authz"
)

const actorKey = "actor"

// RequireAuth validates the bearer token and resolves the full actor
// context once, including the authority department when a profile
// exists. Staff without a profile keep a nil DepartmentID and the
// policy fails closed downstream.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := h.Storage.GetUserByID(uint(userID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		actor := authz.Actor{
			UserID:      user.ID,
			IsSuperuser: user.IsSuperuser,
			IsStaff:     user.IsStaff,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
		}
		if user.IsStaff && user.AuthorityProfile != nil {
			deptID := user.AuthorityProfile.DepartmentID
			actor.DepartmentID = &deptID
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func mustActor(c *gin.Context) authz.Actor {
	return c.MustGet(actorKey).(authz.Actor)
}
