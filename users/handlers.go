package users

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"projecthub/logging"
)

type Handler struct {
	DB        *sql.DB
	Tokens    *TokenManager
	AvatarDir string
}

func NewHandler(db *sql.DB, tokens *TokenManager, avatarDir string) *Handler {
	return &Handler{DB: db, Tokens: tokens, AvatarDir: avatarDir}
}

func (h *Handler) HandleRegister(c *gin.Context) {
	var json struct {
		Name     string `json:"name" binding:"required,min=2,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8,max=100"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	hashedPassword, err := hashPassword(json.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	email := strings.ToLower(json.Email)

	query := `INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)`
	_, err = h.DB.ExecContext(c.Request.Context(), query, uuid.NewString(), json.Name, email, hashedPassword)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(400, gin.H{"message": "Email is already taken"})
			return
		}
		logrus.WithError(err).WithFields(logging.Redact(logrus.Fields{"email": email})).Error("failed to insert user")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, gin.H{"message": "Successfully registered"})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var json struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	user, err := VerifyCredentials(c.Request.Context(), h.DB, json.Email, json.Password)
	if err != nil {
		logrus.WithError(err).Error("credential verification failed")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	if user == nil {
		// Unknown email and wrong password collapse into one answer.
		c.JSON(401, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.AvatarString())
	if err != nil {
		logrus.WithError(err).Error("failed to sign session token")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, gin.H{
		"auth_token": token,
		"session":    user.Public(),
	})
}

func (h *Handler) HandleLogout(c *gin.Context) {
	// Sessions are stateless JWTs; the client drops the token and expiry
	// does the rest.
	c.JSON(200, gin.H{"message": "Logged out"})
}

// HandleRefreshSession re-issues the session token. The avatar claim is
// re-read from the store so avatar changes reach the session without
// re-authentication. If the backing user row is gone the token keeps its
// last-known avatar and the session stays valid until expiry.
func (h *Handler) HandleRefreshSession(c *gin.Context) {
	userID := c.GetString("userID")
	avatar := c.GetString("userAvatar")

	session := gin.H{"id": userID, "avatar": avatar}

	user, err := getUserByID(c.Request.Context(), h.DB, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logrus.WithError(err).Error("failed to load user for session refresh")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	if user != nil {
		avatar = user.AvatarString()
		session = gin.H{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"avatar": user.Avatar,
		}
	}

	token, err := h.Tokens.Issue(userID, avatar)
	if err != nil {
		logrus.WithError(err).Error("failed to sign session token")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, gin.H{
		"auth_token": token,
		"session":    session,
	})
}

func (h *Handler) HandleProfile(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := getUserByID(c.Request.Context(), h.DB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "User not found"})
			return
		}
		logrus.WithError(err).Error("failed to load profile")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, user.Public())
}
