package users

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5 MB

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// HandleUploadAvatar accepts a multipart image, validates it (declared
// MIME type, extension, size and magic bytes must all agree), stores it
// under the public avatar directory and swaps the user's avatar reference.
// The previous avatar file is removed so uploads do not accumulate.
func (h *Handler) HandleUploadAvatar(c *gin.Context) {
	userID := c.GetString("userID")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(400, gin.H{"message": "No file uploaded"})
		return
	}

	if fileHeader.Size > maxAvatarSize {
		c.JSON(400, gin.H{"message": "File exceeds the 5MB size limit"})
		return
	}

	declaredType := fileHeader.Header.Get("Content-Type")
	if !allowedAvatarTypes[declaredType] {
		c.JSON(400, gin.H{"message": "File type must be JPEG, PNG or WebP"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAvatarExtensions[ext] {
		c.JSON(400, gin.H{"message": "File extension is not allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded avatar")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded avatar")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	if len(data) > maxAvatarSize {
		c.JSON(400, gin.H{"message": "File exceeds the 5MB size limit"})
		return
	}

	// The declared type is attacker-controlled; the file content decides.
	if sniffImageType(data) != declaredType {
		c.JSON(400, gin.H{"message": "File content does not match its declared type"})
		return
	}

	user, err := getUserByID(c.Request.Context(), h.DB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "User not found"})
			return
		}
		logrus.WithError(err).Error("failed to load user for avatar upload")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	filename := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixMilli(), ext)
	publicPath := "/avatars/" + filename

	if err := os.MkdirAll(h.AvatarDir, 0o755); err != nil {
		logrus.WithError(err).Error("failed to create avatar directory")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if err := os.WriteFile(filepath.Join(h.AvatarDir, filename), data, 0o644); err != nil {
		logrus.WithError(err).Error("failed to write avatar file")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	_, err = h.DB.ExecContext(c.Request.Context(),
		`UPDATE users SET avatar = ? WHERE id = ?`, publicPath, userID)
	if err != nil {
		logrus.WithError(err).Error("failed to update avatar reference")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	h.removePreviousAvatar(user.Avatar)

	c.JSON(200, gin.H{
		"message":  "Avatar uploaded successfully",
		"imageUrl": publicPath,
	})
}

func (h *Handler) removePreviousAvatar(avatar *string) {
	if avatar == nil || !strings.HasPrefix(*avatar, "/avatars/") {
		return
	}
	// filepath.Base strips any path tricks stored in the reference.
	old := filepath.Join(h.AvatarDir, filepath.Base(*avatar))
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to remove previous avatar file")
	}
}

// sniffImageType identifies the actual image format from its leading
// bytes: JPEG FF D8, PNG 89 50 4E 47, WEBP "WEBP" at bytes 8..12.
func sniffImageType(data []byte) string {
	switch {
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xD8}):
		return "image/jpeg"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return ""
	}
}
