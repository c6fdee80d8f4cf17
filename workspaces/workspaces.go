package workspaces

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Workspace struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

type Handler struct {
	DB *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) HandleList(c *gin.Context) {
	userID := c.GetString("userID")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, user_id FROM workspaces WHERE user_id = ?`, userID)
	if err != nil {
		logrus.WithError(err).Error("failed to list workspaces")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	workspaces := []Workspace{}
	for rows.Next() {
		var w Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.UserID); err != nil {
			logrus.WithError(err).Error("failed to scan workspace")
			continue
		}
		workspaces = append(workspaces, w)
	}

	c.JSON(200, workspaces)
}

func (h *Handler) HandleCreate(c *gin.Context) {
	userID := c.GetString("userID")

	var json struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	var workspace Workspace
	query := `INSERT INTO workspaces (id, name, user_id) VALUES (?, ?, ?) RETURNING id, name, user_id`
	err := h.DB.QueryRowContext(c.Request.Context(), query, uuid.NewString(), json.Name, userID).
		Scan(&workspace.ID, &workspace.Name, &workspace.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to insert workspace")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, workspace)
}

func (h *Handler) HandleGet(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.Param("workspaceId")

	var workspace Workspace
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT id, name, user_id FROM workspaces WHERE id = ? AND user_id = ?`, workspaceID, userID).
		Scan(&workspace.ID, &workspace.Name, &workspace.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
			return
		}
		logrus.WithError(err).Error("failed to load workspace")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, workspace)
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.Param("workspaceId")

	var json struct {
		Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	var workspace Workspace
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT id, name, user_id FROM workspaces WHERE id = ? AND user_id = ?`, workspaceID, userID).
		Scan(&workspace.ID, &workspace.Name, &workspace.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
			return
		}
		logrus.WithError(err).Error("failed to load workspace")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if json.Name != nil {
		workspace.Name = *json.Name
	}

	_, err = h.DB.ExecContext(c.Request.Context(),
		`UPDATE workspaces SET name = ? WHERE id = ? AND user_id = ?`, workspace.Name, workspaceID, userID)
	if err != nil {
		logrus.WithError(err).Error("failed to update workspace")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, workspace)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	userID := c.GetString("userID")
	workspaceID := c.Param("workspaceId")

	// Scoping the delete by owner means a race can never reach a row
	// outside the validated chain. Descendants go with the foreign keys.
	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM workspaces WHERE id = ? AND user_id = ?`, workspaceID, userID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete workspace")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Workspace deleted successfully"})
}
