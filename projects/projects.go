package projects

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WorkspaceID string  `json:"workspaceId"`
}

type Handler struct {
	DB *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) HandleListProjects(c *gin.Context) {
	workspaceID := c.Param("workspaceId")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, description, workspace_id FROM projects WHERE workspace_id = ?`, workspaceID)
	if err != nil {
		logrus.WithError(err).Error("failed to list projects")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.WorkspaceID); err != nil {
			logrus.WithError(err).Error("failed to scan project")
			continue
		}
		p.Description = nullToPtr(description)
		projects = append(projects, p)
	}

	c.JSON(200, projects)
}

func (h *Handler) HandleCreateProject(c *gin.Context) {
	workspaceID := c.Param("workspaceId")

	var json struct {
		Name        string  `json:"name" binding:"required,max=100"`
		Description *string `json:"description" binding:"omitempty,max=500"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	project := Project{
		ID:          uuid.NewString(),
		Name:        json.Name,
		Description: json.Description,
		WorkspaceID: workspaceID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO projects (id, name, description, workspace_id) VALUES (?, ?, ?, ?)`,
		project.ID, project.Name, ptrArg(project.Description), project.WorkspaceID)
	if err != nil {
		logrus.WithError(err).Error("failed to insert project")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, project)
}

func (h *Handler) getProject(c *gin.Context) (*Project, bool) {
	projectID := c.Param("projectId")
	workspaceID := c.Param("workspaceId")

	var p Project
	var description sql.NullString
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT id, name, description, workspace_id FROM projects WHERE id = ? AND workspace_id = ?`,
		projectID, workspaceID).
		Scan(&p.ID, &p.Name, &description, &p.WorkspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
		} else {
			logrus.WithError(err).Error("failed to load project")
			c.JSON(500, gin.H{"message": "Internal server error"})
		}
		return nil, false
	}
	p.Description = nullToPtr(description)
	return &p, true
}

func (h *Handler) HandleGetProject(c *gin.Context) {
	project, ok := h.getProject(c)
	if !ok {
		return
	}
	c.JSON(200, project)
}

func (h *Handler) HandleUpdateProject(c *gin.Context) {
	var json struct {
		Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
		Description *string `json:"description" binding:"omitempty,max=500"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	project, ok := h.getProject(c)
	if !ok {
		return
	}

	// Partial merge: absent fields keep their stored value.
	if json.Name != nil {
		project.Name = *json.Name
	}
	if json.Description != nil {
		project.Description = json.Description
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE projects SET name = ?, description = ? WHERE id = ? AND workspace_id = ?`,
		project.Name, ptrArg(project.Description), project.ID, project.WorkspaceID)
	if err != nil {
		logrus.WithError(err).Error("failed to update project")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, project)
}

func (h *Handler) HandleDeleteProject(c *gin.Context) {
	projectID := c.Param("projectId")
	workspaceID := c.Param("workspaceId")

	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM projects WHERE id = ? AND workspace_id = ?`, projectID, workspaceID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete project")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Project deleted successfully"})
}
