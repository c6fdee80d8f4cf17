package projects

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Content is a README or knowledge-base document attached to a project.
// Path carries the document's position in the knowledge-base tree.
type Content struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Path      *string `json:"path"`
	ProjectID string  `json:"projectId"`
}

var contentTypes = map[string]bool{
	"README":         true,
	"knowledge_base": true,
}

const contentColumns = `id, type, title, content, path, project_id`

func scanContent(row interface{ Scan(...interface{}) error }) (*Content, error) {
	var ct Content
	var title, path sql.NullString
	err := row.Scan(&ct.ID, &ct.Type, &title, &ct.Content, &path, &ct.ProjectID)
	if err != nil {
		return nil, err
	}
	ct.Title = nullToPtr(title)
	ct.Path = nullToPtr(path)
	return &ct, nil
}

func (h *Handler) HandleListContent(c *gin.Context) {
	projectID := c.Param("projectId")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT `+contentColumns+` FROM project_content WHERE project_id = ?`, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list content")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	documents := []Content{}
	for rows.Next() {
		doc, err := scanContent(rows)
		if err != nil {
			logrus.WithError(err).Error("failed to scan content")
			continue
		}
		documents = append(documents, *doc)
	}

	c.JSON(200, documents)
}

func (h *Handler) HandleCreateContent(c *gin.Context) {
	projectID := c.Param("projectId")

	var json struct {
		Type    *string `json:"type"`
		Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
		Content string  `json:"content" binding:"max=50000"`
		Path    *string `json:"path"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	contentType := "README"
	if json.Type != nil {
		if !contentTypes[*json.Type] {
			c.JSON(400, gin.H{"message": "Invalid value for field type"})
			return
		}
		contentType = *json.Type
	}

	doc := Content{
		ID:        uuid.NewString(),
		Type:      contentType,
		Title:     json.Title,
		Content:   json.Content,
		Path:      json.Path,
		ProjectID: projectID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO project_content (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Type, ptrArg(doc.Title), doc.Content, ptrArg(doc.Path), doc.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to insert content")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, doc)
}

func (h *Handler) getContent(c *gin.Context) (*Content, bool) {
	contentID := c.Param("contentId")
	projectID := c.Param("projectId")

	doc, err := scanContent(h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+contentColumns+` FROM project_content WHERE id = ? AND project_id = ?`, contentID, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
		} else {
			logrus.WithError(err).Error("failed to load content")
			c.JSON(500, gin.H{"message": "Internal server error"})
		}
		return nil, false
	}
	return doc, true
}

func (h *Handler) HandleGetContent(c *gin.Context) {
	doc, ok := h.getContent(c)
	if !ok {
		return
	}
	c.JSON(200, doc)
}

func (h *Handler) HandleUpdateContent(c *gin.Context) {
	var json struct {
		Type    *string `json:"type"`
		Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
		Content *string `json:"content" binding:"omitempty,max=50000"`
		Path    *string `json:"path"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	if json.Type != nil && !contentTypes[*json.Type] {
		c.JSON(400, gin.H{"message": "Invalid value for field type"})
		return
	}

	doc, ok := h.getContent(c)
	if !ok {
		return
	}

	if json.Type != nil {
		doc.Type = *json.Type
	}
	if json.Title != nil {
		doc.Title = json.Title
	}
	if json.Content != nil {
		doc.Content = *json.Content
	}
	if json.Path != nil {
		doc.Path = json.Path
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE project_content SET type = ?, title = ?, content = ?, path = ?
		 WHERE id = ? AND project_id = ?`,
		doc.Type, ptrArg(doc.Title), doc.Content, ptrArg(doc.Path), doc.ID, doc.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to update content")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, doc)
}

func (h *Handler) HandleDeleteContent(c *gin.Context) {
	contentID := c.Param("contentId")
	projectID := c.Param("projectId")

	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM project_content WHERE id = ? AND project_id = ?`, contentID, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete content")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Content deleted successfully"})
}
