package projects

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	ProjectID   string    `json:"projectId"`
}

var eventStatuses = map[string]bool{
	"upcoming":  true,
	"ongoing":   true,
	"completed": true,
	"cancelled": true,
}

const eventColumns = `id, title, description, date, status, project_id`

func scanEvent(row interface{ Scan(...interface{}) error }) (*Event, error) {
	var e Event
	var description sql.NullString
	var date int64
	err := row.Scan(&e.ID, &e.Title, &description, &date, &e.Status, &e.ProjectID)
	if err != nil {
		return nil, err
	}
	e.Description = nullToPtr(description)
	e.Date = time.UnixMilli(date).UTC()
	return &e, nil
}

func (h *Handler) HandleListEvents(c *gin.Context) {
	projectID := c.Param("projectId")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT `+eventColumns+` FROM events WHERE project_id = ?`, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list events")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			logrus.WithError(err).Error("failed to scan event")
			continue
		}
		events = append(events, *event)
	}

	c.JSON(200, events)
}

func (h *Handler) HandleCreateEvent(c *gin.Context) {
	projectID := c.Param("projectId")

	var json struct {
		Title       string    `json:"title" binding:"required,max=200"`
		Description *string   `json:"description" binding:"omitempty,max=1000"`
		Date        time.Time `json:"date" binding:"required"`
		Status      *string   `json:"status"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	status := "upcoming"
	if json.Status != nil {
		if !eventStatuses[*json.Status] {
			c.JSON(400, gin.H{"message": "Invalid value for field status"})
			return
		}
		status = *json.Status
	}

	event := Event{
		ID:          uuid.NewString(),
		Title:       json.Title,
		Description: json.Description,
		Date:        json.Date,
		Status:      status,
		ProjectID:   projectID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, ptrArg(event.Description), event.Date.UnixMilli(),
		event.Status, event.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to insert event")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, event)
}

func (h *Handler) getEvent(c *gin.Context) (*Event, bool) {
	eventID := c.Param("eventId")
	projectID := c.Param("projectId")

	event, err := scanEvent(h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND project_id = ?`, eventID, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
		} else {
			logrus.WithError(err).Error("failed to load event")
			c.JSON(500, gin.H{"message": "Internal server error"})
		}
		return nil, false
	}
	return event, true
}

func (h *Handler) HandleGetEvent(c *gin.Context) {
	event, ok := h.getEvent(c)
	if !ok {
		return
	}
	c.JSON(200, event)
}

func (h *Handler) HandleUpdateEvent(c *gin.Context) {
	var json struct {
		Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
		Description *string    `json:"description" binding:"omitempty,max=1000"`
		Date        *time.Time `json:"date"`
		Status      *string    `json:"status"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	if json.Status != nil && !eventStatuses[*json.Status] {
		c.JSON(400, gin.H{"message": "Invalid value for field status"})
		return
	}

	event, ok := h.getEvent(c)
	if !ok {
		return
	}

	if json.Title != nil {
		event.Title = *json.Title
	}
	if json.Description != nil {
		event.Description = json.Description
	}
	if json.Date != nil {
		event.Date = *json.Date
	}
	if json.Status != nil {
		event.Status = *json.Status
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE events SET title = ?, description = ?, date = ?, status = ?
		 WHERE id = ? AND project_id = ?`,
		event.Title, ptrArg(event.Description), event.Date.UnixMilli(), event.Status,
		event.ID, event.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to update event")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, event)
}

func (h *Handler) HandleDeleteEvent(c *gin.Context) {
	eventID := c.Param("eventId")
	projectID := c.Param("projectId")

	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM events WHERE id = ? AND project_id = ?`, eventID, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete event")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Event deleted successfully"})
}
