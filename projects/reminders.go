package projects

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Reminder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	ProjectID   string    `json:"projectId"`
}

var reminderStatuses = map[string]bool{
	"active":    true,
	"completed": true,
	"dismissed": true,
}

const reminderColumns = `id, title, description, due_date, status, project_id`

func scanReminder(row interface{ Scan(...interface{}) error }) (*Reminder, error) {
	var r Reminder
	var description sql.NullString
	var dueDate int64
	err := row.Scan(&r.ID, &r.Title, &description, &dueDate, &r.Status, &r.ProjectID)
	if err != nil {
		return nil, err
	}
	r.Description = nullToPtr(description)
	r.DueDate = time.UnixMilli(dueDate).UTC()
	return &r, nil
}

func (h *Handler) HandleListReminders(c *gin.Context) {
	projectID := c.Param("projectId")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT `+reminderColumns+` FROM reminders WHERE project_id = ?`, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list reminders")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	reminders := []Reminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			logrus.WithError(err).Error("failed to scan reminder")
			continue
		}
		reminders = append(reminders, *reminder)
	}

	c.JSON(200, reminders)
}

func (h *Handler) HandleCreateReminder(c *gin.Context) {
	projectID := c.Param("projectId")

	var json struct {
		Title       string    `json:"title" binding:"required,max=200"`
		Description *string   `json:"description" binding:"omitempty,max=1000"`
		DueDate     time.Time `json:"dueDate" binding:"required"`
		Status      *string   `json:"status"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	status := "active"
	if json.Status != nil {
		if !reminderStatuses[*json.Status] {
			c.JSON(400, gin.H{"message": "Invalid value for field status"})
			return
		}
		status = *json.Status
	}

	reminder := Reminder{
		ID:          uuid.NewString(),
		Title:       json.Title,
		Description: json.Description,
		DueDate:     json.DueDate,
		Status:      status,
		ProjectID:   projectID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.Title, ptrArg(reminder.Description), reminder.DueDate.UnixMilli(),
		reminder.Status, reminder.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to insert reminder")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, reminder)
}

func (h *Handler) getReminder(c *gin.Context) (*Reminder, bool) {
	reminderID := c.Param("reminderId")
	projectID := c.Param("projectId")

	reminder, err := scanReminder(h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND project_id = ?`, reminderID, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
		} else {
			logrus.WithError(err).Error("failed to load reminder")
			c.JSON(500, gin.H{"message": "Internal server error"})
		}
		return nil, false
	}
	return reminder, true
}

func (h *Handler) HandleGetReminder(c *gin.Context) {
	reminder, ok := h.getReminder(c)
	if !ok {
		return
	}
	c.JSON(200, reminder)
}

func (h *Handler) HandleUpdateReminder(c *gin.Context) {
	var json struct {
		Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
		Description *string    `json:"description" binding:"omitempty,max=1000"`
		DueDate     *time.Time `json:"dueDate"`
		Status      *string    `json:"status"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	if json.Status != nil && !reminderStatuses[*json.Status] {
		c.JSON(400, gin.H{"message": "Invalid value for field status"})
		return
	}

	reminder, ok := h.getReminder(c)
	if !ok {
		return
	}

	if json.Title != nil {
		reminder.Title = *json.Title
	}
	if json.Description != nil {
		reminder.Description = json.Description
	}
	if json.DueDate != nil {
		reminder.DueDate = *json.DueDate
	}
	if json.Status != nil {
		reminder.Status = *json.Status
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE reminders SET title = ?, description = ?, due_date = ?, status = ?
		 WHERE id = ? AND project_id = ?`,
		reminder.Title, ptrArg(reminder.Description), reminder.DueDate.UnixMilli(), reminder.Status,
		reminder.ID, reminder.ProjectID)
	if err != nil {
		logrus.WithError(err).Error("failed to update reminder")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, reminder)
}

func (h *Handler) HandleDeleteReminder(c *gin.Context) {
	reminderID := c.Param("reminderId")
	projectID := c.Param("projectId")

	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM reminders WHERE id = ? AND project_id = ?`, reminderID, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete reminder")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Reminder deleted successfully"})
}
