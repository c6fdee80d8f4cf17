package projects

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	ProjectID   string     `json:"projectId"`
}

var taskStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"completed":   true,
	"cancelled":   true,
}

const taskColumns = `id, title, description, deadline, status, assigned_to, project_id`

func scanTask(row interface{ Scan(...interface{}) error }) (*Task, error) {
	var t Task
	var description, assignedTo sql.NullString
	var deadline sql.NullInt64
	err := row.Scan(&t.ID, &t.Title, &description, &deadline, &t.Status, &assignedTo, &t.ProjectID)
	if err != nil {
		return nil, err
	}
	t.Description = nullToPtr(description)
	t.Deadline = msToTimePtr(deadline)
	t.AssignedTo = nullToPtr(assignedTo)
	return &t, nil
}

func (h *Handler) HandleListTasks(c *gin.Context) {
	projectID := c.Param("projectId")

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to list tasks")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logrus.WithError(err).Error("failed to scan task")
			continue
		}
		tasks = append(tasks, *task)
	}

	c.JSON(200, tasks)
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	projectID := c.Param("projectId")

	var json struct {
		Title       string     `json:"title" binding:"required,max=200"`
		Description *string    `json:"description" binding:"omitempty,max=1000"`
		Deadline    *time.Time `json:"deadline"`
		Status      *string    `json:"status"`
		AssignedTo  *string    `json:"assignedTo"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	status := "pending"
	if json.Status != nil {
		if !taskStatuses[*json.Status] {
			c.JSON(400, gin.H{"message": "Invalid value for field status"})
			return
		}
		status = *json.Status
	}

	task := Task{
		ID:          uuid.NewString(),
		Title:       json.Title,
		Description: json.Description,
		Deadline:    json.Deadline,
		Status:      status,
		AssignedTo:  json.AssignedTo,
		ProjectID:   projectID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, ptrArg(task.Description), timeArg(task.Deadline),
		task.Status, ptrArg(task.AssignedTo), task.ProjectID)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			c.JSON(400, gin.H{"message": "Invalid value for field assignedTo"})
			return
		}
		logrus.WithError(err).Error("failed to insert task")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(201, task)
}

func (h *Handler) getTask(c *gin.Context) (*Task, bool) {
	taskID := c.Param("taskId")
	projectID := c.Param("projectId")

	task, err := scanTask(h.DB.QueryRowContext(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND project_id = ?`, taskID, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(404, gin.H{"message": "Not found"})
		} else {
			logrus.WithError(err).Error("failed to load task")
			c.JSON(500, gin.H{"message": "Internal server error"})
		}
		return nil, false
	}
	return task, true
}

func (h *Handler) HandleGetTask(c *gin.Context) {
	task, ok := h.getTask(c)
	if !ok {
		return
	}
	c.JSON(200, task)
}

func (h *Handler) HandleUpdateTask(c *gin.Context) {
	var json struct {
		Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
		Description *string    `json:"description" binding:"omitempty,max=1000"`
		Deadline    *time.Time `json:"deadline"`
		Status      *string    `json:"status"`
		AssignedTo  *string    `json:"assignedTo"`
	}

	if err := c.ShouldBindJSON(&json); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	if json.Status != nil && !taskStatuses[*json.Status] {
		c.JSON(400, gin.H{"message": "Invalid value for field status"})
		return
	}

	task, ok := h.getTask(c)
	if !ok {
		return
	}

	if json.Title != nil {
		task.Title = *json.Title
	}
	if json.Description != nil {
		task.Description = json.Description
	}
	if json.Deadline != nil {
		task.Deadline = json.Deadline
	}
	if json.Status != nil {
		task.Status = *json.Status
	}
	if json.AssignedTo != nil {
		task.AssignedTo = json.AssignedTo
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE tasks SET title = ?, description = ?, deadline = ?, status = ?, assigned_to = ?
		 WHERE id = ? AND project_id = ?`,
		task.Title, ptrArg(task.Description), timeArg(task.Deadline), task.Status,
		ptrArg(task.AssignedTo), task.ID, task.ProjectID)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			c.JSON(400, gin.H{"message": "Invalid value for field assignedTo"})
			return
		}
		logrus.WithError(err).Error("failed to update task")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(200, task)
}

func (h *Handler) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("taskId")
	projectID := c.Param("projectId")

	res, err := h.DB.ExecContext(c.Request.Context(),
		`DELETE FROM tasks WHERE id = ? AND project_id = ?`, taskID, projectID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete task")
		c.JSON(500, gin.H{"message": "Internal server error"})
		return
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		c.JSON(404, gin.H{"message": "Not found"})
		return
	}

	c.JSON(200, gin.H{"message": "Task deleted successfully"})
}
