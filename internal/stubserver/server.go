// Package stubserver implements the assistant backend's wire contract for
// local development and integration tests: the /ws realtime channel plus
// the minimal REST surface the client consumes. Chat replies are canned.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"assistant-client/internal/models"
)

type Server struct {
	hub      *Hub
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	alarms  []models.Alarm
	tasks   []models.Task
	apiKeys map[string]string
}

func New(logger *logrus.Logger) *Server {
	return &Server{
		hub:     NewHub(logger),
		logger:  logger,
		apiKeys: make(map[string]string),
	}
}

// Hub exposes the connection hub so tests can push frames directly.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the gin engine with the full stub surface.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", s.handleWS)

	r.POST("/push/alarm", s.pushAlarm)
	r.POST("/push/task", s.pushTask)

	r.POST("/auth/login", s.login)

	api := r.Group("/", s.requireBearer)
	{
		api.GET("/api/alarms", s.getAlarms)
		api.POST("/api/alarms", s.createAlarm)
		api.DELETE("/api/alarms/:id", s.deleteAlarm)
		api.PATCH("/api/alarms/:id/toggle", s.toggleAlarm)

		api.GET("/api/tasks", s.getTasks)
		api.GET("/api/tasks/:id", s.getTask)
		api.POST("/api/tasks", s.createTask)
		api.DELETE("/api/tasks/:id", s.deleteTask)
		api.PATCH("/api/tasks/:id/subtasks/:sid/status", s.toggleSubTask)
		api.DELETE("/api/tasks/:id/subtasks/:sid", s.deleteSubTask)

		api.POST("/settings/set-api-key", s.setAPIKey)
		api.GET("/settings/get-api-key", s.getAPIKey)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// handleWS upgrades the connection and echoes chat frames. A frame
// starting with "error:" gets an error event back, anything else an
// ai_response.
func (s *Server) handleWS(c *gin.Context) {
	token := c.Query("authToken")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authToken"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Errorf("Upgrade failed: %v", err)
		return
	}
	s.hub.AddConnection(token, conn)

	go func() {
		defer func() {
			s.hub.RemoveConnection(token, conn)
			conn.Close()
		}()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			text := string(msg)

			var reply []byte
			if rest, ok := strings.CutPrefix(text, "error:"); ok {
				reply, _ = json.Marshal(models.Event{
					Type:    models.EventError,
					Message: strings.TrimSpace(rest),
				})
			} else {
				reply, _ = json.Marshal(models.Event{
					Type:    models.EventAIResponse,
					Message: "You said: " + text,
				})
			}
			if err := s.hub.WriteTo(conn, reply); err != nil {
				return
			}
		}
	}()
}

// pushAlarm injects an alarm_notification frame to a token's connections.
func (s *Server) pushAlarm(c *gin.Context) {
	var req struct {
		Token string            `json:"token" binding:"required"`
		Data  models.AlarmEvent `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.pushEvent(req.Token, models.EventAlarmNotification, req.Data)
	c.JSON(http.StatusOK, gin.H{"status": 200})
}

// pushTask injects a task_notification frame to a token's connections.
func (s *Server) pushTask(c *gin.Context) {
	var req struct {
		Token string           `json:"token" binding:"required"`
		Data  models.TaskEvent `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.pushEvent(req.Token, models.EventTaskNotification, req.Data)
	c.JSON(http.StatusOK, gin.H{"status": 200})
}

func (s *Server) pushEvent(token, eventType string, data any) {
	raw, _ := json.Marshal(data)
	frame, _ := json.Marshal(models.Event{Type: eventType, Data: raw})
	s.hub.SendToToken(token, frame)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		UsernameOrEmail string `json:"usernameOrEmail"`
		Password        string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UsernameOrEmail == "" || req.Password == "" {
		c.JSON(http.StatusOK, gin.H{"status": 400, "message": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "token": uuid.New().String()})
}

// requireBearer rejects requests without a bearer token. Any non-empty
// token passes; the stub does not verify signatures.
func (s *Server) requireBearer(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	c.Next()
}

func (s *Server) getAlarms(c *gin.Context) {
	s.mu.Lock()
	alarms := append([]models.Alarm(nil), s.alarms...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "alarms": alarms})
}

func (s *Server) createAlarm(c *gin.Context) {
	var req models.AlarmCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	alarm := models.Alarm{
		ID:            uuid.New().String(),
		Description:   req.Description,
		RepeatPattern: req.RepeatPattern,
		Priority:      req.Priority,
		AlarmTime:     req.AlarmTime,
		IsActive:      true,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if alarm.RepeatPattern == "" {
		alarm.RepeatPattern = "none"
	}
	if alarm.Priority == "" {
		alarm.Priority = "normal"
	}

	s.mu.Lock()
	s.alarms = append([]models.Alarm{alarm}, s.alarms...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "newAlarm": alarm})
}

func (s *Server) deleteAlarm(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	out := s.alarms[:0]
	for _, a := range s.alarms {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.alarms = out
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Alarm deleted"})
}

func (s *Server) toggleAlarm(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			s.alarms[i].IsActive = !s.alarms[i].IsActive
			c.JSON(http.StatusOK, gin.H{"status": 200, "alarm": s.alarms[i]})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": 404, "message": "Alarm not found"})
}

func (s *Server) getTasks(c *gin.Context) {
	s.mu.Lock()
	tasks := append([]models.Task(nil), s.tasks...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "tasks": tasks})
}

func (s *Server) getTask(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			c.JSON(http.StatusOK, gin.H{"status": 200, "task": t})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": 404, "message": "Task not found"})
}

func (s *Server) createTask(c *gin.Context) {
	var req models.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = uuid.New().String()
	for i := range req.SubTasks {
		if req.SubTasks[i].ID == "" {
			req.SubTasks[i].ID = uuid.New().String()
		}
	}

	s.mu.Lock()
	s.tasks = append([]models.Task{req}, s.tasks...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "task": req})
}

func (s *Server) deleteTask(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	out := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.tasks = out
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Task deleted"})
}

func (s *Server) toggleSubTask(c *gin.Context) {
	id, sid := c.Param("id"), c.Param("sid")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		for j := range s.tasks[i].SubTasks {
			if s.tasks[i].SubTasks[j].ID == sid {
				if s.tasks[i].SubTasks[j].Status == "done" {
					s.tasks[i].SubTasks[j].Status = "pending"
				} else {
					s.tasks[i].SubTasks[j].Status = "done"
				}
				c.JSON(http.StatusOK, gin.H{"status": 200, "subtask": s.tasks[i].SubTasks[j]})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": 404, "message": "Subtask not found"})
}

func (s *Server) deleteSubTask(c *gin.Context) {
	id, sid := c.Param("id"), c.Param("sid")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		subs := s.tasks[i].SubTasks[:0]
		for _, st := range s.tasks[i].SubTasks {
			if st.ID != sid {
				subs = append(subs, st)
			}
		}
		s.tasks[i].SubTasks = subs
		c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Subtask deleted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 404, "message": "Task not found"})
}

func (s *Server) setAPIKey(c *gin.Context) {
	var req struct {
		APIKey string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	s.apiKeys[token] = req.APIKey
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "API key saved"})
}

func (s *Server) getAPIKey(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	key := s.apiKeys[token]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": 200, "api_key": key})
}
