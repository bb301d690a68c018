package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"crossletters/internal/db"

	"github.com/gin-gonic/gin"
)

// adminRouter serves the operator API: listing stored games, reading their
// event trail, and forcing a repair pass on a document. It is bearer-token
// protected and refuses to serve at all when no token is configured.
func (s *Server) adminRouter() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	admin := router.Group("/admin/api", s.requireAdmin)
	admin.GET("/games", s.handleAdminListGames)
	admin.GET("/games/:gameID/events", s.handleAdminGameEvents)
	admin.POST("/games/:gameID/events", s.handleAdminAnnotateGame)
	admin.POST("/games/:gameID/repair", s.handleAdminRepairGame)
	return router
}

func (s *Server) requireAdmin(c *gin.Context) {
	if strings.TrimSpace(s.cfg.AdminToken) == "" {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API is not configured"})
		return
	}
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.cfg.AdminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
		return
	}
	c.Next()
}

type adminGamePath struct {
	GameID string `uri:"gameID" binding:"required"`
}

func (s *Server) handleAdminListGames(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
		return
	}
	page, perPage := parsePagination(c, 20, 100)

	var total int64
	if err := s.db.Model(&db.Document{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list games"})
		return
	}
	pagination := buildPaginationData(page, perPage, total)

	var documents []db.Document
	err := s.db.Model(&db.Document{}).
		Order("updated_at DESC").
		Offset((pagination.Page - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&documents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list games"})
		return
	}

	games := make([]gin.H, 0, len(documents))
	for _, document := range documents {
		games = append(games, gin.H{
			"game_id":    document.Key,
			"version":    document.Version,
			"created_at": document.CreatedAt,
			"updated_at": document.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": games, "pagination": pagination})
}

func (s *Server) handleAdminGameEvents(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
		return
	}
	var path adminGamePath
	if !bindURI(c, &path) {
		return
	}
	page, perPage := parsePagination(c, 50, 200)

	var total int64
	if err := s.db.Model(&db.Event{}).Where("document_key = ?", path.GameID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	pagination := buildPaginationData(page, perPage, total)

	var records []db.Event
	err := s.db.Model(&db.Event{}).
		Where("document_key = ?", path.GameID).
		Order("id DESC").
		Offset((pagination.Page - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	events := make([]gin.H, 0, len(records))
	for _, record := range records {
		events = append(events, gin.H{
			"id":          record.ID,
			"type":        record.Type,
			"description": record.Description,
			"created_at":  record.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "pagination": pagination})
}

type annotateRequest struct {
	Description string `json:"description" binding:"required,max=280"`
}

// handleAdminAnnotateGame appends an operator note to a game's event trail.
func (s *Server) handleAdminAnnotateGame(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
		return
	}
	var path adminGamePath
	if !bindURI(c, &path) {
		return
	}
	var req annotateRequest
	messages := bindMessages{
		"Description": {
			"required": "description is required",
			"max":      "description must be at most 280 characters",
		},
	}
	if !bindJSON(c, &req, messages, "invalid annotation") {
		return
	}
	record := db.Event{
		DocumentKey: path.GameID,
		Type:        "operator_note",
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.db.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save note"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

// handleAdminRepairGame runs the same repair pass every read performs, so an
// operator can force it on a suspect game and see the healed state.
func (s *Server) handleAdminRepairGame(c *gin.Context) {
	var path adminGamePath
	if !bindURI(c, &path) {
		return
	}
	state, _, err := s.loadAndRepair(c.Request.Context(), path.GameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found or could not be repaired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": snapshotState(state, "")})
}
