package server

import (
	"net/http"

	"crossletters/internal/config"
	"crossletters/internal/store"

	"gorm.io/gorm"
)

type Server struct {
	docs    store.Store
	db      *gorm.DB
	cfg     config.Config
	dict    Dictionary
	assist  *Assistant
	limiter *rateLimiter
}

func New(docs store.Store, conn *gorm.DB, dict Dictionary, cfg config.Config) *Server {
	return &Server{
		docs:    docs,
		db:      conn,
		cfg:     cfg,
		dict:    dict,
		assist:  newAssistant(cfg),
		limiter: newRateLimiter(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.Handle("/admin/", s.adminRouter())
	return mux
}
