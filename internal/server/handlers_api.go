package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"crossletters/internal/game"
	"crossletters/internal/store"
)

// casAttempts bounds how often a mutating handler replays its logical
// operation after losing a compare-and-swap race.
const casAttempts = 3

type joinRequest struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type tileInput struct {
	Letter string `json:"letter"`
	Blank  bool   `json:"blank,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type moveRequest struct {
	PlayerID string      `json:"player_id"`
	Code     string      `json:"code"`
	Tiles    []tileInput `json:"tiles"`
}

type turnRequest struct {
	PlayerID string `json:"player_id"`
	Code     string `json:"code"`
}

type swapRequest struct {
	PlayerID string   `json:"player_id"`
	Code     string   `json:"code"`
	Letters  []string `json:"letters"`
}

type titleRequest struct {
	Words []string `json:"words"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	state := game.NewState(newGameID())
	if _, err := s.writeState(r.Context(), state.ID, state, "", "game created"); err != nil {
		log.Printf("game create failed err=%v", err)
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	log.Printf("game created game_id=%s", state.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"game_id": state.ID})
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		s.handleGameState(w, r, gameID)
	case action == "join" && r.Method == http.MethodPost:
		s.handleJoin(w, r, gameID)
	case action == "move" && r.Method == http.MethodPost:
		s.handleMove(w, r, gameID)
	case action == "pass" && r.Method == http.MethodPost:
		s.handlePass(w, r, gameID)
	case action == "swap" && r.Method == http.MethodPost:
		s.handleSwap(w, r, gameID)
	case action == "resign" && r.Method == http.MethodPost:
		s.handleResign(w, r, gameID)
	case action == "definition" && r.Method == http.MethodGet:
		s.handleDefinition(w, r)
	case action == "title" && r.Method == http.MethodPost:
		s.handleTitle(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request, gameID string) {
	state, _, err := s.loadAndRepair(r.Context(), gameID)
	if err != nil {
		writeLoadError(w, gameID, err)
		return
	}
	viewerID := ""
	if player, err := authenticatePlayer(state, r.URL.Query().Get("player_id"), r.URL.Query().Get("code")); err == nil {
		viewerID = player.ID
	}
	writeJSON(w, http.StatusOK, snapshotState(state, viewerID))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, gameID string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		state, token, err := s.loadAndRepair(r.Context(), gameID)
		if err != nil {
			writeLoadError(w, gameID, err)
			return
		}
		if existing := state.PlayerByName(name); existing != nil {
			if !codeMatches(existing.JoinCode, req.Code) {
				writeError(w, http.StatusForbidden, "join code does not match")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"player_id": existing.ID,
				"code":      existing.JoinCode,
				"game":      snapshotState(state, existing.ID),
			})
			return
		}
		if !state.CanJoin(name) {
			writeError(w, http.StatusForbidden, "game is closed to new players")
			return
		}
		player, err := state.AddPlayer(name, newJoinCode(), newPlayerID())
		if err != nil {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		playerID, code := player.ID, player.JoinCode
		if _, err := s.writeState(r.Context(), gameID, state, token, "player joined: "+name); err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			writeError(w, http.StatusInternalServerError, "failed to join game")
			return
		}
		log.Printf("player joined game_id=%s player=%s", gameID, name)
		writeJSON(w, http.StatusCreated, map[string]any{
			"player_id": playerID,
			"code":      code,
			"game":      snapshotState(state, playerID),
		})
		return
	}
	writeError(w, http.StatusConflict, "game is busy, retry")
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, gameID string) {
	if !s.enforceRateLimit(w, r, "move") {
		return
	}
	var req moveRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	staged, err := validateStagedTiles(req.Tiles)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		state, token, err := s.loadAndRepair(r.Context(), gameID)
		if err != nil {
			writeLoadError(w, gameID, err)
			return
		}
		player, err := authenticatePlayer(state, req.PlayerID, req.Code)
		if err != nil {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}

		// Dictionary check happens before any mutation: an invalid word never
		// reaches the store.
		words := game.LocateWords(state.Replay(), staged)
		for _, word := range words {
			if !s.dict.IsValidWord(word.Text) {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error": "invalid word",
					"word":  word.Text,
				})
				return
			}
		}

		result, err := state.PlayMove(player.ID, staged)
		if err != nil {
			writeGameError(w, err)
			return
		}
		description := fmt.Sprintf("move +%d by %s", result.Score, player.Name)
		if len(result.Words) > 0 {
			description = fmt.Sprintf("move: %s +%d by %s", result.Words[0].Text, result.Score, player.Name)
		}
		if _, err := s.writeState(r.Context(), gameID, state, token, description); err != nil {
			if errors.Is(err, store.ErrConflict) {
				// Lost the race: replay the whole operation against fresh
				// state; the turn check will reject it if the moment passed.
				continue
			}
			writeError(w, http.StatusInternalServerError, "failed to save move")
			return
		}
		log.Printf("move played game_id=%s player=%s score=%d bingo=%t", gameID, player.Name, result.Score, result.Bingo)
		writeJSON(w, http.StatusOK, map[string]any{
			"score": result.Score,
			"words": wordTexts(result.Words),
			"bingo": result.Bingo,
			"game":  snapshotState(state, player.ID),
		})
		return
	}
	writeError(w, http.StatusConflict, "game is busy, retry")
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request, gameID string) {
	var req turnRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	s.applyTurnAction(w, r, gameID, req, "pass", func(state *game.State, playerID string) error {
		return state.PassTurn(playerID)
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request, gameID string) {
	var req swapRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	letters, err := validateSwapLetters(req.Letters)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.applyTurnAction(w, r, gameID, turnRequest{PlayerID: req.PlayerID, Code: req.Code}, "swap", func(state *game.State, playerID string) error {
		return state.SwapTiles(playerID, letters)
	})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request, gameID string) {
	var req turnRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	s.applyTurnAction(w, r, gameID, req, "resign", func(state *game.State, playerID string) error {
		return state.Resign(playerID)
	})
}

// applyTurnAction runs the shared read, authenticate, mutate, CAS-write cycle
// for pass, swap and resign.
func (s *Server) applyTurnAction(w http.ResponseWriter, r *http.Request, gameID string, req turnRequest, action string, mutate func(*game.State, string) error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		state, token, err := s.loadAndRepair(r.Context(), gameID)
		if err != nil {
			writeLoadError(w, gameID, err)
			return
		}
		player, err := authenticatePlayer(state, req.PlayerID, req.Code)
		if err != nil {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		if err := mutate(state, player.ID); err != nil {
			writeGameError(w, err)
			return
		}
		if _, err := s.writeState(r.Context(), gameID, state, token, action+" by "+player.Name); err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			writeError(w, http.StatusInternalServerError, "failed to save "+action)
			return
		}
		log.Printf("%s recorded game_id=%s player=%s", action, gameID, player.Name)
		writeJSON(w, http.StatusOK, map[string]any{"game": snapshotState(state, player.ID)})
		return
	}
	writeError(w, http.StatusConflict, "game is busy, retry")
}

func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	// Best effort: a failed lookup is a null definition, never an error that
	// could block play.
	definition, err := s.assist.Definition(r.Context(), word)
	if err != nil {
		log.Printf("definition lookup failed word=%s err=%v", word, err)
		writeJSON(w, http.StatusOK, map[string]any{"word": word, "definition": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"word": word, "definition": definition})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	title, err := s.assist.Title(r.Context(), req.Words)
	if err != nil {
		log.Printf("title generation failed err=%v", err)
		writeJSON(w, http.StatusOK, map[string]any{"title": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"title": title})
}

func writeLoadError(w http.ResponseWriter, gameID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	log.Printf("game load failed game_id=%s err=%v", gameID, err)
	writeError(w, http.StatusInternalServerError, "failed to load game")
}

func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		writeError(w, http.StatusConflict, "not your turn")
	case errors.Is(err, game.ErrGameEnded):
		writeError(w, http.StatusConflict, "game has ended")
	case errors.Is(err, game.ErrPlayerUnknown):
		writeError(w, http.StatusForbidden, "player not in game")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func wordTexts(words []game.Word) []string {
	texts := make([]string, 0, len(words))
	for _, word := range words {
		texts = append(texts, word.Text)
	}
	return texts
}
