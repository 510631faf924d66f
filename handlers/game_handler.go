package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/services"
	"github.com/google/uuid"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gs services.GameService) *GameHandler {
	return &GameHandler{gameService: gs}
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, game)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch services.GamePatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(patch); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), gameID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.gameService.StartGame)
}

func (h *GameHandler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.gameService.CompleteGame)
}

func (h *GameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.gameService.ResetGame)
}

func (h *GameHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(input); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	event, err := h.gameService.AddEvent(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.RecordScoreInput{Increment: 1}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(input); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	game, err := h.gameService.RecordScore(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

func (h *GameHandler) RecordTimeout(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordTimeoutInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(input); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	game, err := h.gameService.RecordTimeout(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

func (h *GameHandler) RecordForfeit(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.RecordForfeitInput{ForfeitType: services.ForfeitGame}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if errs := validateInput(input); errs != nil {
		failedValidationResponse(w, r, errs)
		return
	}

	game, err := h.gameService.RecordForfeit(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

// transition serves the body-less actions start, complete and reset.
func (h *GameHandler) transition(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id uuid.UUID) (*models.Game, error)) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := action(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, game)
}

func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, status int, game *models.Game) {
	if err := writeJSON(w, status, game, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
