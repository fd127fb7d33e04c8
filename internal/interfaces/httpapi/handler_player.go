package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/usecase"
)

type savePlayerRequest struct {
	FirstName string `json:"firstName" validate:"required,nonblank"`
	LastName  string `json:"lastName" validate:"required,nonblank"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02,notfuture"`
	Points    int    `json:"points" validate:"min=0"`
}

type playerDTO struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	BirthDate string  `json:"birthDate"`
	Rank      rankDTO `json:"rank"`
}

type rankDTO struct {
	Position int `json:"position"`
	Points   int `json:"points"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.playerService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	lastName := strings.TrimSpace(r.PathValue("lastName"))
	item, err := h.playerService.GetByLastName(ctx, lastName)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "last_name", lastName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	candidate, err := h.decodeCandidate(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.Create(ctx, candidate)
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "last_name", candidate.LastName, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/players/"+url.PathEscape(item.LastName))
	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	candidate, err := h.decodeCandidate(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.Update(ctx, candidate)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "last_name", candidate.LastName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	lastName := strings.TrimSpace(r.PathValue("lastName"))
	if err := h.playerService.Delete(ctx, lastName); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "last_name", lastName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) decodeCandidate(r *http.Request) (player.Candidate, error) {
	var req savePlayerRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return player.Candidate{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(r.Context(), req); err != nil {
		return player.Candidate{}, err
	}

	birthDate, err := time.Parse(birthDateLayout, strings.TrimSpace(req.BirthDate))
	if err != nil {
		return player.Candidate{}, fmt.Errorf("%w: invalid birth date: %v", usecase.ErrInvalidInput, err)
	}

	return player.Candidate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		BirthDate: birthDate,
		Points:    req.Points,
	}, nil
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate.Format(birthDateLayout),
		Rank: rankDTO{
			Position: p.Rank,
			Points:   p.Points,
		},
	}
}
