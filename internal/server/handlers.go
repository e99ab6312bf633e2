package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
)

// sessionHeader carries the optional chat-session identifier; when present
// the exchange is recorded for replay via /history.
const sessionHeader = "X-Session-Id"

type askRequest struct {
	Q string `json:"q"`
}

type ragResponse struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
}

type errResponse struct {
	Erro string `json:"erro"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Erro: "corpo inválido"})
		return
	}

	answer, err := s.ask.Ask(r.Context(), req.Q)
	if err != nil {
		s.writeAskError(w, err)
		return
	}

	payload := answerPayload(answer)
	s.record(r.Header.Get(sessionHeader), req.Q, payload)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	if s.profile == nil {
		writeJSON(w, http.StatusNotFound, errResponse{Erro: domain.ErrCompanyNotFound.Error()})
		return
	}
	profile, err := s.profile.Profile(r.Context(), chi.URLParam(r, "cnpj"))
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			writeJSON(w, http.StatusNotFound, errResponse{Erro: err.Error()})
			return
		}
		log.Errorf("company profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, errResponse{Erro: "erro interno"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []domain.HistoryTurn{})
		return
	}
	turns, err := s.history.Turns(chi.URLParam(r, "session"))
	if err != nil {
		log.Errorf("history read: %v", err)
		writeJSON(w, http.StatusInternalServerError, errResponse{Erro: "erro interno"})
		return
	}
	if turns == nil {
		turns = []domain.HistoryTurn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

// answerPayload maps an Answer onto the wire shape of its route.
func answerPayload(a domain.Answer) any {
	switch a.Kind {
	case domain.IntentAddress:
		return a.Address
	case domain.IntentBranches:
		return a.Branches
	case domain.IntentSimilarity:
		if a.Similar == nil {
			return []domain.SimilarCompany{}
		}
		return a.Similar
	default:
		return ragResponse{SQL: a.SQL, Answer: a.Text}
	}
}

// writeAskError keeps the request boundary structured: recoverable domain
// errors answer 200 with an "erro" field, bad input 400, the rest 500.
func (s *Server) writeAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errResponse{Erro: err.Error()})
	case errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrVectorMissing),
		errors.Is(err, domain.ErrQueryRejected),
		errors.Is(err, domain.ErrLLMUnavailable):
		writeJSON(w, http.StatusOK, errResponse{Erro: err.Error()})
	default:
		log.Errorf("ask failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errResponse{Erro: "erro interno"})
	}
}

func (s *Server) record(session, question string, payload any) {
	if s.history == nil || session == "" {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	turn := domain.HistoryTurn{
		Session:  session,
		Question: question,
		Response: string(body),
		Unix:     time.Now().Unix(),
	}
	if err := s.history.Append(turn); err != nil {
		log.Warnf("history append: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %v", err)
	}
}
