package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ventas/internal/core"
)

type clientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if clients == nil {
		clients = []core.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", core.ErrValidation))
		return
	}

	client := core.Client{Name: req.Name, Phone: req.Phone, Email: req.Email}
	if err := client.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateClient(r.Context(), client)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body", core.ErrValidation))
		return
	}

	client := core.Client{ID: id, Name: req.Name, Phone: req.Phone, Email: req.Email}
	if err := client.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.UpdateClient(r.Context(), client); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.DeleteClient(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "client deleted")
}
