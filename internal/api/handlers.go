/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions process incoming JSON requests, validate them, drive the
    core (validators -> pricing -> contract store), and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Are the fields acceptable?)
    - Ownership checks before any accept
    - Mapping core failures to distinct HTTP statuses, never process faults
*/

package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/everforgeworks/colony-logistics/internal/contracts"
	"github.com/everforgeworks/colony-logistics/internal/galaxy"
	"github.com/everforgeworks/colony-logistics/internal/pricing"
)

// listDisplayCap bounds how many contracts a single listing response carries.
// The true total is always reported alongside.
const listDisplayCap = 10

// defaultSuggestLimit is used when a suggestion request names no limit.
const defaultSuggestLimit = 5

// Server ties the catalog, calculator, store and hub together behind HTTP.
type Server struct {
	mu      sync.RWMutex // guards catalog swaps during hot reload
	catalog *galaxy.Catalog

	calc  *pricing.Calculator
	store *contracts.Store
	hub   *Hub
}

// NewServer builds a Server around already-constructed core components.
func NewServer(catalog *galaxy.Catalog, calc *pricing.Calculator, store *contracts.Store, hub *Hub) *Server {
	return &Server{
		catalog: catalog,
		calc:    calc,
		store:   store,
		hub:     hub,
	}
}

// SetCatalog swaps in freshly loaded reference data (hot reload).
// The calculator is swapped along with it so both see the same universe.
func (s *Server) SetCatalog(catalog *galaxy.Catalog) {
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	s.calc.SetCatalog(catalog)
}

func (s *Server) currentCatalog() *galaxy.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type QuoteRequest struct {
	UserID      string   `json:"user_id"`
	Commodities []string `json:"commodities"`
	Quantities  []int    `json:"quantities"`
	Destination string   `json:"destination"`
	PrimaryPort bool     `json:"primary_port"`
	DaysLeft    *int     `json:"days_left"`
}

type AcceptRequest struct {
	UserID     string `json:"user_id"`
	ContractID string `json:"contract_id"`
}

type StatusRequest struct {
	ContractID string `json:"contract_id"`
	Status     string `json:"status"`
}

type ThreadRequest struct {
	ContractID string `json:"contract_id"`
	ThreadID   int64  `json:"thread_id"`
}

// Response DTOs

type QuoteResponse struct {
	ContractID string        `json:"contract_id"`
	Quote      pricing.Quote `json:"quote"`
}

type AcceptResponse struct {
	ContractID             string `json:"contract_id"`
	Status                 string `json:"status"`
	TotalCost              int    `json:"total_cost"`
	EstimatedDeliveryHours int    `json:"estimated_delivery_hours"`
}

type ListResponse struct {
	Total     int                  `json:"total"`
	Contracts []contracts.Contract `json:"contracts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HandleRequestQuote prices a commodity manifest and issues a pending contract.
// POST /api/quotes
func (s *Server) HandleRequestQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id", "user_id is required")
		return
	}
	if len(req.Commodities) == 0 {
		writeError(w, http.StatusBadRequest, "commodities", "at least one commodity is required")
		return
	}
	if len(req.Commodities) != len(req.Quantities) {
		writeError(w, http.StatusBadRequest, "quantities", "number of commodities must match number of quantities")
		return
	}
	for i, qty := range req.Quantities {
		if qty <= 0 {
			writeError(w, http.StatusBadRequest, "quantities",
				fmt.Sprintf("quantity for %q must be greater than 0", req.Commodities[i]))
			return
		}
	}

	catalog := s.currentCatalog()

	if !catalog.ValidDestination(req.Destination) {
		writeError(w, http.StatusBadRequest, "destination", "destination system name is required")
		return
	}

	invalid := []string{}
	for _, name := range req.Commodities {
		if !catalog.ValidCommodity(name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		writeError(w, http.StatusBadRequest, "commodities",
			fmt.Sprintf("unknown commodities: %s", strings.Join(invalid, ", ")))
		return
	}

	quote := s.calc.CalculateQuote(req.Commodities, req.Quantities, req.Destination, req.PrimaryPort, req.DaysLeft)
	id := s.store.Create(req.UserID, req.Commodities, req.Quantities, req.Destination, req.PrimaryPort, req.DaysLeft, quote)
	log.Printf("Contract %s created for user %s (%d CR)", id, req.UserID, quote.TotalCost)

	s.hub.Send("quote_issued", QuoteResponse{ContractID: id, Quote: quote})
	writeJSON(w, http.StatusCreated, QuoteResponse{ContractID: id, Quote: quote})
}

// HandleAcceptContract accepts a pending contract on behalf of its owner.
// POST /api/contracts/accept
func (s *Server) HandleAcceptContract(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}

	contract, ok := s.store.Get(req.ContractID)
	if !ok {
		writeError(w, http.StatusNotFound, "contract_id",
			fmt.Sprintf("contract %s not found or expired", req.ContractID))
		return
	}

	// Ownership is enforced here; the store itself does not check it.
	if contract.UserID != req.UserID {
		writeError(w, http.StatusForbidden, "contract_id", "you can only accept your own contracts")
		return
	}
	if contract.Status != contracts.StatusPending {
		writeError(w, http.StatusConflict, "contract_id",
			fmt.Sprintf("contract %s is already %s", req.ContractID, contract.Status))
		return
	}

	if !s.store.Accept(req.ContractID) {
		// Swept or transitioned between the lookup and the accept.
		writeError(w, http.StatusConflict, "contract_id",
			fmt.Sprintf("contract %s is no longer pending", req.ContractID))
		return
	}
	log.Printf("Contract %s accepted by user %s", req.ContractID, req.UserID)

	resp := AcceptResponse{
		ContractID:             req.ContractID,
		Status:                 string(contracts.StatusAccepted),
		TotalCost:              contract.Quote.TotalCost,
		EstimatedDeliveryHours: contract.Quote.EstimatedDeliveryHours,
	}
	s.hub.Send("contract_accepted", resp)
	writeJSON(w, http.StatusOK, resp)
}

// HandleListContracts lists a user's contracts, newest first.
// GET /api/contracts?user_id=
func (s *Server) HandleListContracts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id", "user_id is required")
		return
	}

	list := s.store.ListForUser(userID)
	resp := ListResponse{Total: len(list), Contracts: list}
	if len(resp.Contracts) > listDisplayCap {
		resp.Contracts = resp.Contracts[:listDisplayCap]
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetContract returns one contract by id.
// GET /api/contracts/get?id=
func (s *Server) HandleGetContract(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id", "id is required")
		return
	}

	contract, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "id", fmt.Sprintf("contract %s not found or expired", id))
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// HandleUpdateStatus is the administrative lifecycle hook.
// It sets any valid status without transition checks, for out-of-band
// operational workflows (delivery confirmation, cancellation).
// POST /api/contracts/status
func (s *Server) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}

	status := contracts.Status(req.Status)
	if !contracts.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "status", fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	if !s.store.UpdateStatus(req.ContractID, status) {
		writeError(w, http.StatusNotFound, "contract_id",
			fmt.Sprintf("contract %s not found", req.ContractID))
		return
	}
	log.Printf("Contract %s status updated to %s", req.ContractID, status)

	s.hub.Send("contract_status", map[string]string{
		"contract_id": req.ContractID,
		"status":      string(status),
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"contract_id": req.ContractID,
		"status":      string(status),
	})
}

// HandleSetThread attaches a chat thread id to a contract.
// POST /api/contracts/thread
func (s *Server) HandleSetThread(w http.ResponseWriter, r *http.Request) {
	var req ThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}

	if !s.store.SetThread(req.ContractID, req.ThreadID) {
		writeError(w, http.StatusNotFound, "contract_id",
			fmt.Sprintf("contract %s not found", req.ContractID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contract_id": req.ContractID,
		"thread_id":   req.ThreadID,
	})
}

// HandleGetCommodities returns the commodity catalog, optionally filtered.
// GET /api/commodities?category=
func (s *Server) HandleGetCommodities(w http.ResponseWriter, r *http.Request) {
	catalog := s.currentCatalog()

	if category := r.URL.Query().Get("category"); category != "" {
		writeJSON(w, http.StatusOK, catalog.CommoditiesByCategory(category))
		return
	}
	writeJSON(w, http.StatusOK, catalog.Commodities())
}

// HandleCommoditySuggestions serves commodity autocomplete.
// GET /api/commodities/suggest?q=&limit=
func (s *Server) HandleCommoditySuggestions(w http.ResponseWriter, r *http.Request) {
	q, limit := suggestionQuery(r)
	writeJSON(w, http.StatusOK, s.currentCatalog().CommoditySuggestions(q, limit))
}

// HandleSystemSuggestions serves system-name autocomplete.
// GET /api/systems/suggest?q=&limit=
func (s *Server) HandleSystemSuggestions(w http.ResponseWriter, r *http.Request) {
	q, limit := suggestionQuery(r)
	writeJSON(w, http.StatusOK, s.currentCatalog().SystemSuggestions(q, limit))
}

// HandleGetStats reports contract counts by status.
// GET /api/stats
func (s *Server) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// PulseStats broadcasts the current contract statistics to all listeners.
// Called by the heartbeat ticker in main.
func (s *Server) PulseStats() {
	s.hub.Send("contract_pulse", s.store.Stats())
}

func suggestionQuery(r *http.Request) (string, int) {
	q := r.URL.Query().Get("q")
	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return q, limit
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, field, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Field: field})
}
