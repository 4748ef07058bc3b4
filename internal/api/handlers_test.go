package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/colony-logistics/internal/contracts"
	"github.com/everforgeworks/colony-logistics/internal/galaxy"
	"github.com/everforgeworks/colony-logistics/internal/pricing"
)

// newTestServer wires a Server with built-in reference data, flat pricing and
// no hub. The hub is nil on purpose: Send tolerates it, so handler tests need
// no socket plumbing.
func newTestServer() *Server {
	catalog := galaxy.NewCatalog(galaxy.DefaultGalaxy())
	calc := pricing.NewCalculator(catalog, pricing.DefaultParams())
	store := contracts.NewStore()
	return NewServer(catalog, calc, store, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func validQuoteRequest() QuoteRequest {
	return QuoteRequest{
		UserID:      "cmdr-1",
		Commodities: []string{"Food Cartridges", "Medical Diagnostic Equipment"},
		Quantities:  []int{100, 50},
		Destination: "Colonia",
	}
}

func TestRequestQuoteSuccess(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleRequestQuote, validQuoteRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[QuoteResponse](t, w)
	assert.Len(t, resp.ContractID, 8)
	assert.Equal(t, 150*60000, resp.Quote.TotalCost)
	assert.Equal(t, 150, resp.Quote.TotalTonnage)

	// The issued contract is immediately retrievable and pending.
	got := get(s.HandleGetContract, "/api/contracts/get?id="+resp.ContractID)
	require.Equal(t, http.StatusOK, got.Code)
	c := decode[contracts.Contract](t, got)
	assert.Equal(t, contracts.StatusPending, c.Status)
	assert.Equal(t, "cmdr-1", c.UserID)
}

func TestRequestQuoteCaseInsensitiveCommodity(t *testing.T) {
	s := newTestServer()

	req := validQuoteRequest()
	req.Commodities = []string{"food cartridges"}
	req.Quantities = []int{10}

	w := postJSON(t, s.HandleRequestQuote, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestQuoteValidation(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		name      string
		mutate    func(*QuoteRequest)
		wantField string
	}{
		{"missing user", func(r *QuoteRequest) { r.UserID = " " }, "user_id"},
		{"no commodities", func(r *QuoteRequest) { r.Commodities = nil; r.Quantities = nil }, "commodities"},
		{"length mismatch", func(r *QuoteRequest) { r.Quantities = []int{100} }, "quantities"},
		{"zero quantity", func(r *QuoteRequest) { r.Quantities = []int{100, 0} }, "quantities"},
		{"negative quantity", func(r *QuoteRequest) { r.Quantities = []int{-5, 50} }, "quantities"},
		{"blank destination", func(r *QuoteRequest) { r.Destination = "  " }, "destination"},
		{"unknown commodity", func(r *QuoteRequest) { r.Commodities[1] = "Unobtainium" }, "commodities"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validQuoteRequest()
			tc.mutate(&req)

			w := postJSON(t, s.HandleRequestQuote, req)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, tc.wantField, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRequestQuoteNamesEveryUnknownCommodity(t *testing.T) {
	s := newTestServer()

	req := validQuoteRequest()
	req.Commodities = []string{"Unobtainium", "Handwavium"}
	req.Quantities = []int{1, 1}

	w := postJSON(t, s.HandleRequestQuote, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Contains(t, resp.Error, "Unobtainium")
	assert.Contains(t, resp.Error, "Handwavium")
}

func TestRequestQuoteInvalidJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.HandleRequestQuote(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func issueContract(t *testing.T, s *Server, user string) QuoteResponse {
	t.Helper()
	req := validQuoteRequest()
	req.UserID = user
	w := postJSON(t, s.HandleRequestQuote, req)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[QuoteResponse](t, w)
}

func TestAcceptContract(t *testing.T) {
	s := newTestServer()
	issued := issueContract(t, s, "cmdr-1")

	w := postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-1", ContractID: issued.ContractID})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[AcceptResponse](t, w)
	assert.Equal(t, issued.ContractID, resp.ContractID)
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, issued.Quote.TotalCost, resp.TotalCost)
	assert.Equal(t, issued.Quote.EstimatedDeliveryHours, resp.EstimatedDeliveryHours)

	// Accepting twice hits the already-non-pending gate.
	again := postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-1", ContractID: issued.ContractID})
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestAcceptContractFailureTaxonomy(t *testing.T) {
	s := newTestServer()
	issued := issueContract(t, s, "cmdr-1")

	unknown := postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-1", ContractID: "NOPE1234"})
	assert.Equal(t, http.StatusNotFound, unknown.Code)

	notOwner := postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-2", ContractID: issued.ContractID})
	assert.Equal(t, http.StatusForbidden, notOwner.Code)

	// The owner can still accept after a stranger tried.
	owner := postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-1", ContractID: issued.ContractID})
	assert.Equal(t, http.StatusOK, owner.Code)
}

func TestListContracts(t *testing.T) {
	s := newTestServer()

	for i := 0; i < 12; i++ {
		issueContract(t, s, "cmdr-1")
	}
	issueContract(t, s, "cmdr-2")

	w := get(s.HandleListContracts, "/api/contracts?user_id=cmdr-1")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ListResponse](t, w)
	assert.Equal(t, 12, resp.Total, "true total reported")
	assert.Len(t, resp.Contracts, 10, "display capped")
	for _, c := range resp.Contracts {
		assert.Equal(t, "cmdr-1", c.UserID)
	}

	missing := get(s.HandleListContracts, "/api/contracts")
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestGetContractNotFound(t *testing.T) {
	s := newTestServer()

	w := get(s.HandleGetContract, "/api/contracts/get?id=NOPE1234")
	assert.Equal(t, http.StatusNotFound, w.Code)

	blank := get(s.HandleGetContract, "/api/contracts/get")
	assert.Equal(t, http.StatusBadRequest, blank.Code)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestServer()
	issued := issueContract(t, s, "cmdr-1")

	w := postJSON(t, s.HandleUpdateStatus, StatusRequest{ContractID: issued.ContractID, Status: "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	got := get(s.HandleGetContract, "/api/contracts/get?id="+issued.ContractID)
	c := decode[contracts.Contract](t, got)
	assert.Equal(t, contracts.StatusDelivered, c.Status)
	assert.NotNil(t, c.CompletedAt)

	bad := postJSON(t, s.HandleUpdateStatus, StatusRequest{ContractID: issued.ContractID, Status: "teleported"})
	require.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "status", decode[ErrorResponse](t, bad).Field)

	missing := postJSON(t, s.HandleUpdateStatus, StatusRequest{ContractID: "NOPE1234", Status: "cancelled"})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestSetThread(t *testing.T) {
	s := newTestServer()
	issued := issueContract(t, s, "cmdr-1")

	w := postJSON(t, s.HandleSetThread, ThreadRequest{ContractID: issued.ContractID, ThreadID: 424242})
	require.Equal(t, http.StatusOK, w.Code)

	got := get(s.HandleGetContract, "/api/contracts/get?id="+issued.ContractID)
	c := decode[contracts.Contract](t, got)
	assert.Equal(t, int64(424242), c.ThreadID)

	missing := postJSON(t, s.HandleSetThread, ThreadRequest{ContractID: "NOPE1234", ThreadID: 1})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestGetCommodities(t *testing.T) {
	s := newTestServer()

	all := get(s.HandleGetCommodities, "/api/commodities")
	require.Equal(t, http.StatusOK, all.Code)
	assert.Len(t, decode[[]galaxy.Commodity](t, all), 19)

	metals := get(s.HandleGetCommodities, "/api/commodities?category=metals")
	require.Equal(t, http.StatusOK, metals.Code)
	assert.Len(t, decode[[]galaxy.Commodity](t, metals), 4)
}

func TestSuggestionEndpoints(t *testing.T) {
	s := newTestServer()

	systems := get(s.HandleSystemSuggestions, "/api/systems/suggest?q=wolf")
	require.Equal(t, http.StatusOK, systems.Code)
	assert.Equal(t, []string{"Wolf 359", "Wolf 397"}, decode[[]string](t, systems))

	capped := get(s.HandleCommoditySuggestions, "/api/commodities/suggest?q=c&limit=2")
	require.Equal(t, http.StatusOK, capped.Code)
	assert.Len(t, decode[[]string](t, capped), 2)
}

func TestGetStats(t *testing.T) {
	s := newTestServer()
	issued := issueContract(t, s, "cmdr-1")
	issueContract(t, s, "cmdr-2")
	postJSON(t, s.HandleAcceptContract, AcceptRequest{UserID: "cmdr-1", ContractID: issued.ContractID})

	w := get(s.HandleGetStats, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[contracts.Stats](t, w)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Pending)
}

func TestPostOnly(t *testing.T) {
	s := newTestServer()

	w := get(PostOnly(s.HandleRequestQuote), "/api/quotes")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(fmt.Errorf("wiring fault"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	RecoverMiddleware(boom).ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Contains(t, resp.Error, "try again later")
}
