package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/market"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/portfolio"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/profile"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/trading"
)

// Handlers bundles the usecase services behind the HTTP endpoints
type Handlers struct {
	MarketService    *market.MarketService
	TradingService   *trading.TradingService
	PortfolioService *portfolio.PortfolioService
	ProfileService   *profile.ProfileService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	marketService *market.MarketService,
	tradingService *trading.TradingService,
	portfolioService *portfolio.PortfolioService,
	profileService *profile.ProfileService,
) *Handlers {
	return &Handlers{
		MarketService:    marketService,
		TradingService:   tradingService,
		PortfolioService: portfolioService,
		ProfileService:   profileService,
	}
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}

// GET /api/markets?page=1&per_page=20
func (h *Handlers) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", market.DefaultPerPage)

	coins, err := h.MarketService.GetCryptoList(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCoinListResponse(coins))
}

// GET /api/markets/search?query=bit
func (h *Handlers) handleSearchMarkets(w http.ResponseWriter, r *http.Request) {
	coins, err := h.MarketService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCoinListResponse(coins))
}

// GET /api/markets/{id}
func (h *Handlers) handleGetCoin(w http.ResponseWriter, r *http.Request) {
	coin, err := h.MarketService.GetCryptoDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCoinResponse(*coin))
}

// GET /api/account
func (h *Handlers) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	state, err := h.PortfolioService.GetAccountState(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(state))
}

// GET /api/portfolio
func (h *Handlers) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	items, err := h.PortfolioService.GetPortfolioWithPrices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]positionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toPositionResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/trades
func (h *Handlers) handleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount format")
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid price format")
		return
	}

	input := trading.TradeInput{
		CryptoID: req.CryptoID,
		Symbol:   req.Symbol,
		Name:     req.Name,
		Amount:   amount,
		Price:    price,
		Type:     domain.TransactionType(req.Type),
	}
	if err := h.TradingService.ExecuteTrade(r.Context(), input); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/transactions
func (h *Handlers) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.PortfolioService.GetTransactionHistory(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/reset
func (h *Handlers) handleResetPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.ProfileService.ResetPortfolio(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/profile
func (h *Handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userProfile, err := h.ProfileService.GetUserProfile(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(userProfile))
}

// POST /api/profile/login
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	userProfile, err := h.ProfileService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "required") {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(userProfile))
}

// POST /api/profile/logout
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.ProfileService.Logout(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/settings
func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ProfileService.GetUserSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

// PUT /api/settings
func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	saved, err := h.ProfileService.UpdateSettings(r.Context(), payload.toDomain())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(saved))
}

// POST /api/settings/reset
func (h *Handlers) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.ProfileService.ResetSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(defaults))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeServiceError converts usecase errors to HTTP status codes.
// Domain precondition failures map to 4xx; everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "insufficient_balance", err.Error())
	case errors.Is(err, domain.ErrInsufficientHoldings):
		writeError(w, http.StatusBadRequest, "insufficient_holdings", err.Error())
	case errors.Is(err, domain.ErrPositionNotFound):
		writeError(w, http.StatusNotFound, "position_not_found", err.Error())
	case errors.Is(err, domain.ErrEmptyResponse):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// isValidationError recognizes input validation failures coming out of
// the usecase layer. They are plain errors, not sentinels, so matching
// is on the message.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"cannot be empty",
		"must be positive",
		"cannot be negative",
		"must be BUY or SELL",
		"must be LIGHT, DARK or SYSTEM",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
