package httpapi

import (
	"time"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// Decimal values cross the wire as strings so clients never see
// float rounding artifacts. Timestamps are epoch milliseconds.

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type coinResponse struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Price             string   `json:"price"`
	ChangePercent24h  float64  `json:"change_percent_24h"`
	Volume24h         string   `json:"volume_24h"`
	MarketCap         string   `json:"market_cap"`
	CirculatingSupply string   `json:"circulating_supply"`
	MaxSupply         string   `json:"max_supply"`
	AllTimeHigh       string   `json:"all_time_high"`
	IconURL           string   `json:"icon_url"`
	Sparkline         []string `json:"sparkline,omitempty"`
}

func toCoinResponse(coin domain.CryptoCurrency) coinResponse {
	resp := coinResponse{
		ID:                coin.ID,
		Symbol:            coin.Symbol,
		Name:              coin.Name,
		Price:             coin.Price.String(),
		ChangePercent24h:  coin.ChangePercent24h,
		Volume24h:         coin.Volume24h.String(),
		MarketCap:         coin.MarketCap.String(),
		CirculatingSupply: coin.CirculatingSupply.String(),
		MaxSupply:         coin.MaxSupply.String(),
		AllTimeHigh:       coin.AllTimeHigh.String(),
		IconURL:           coin.IconURL,
	}
	if len(coin.Sparkline) > 0 {
		resp.Sparkline = make([]string, 0, len(coin.Sparkline))
		for _, p := range coin.Sparkline {
			resp.Sparkline = append(resp.Sparkline, p.String())
		}
	}
	return resp
}

func toCoinListResponse(coins []domain.CryptoCurrency) []coinResponse {
	out := make([]coinResponse, 0, len(coins))
	for _, coin := range coins {
		out = append(out, toCoinResponse(coin))
	}
	return out
}

type positionResponse struct {
	CryptoID          string `json:"crypto_id"`
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Amount            string `json:"amount"`
	AverageBuyPrice   string `json:"average_buy_price"`
	CurrentPrice      string `json:"current_price"`
	CurrentValue      string `json:"current_value"`
	ProfitLoss        string `json:"profit_loss"`
	ProfitLossPercent string `json:"profit_loss_percent"`
	IconURL           string `json:"icon_url"`
}

func toPositionResponse(item domain.ValuedPosition) positionResponse {
	return positionResponse{
		CryptoID:          item.CryptoID,
		Symbol:            item.Symbol,
		Name:              item.Name,
		Amount:            item.Amount.String(),
		AverageBuyPrice:   item.AverageBuyPrice.String(),
		CurrentPrice:      item.CurrentPrice.String(),
		CurrentValue:      item.CurrentValue.String(),
		ProfitLoss:        item.ProfitLoss.String(),
		ProfitLossPercent: item.ProfitLossPercent.String(),
		IconURL:           item.IconURL,
	}
}

type accountResponse struct {
	Balance             string             `json:"balance"`
	TotalPortfolioValue string             `json:"total_portfolio_value"`
	PortfolioCost       string             `json:"portfolio_cost"`
	TotalProfitLoss     string             `json:"total_profit_loss"`
	ProfitLossPercent   string             `json:"profit_loss_percent"`
	TotalBalance        string             `json:"total_balance"`
	Items               []positionResponse `json:"items"`
}

func toAccountResponse(state *domain.AccountState) accountResponse {
	items := make([]positionResponse, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, toPositionResponse(item))
	}
	return accountResponse{
		Balance:             state.Balance.String(),
		TotalPortfolioValue: state.TotalPortfolioValue.String(),
		PortfolioCost:       state.PortfolioCost.String(),
		TotalProfitLoss:     state.TotalProfitLoss.String(),
		ProfitLossPercent:   state.ProfitLossPercent.String(),
		TotalBalance:        state.TotalBalance().String(),
		Items:               items,
	}
}

type tradeRequest struct {
	CryptoID string `json:"crypto_id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Price    string `json:"price"`
}

type transactionResponse struct {
	ID           string `json:"id"`
	CryptoID     string `json:"crypto_id"`
	Symbol       string `json:"symbol"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	PricePerUnit string `json:"price_per_unit"`
	TotalCost    string `json:"total_cost"`
	Timestamp    int64  `json:"timestamp"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID.String(),
		CryptoID:     tx.CryptoID,
		Symbol:       tx.Symbol,
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		PricePerUnit: tx.PricePerUnit.String(),
		TotalCost:    tx.TotalCost().String(),
		Timestamp:    tx.Timestamp.UnixMilli(),
	}
}

type profileResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	LoggedIn  bool   `json:"logged_in"`
	CreatedAt int64  `json:"created_at"`
}

func toProfileResponse(profile *domain.UserProfile) profileResponse {
	return profileResponse{
		UserID:    profile.UserID,
		Username:  profile.Username,
		Email:     profile.Email,
		LoggedIn:  profile.LoggedIn,
		CreatedAt: profile.CreatedAt.UnixMilli(),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type settingsPayload struct {
	ThemeMode            string `json:"theme_mode"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Language             string `json:"language"`
}

func toSettingsPayload(settings domain.UserSettings) settingsPayload {
	return settingsPayload{
		ThemeMode:            string(settings.ThemeMode),
		NotificationsEnabled: settings.NotificationsEnabled,
		Language:             settings.Language,
	}
}

func (p settingsPayload) toDomain() domain.UserSettings {
	return domain.UserSettings{
		ThemeMode:            domain.ThemeMode(p.ThemeMode),
		NotificationsEnabled: p.NotificationsEnabled,
		Language:             p.Language,
	}
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
