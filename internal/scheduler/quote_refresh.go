package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// QuoteRefreshJob keeps the market data cache warm by refetching the
// top market page plus the quotes for every held position. A warm cache
// means the portfolio screen still shows prices during short API
// outages.
type QuoteRefreshJob struct {
	gateway domain.MarketDataGateway
	repo    domain.PortfolioRepository
	perPage int
	timeout time.Duration
	log     zerolog.Logger
}

// NewQuoteRefreshJob creates a new quote refresh job
func NewQuoteRefreshJob(
	gateway domain.MarketDataGateway,
	repo domain.PortfolioRepository,
	perPage int,
	log zerolog.Logger,
) *QuoteRefreshJob {
	return &QuoteRefreshJob{
		gateway: gateway,
		repo:    repo,
		perPage: perPage,
		timeout: 30 * time.Second,
		log:     log.With().Str("job", "quote_refresh").Logger(),
	}
}

// Name returns the job name
func (j *QuoteRefreshJob) Name() string {
	return "quote_refresh"
}

// Run refreshes the top markets page and held position quotes
func (j *QuoteRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	coins, err := j.gateway.ListMarkets(ctx, 1, j.perPage)
	if err != nil {
		return err
	}
	j.log.Debug().Int("coins", len(coins)).Msg("Top markets refreshed")

	positions, err := j.repo.ListPositions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.CryptoID)
	}
	quotes, err := j.gateway.GetQuotes(ctx, ids)
	if err != nil {
		return err
	}
	j.log.Debug().Int("quotes", len(quotes)).Msg("Position quotes refreshed")

	return nil
}
