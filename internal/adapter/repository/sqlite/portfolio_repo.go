package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db             *DB
	initialBalance decimal.Decimal
}

// NewPortfolioRepository creates a new portfolio repository. The
// account row is created lazily with initialBalance on first access.
func NewPortfolioRepository(db *DB, initialBalance decimal.Decimal) domain.PortfolioRepository {
	return &portfolioRepository{db: db, initialBalance: initialBalance}
}

// GetBalance retrieves the current cash balance, creating the account
// with the initial balance on first access
func (r *portfolioRepository) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	var balanceStr string
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT balance FROM account_info WHERE id = 1`,
	).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.initializeAccount(ctx); err != nil {
			return decimal.Zero, err
		}
		return r.initialBalance, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}
	return balance, nil
}

// initializeAccount creates the single account row
func (r *portfolioRepository) initializeAccount(ctx context.Context) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO account_info (id, balance) VALUES (1, ?)`,
		r.initialBalance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize account: %w", err)
	}
	return nil
}

// SetBalance overwrites the cash balance
func (r *portfolioRepository) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO account_info (id, balance) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET balance = excluded.balance`,
		balance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

// GetPosition retrieves a position by asset ID
func (r *portfolioRepository) GetPosition(ctx context.Context, cryptoID string) (*domain.Position, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT crypto_id, symbol, name, amount, average_buy_price, icon_url
		 FROM positions WHERE crypto_id = ?`,
		cryptoID,
	)

	position, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPositionNotFound, cryptoID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return position, nil
}

// ListPositions retrieves all held positions
func (r *portfolioRepository) ListPositions(ctx context.Context) ([]*domain.Position, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT crypto_id, symbol, name, amount, average_buy_price, icon_url
		 FROM positions ORDER BY crypto_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]*domain.Position, 0)
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}

// UpsertPosition creates or replaces a position
func (r *portfolioRepository) UpsertPosition(ctx context.Context, position *domain.Position) error {
	return upsertPosition(ctx, r.db.conn, position)
}

// DeletePosition removes a position by asset ID
func (r *portfolioRepository) DeletePosition(ctx context.Context, cryptoID string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM positions WHERE crypto_id = ?`, cryptoID)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

// ApplyTrade applies the balance, position and transaction log changes
// for one trade in a single database transaction: either all three
// persist or none do.
func (r *portfolioRepository) ApplyTrade(ctx context.Context, app domain.TradeApplication) error {
	if app.Transaction == nil {
		return errors.New("trade application must carry a transaction record")
	}

	dbTx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO account_info (id, balance) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET balance = excluded.balance`,
		app.NewBalance.String(),
	); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if app.UpsertPosition != nil {
		if err := upsertPosition(ctx, dbTx, app.UpsertPosition); err != nil {
			return err
		}
	}
	if app.DeleteCryptoID != "" {
		if _, err := dbTx.ExecContext(ctx,
			`DELETE FROM positions WHERE crypto_id = ?`, app.DeleteCryptoID,
		); err != nil {
			return fmt.Errorf("failed to delete position: %w", err)
		}
	}

	if err := insertTransaction(ctx, dbTx, app.Transaction); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}
	return nil
}

// AppendTransaction appends a single transaction record
func (r *portfolioRepository) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	return insertTransaction(ctx, r.db.conn, tx)
}

// ListTransactions retrieves all transactions, newest first
func (r *portfolioRepository) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, crypto_id, symbol, type, amount, price_per_unit, timestamp
		 FROM transactions ORDER BY timestamp DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			tx                             domain.Transaction
			idStr, amountStr, priceStr, ty string
			timestampMs                    int64
		)
		if err := rows.Scan(&idStr, &tx.CryptoID, &tx.Symbol, &ty, &amountStr, &priceStr, &timestampMs); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction ID: %w", err)
		}
		tx.ID = id
		tx.Type = domain.TransactionType(ty)
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
		}
		if tx.PricePerUnit, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse transaction price: %w", err)
		}
		tx.Timestamp = time.UnixMilli(timestampMs)

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// Reset clears positions and transactions and reinitializes the balance
// in one atomic unit
func (r *portfolioRepository) Reset(ctx context.Context, initialBalance decimal.Decimal) error {
	dbTx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}
	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO account_info (id, balance) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET balance = excluded.balance`,
		initialBalance.String(),
	); err != nil {
		return fmt.Errorf("failed to reset balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertPosition(ctx context.Context, db execer, position *domain.Position) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO positions (crypto_id, symbol, name, amount, average_buy_price, icon_url)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (crypto_id) DO UPDATE SET
			symbol = excluded.symbol,
			name = excluded.name,
			amount = excluded.amount,
			average_buy_price = excluded.average_buy_price,
			icon_url = excluded.icon_url`,
		position.CryptoID,
		position.Symbol,
		position.Name,
		position.Amount.String(),
		position.AverageBuyPrice.String(),
		position.IconURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, db execer, tx *domain.Transaction) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO transactions (id, crypto_id, symbol, type, amount, price_per_unit, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID.String(),
		tx.CryptoID,
		tx.Symbol,
		string(tx.Type),
		tx.Amount.String(),
		tx.PricePerUnit.String(),
		tx.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (*domain.Position, error) {
	var (
		position            domain.Position
		amountStr, priceStr string
	)
	if err := row.Scan(
		&position.CryptoID,
		&position.Symbol,
		&position.Name,
		&amountStr,
		&priceStr,
		&position.IconURL,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position amount: %w", err)
	}
	position.Amount = amount

	avgPrice, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse average buy price: %w", err)
	}
	position.AverageBuyPrice = avgPrice

	return &position, nil
}
