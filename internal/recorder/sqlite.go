package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CoinVault/internal/backtest"
	"CoinVault/internal/model"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis tools can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			action          TEXT NOT NULL,
			price           REAL,
			reserve_delta   REAL,
			volatile_delta  REAL,
			reserve_after   REAL,
			volatile_after  REAL,
			order_id        TEXT,
			simulated       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,

		`CREATE TABLE IF NOT EXISTS valuations (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			price           REAL,
			reserve_balance REAL,
			volatile_balance REAL,
			portfolio_value REAL,
			daily_return    REAL,
			total_return    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_valuations_ts ON valuations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			strategy       TEXT NOT NULL,
			label          TEXT,
			seed           INTEGER,
			steps          INTEGER,
			buys           INTEGER,
			sells          INTEGER,
			resets         INTEGER,
			holds          INTEGER,
			initial_value  REAL,
			final_value    REAL,
			total_return   REAL,
			max_drawdown   REAL,
			final_reserve  REAL,
			final_volatile REAL
		)`,

		`CREATE TABLE IF NOT EXISTS backtest_steps (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			step            INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			price           REAL,
			sentiment       INTEGER,
			sentiment_missing INTEGER,
			action          TEXT,
			amount          REAL,
			buy_price       REAL,
			sell_price      REAL,
			reinvested      REAL,
			reserve_after   REAL,
			volatile_after  REAL,
			portfolio_value REAL,
			total_return    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_steps_run ON backtest_steps(run_id)`,
	}

	for i, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec migration %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(trade *model.TradeRecord, exec *model.ExecutionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orderID string
	var simulated bool
	if exec != nil {
		orderID = exec.OrderID
		simulated = exec.Simulated
	}
	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, action, price, reserve_delta, volatile_delta, reserve_after, volatile_after, order_id, simulated)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		trade.Timestamp.Unix(), string(trade.Action), trade.Price,
		trade.ReserveDelta, trade.VolatileDelta,
		trade.ReserveAfter, trade.VolatileAfter,
		orderID, simulated,
	)
	return err
}

func (r *SQLiteRecorder) RecordValuation(val *model.ValuationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO valuations
		(timestamp, price, reserve_balance, volatile_balance, portfolio_value, daily_return, total_return)
		VALUES (?,?,?,?,?,?,?)`,
		val.Timestamp.Unix(), val.Price,
		val.ReserveBalance, val.VolatileBalance,
		val.PortfolioValue, val.DailyReturnPct, val.TotalReturnPct,
	)
	return err
}

func (r *SQLiteRecorder) RecordFearGreedRun(run *FearGreedRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID, err := r.insertRun("fear_greed", run.Label, run.Seed, run.Summary)
	if err != nil {
		return err
	}
	for i, step := range run.Steps {
		_, err := r.db.Exec(`INSERT INTO backtest_steps
			(run_id, step, timestamp, price, sentiment, sentiment_missing, action, amount,
			 reserve_after, volatile_after, portfolio_value, total_return)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, i, step.Time.Unix(), step.Price, step.Index, step.IndexMissing,
			string(step.Action), step.Amount,
			step.ReserveAfter, step.VolatileAfter, step.PortfolioValue, step.TotalReturnPct,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDualRun(run *DualRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID, err := r.insertRun("dual_order", run.Label, run.Seed, run.Summary)
	if err != nil {
		return err
	}
	for i, step := range run.Steps {
		_, err := r.db.Exec(`INSERT INTO backtest_steps
			(run_id, step, timestamp, price, action, buy_price, sell_price, reinvested,
			 reserve_after, volatile_after, portfolio_value)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, i, step.Time.Unix(), step.Price,
			string(step.Action), step.BuyPrice, step.SellPrice, step.Reinvested,
			step.ReserveBalance, step.VolatileBalance, step.PortfolioValue,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) insertRun(strategy, label string, seed int64, s backtest.Summary) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO backtest_runs
		(timestamp, strategy, label, seed, steps, buys, sells, resets, holds,
		 initial_value, final_value, total_return, max_drawdown, final_reserve, final_volatile)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), strategy, label, seed,
		s.Steps, s.Buys, s.Sells, s.Resets, s.Holds,
		s.InitialValue, s.FinalValue, s.TotalReturnPct, s.MaxDrawdownPct,
		s.FinalReserve, s.FinalVolatile,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
