package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plumeledger/plume/types"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
	address BLOB PRIMARY KEY,
	data    BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
	identity BLOB PRIMARY KEY,
	amount   INTEGER NOT NULL
);
`

// Compile-time interface check.
var _ Store = (*SQLite)(nil)

// SQLite is a durable Store backed by a single SQLite database.
// WAL mode allows concurrent reads during writes.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a slot database at the given path.
// Applies required pragmas and the schema automatically; safe to
// call on an existing database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect %s: %w", path, err)
	}

	// SQLite supports one writer at a time; a single connection
	// avoids SQLITE_BUSY during Update transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

type sqliteTxn struct {
	tx *sql.Tx
}

func (t *sqliteTxn) CreateSlot(addr types.SlotAddress, data []byte) error {
	// The transaction holds the write lock, so the existence check
	// and the insert are a single exclusive create-if-absent.
	var n int
	if err := t.tx.QueryRow(`SELECT COUNT(*) FROM slots WHERE address = ?`, addr[:]).Scan(&n); err != nil {
		return fmt.Errorf("store: check slot: %w", err)
	}
	if n > 0 {
		return ErrSlotExists
	}
	if _, err := t.tx.Exec(`INSERT INTO slots (address, data) VALUES (?, ?)`, addr[:], data); err != nil {
		return fmt.Errorf("store: create slot: %w", err)
	}
	return nil
}

func (t *sqliteTxn) Balance(id types.Identity) (uint64, error) {
	var amount uint64
	err := t.tx.QueryRow(`SELECT amount FROM balances WHERE identity = ?`, id[:]).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read balance: %w", err)
	}
	return amount, nil
}

func (t *sqliteTxn) SetBalance(id types.Identity, amount uint64) error {
	_, err := t.tx.Exec(`
		INSERT INTO balances (identity, amount) VALUES (?, ?)
		ON CONFLICT(identity) DO UPDATE SET amount = excluded.amount
	`, id[:], amount)
	if err != nil {
		return fmt.Errorf("store: set balance: %w", err)
	}
	return nil
}

func (s *SQLite) Update(ctx context.Context, fn func(Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(&sqliteTxn{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func (s *SQLite) GetSlot(ctx context.Context, addr types.SlotAddress) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE address = ?`, addr[:]).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get slot: %w", err)
	}
	return data, nil
}

func (s *SQLite) ListSlots(ctx context.Context, filter *types.MemFilter, limit int) ([]SlotRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address, data FROM slots ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotRow
	for rows.Next() {
		var addr, data []byte
		if err := rows.Scan(&addr, &data); err != nil {
			return nil, fmt.Errorf("store: scan slot: %w", err)
		}
		if filter != nil && !filter.Match(data) {
			continue
		}
		out = append(out, SlotRow{Address: types.SlotAddressFromBytes(addr), Data: data})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list slots: %w", err)
	}
	return out, nil
}

func (s *SQLite) Balance(ctx context.Context, id types.Identity) (uint64, error) {
	var amount uint64
	err := s.db.QueryRowContext(ctx, `SELECT amount FROM balances WHERE identity = ?`, id[:]).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read balance: %w", err)
	}
	return amount, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
