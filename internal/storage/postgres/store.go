package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	seq BIGINT PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	pin_hash TEXT NOT NULL,
	role TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	seq BIGINT PRIMARY KEY,
	account_number TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
	balance NUMERIC NOT NULL CHECK (balance >= 0)
);
CREATE TABLE IF NOT EXISTS transactions (
	seq BIGINT PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	account_number TEXT NOT NULL REFERENCES accounts(account_number),
	type TEXT NOT NULL,
	amount NUMERIC NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL,
	description TEXT NOT NULL
);`

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// PostgresSnapshotStore keeps the whole data set in three tables. The seq
// column preserves insertion order across a save and load.
type PostgresSnapshotStore struct {
	db *sql.DB
}

func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{
		db: db,
	}
}

// Migrate creates the tables if they do not exist.
func (p *PostgresSnapshotStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (p *PostgresSnapshotStore) saveUser(ctx context.Context, dbTx *sql.Tx, seq int, u models.User) error {
	const query = `INSERT INTO users (seq, id, name, email, password_hash, pin_hash, role)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := dbTx.ExecContext(ctx, query, seq, u.ID, u.Name, u.Email, u.PasswordHash, u.PinHash, string(u.Role))
	return err
}

func (p *PostgresSnapshotStore) saveAccount(ctx context.Context, dbTx *sql.Tx, seq int, a models.Account) error {
	const query = `INSERT INTO accounts (seq, account_number, user_id, balance)
	VALUES ($1,$2,$3,$4)`

	_, err := dbTx.ExecContext(ctx, query, seq, a.Number, a.UserID, a.Balance)
	return err
}

func (p *PostgresSnapshotStore) saveTransaction(ctx context.Context, dbTx *sql.Tx, seq int, t models.Transaction) error {
	const query = `INSERT INTO transactions (seq, id, account_number, type, amount, created_at, description)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := dbTx.ExecContext(ctx, query, seq, t.ID, t.AccountNumber, string(t.Type), t.Amount, t.Timestamp, t.Description)
	return err
}

// SaveSnapshot replaces the stored data set with snap in one database
// transaction.
func (p *PostgresSnapshotStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, table := range []string{"transactions", "accounts", "users"} {
		if _, err = dbTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, u := range snap.Users {
		if err = p.saveUser(ctx, dbTx, i, u); err != nil {
			return fmt.Errorf("save user %s: %w", u.ID, err)
		}
	}
	for i, a := range snap.Accounts {
		if err = p.saveAccount(ctx, dbTx, i, a); err != nil {
			return fmt.Errorf("save account %s: %w", a.Number, err)
		}
	}
	for i, t := range snap.Transactions {
		if err = p.saveTransaction(ctx, dbTx, i, t); err != nil {
			return fmt.Errorf("save transaction %s: %w", t.ID, err)
		}
	}

	err = dbTx.Commit()
	return err
}

// LoadSnapshot returns nil when the users table is empty.
func (p *PostgresSnapshotStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	users, err := p.getUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	accounts, err := p.getAccounts(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := p.getTransactions(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{Users: users, Accounts: accounts, Transactions: txs}, nil
}

func (p *PostgresSnapshotStore) getUsers(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, name, email, password_hash, pin_hash, role FROM users ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PinHash, &role); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (p *PostgresSnapshotStore) getAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT account_number, user_id, balance FROM accounts ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Number, &a.UserID, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *PostgresSnapshotStore) getTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `SELECT id, account_number, type, amount, created_at, description
	FROM transactions ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var kind string
		if err := rows.Scan(&t.ID, &t.AccountNumber, &kind, &t.Amount, &t.Timestamp, &t.Description); err != nil {
			return nil, err
		}
		t.Type = models.TransactionType(kind)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

var _ interfaces.SnapshotStore = (*PostgresSnapshotStore)(nil)
