package keychain

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// sqliteItemRow maps a row in the keychain table.
type sqliteItemRow struct {
	Tag       string    `db:"tag"`
	KeyClass  string    `db:"key_class"`
	KeyData   []byte    `db:"key_data"`
	CreatedAt time.Time `db:"created_at"`
}

// SQLiteStore keeps items in a private in-memory SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens an empty in-memory database with the keychain schema.
func NewSQLiteStore() (*SQLiteStore, error) {
	dsn := "file::memory:?_pragma=temp_store(2)&_pragma=journal_mode(off)&_pragma=synchronous(off)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database; pin one.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS keychain (
			tag        text NOT NULL,
			key_class  text NOT NULL,
			key_data   blob NOT NULL,
			created_at timestamp NOT NULL,
			PRIMARY KEY(tag, key_class)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating keychain table: %w", err)
	}
	return nil
}

// Add implements Store.
func (s *SQLiteStore) Add(item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	row := sqliteItemRow{
		Tag:       item.Tag,
		KeyClass:  string(item.Class),
		KeyData:   item.Data,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.db.NamedExec(`
		INSERT OR IGNORE INTO keychain (tag, key_class, key_data, created_at)
		VALUES (:tag, :key_class, :key_data, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("inserting %s item %s: %w", item.Class, item.Tag, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting %s item %s: %w", item.Class, item.Tag, err)
	}
	if n == 0 {
		return ErrDuplicateItem
	}
	return nil
}

// CopyMatching implements Store.
func (s *SQLiteStore) CopyMatching(tag string, class Class) ([]byte, error) {
	var row sqliteItemRow
	err := s.db.Get(&row, "SELECT * FROM keychain WHERE tag = ? AND key_class = ?", tag, string(class))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting %s item %s: %w", class, tag, err)
	}
	return row.KeyData, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(tag string, class Class) error {
	res, err := s.db.Exec("DELETE FROM keychain WHERE tag = ? AND key_class = ?", tag, string(class))
	if err != nil {
		return fmt.Errorf("deleting %s item %s: %w", class, tag, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s item %s: %w", class, tag, err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Len returns the number of items held.
func (s *SQLiteStore) Len() (int, error) {
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM keychain"); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// Close closes the database; its items are gone with it.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
