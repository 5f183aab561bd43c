package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey is returned when a write references a row that does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	mysqlDuplicateEntry     = 1062
	mysqlNoReferencedRow    = 1452
	postgresUniqueViolated  = "23505"
	postgresForeignKeyError = "23503"
)

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Users() UserRepository
	Characters() CharacterRepository
	Planets() PlanetRepository
	Favorites() FavoriteRepository
}

// Store opens units of work. fn runs inside a database transaction that is
// committed when fn returns nil and rolled back otherwise.
type Store interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// WithTransaction executes fn within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Users() UserRepository           { return NewUserRepository(t.db) }
func (t *gormTx) Characters() CharacterRepository { return NewCharacterRepository(t.db) }
func (t *gormTx) Planets() PlanetRepository       { return NewPlanetRepository(t.db) }
func (t *gormTx) Favorites() FavoriteRepository   { return NewFavoriteRepository(t.db) }

// translateError maps driver-specific constraint violations to ErrDuplicateKey
// and ErrForeignKey.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if IsDuplicateKey(err) {
		return ErrDuplicateKey
	}
	if IsForeignKeyViolation(err) {
		return ErrForeignKey
	}
	return err
}

// IsDuplicateKey reports whether err is a unique constraint violation from any supported driver.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolated {
		return true
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key violation from any supported driver.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, ErrForeignKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlNoReferencedRow {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresForeignKeyError {
		return true
	}
	return false
}
