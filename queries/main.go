package queries

import (
	"fmt"

	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
)

// Repo holds the database connections used by the settlement core. Conn is
// the writer connection and the only one allowed to open transactions,
// ConnReader points at a read replica and serves list and lookup endpoints.
type Repo struct {
	Conn       *gorm.DB
	ConnReader *gorm.DB
}

// Txn is an opaque handle over an open database transaction. Query methods
// accept a nil Txn and fall back to the writer connection in that case.
type Txn interface {
	Commit() error
	Rollback() error
}

type gormTxn struct {
	tx *gorm.DB
}

func (t *gormTxn) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTxn) Rollback() error {
	return t.tx.Rollback().Error
}

// Begin opens a transaction on the writer connection
func (repo *Repo) Begin() (Txn, error) {
	tx := repo.Conn.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTxn{tx: tx}, nil
}

// tdb resolves a Txn to its underlying connection, defaulting to the writer
func (repo *Repo) tdb(txn Txn) *gorm.DB {
	if txn == nil {
		return repo.Conn
	}
	return txn.(*gormTxn).tx
}

func connString(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Name,
		cfg.SSLmode,
		cfg.ApplicationName,
	)
}

func open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector := postgresDriver.New(postgresDriver.Config{
		DSN:                  connString(cfg),
		PreferSimpleProtocol: true,
	})
	return gorm.Open(dialector, &gorm.Config{})
}

// NewRepo connects to the writer and reader nodes of the database cluster
func NewRepo(cfg config.DatabaseClusterConfig) (*Repo, error) {
	conn, err := open(cfg.Writer)
	if err != nil {
		return nil, err
	}
	connReader, err := open(cfg.Reader)
	if err != nil {
		return nil, err
	}
	return &Repo{
		Conn:       conn,
		ConnReader: connReader,
	}, nil
}

// Close terminates both database connections
func (repo *Repo) Close() error {
	if db, err := repo.Conn.DB(); err == nil {
		if err := db.Close(); err != nil {
			return err
		}
	}
	if db, err := repo.ConnReader.DB(); err == nil {
		return db.Close()
	}
	return nil
}
