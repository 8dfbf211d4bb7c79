// Package datarecording stores flat records produced during a simulation
// into a database.
package datarecording

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table with given filename
	CreateTable(tableName string, sampleEntry any)

	// DataInsert writes a same-type task into table that already exists
	InsertData(tableName string, entry any)

	// ListTable returns a slice containing names of all tables
	ListTables() []string

	// Flush flushes all the buffered task into database
	Flush()

	// Close writes the end of the execution, flushes, and releases the
	// database.
	Close()
}

// Backend types supported by NewWithConfig.
const (
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
)

const defaultBatchSize = 100000

// RecorderConfig selects and configures a recording backend.
type RecorderConfig struct {
	// Type is BackendSQLite (the default) or BackendClickHouse.
	Type string

	// Path is the SQLite file name without the .sqlite3 suffix. A random
	// name is used if empty.
	Path string

	// ConnStr is a ClickHouse DSN, such as
	// "clickhouse://localhost:9000/devsim?username=default". It takes
	// precedence over Host, Port, Database, Username, and Password.
	ConnStr  string
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// BatchSize is the number of buffered entries that triggers a flush.
	BatchSize int
}

// New creates a new DataRecorder that writes into a SQLite file.
func New(path string) DataRecorder {
	return NewWithConfig(RecorderConfig{Path: path})
}

// NewWithDB creates a new DataRecorder with a given SQLite database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := newSQLiteWriter(db, defaultBatchSize)
	w.start()

	return w
}

// NewWithConfig creates a new DataRecorder from the given configuration.
// It panics if the database cannot be opened, as a simulation should not
// run without the recording it asked for.
func NewWithConfig(cfg RecorderConfig) DataRecorder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	var w recorderBackend

	switch strings.ToLower(cfg.Type) {
	case "", BackendSQLite:
		db := openSQLite(cfg.Path)
		w = newSQLiteWriter(db, cfg.BatchSize)
	case BackendClickHouse:
		w = newClickHouseWriter(cfg)
	default:
		panic(fmt.Sprintf("unknown recorder type %q", cfg.Type))
	}

	w.start()

	return w
}

// recorderBackend is implemented by the writers of this package. start
// records the beginning of the execution and arranges a flush at exit.
type recorderBackend interface {
	DataRecorder
	start()
}

func registerFlushAtExit(r DataRecorder) {
	atexit.Register(func() { r.Flush() })
}
