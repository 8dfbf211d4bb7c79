package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

var clickHouseTypes = map[reflect.Kind]string{
	reflect.Bool:    "Bool",
	reflect.Int:     "Int64",
	reflect.Int8:    "Int8",
	reflect.Int16:   "Int16",
	reflect.Int32:   "Int32",
	reflect.Int64:   "Int64",
	reflect.Uint:    "UInt64",
	reflect.Uint8:   "UInt8",
	reflect.Uint16:  "UInt16",
	reflect.Uint32:  "UInt32",
	reflect.Uint64:  "UInt64",
	reflect.Float32: "Float32",
	reflect.Float64: "Float64",
	reflect.String:  "String",
}

// clickHouseWriter writes data into ClickHouse. Every table uses the
// MergeTree engine ordered by its first column.
type clickHouseWriter struct {
	conn clickhouse.Conn

	mu         sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
	closed     bool

	exec *execRecorder
}

func clickHouseOptions(cfg RecorderConfig) (*clickhouse.Options, error) {
	if cfg.ConnStr != "" {
		return clickhouse.ParseDSN(cfg.ConnStr)
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 9000
	}

	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	}, nil
}

func newClickHouseWriter(cfg RecorderConfig) *clickHouseWriter {
	opts, err := clickHouseOptions(cfg)
	if err != nil {
		panic(fmt.Errorf("invalid ClickHouse configuration: %w", err))
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	return &clickHouseWriter{
		conn:      conn,
		batchSize: cfg.BatchSize,
		tables:    make(map[string]*table),
	}
}

func (r *clickHouseWriter) start() {
	r.exec = newExecRecorder(r)
	r.exec.Start()

	registerFlushAtExit(r)
}

func clickHouseCreateTableSQL(tableName string, columns []column) string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, c.name+" "+clickHouseTypes[c.kind])
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY %s",
		tableName, strings.Join(defs, ",\n\t"), columns[0].name)
}

// clickHouseValues converts the fields of an entry into the exact Go types
// that the columns of clickHouseTypes accept.
func clickHouseValues(entry any) []any {
	v := reflect.ValueOf(entry)
	values := make([]any, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		switch f.Kind() {
		case reflect.Bool:
			values = append(values, f.Bool())
		case reflect.Int, reflect.Int64:
			values = append(values, f.Int())
		case reflect.Int8:
			values = append(values, int8(f.Int()))
		case reflect.Int16:
			values = append(values, int16(f.Int()))
		case reflect.Int32:
			values = append(values, int32(f.Int()))
		case reflect.Uint, reflect.Uint64:
			values = append(values, f.Uint())
		case reflect.Uint8:
			values = append(values, uint8(f.Uint()))
		case reflect.Uint16:
			values = append(values, uint16(f.Uint()))
		case reflect.Uint32:
			values = append(values, uint32(f.Uint()))
		case reflect.Float32:
			values = append(values, float32(f.Float()))
		case reflect.Float64:
			values = append(values, f.Float())
		default:
			values = append(values, f.String())
		}
	}

	return values
}

func (r *clickHouseWriter) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tableInfo, err := newTable(sampleEntry)
	if err != nil {
		panic(err)
	}

	createSQL := clickHouseCreateTableSQL(tableName, tableInfo.columns)

	err = r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = tableInfo
}

func (r *clickHouseWriter) InsertData(tableName string, entry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, exists := r.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.mustAccept(tableName, entry)
	table.entries = append(table.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.flush()
	}
}

func (r *clickHouseWriter) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for table := range r.tables {
		tables = append(tables, table)
	}

	sort.Strings(tables)

	return tables
}

func (r *clickHouseWriter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flush()
}

func (r *clickHouseWriter) flush() {
	if r.entryCount == 0 || r.closed {
		return
	}

	ctx := context.Background()

	for tableName, table := range r.tables {
		if len(table.entries) == 0 {
			continue
		}

		batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
		if err != nil {
			panic(fmt.Errorf("failed to prepare batch for %s: %w",
				tableName, err))
		}

		for _, entry := range table.entries {
			if err := batch.Append(clickHouseValues(entry)...); err != nil {
				panic(fmt.Errorf("failed to append to %s: %w", tableName, err))
			}
		}

		if err := batch.Send(); err != nil {
			panic(fmt.Errorf("failed to send batch to %s: %w", tableName, err))
		}

		table.entries = nil
	}

	r.entryCount = 0
}

func (r *clickHouseWriter) Close() {
	if r.exec != nil {
		r.exec.End()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.flush()
	r.closed = true

	if err := r.conn.Close(); err != nil {
		panic(err)
	}
}
