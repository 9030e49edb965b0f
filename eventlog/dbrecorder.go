package eventlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/minoslab/minos/hooking"
)

// DBRecorder is a hook that persists timeline records into a SQLite
// database. Records are buffered and written in batches.
type DBRecorder struct {
	*sql.DB

	dbName    string
	batchSize int
	pending   []Record
}

// NewDBRecorder creates a DBRecorder that writes into a database at the
// given path. An empty path generates a unique name.
func NewDBRecorder(path string) *DBRecorder {
	r := &DBRecorder{
		dbName:    path,
		batchSize: 1024,
	}

	r.Init()

	atexit.Register(func() { r.Flush() })

	return r
}

// Init establishes a connection to the database and prepares the
// timeline table.
func (r *DBRecorder) Init() {
	if r.dbName == "" {
		r.dbName = "minos_timeline_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db

	r.createTable()
}

func (r *DBRecorder) createTable() {
	_, err := r.Exec(`CREATE TABLE timeline (
		step INTEGER,
		time TEXT,
		category TEXT,
		pid INTEGER,
		message TEXT,
		metadata TEXT
	)`)
	if err != nil {
		panic(err)
	}
}

// Func buffers the record carried by the hook context.
func (r *DBRecorder) Func(ctx hooking.HookCtx) {
	rec, ok := ctx.Item.(Record)
	if !ok {
		return
	}

	r.Record(rec)
}

// Record buffers one record, flushing when the batch is full.
func (r *DBRecorder) Record(rec Record) {
	r.pending = append(r.pending, rec)

	if len(r.pending) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes all the buffered records into the database.
func (r *DBRecorder) Flush() {
	if len(r.pending) == 0 {
		return
	}

	tx, err := r.Begin()
	if err != nil {
		panic(err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO timeline VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}

	for _, rec := range r.pending {
		metadata := ""
		if len(rec.Metadata) > 0 {
			bytes, err := json.Marshal(rec.Metadata)
			if err != nil {
				panic(err)
			}
			metadata = string(bytes)
		}

		_, err = stmt.Exec(
			rec.Step,
			rec.Time.Format("2006-01-02 15:04:05.000000"),
			rec.Category,
			rec.PID,
			rec.Message,
			metadata,
		)
		if err != nil {
			panic(err)
		}
	}

	err = tx.Commit()
	if err != nil {
		panic(err)
	}

	r.pending = nil
}
