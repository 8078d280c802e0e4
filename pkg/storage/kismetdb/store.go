package kismetdb

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"github.com/pkg/errors"
)

const driverName = "sqlite3"

// store contains the SQLite based sub-stores of one capture file
type store struct {
	db      *sqlx.DB
	devices *deviceStore
}

// Open opens the capture file at path read-only. Nothing is ever written back
// to the file.
func Open(path string) (storage.Interface, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to stat capture")
	}
	if fi.IsDir() {
		return nil, errors.Errorf("capture %s is a directory", path)
	}

	dsn, err := DSN(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve capture path")
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open capture")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to open capture")
	}

	return &store{
		db:      db,
		devices: newDeviceStore(db),
	}, nil
}

// Opener opens capture files from disk
var Opener = storage.OpenerFunc(Open)

// DSN builds a read-only SQLite URI for path. Relative paths are resolved
// against the working directory.
func DSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=ro",
	}
	return u.String(), nil
}

// Devices returns a sub-store for loading the Device model
func (s *store) Devices() storage.DeviceStore {
	return s.devices
}

func (s *store) Close() error {
	return s.db.Close()
}
