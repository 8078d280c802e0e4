// Package kismetdbtest writes small Kismet capture files for tests.
package kismetdbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
)

// Schema is the part of the Kismet log database the readers rely on.
var Schema = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_kismet_devices",
			Up: []string{
				`CREATE TABLE KISMET (kismet_version TEXT, db_version INT, db_module TEXT)`,
				`INSERT INTO KISMET (kismet_version, db_version, db_module) VALUES ('2023.07.R1', 8, 'kismetlog')`,
				`CREATE TABLE devices (
					first_time INT,
					last_time INT,
					devkey TEXT,
					phyname TEXT,
					devmac TEXT,
					strongest_signal INT,
					min_lat REAL,
					min_lon REAL,
					max_lat REAL,
					max_lon REAL,
					avg_lat REAL,
					avg_lon REAL,
					bytes_data INT,
					type TEXT,
					device BLOB,
					UNIQUE(phyname, devmac) ON CONFLICT REPLACE)`,
			},
			Down: []string{
				`DROP TABLE devices`,
				`DROP TABLE KISMET`,
			},
		},
	},
}

// Device is one row to insert. Times and Device are untyped so tests can
// store values Kismet itself would never write.
type Device struct {
	FirstTime interface{} `db:"first_time"`
	LastTime  interface{} `db:"last_time"`
	DevKey    string      `db:"devkey"`
	PhyName   string      `db:"phyname"`
	MAC       interface{} `db:"devmac"`
	Signal    int         `db:"strongest_signal"`
	Type      interface{} `db:"type"`
	Device    interface{} `db:"device"`
}

const insertDevice = `INSERT INTO devices
	(first_time, last_time, devkey, phyname, devmac, strongest_signal, type, device)
	VALUES (:first_time, :last_time, :devkey, :phyname, :devmac, :strongest_signal, :type, :device)`

// WriteCapture creates a capture file at path holding devices.
func WriteCapture(t testing.TB, path string, devices ...Device) {
	t.Helper()

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = migrate.Exec(db.DB, "sqlite3", Schema, migrate.Up)
	require.NoError(t, err)

	for _, d := range devices {
		if d.PhyName == "" {
			d.PhyName = "IEEE802.11"
		}
		_, err := db.NamedExec(insertDevice, d)
		require.NoError(t, err)
	}
}

// WriteEmptyDatabase creates a SQLite file without the Kismet tables.
func WriteEmptyDatabase(t testing.TB, path string) {
	t.Helper()

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE packets (ts_sec INT)`)
	require.NoError(t, err)
}
