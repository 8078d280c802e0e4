package kismetdb

import (
	"context"
	"strings"

	"github.com/DullnessOutfield/ayars/pkg/kismet"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Rows are read positionally, so the query must keep the table's own column
// order. See kismet.ColumnCount.
const selectDevices = "SELECT * FROM devices"

func newDeviceStore(db *sqlx.DB) *deviceStore {
	return &deviceStore{
		db: db,
	}
}

type deviceStore struct {
	db *sqlx.DB
}

func (s *deviceStore) FetchAll(ctx context.Context) ([]model.Device, error) {
	return fetchDevices(ctx, s.db, selectDevices)
}

func (s *deviceStore) FetchByTypes(ctx context.Context, types ...string) ([]model.Device, error) {
	if len(types) == 0 {
		return s.FetchAll(ctx)
	}
	return fetchDevicesByTypes(ctx, s.db, types)
}

func fetchDevicesByTypes(ctx context.Context, db *sqlx.DB, types []string) ([]model.Device, error) {
	query, args, err := sqlx.In(selectDevices+" WHERE type IN (?)", types)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build device type filter")
	}
	return fetchDevices(ctx, db, db.Rebind(query), args...)
}

func fetchDevices(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) ([]model.Device, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		if isMissingTable(err) {
			return nil, errors.Wrap(storage.ErrNoDevices, err.Error())
		}
		return nil, errors.Wrap(err, "failed to fetch devices")
	}
	defer rows.Close()

	models := make([]model.Device, 0)
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan device row")
		}

		m, fb, err := kismet.MapRowDetailed(cols)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert SQL data to device model (layout v%d)", kismet.LayoutVersion)
		}
		if fb.Any() {
			log.WithFields(log.Fields{
				"device":     m.Identifier(),
				"first_time": fb.FirstTime,
				"last_time":  fb.LastTime,
				"metadata":   fb.Metadata,
			}).Debug("Device row fell back to default values")
		}

		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to fetch devices")
	}

	return models, nil
}

func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
