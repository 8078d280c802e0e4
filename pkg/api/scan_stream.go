package api

import (
	"encoding/json"
	"io"

	"github.com/DullnessOutfield/ayars/pkg/api/resource"
	"github.com/DullnessOutfield/ayars/pkg/discovery"
	"github.com/DullnessOutfield/ayars/pkg/scan"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

// scanStreamHandler scans every capture below the base path and sends one
// text frame per file, in discovery order, then closes the connection.
func (h *Handler) scanStreamHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		types := c.QueryParams()["type"]
		withMetadata := c.QueryParam("metadata") == "true"

		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			log.Error("api: failed to upgrade to websocket: ", err)
			return nil
		}
		defer conn.Close()

		paths, err := discovery.Collect(h.root, h.ext)
		if err != nil {
			log.Error("api: failed to collect captures: ", err)
			closeStream(conn, ws.StatusInternalServerError, err.Error())
			return nil
		}

		s := scan.New(h.opener,
			scan.WithTypes(types...),
			scan.WithWorkers(h.workers),
		)

		sum, err := s.Run(c.Request().Context(), paths, func(res scan.Result) error {
			frame := &resource.ScanResultResource{
				RunID: s.RunID(),
				File:  h.relative(res.Path),
			}
			if res.Err != nil {
				frame.Error = res.Err.Error()
			} else {
				frame.Devices = resource.NewDeviceList(frame.File, res.Devices, withMetadata).Members
			}

			out, err := json.Marshal(frame)
			if err != nil {
				return err
			}
			return wsutil.WriteServerMessage(conn, ws.OpText, out)
		})
		if err != nil {
			log.Error("api: failed to send scan result: ", err)
			return nil
		}

		log.WithFields(log.Fields{
			"run":     sum.RunID,
			"files":   sum.Files,
			"failed":  sum.Failed,
			"devices": sum.Devices,
		}).Info("Scan stream finished")

		closeStream(conn, ws.StatusNormalClosure, "")
		return nil
	}
}

func closeStream(conn io.Writer, code ws.StatusCode, reason string) {
	body := ws.NewCloseFrameBody(code, reason)
	if err := wsutil.WriteServerMessage(conn, ws.OpClose, body); err != nil {
		log.Debug("api: failed to close websocket: ", err)
	}
}
