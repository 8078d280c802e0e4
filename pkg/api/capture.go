package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/DullnessOutfield/ayars/pkg/api/resource"
	"github.com/DullnessOutfield/ayars/pkg/discovery"
	"github.com/DullnessOutfield/ayars/pkg/kismet"
	"github.com/DullnessOutfield/ayars/pkg/metadata"
	"github.com/DullnessOutfield/ayars/pkg/metrics"
	"github.com/DullnessOutfield/ayars/pkg/model"
	"github.com/DullnessOutfield/ayars/pkg/scan"
	"github.com/DullnessOutfield/ayars/pkg/storage"
	"github.com/labstack/echo"
	"github.com/pkg/errors"
)

var errBadCapture = errors.New("file must name a capture below the base path")

func (h *Handler) handleFetchCaptures(c echo.Context) error {
	out := &resource.CaptureListResource{
		Root:    h.root,
		Members: make([]*resource.CaptureResource, 0),
	}

	err := discovery.Walk(h.root, h.ext, func(path string) error {
		r := &resource.CaptureResource{Path: h.relative(path)}
		if fi, err := os.Stat(path); err == nil {
			r.Size = fi.Size()
		}
		out.Members = append(out.Members, r)
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, resource.NewError(err))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *Handler) handleFetchDevices(c echo.Context) error {
	path, err := h.resolveCapture(c.QueryParam("file"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError(err))
	}

	types := c.QueryParams()["type"]
	withMetadata := c.QueryParam("metadata") == "true"

	devices, err := h.load(c, path, types)
	if err != nil {
		return c.JSON(statusFor(err), resource.NewError(err))
	}

	return c.JSON(http.StatusOK, resource.NewDeviceList(h.relative(path), devices, withMetadata))
}

func (h *Handler) handleFetchProbes(c echo.Context) error {
	path, err := h.resolveCapture(c.QueryParam("file"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, resource.NewError(err))
	}

	devices, err := h.load(c, path, kismet.StationTypes)
	if err != nil {
		return c.JSON(statusFor(err), resource.NewError(err))
	}

	ssids := make([]string, 0)
	for _, d := range devices {
		ssids = append(ssids, metadata.ProbedSSIDs(d.Metadata())...)
	}
	metrics.AddProbes(len(ssids))

	return c.JSON(http.StatusOK, &resource.ProbeListResource{
		File:    h.relative(path),
		Members: ssids,
	})
}

func (h *Handler) load(c echo.Context, path string, types []string) ([]model.Device, error) {
	s := scan.New(h.opener, scan.WithTypes(types...))
	r := s.Scan(c.Request().Context(), path)
	return r.Devices, r.Err
}

// resolveCapture maps a file parameter relative to the base path onto a
// path, refusing anything that leaves the base path.
func (h *Handler) resolveCapture(file string) (string, error) {
	if file == "" {
		return "", errors.Wrap(errBadCapture, "missing file parameter")
	}

	path := filepath.Join(h.root, filepath.FromSlash(file))
	rel, err := filepath.Rel(h.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(errBadCapture, "invalid file %q", file)
	}
	return path, nil
}

func (h *Handler) relative(path string) string {
	rel, err := filepath.Rel(h.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case storage.ErrNotFound:
		return http.StatusNotFound
	case storage.ErrNoDevices:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
