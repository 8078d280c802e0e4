// Package discovery finds capture files below a root directory.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultExtension is the suffix of Kismet log databases.
const DefaultExtension = "kismet"

// Walk calls fn for every non-directory entry below root whose extension is
// ext, in lexical order. Entries that cannot be read are skipped. Walking
// stops at the first error returned by fn.
func Walk(root, ext string, fn func(path string) error) error {
	fi, err := os.Stat(root)
	if err != nil {
		return errors.Wrap(err, "failed to read capture root")
	}
	if !fi.IsDir() {
		return errors.Errorf("capture root %s is not a directory", root)
	}

	suffix := "." + strings.TrimPrefix(ext, ".")

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithFields(log.Fields{
				"path":  path,
				"error": err,
			}).Debug("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != suffix {
			return nil
		}
		return fn(path)
	})
}

// Collect returns the paths Walk would visit.
func Collect(root, ext string) ([]string, error) {
	paths := make([]string, 0)
	err := Walk(root, ext, func(path string) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
