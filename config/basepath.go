package config

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathConfigFile is read from the working directory; its first line, when it
// names an existing path, is the default capture root.
const PathConfigFile = "pathconfig.txt"

// DefaultBasePath resolves the capture root used when neither the config file
// nor the environment sets one: the first line of ./pathconfig.txt if that
// path exists, otherwise $HOME/Data.
func DefaultBasePath() string {
	if p, ok := readPathConfig(PathConfigFile); ok {
		return p
	}
	return filepath.Join(UserHomeDir(), "Data")
}

func readPathConfig(name string) (string, bool) {
	f, err := os.Open(name)
	if err != nil {
		return "", false
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	if !s.Scan() {
		return "", false
	}
	p := strings.TrimRight(s.Text(), "\r")
	if p == "" {
		return "", false
	}
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// UserHomeDir returns $HOME, or $USERPROFILE when HOME is unset.
func UserHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if runtime.GOOS == "windows" {
		if home := os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH"); home != "" {
			return home
		}
	}
	return os.Getenv("USERPROFILE")
}
