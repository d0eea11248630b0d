// Package sessioncache provides auth.Cache implementations: a file-backed
// slot scoped to the OS user profile, and an in-memory one for tests.
package sessioncache

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/auth"
)

type fileCache struct {
	path string
}

var _ auth.Cache = (*fileCache)(nil)

// NewFileCache returns a Cache persisting the single session slot to
// conf.SessionFile, defaulting to <user-config-dir>/<app>/session.
func NewFileCache(conf *core.Config) (auth.Cache, error) {
	path := conf.SessionFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving user config dir")
		}
		path = filepath.Join(dir, strings.ToLower(conf.AppName), "session")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	return &fileCache{path: path}, nil
}

func (c *fileCache) Get() ([]byte, error) {
	data, err := ioutil.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, auth.ErrNoSession
		}
		return nil, errors.Wrap(err, "reading session slot")
	}
	if len(data) == 0 {
		return nil, auth.ErrNoSession
	}
	return data, nil
}

func (c *fileCache) Set(data []byte) error {
	// write-then-rename so a crash cannot leave a torn slot
	tmp := c.path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "writing session slot")
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return errors.Wrap(err, "writing session slot")
	}
	return nil
}

func (c *fileCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing session slot")
	}
	return nil
}
