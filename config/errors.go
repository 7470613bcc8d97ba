package config

import "errors"

// ErrMaxEntries is returned by [Config.CheckMaxEntries] if an archive holds more entries than allowed.
var ErrMaxEntries = errors.New("too many entries in archive")
