package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSessionStorageEngine error if a sql session storage differs from the db engine.
	ErrSessionStorageEngine = errors.New("toml config session.storage must match db.gormengine")

	// ErrRedisHostEmpty error if the redis session storage has no host.
	ErrRedisHostEmpty = errors.New("toml config session.redis.host can not be empty")
)
