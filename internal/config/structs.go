package config

import (
	"time"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/logger"
)

// Session storage backends.
const (
	SessionStorageMemory   = "memory"
	SessionStorageMySQL    = "mysql"
	SessionStoragePostgres = "postgres"
	SessionStorageRedis    = "redis"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // idle time until a session expires, defaults to 24h
	Secure     bool          // send the session cookie over https only
	// Storage backend for session data: memory, mysql, postgres or redis.
	// mysql and postgres reuse the DB settings and must match DB.GormEngine.
	Storage string `validate:"omitempty,oneof=memory mysql postgres redis"`
	Table   string // session table for the sql backends
	Redis   Redis
}

// Redis connection settings for the redis session storage.
type Redis struct {
	Host     string
	Port     int
	Username string
	Password string
	Database int
}

// Admin is the initial administrator, created with all management
// permissions if no user exists yet.
type Admin struct {
	Username string
	Password string
	Email    string `validate:"omitempty,email"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Session   Session
	Admin     Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool   // enable static file browsing (for development purposes only)
	DisableRecover      bool   // disable recover middleware
	Domain              string // domain name for the webserver
	Port                int    // listening port for the webserver
	ShutDownTime        int    // wait time for shutdown in seconds
	URL                 string // base url for the webserver
	CookieEncryptionKey string `validate:"omitempty,base64"` // encryption key for cookies, see encryptcookie.GenerateKey
}
