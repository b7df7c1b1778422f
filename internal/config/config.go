package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/service"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// devAuthSecret signs admin sessions outside production when AUTH_SECRET is
// unset.  Anyone can forge tokens with it.
const devAuthSecret = "dev-only-insecure-secret"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env  string // APP_ENV: "dev", "test" or "prod"
	Port string // APP_PORT

	DBDriver string // DB_DRIVER: mysql (default) or sqlite3
	DBDSN    string // DB_DSN overrides the DB_* parts below
	DBUser   string
	DBPass   string // may be empty
	DBHost   string
	DBPort   string
	DBName   string

	AuthSecret       string        // AUTH_SECRET signs admin sessions
	AuthSecretPrev   string        // AUTH_SECRET_PREV is still accepted when verifying
	AuthTokenVersion string        // AUTH_TOKEN_VERSION; bump to log every admin out
	AdminTokenTTL    time.Duration // ADMIN_TOKEN_TTL
	BcryptCost       int           // BCRYPT_COST

	// Fallback admin used when the admin_users table has no match.
	AdminUsername     string // ADMIN_USERNAME
	AdminPasswordHash string // ADMIN_PASSWORD_HASH (bcrypt)
	AdminPassword     string // ADMIN_PASSWORD, plaintext, ignored in prod

	AdminManagementSecret string // ADMIN_MANAGEMENT_SECRET for X-Admin-Secret

	DefaultRestaurantSlug string        // DEFAULT_RESTAURANT_SLUG
	MaxBookingsPerSlot    int           // MAX_BOOKINGS_PER_SLOT
	SlotLock              bool          // SLOT_LOCK serialises check+insert per slot (mysql only)
	SlotLockWait          time.Duration // SLOT_LOCK_WAIT

	AMQPURL      string // RABBITMQ_URL or AMQP_URL; empty disables the broker
	MailConsumer bool   // MAIL_CONSUMER runs the mail worker inside the server
	MailLogPath  string // MAIL_LOG_PATH, where the consumer writes delivered mail

	AutoMigrate bool // AUTO_MIGRATE applies pending migrations at startup

	// TRUSTED_PROXIES: comma separated CIDRs or IPs allowed to set
	// X-Forwarded-For.  Empty means the TCP peer address is the client.
	TrustedProxies []*net.IPNet
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// TokenKeys returns the admin session signing material.
func (c Config) TokenKeys() utils.TokenKeys {
	return utils.TokenKeys{Current: c.AuthSecret, Previous: c.AuthSecretPrev, Version: c.AuthTokenVersion}
}

// DSN returns the data source name for DBDriver.
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == database.DriverSQLite {
		return "file:reservations.db?_foreign_keys=on&_busy_timeout=5000"
	}
	return database.MySQLDSN(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// Load reads configuration values from environment variables.  Missing
// required variables are reported together in one error.
func Load() (Config, error) {
	c := Config{
		Env:                   envStr("APP_ENV", "dev"),
		Port:                  envStr("APP_PORT", "8080"),
		DBDriver:              envStr("DB_DRIVER", database.DriverMySQL),
		DBDSN:                 os.Getenv("DB_DSN"),
		DBUser:                os.Getenv("DB_USER"),
		DBPass:                os.Getenv("DB_PASS"),
		DBHost:                envStr("DB_HOST", "127.0.0.1"),
		DBPort:                envStr("DB_PORT", "3306"),
		DBName:                os.Getenv("DB_NAME"),
		AuthSecret:            os.Getenv("AUTH_SECRET"),
		AuthSecretPrev:        os.Getenv("AUTH_SECRET_PREV"),
		AuthTokenVersion:      envStr("AUTH_TOKEN_VERSION", "1"),
		AdminTokenTTL:         envDur("ADMIN_TOKEN_TTL", utils.DefaultAdminTokenTTL),
		BcryptCost:            envInt("BCRYPT_COST", 12),
		AdminUsername:         os.Getenv("ADMIN_USERNAME"),
		AdminPasswordHash:     os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		AdminManagementSecret: os.Getenv("ADMIN_MANAGEMENT_SECRET"),
		DefaultRestaurantSlug: strings.ToLower(envStr("DEFAULT_RESTAURANT_SLUG", "default")),
		MaxBookingsPerSlot:    envInt("MAX_BOOKINGS_PER_SLOT", service.DefaultCeiling),
		SlotLock:              envBool("SLOT_LOCK", false),
		SlotLockWait:          envDur("SLOT_LOCK_WAIT", 5*time.Second),
		AMQPURL:               envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		MailConsumer:          envBool("MAIL_CONSUMER", true),
		MailLogPath:           envStr("MAIL_LOG_PATH", "logs/mail.log"),
		AutoMigrate:           envBool("AUTO_MIGRATE", true),
	}

	proxies, err := parseCIDRs(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	c.TrustedProxies = proxies

	var missing []string
	if c.DBDriver != database.DriverMySQL && c.DBDriver != database.DriverSQLite {
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverMySQL, database.DriverSQLite, c.DBDriver)
	}
	if c.DBDriver == database.DriverMySQL && c.DBDSN == "" {
		for _, k := range []string{"DB_USER", "DB_NAME"} {
			if os.Getenv(k) == "" {
				missing = append(missing, k)
			}
		}
	}
	if c.AuthSecret == "" {
		if c.IsProduction() {
			missing = append(missing, "AUTH_SECRET")
		} else {
			c.AuthSecret = devAuthSecret
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.IsProduction() {
		// plaintext fallback credentials are a development convenience only
		c.AdminPassword = ""
	}
	if c.MaxBookingsPerSlot < 1 {
		return Config{}, errors.New("MAX_BOOKINGS_PER_SLOT must be at least 1")
	}
	return c, nil
}
