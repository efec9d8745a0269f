package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
)

// Backend drivers.
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Auth     AuthConfig
	Calendar CalendarConfig
	Cache    CacheConfig
	WhatsApp WhatsAppConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
	Digest   DigestConfig
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// BackendConfig selects and configures the record store.
type BackendConfig struct {
	Driver string
	// URL is the hosted backend root; the table API lives under /rest/v1.
	URL         string
	AnonKey     string
	ServiceKey  string
	DatabaseURL string
	Timeout     time.Duration
}

// AuthConfig verifies the bearer tokens issued by the backend auth service.
type AuthConfig struct {
	JWTSecret string
	Audience  string
}

// CalendarConfig holds the farm time zone and the display correction.
type CalendarConfig struct {
	Timezone          string
	DisplayOffsetDays int
	HorizonDays       int
}

// Settings resolves the time zone into calendar settings.
func (c CalendarConfig) Settings() (calendar.Settings, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return calendar.Settings{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return calendar.Settings{Location: loc, Corrector: calendar.Corrector{OffsetDays: c.DisplayOffsetDays}}, nil
}

// CacheConfig sizes the query cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
}

// Enabled reports whether WhatsApp messaging is configured.
func (c WhatsAppConfig) Enabled() bool { return c.AccessToken != "" }

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether spreadsheet exports are configured.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// MongoDBConfig holds settings for the snapshot history.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether snapshot history is configured.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// Recipient links a WhatsApp number to the farm owner it speaks for.
type Recipient struct {
	Phone string
	Owner uuid.UUID
}

// DigestConfig schedules the morning digest.
type DigestConfig struct {
	CronSchedule string
	Recipients   []Recipient
}

// OwnerForPhone returns the owner registered for phone.
func (c DigestConfig) OwnerForPhone(phone string) (uuid.UUID, bool) {
	phone = strings.TrimPrefix(phone, "+")
	for _, r := range c.Recipients {
		if r.Phone == phone {
			return r.Owner, true
		}
	}
	return uuid.Nil, false
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	var errs []error
	intVar := func(key string, fallback int) int {
		v, err := getenvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := getenvDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	recipients, err := parseRecipients(os.Getenv("DIGEST_RECIPIENTS"))
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", "8080"),
			ShutdownTimeout: durationVar("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Backend: BackendConfig{
			Driver:      getenvWithDefault("BACKEND_DRIVER", DriverPostgREST),
			URL:         strings.TrimSuffix(os.Getenv("BACKEND_URL"), "/"),
			AnonKey:     os.Getenv("BACKEND_ANON_KEY"),
			ServiceKey:  os.Getenv("BACKEND_SERVICE_KEY"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Timeout:     durationVar("BACKEND_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			Audience:  getenvWithDefault("AUTH_JWT_AUDIENCE", "authenticated"),
		},
		Calendar: CalendarConfig{
			Timezone:          getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
			DisplayOffsetDays: intVar("DISPLAY_DATE_OFFSET_DAYS", 0),
			HorizonDays:       intVar("ALERT_HORIZON_DAYS", 30),
		},
		Cache: CacheConfig{
			Size: intVar("CACHE_SIZE", 512),
			TTL:  durationVar("CACHE_TTL", 5*time.Minute),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdbook"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 6 * * *"),
			Recipients:   recipients,
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Backend.Driver {
	case DriverPostgREST:
		switch {
		case c.Backend.URL == "":
			return errors.New("BACKEND_URL must be provided")
		case c.Backend.AnonKey == "":
			return errors.New("BACKEND_ANON_KEY must be provided")
		}
	case DriverPostgres:
		if c.Backend.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be provided")
		}
	default:
		return fmt.Errorf("BACKEND_DRIVER must be %s or %s, got %q", DriverPostgREST, DriverPostgres, c.Backend.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must be provided")
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.Calendar.DisplayOffsetDays < 0 {
		return errors.New("DISPLAY_DATE_OFFSET_DAYS must not be negative")
	}
	if c.Calendar.HorizonDays <= 0 {
		return errors.New("ALERT_HORIZON_DAYS must be positive")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if len(c.Digest.Recipients) > 0 {
		if c.Digest.CronSchedule == "" {
			return errors.New("DIGEST_CRON_SCHEDULE must be provided")
		}
		if c.Backend.Driver == DriverPostgREST && c.Backend.ServiceKey == "" {
			return errors.New("BACKEND_SERVICE_KEY must be provided for scheduled digests")
		}
	}

	return nil
}

// parseRecipients reads "phone:owner-uuid" pairs separated by commas.
func parseRecipients(raw string) ([]Recipient, error) {
	var out []Recipient
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		phone, owner, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("DIGEST_RECIPIENTS entry %q must be phone:owner", item)
		}
		id, err := uuid.Parse(strings.TrimSpace(owner))
		if err != nil {
			return nil, fmt.Errorf("DIGEST_RECIPIENTS entry %q: %w", item, err)
		}
		out = append(out, Recipient{Phone: strings.TrimPrefix(strings.TrimSpace(phone), "+"), Owner: id})
	}
	return out, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
