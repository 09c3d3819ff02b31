// Package config holds the run configuration of eventseed.
//
// Values are read from EVENTSEED_* environment variables; the CLI then
// overrides individual fields from flags and calls Validate before a run.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	cfg.DryRun = true
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// Defaults target the dev01 environment of the event tournament service.
package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/alpha-prosoft/eventseed/errors"
)

// Store backends.
const (
	BackendS3     = "s3"
	BackendMinIO  = "minio"
	BackendMemory = "memory"
)

// DateLayout is the layout of Event.Date.
const DateLayout = "2006-01-02"

// Config is the complete configuration of one run.
type Config struct {
	Command  Command  `envPrefix:"EVENTSEED_"`
	Event    Event    `envPrefix:"EVENTSEED_EVENT_"`
	Store    Store    `envPrefix:"EVENTSEED_STORE_"`
	Wait     Wait     `envPrefix:"EVENTSEED_WAIT_"`
	Template Template `envPrefix:"EVENTSEED_"`

	// WebURL is the base URL of the web client used to build the event link.
	WebURL string `env:"EVENTSEED_WEB_URL" envDefault:"https://dev01-samurai.web-samurai.localdevhub.com:3003"`

	// DryRun skips command submission and publishes into memory.
	DryRun bool `env:"EVENTSEED_DRY_RUN"`
}

// Command configures the command endpoint and its credentials.
type Command struct {
	APIURL  string        `env:"API_URL"      envDefault:"https://api.dev01.alpha-prosoft.com/private/prod/event-tournament-svc/command"`
	Service string        `env:"SERVICE"      envDefault:":event-tournament-svc"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// AuthToken is the literal authorization token. It is never logged.
	AuthToken string `env:"AUTH_TOKEN"`

	// AuthSecret names a Secrets Manager secret holding the token. It is
	// consulted only when AuthToken is empty.
	AuthSecret string `env:"AUTH_SECRET"`

	// AuthSecretField selects a field when the secret is a JSON object.
	AuthSecretField string `env:"AUTH_SECRET_FIELD"`
}

// Event configures the create-event command payload.
type Event struct {
	ApplicationID string `env:"APPLICATION_ID" envDefault:"d3f9ed78-8f80-4808-bad6-388a26c09558"`
	Date          string `env:"DATE"           envDefault:"2025-06-14"`
}

// Store configures where the aggregate document is published.
type Store struct {
	Backend string `env:"BACKEND" envDefault:"s3"`
	Bucket  string `env:"BUCKET"  envDefault:"446466402394-dev01-aggregate-store"`
	Service string `env:"SERVICE" envDefault:"event-tournament-svc"`
	Stage   string `env:"STAGE"   envDefault:"prod"`

	// Region and Endpoint override the AWS SDK defaults when set.
	Region         string `env:"REGION"`
	Endpoint       string `env:"ENDPOINT"`
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`

	MinIO MinIO `envPrefix:"MINIO_"`
}

// MinIO configures the S3-compatible backend.
type MinIO struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Secure    bool   `env:"SECURE" envDefault:"true"`
}

// Wait configures the consistency wait before publishing.
type Wait struct {
	MaxWait      time.Duration `env:"MAX"    envDefault:"300s"`
	PollInterval time.Duration `env:"POLL"   envDefault:"10s"`
	Strict       bool          `env:"STRICT"`
}

// Template configures the template input and audit output.
type Template struct {
	Path     string `env:"TEMPLATE"  envDefault:"sample.json"`
	AuditDir string `env:"AUDIT_DIR" envDefault:"tmp"`
}

// Load parses the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "parse environment")
	}
	return &cfg, nil
}

// EventDate returns Event.Date parsed with DateLayout.
func (c *Config) EventDate() (time.Time, error) {
	t, err := time.Parse(DateLayout, c.Event.Date)
	if err != nil {
		return time.Time{}, errors.WrapWithContext(err, errors.CodeInvalidConfig, "parse event date",
			map[string]interface{}{"date": c.Event.Date})
	}
	return t, nil
}

// LogValue renders the configuration for logs with credentials omitted.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("api_url", c.Command.APIURL),
		slog.String("service", c.Command.Service),
		slog.Bool("token_set", c.Command.AuthToken != ""),
		slog.String("auth_secret", c.Command.AuthSecret),
		slog.String("application_id", c.Event.ApplicationID),
		slog.String("event_date", c.Event.Date),
		slog.String("backend", c.Store.Backend),
		slog.String("bucket", c.Store.Bucket),
		slog.String("store_service", c.Store.Service),
		slog.String("stage", c.Store.Stage),
		slog.Duration("max_wait", c.Wait.MaxWait),
		slog.Duration("poll_interval", c.Wait.PollInterval),
		slog.Bool("strict", c.Wait.Strict),
		slog.String("template", c.Template.Path),
		slog.String("audit_dir", c.Template.AuditDir),
		slog.Bool("dry_run", c.DryRun),
	)
}
