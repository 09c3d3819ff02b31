package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alpha-prosoft/eventseed/errors"
)

// Validate checks the configuration is complete and consistent. All problems
// are reported together in one CodeInvalidConfig error.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !c.DryRun {
		if err := validateURL(c.Command.APIURL); err != nil {
			add("api url: %v", err)
		}
		if c.Command.AuthToken == "" && c.Command.AuthSecret == "" {
			add("an auth token or auth secret is required")
		}
	}
	if c.Command.Service == "" {
		add("command service is required")
	}
	if c.Command.Timeout <= 0 {
		add("http timeout must be positive, got %s", c.Command.Timeout)
	}

	if c.Event.ApplicationID == "" {
		add("application id is required")
	}
	if _, err := c.EventDate(); err != nil {
		add("event date %q must use layout %s", c.Event.Date, DateLayout)
	}

	validateStore(c, add)

	if c.Wait.PollInterval <= 0 {
		add("poll interval must be positive, got %s", c.Wait.PollInterval)
	}
	if c.Wait.MaxWait < 0 {
		add("max wait must not be negative, got %s", c.Wait.MaxWait)
	}

	if c.Template.Path == "" {
		add("template path is required")
	}
	if c.Template.AuditDir == "" {
		add("audit directory is required")
	}
	if err := validateURL(c.WebURL); err != nil {
		add("web url: %v", err)
	}

	if len(problems) > 0 {
		return errors.New(
			errors.CodeInvalidConfig,
			fmt.Sprintf("configuration validation failed: %s", strings.Join(problems, "; ")),
		)
	}
	return nil
}

func validateStore(c *Config, add func(string, ...any)) {
	backend := c.Store.Backend
	if c.DryRun {
		backend = BackendMemory
	}

	switch backend {
	case BackendS3:
		if c.Store.Bucket == "" {
			add("bucket is required for the s3 backend")
		}
	case BackendMinIO:
		if c.Store.Bucket == "" {
			add("bucket is required for the minio backend")
		}
		if c.Store.MinIO.Endpoint == "" {
			add("minio endpoint is required for the minio backend")
		}
	case BackendMemory:
	default:
		add("unknown store backend %q (available: %s, %s, %s)",
			c.Store.Backend, BackendS3, BackendMinIO, BackendMemory)
	}

	if c.Store.Service == "" {
		add("store service is required")
	}
	if c.Store.Stage == "" {
		add("store stage is required")
	}
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
