package seed

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/alpha-prosoft/eventseed/audit"
	"github.com/alpha-prosoft/eventseed/aws/s3"
	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
	"github.com/alpha-prosoft/eventseed/command"
	"github.com/alpha-prosoft/eventseed/config"
	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/fs/billy"
	schema "github.com/alpha-prosoft/eventseed/schemas"
	"github.com/alpha-prosoft/eventseed/services/aws/secrets"
	"github.com/alpha-prosoft/eventseed/store"
	"github.com/alpha-prosoft/eventseed/waiter"
)

// SecretReader resolves a field of a stored secret.
type SecretReader interface {
	GetSecretField(ctx context.Context, secretName, field string) (string, error)
}

// FromConfig builds a pipeline for cfg on the local filesystem. cfg must
// already be validated.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	templatePath, err := filepath.Abs(cfg.Template.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, "resolve template path")
	}
	auditDir, err := filepath.Abs(cfg.Template.AuditDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, "resolve audit directory")
	}

	fsys := billy.NewOSFS("/")

	objects, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var submitter command.Submitter
	if !cfg.DryRun {
		var reader SecretReader
		if cfg.Command.AuthToken == "" && cfg.Command.AuthSecret != "" {
			reader, err = secrets.NewClient(ctx, secrets.WithLogger(logger))
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeUnauthorized, "create secrets client")
			}
		}
		token, err := ResolveToken(ctx, cfg.Command, reader)
		if err != nil {
			return nil, err
		}
		submitter = command.NewClient(cfg.Command.APIURL,
			command.WithToken(token),
			command.WithService(cfg.Command.Service),
			command.WithHTTPClient(&http.Client{Timeout: cfg.Command.Timeout}),
			command.WithLogger(logger),
		)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	w := waiter.New(objects,
		waiter.WithMaxWait(cfg.Wait.MaxWait),
		waiter.WithPollInterval(cfg.Wait.PollInterval),
		waiter.WithStrict(cfg.Wait.Strict),
		waiter.WithLogger(logger),
	)

	settings := Settings{
		TemplatePath: templatePath,
		Event: command.EventSpec{
			ApplicationID: domain.Identifier(cfg.Event.ApplicationID),
			Date:          cfg.Event.Date,
			Type:          domain.EventTypeTournament,
		},
		StoreService: cfg.Store.Service,
		Stage:        cfg.Store.Stage,
		WebURL:       cfg.WebURL,
		DryRun:       cfg.DryRun,
	}

	opts = append([]Option{WithLogger(logger), WithValidator(validator)}, opts...)
	return New(settings, submitter, fsys, audit.NewWriter(fsys, auditDir), objects, w, opts...), nil
}

// NewStore returns the object store selected by cfg. Dry runs always use an
// in-memory store.
func NewStore(ctx context.Context, cfg *config.Config) (store.ObjectStore, error) {
	backend := cfg.Store.Backend
	if cfg.DryRun {
		backend = config.BackendMemory
	}

	switch backend {
	case config.BackendS3:
		client, err := s3.New(s3Options(cfg)...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStoreAccess, "create s3 client")
		}
		return store.NewS3(client, cfg.Store.Bucket), nil
	case config.BackendMinIO:
		m, err := store.NewMinIO(minioOptions(cfg), cfg.Store.Bucket)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.BackendMemory:
		return store.NewMemory(), nil
	default:
		return nil, errors.New(errors.CodeInvalidConfig, "unknown store backend").
			WithContext("backend", backend)
	}
}

// storeAttempts is the number of attempts per store request. The wait loop is
// the only retry around the store.
const storeAttempts = 1

func s3Options(cfg *config.Config) []s3types.Option {
	opts := []s3types.Option{
		s3.WithRegion(cfg.Store.Region),
		s3.WithForcePathStyle(cfg.Store.ForcePathStyle),
		s3.WithMaxRetries(storeAttempts),
	}
	if cfg.Store.Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(cfg.Store.Endpoint))
	}
	return opts
}

func minioOptions(cfg *config.Config) store.MinIOOptions {
	return store.MinIOOptions{
		Endpoint:   cfg.Store.MinIO.Endpoint,
		AccessKey:  cfg.Store.MinIO.AccessKey,
		SecretKey:  cfg.Store.MinIO.SecretKey,
		Region:     cfg.Store.Region,
		Secure:     cfg.Store.MinIO.Secure,
		MaxRetries: storeAttempts,
	}
}

// ResolveToken returns the literal token when set, otherwise the token read
// from the configured secret. The token is never logged.
func ResolveToken(ctx context.Context, cmd config.Command, reader SecretReader) (string, error) {
	if cmd.AuthToken != "" {
		return cmd.AuthToken, nil
	}
	if cmd.AuthSecret == "" || reader == nil {
		return "", errors.New(errors.CodeUnauthorized, "no authorization token configured")
	}

	token, err := reader.GetSecretField(ctx, cmd.AuthSecret, cmd.AuthSecretField)
	if err != nil {
		return "", errors.WrapWithContext(err, errors.CodeUnauthorized, "resolve authorization token",
			map[string]interface{}{"secret": cmd.AuthSecret})
	}
	return token, nil
}
