package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alpha-prosoft/eventseed/config"
	"github.com/alpha-prosoft/eventseed/seed"
)

const banner = "===================="

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a test event and publish its aggregate from a template",
		Long: `Create a test event through the command endpoint, rewrite the template
aggregate onto the new event's identifiers and publish it to the aggregate
store once the service's own snapshot has appeared.

Configuration is read from EVENTSEED_* environment variables; flags override
them.

Usage:
  eventseed seed --token "$TOKEN"                     # Seed dev01 from ./sample.json
  eventseed seed --auth-secret eventseed/dev01        # Read the token from Secrets Manager
  eventseed seed --dry-run --template fixtures/t.json # Remap and audit without side effects`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	f := cmd.Flags()
	f.String("api-url", "", "Command endpoint URL")
	f.String("token", "", "Authorization token (prefer EVENTSEED_AUTH_TOKEN)")
	f.String("auth-secret", "", "Secrets Manager secret holding the token")
	f.String("auth-secret-field", "", "JSON field of the token secret")
	f.String("date", "", "Event date (YYYY-MM-DD)")
	f.String("template", "", "Template aggregate document")
	f.String("audit-dir", "", "Directory for before/after audit copies")
	f.String("backend", "", "Aggregate store backend (s3, minio, memory)")
	f.String("bucket", "", "Aggregate store bucket")
	f.String("region", "", "AWS region")
	f.String("endpoint", "", "S3 endpoint override")
	f.String("web-url", "", "Web client base URL for the event link")
	f.Duration("max-wait", 0, "Maximum time to wait for the service snapshot")
	f.Duration("poll-interval", 0, "Interval between store checks")
	f.Bool("strict", false, "Fail instead of publishing when the snapshot never appears")
	f.Bool("dry-run", false, "Skip submission and publish into memory")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applySeedFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cmd)
	logger.DebugContext(cmd.Context(), "configuration loaded", "config", cfg)

	pipeline, err := seed.FromConfig(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	sum, err := pipeline.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), sum)
	return nil
}

// applySeedFlags copies explicitly set flags over cfg.
func applySeedFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if f.Changed(name) {
			*dst, _ = f.GetDuration(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}

	setString("api-url", &cfg.Command.APIURL)
	setString("token", &cfg.Command.AuthToken)
	setString("auth-secret", &cfg.Command.AuthSecret)
	setString("auth-secret-field", &cfg.Command.AuthSecretField)
	setString("date", &cfg.Event.Date)
	setString("template", &cfg.Template.Path)
	setString("audit-dir", &cfg.Template.AuditDir)
	setString("backend", &cfg.Store.Backend)
	setString("bucket", &cfg.Store.Bucket)
	setString("region", &cfg.Store.Region)
	setString("endpoint", &cfg.Store.Endpoint)
	setString("web-url", &cfg.WebURL)
	setDuration("max-wait", &cfg.Wait.MaxWait)
	setDuration("poll-interval", &cfg.Wait.PollInterval)
	setBool("strict", &cfg.Wait.Strict)
	setBool("dry-run", &cfg.DryRun)
}

func printSummary(w io.Writer, sum *seed.Summary) {
	fmt.Fprintln(w, color.New(color.FgCyan).Sprint(banner))
	fmt.Fprintf(w, "Event url: '%s'\n", color.New(color.FgGreen).Sprint(sum.EventURL))
	fmt.Fprintln(w, color.New(color.FgCyan).Sprint(banner))

	if sum.Wait != nil && !sum.Wait.Found {
		fmt.Fprintf(w, "%s service snapshot not seen after %s; aggregate published anyway\n",
			color.New(color.FgYellow).Sprint("!"), sum.Wait.Waited)
	}
	if !sum.Submitted {
		fmt.Fprintf(w, "%s dry run: no event was created, aggregate kept in memory\n",
			color.New(color.FgYellow).Sprint("!"))
	}
}
