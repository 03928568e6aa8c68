// Package commands implements the CLI for the dsget dataset downloader.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/dsget/internal/app"
	"go.trai.ch/dsget/internal/build"
	"go.trai.ch/dsget/internal/core/domain"
)

const (
	flagRepoID        = "repo-id"
	flagRevision      = "revision"
	flagTargetDir     = "target-dir"
	flagToken         = "token"
	flagAllow         = "allow"
	flagIgnore        = "ignore"
	flagForceDownload = "force-download"
	flagNoResume      = "no-resume"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagConfig        = "config"
)

// CLI represents the command line interface for dsget.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Setup(ctx context.Context, opts app.SetupOptions) error
	Download(ctx context.Context, req domain.DownloadRequest) (domain.SnapshotPath, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "dsget --repo-id <namespace/name> [flags]",
		Short: "Download a Hugging Face dataset snapshot",
		Long: "dsget downloads a snapshot of a Hugging Face Hub dataset into " +
			"<target-dir>/<namespace>__<name> and prints the local path.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.setup,
		RunE:              c.runDownload,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.Flags()
	flags.String(flagRepoID, "", "Dataset repository id, e.g. lerobot/pusht")
	flags.String(flagRevision, "", "Branch, tag or commit to download (default: the repository's default branch)")
	flags.String(flagTargetDir, domain.DefaultTargetDir, "Base directory for downloaded snapshots")
	flags.String(flagToken, "", "Hub access token (default: $"+domain.TokenEnvVar+")")
	flags.StringArray(flagAllow, nil, "Only download files matching this pattern (repeatable)")
	flags.StringArray(flagIgnore, nil, "Skip files matching this pattern (repeatable)")
	flags.Bool(flagForceDownload, false, "Re-download files that are already present")
	flags.Bool(flagNoResume, false, "Discard partial downloads instead of resuming them")
	flags.String(flagLogLevel, domain.LogLevelInfo.String(), "Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	flags.String(flagLogFormat, string(domain.LogFormatText), "Log format: text or json")
	flags.StringP(flagConfig, "c", domain.DefaultConfigFile, "Path to an optional defaults file")

	_ = rootCmd.MarkFlagRequired(flagRepoID)

	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
