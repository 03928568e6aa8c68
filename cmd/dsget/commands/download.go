package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/dsget/internal/app"
	"go.trai.ch/dsget/internal/core/domain"
)

// setup configures logging once before the download runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	// Persistent pre-run hooks run before cobra checks required flags.
	if err := cmd.ValidateRequiredFlags(); err != nil {
		return err
	}
	flags := cmd.Flags()

	configPath, err := flags.GetString(flagConfig)
	if err != nil {
		return err
	}
	level, err := flags.GetString(flagLogLevel)
	if err != nil {
		return err
	}
	format, err := flags.GetString(flagLogFormat)
	if err != nil {
		return err
	}

	return c.app.Setup(cmd.Context(), app.SetupOptions{
		ConfigPath:   configPath,
		LogLevel:     level,
		LogLevelSet:  flags.Changed(flagLogLevel),
		LogFormat:    format,
		LogFormatSet: flags.Changed(flagLogFormat),
	})
}

func (c *CLI) runDownload(cmd *cobra.Command, _ []string) error {
	req, err := downloadRequest(cmd)
	if err != nil {
		return err
	}

	path, err := c.app.Download(cmd.Context(), req)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path.String())
	return nil
}

// downloadRequest builds the request from parsed flags. The token falls back to
// the environment and an unchanged target dir is left empty so configured
// defaults apply.
func downloadRequest(cmd *cobra.Command) (domain.DownloadRequest, error) {
	flags := cmd.Flags()

	repoID, err := flags.GetString(flagRepoID)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	revision, err := flags.GetString(flagRevision)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	allow, err := flags.GetStringArray(flagAllow)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	ignore, err := flags.GetStringArray(flagIgnore)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	force, err := flags.GetBool(flagForceDownload)
	if err != nil {
		return domain.DownloadRequest{}, err
	}
	noResume, err := flags.GetBool(flagNoResume)
	if err != nil {
		return domain.DownloadRequest{}, err
	}

	token := os.Getenv(domain.TokenEnvVar)
	if flags.Changed(flagToken) {
		if token, err = flags.GetString(flagToken); err != nil {
			return domain.DownloadRequest{}, err
		}
	}

	var targetDir string
	if flags.Changed(flagTargetDir) {
		if targetDir, err = flags.GetString(flagTargetDir); err != nil {
			return domain.DownloadRequest{}, err
		}
	}

	return domain.DownloadRequest{
		RepoID:         repoID,
		Revision:       revision,
		TargetDir:      targetDir,
		AllowPatterns:  nilIfEmpty(allow),
		IgnorePatterns: nilIfEmpty(ignore),
		Token:          token,
		ForceDownload:  force,
		ResumeDownload: !noResume,
	}, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
