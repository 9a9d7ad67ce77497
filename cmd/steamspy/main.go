package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	fp "path/filepath"
	"time"

	"github.com/go-shiori/steamspy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	cmd := rootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		logrus.Fatalln(err)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "steamspy",
		Short:             "CLI tool for archiving SteamSpy app statistics",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().String("config", "", "path to JSON5 config file")
	cmd.PersistentFlags().String("base-url", steamspy.DefaultBaseURL, "SteamSpy API endpoint")
	cmd.PersistentFlags().String("renderer", "browser", "page renderer, either browser or http")
	cmd.PersistentFlags().StringP("user-agent", "u", "", "set custom user agent")
	cmd.PersistentFlags().String("chrome-path", "", "path to Chrome executable")
	cmd.PersistentFlags().IntP("timeout", "t", 60, "maximum time (in second) before a page render times out")
	cmd.PersistentFlags().Int("max-retries", 3, "retries per request for the http renderer")
	cmd.PersistentFlags().Bool("no-bypass", false, "send plain requests without the Cloudflare bypass transport")
	cmd.PersistentFlags().Bool("raw-params", false, "embed request parameters without escaping")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "disable logging")
	cmd.PersistentFlags().Bool("verbose", false, "more verbose logging")

	cmd.AddCommand(archiveCmd(), appCmd(), genreCmd(), tagCmd(), top100Cmd())
	return cmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	switch {
	case quiet:
		logrus.SetLevel(logrus.WarnLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return readConfig(path)
}

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Fetch pages of all apps and save each page to a dated folder",
		Args:  cobra.NoArgs,
		RunE:  archiveHandler,
	}

	cmd.Flags().StringP("output", "o", "steamspy-archive", "directory which receives the dated run folder")
	cmd.Flags().StringP("format", "f", string(steamspy.FormatJSON), "file format, either json or csv")
	cmd.Flags().Int("start-page", 0, "first page to fetch")
	cmd.Flags().Int("max-pages", 200, "number of pages to fetch")
	cmd.Flags().Int("cooldown", 60, "pause (in second) between two pages")
	cmd.Flags().Int("sleep-padding", 10, "extra pause (in second) added to the cooldown")

	return cmd
}

func archiveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Parse flags
	output := stringSetting(cmd, "output", cfg.Archive.Output)
	format, err := steamspy.ParseFormat(stringSetting(cmd, "format", cfg.Archive.Format))
	if err != nil {
		return err
	}
	startPage := intSetting(cmd, "start-page", cfg.Archive.StartPage)
	maxPages := intSetting(cmd, "max-pages", cfg.Archive.MaxPages)
	cooldown := intSetting(cmd, "cooldown", cfg.Archive.Cooldown)
	sleepPadding := intSetting(cmd, "sleep-padding", cfg.Archive.SleepPadding)
	quiet, _ := cmd.Flags().GetBool("quiet")

	client, err := openClient(cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	arc := steamspy.NewArchiver(client, fp.Join(output, dateFolder(time.Now())))
	arc.Format = format
	arc.StartPage = startPage
	arc.MaxPages = maxPages
	arc.Cooldown = time.Duration(cooldown) * time.Second
	arc.SleepPadding = time.Duration(sleepPadding) * time.Second
	arc.EnableLog = !quiet
	arc.Validate()

	result, err := arc.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("archive stopped after %d page(s): %w", len(result.Pages), err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Data fetching completed.")
	return nil
}
