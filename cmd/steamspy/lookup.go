package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-shiori/steamspy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// lookupFunc runs one query against an open client.
type lookupFunc func(ctx context.Context, client *steamspy.Client) ([]steamspy.App, error)

func addSaveFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringP("save", "s", "", "also save the result as JSON into this directory")
	return cmd
}

func appCmd() *cobra.Command {
	return addSaveFlag(&cobra.Command{
		Use:   "app [appid]",
		Short: "Show details of a single app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("appid %q is not a number", args[0])
			}

			return runLookup(cmd, lookupFileName("app", args[0]), func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) {
				app, err := c.AppDetails(ctx, appID)
				if err != nil {
					return nil, err
				}
				return []steamspy.App{app}, nil
			})
		},
	})
}

func genreCmd() *cobra.Command {
	return addSaveFlag(&cobra.Command{
		Use:   "genre [genre]",
		Short: "List apps in a genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, lookupFileName("genre", args[0]), func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) {
				return c.Genre(ctx, args[0])
			})
		},
	})
}

func tagCmd() *cobra.Command {
	return addSaveFlag(&cobra.Command{
		Use:   "tag [tag]",
		Short: "List apps with a user tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, lookupFileName("tag", args[0]), func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) {
				return c.Tag(ctx, args[0])
			})
		},
	})
}

func top100Cmd() *cobra.Command {
	return addSaveFlag(&cobra.Command{
		Use:       "top100 [2weeks|forever|owned]",
		Short:     "List the top 100 apps by recent players, all time players or owners",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"2weeks", "forever", "owned"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var fn lookupFunc
			switch args[0] {
			case "2weeks":
				fn = func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) { return c.Top100In2Weeks(ctx) }
			case "forever":
				fn = func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) { return c.Top100Forever(ctx) }
			case "owned":
				fn = func(ctx context.Context, c *steamspy.Client) ([]steamspy.App, error) { return c.Top100Owned(ctx) }
			default:
				return fmt.Errorf("unknown ranking %q, use 2weeks, forever or owned", args[0])
			}

			return runLookup(cmd, lookupFileName("top100", args[0]), fn)
		},
	})
}

func runLookup(cmd *cobra.Command, fileName string, fn lookupFunc) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := openClient(cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	apps, err := fn(cmd.Context(), client)
	if err != nil {
		return err
	}

	printApps(os.Stdout, apps)

	saveDir, _ := cmd.Flags().GetString("save")
	if saveDir == "" {
		return nil
	}

	path, err := steamspy.WritePage(saveDir, fileName, apps, steamspy.FormatJSON)
	if err != nil {
		return err
	}

	logrus.Printf("saved %d app(s) to %s\n", len(apps), path)
	return nil
}
