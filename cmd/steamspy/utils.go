package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-shiori/steamspy"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kennygrant/sanitize"
	"github.com/spf13/cobra"
)

// stringSetting returns the flag value when it was set explicitly,
// otherwise the config file value, otherwise the flag default.
func stringSetting(cmd *cobra.Command, name string, fromFile string) string {
	value, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) || fromFile == "" {
		return value
	}
	return fromFile
}

func intSetting(cmd *cobra.Command, name string, fromFile int) int {
	value, _ := cmd.Flags().GetInt(name)
	if cmd.Flags().Changed(name) || fromFile == 0 {
		return value
	}
	return fromFile
}

func boolSetting(cmd *cobra.Command, name string, fromFile bool) bool {
	value, _ := cmd.Flags().GetBool(name)
	if cmd.Flags().Changed(name) {
		return value
	}
	return value || fromFile
}

// openClient starts the configured renderer session. The caller must
// close the returned client.
func openClient(cmd *cobra.Command, cfg Config) (*steamspy.Client, error) {
	rendererName := stringSetting(cmd, "renderer", cfg.Renderer)
	userAgent := stringSetting(cmd, "user-agent", cfg.UserAgent)
	timeout := time.Duration(intSetting(cmd, "timeout", cfg.Timeout)) * time.Second

	var renderer steamspy.Renderer
	switch strings.ToLower(rendererName) {
	case "browser":
		br, err := steamspy.NewBrowserRenderer(steamspy.BrowserConfig{
			UserAgent:     userAgent,
			ExecPath:      stringSetting(cmd, "chrome-path", cfg.ChromePath),
			RenderTimeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		renderer = br

	case "http":
		hr := &steamspy.HTTPRenderer{
			UserAgent:      userAgent,
			RequestTimeout: timeout,
			MaxRetries:     intSetting(cmd, "max-retries", cfg.MaxRetries),
			DisableBypass:  boolSetting(cmd, "no-bypass", cfg.NoBypass),
		}
		if err := hr.Validate(); err != nil {
			return nil, err
		}
		renderer = hr

	default:
		return nil, fmt.Errorf("unknown renderer %q, use browser or http", rendererName)
	}

	client := steamspy.NewClient(renderer)
	client.BaseURL = stringSetting(cmd, "base-url", cfg.BaseURL)
	client.RawParams = boolSetting(cmd, "raw-params", cfg.RawParams)
	return client, nil
}

// dateFolder names the directory of a run started at t, e.g. 240315.
func dateFolder(t time.Time) string {
	return t.Format("060102")
}

// lookupFileName returns a file name safe for any lookup argument.
func lookupFileName(kind, arg string) string {
	name := kind
	if arg != "" {
		name += " " + arg
	}
	return sanitize.BaseName(name) + steamspy.FormatJSON.Ext()
}

func formatOwners(o steamspy.OwnersRange) string {
	if o.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d .. %d", o.Min, o.Max)
}

func printApps(w io.Writer, apps []steamspy.App) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"AppID", "Name", "Developer", "Owners", "Positive", "Negative", "CCU", "Price"})

	for _, app := range apps {
		t.AppendRow(table.Row{
			app.AppID, app.Name, app.Developer, formatOwners(app.Owners),
			app.Positive, app.Negative, app.CCU, app.Price,
		})
	}

	t.AppendFooter(table.Row{"Total", len(apps)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
