package steamspy

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCooldown     = 60 * time.Second
	DefaultSleepPadding = 10 * time.Second
	DefaultMaxPages     = 10
	DefaultFilePrefix   = "steam_apps"
)

// PageFetcher returns one page of the all apps listing.
// *Client implements it.
type PageFetcher interface {
	All(ctx context.Context, page int) ([]App, error)
}

// PageResult describes one archived page.
type PageResult struct {
	Page int
	Path string
	Apps int
}

// Result lists the pages written by a run, in order.
type Result struct {
	Pages []PageResult
}

// Archiver harvests the paginated all apps listing and writes every
// page to its own file in OutputDir.
//
// Pages are fetched strictly one after another, with Cooldown plus
// SleepPadding between two fetches. The first error stops the run;
// pages already written are left untouched.
type Archiver struct {
	Fetcher    PageFetcher
	OutputDir  string
	Format     Format
	FilePrefix string

	StartPage int
	MaxPages  int

	Cooldown     time.Duration
	SleepPadding time.Duration

	EnableLog bool
	Logger    logrus.FieldLogger

	isValidated bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewArchiver returns an Archiver with the default pacing, writing JSON
// pages into dir. It still has to be validated.
func NewArchiver(fetcher PageFetcher, dir string) *Archiver {
	return &Archiver{
		Fetcher:      fetcher,
		OutputDir:    dir,
		Format:       FormatJSON,
		FilePrefix:   DefaultFilePrefix,
		MaxPages:     DefaultMaxPages,
		Cooldown:     DefaultCooldown,
		SleepPadding: DefaultSleepPadding,
		EnableLog:    true,
	}
}

// Validate prepares Archiver to make sure its configurations are valid
// and ready to use. Must be run at least once before Run.
func (arc *Archiver) Validate() {
	if arc.Format == "" {
		arc.Format = FormatJSON
	}

	if arc.FilePrefix == "" {
		arc.FilePrefix = DefaultFilePrefix
	}

	if arc.OutputDir == "" {
		arc.OutputDir = "."
	}

	if arc.Cooldown < 0 {
		arc.Cooldown = 0
	}

	if arc.SleepPadding < 0 {
		arc.SleepPadding = 0
	}

	if arc.sleep == nil {
		arc.sleep = sleepContext
	}

	arc.isValidated = true
}

// FileName returns the name of the file holding page.
func (arc *Archiver) FileName(page int) string {
	return fmt.Sprintf("%s_page_%d%s", arc.FilePrefix, page, arc.Format.Ext())
}

// Run fetches pages StartPage through StartPage+MaxPages-1.
func (arc *Archiver) Run(ctx context.Context) (Result, error) {
	var result Result

	if !arc.isValidated {
		return result, ErrNotValidated
	}

	if arc.Fetcher == nil {
		return result, errors.New("archiver has no page fetcher")
	}

	if arc.StartPage < 0 {
		return result, errors.Wrapf(ErrInvalidParameter, "start page %d", arc.StartPage)
	}

	end := arc.StartPage + arc.MaxPages
	page := arc.StartPage

	for page < end {
		if !arc.Format.IsValid() {
			arc.logger().Errorf("Unsupported file format: %s", arc.Format)
			return result, errors.Wrapf(ErrUnsupportedFormat, "%q", arc.Format)
		}

		arc.logf("Fetching page %d...", page)

		apps, err := arc.Fetcher.All(ctx, page)
		if err != nil {
			arc.logger().WithError(err).Errorf("Failed to fetch page %d", page)
			return result, errors.Wrapf(err, "page %d", page)
		}

		path, err := WritePage(arc.OutputDir, arc.FileName(page), apps, arc.Format)
		if err != nil {
			arc.logger().WithError(err).Errorf("Failed to save page %d", page)
			return result, errors.Wrapf(err, "page %d", page)
		}

		arc.logf("Page %d saved to %s", page, path)
		result.Pages = append(result.Pages, PageResult{Page: page, Path: path, Apps: len(apps)})

		page++
		if page < end {
			if err := arc.sleep(ctx, arc.Cooldown+arc.SleepPadding); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
