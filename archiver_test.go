package steamspy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher returns one app per page, whose id is the page number
// plus 1000, and fails on the pages listed in fail.
type fakeFetcher struct {
	fail    map[int]error
	fetched []int
}

func (f *fakeFetcher) All(_ context.Context, page int) ([]App, error) {
	f.fetched = append(f.fetched, page)
	if err := f.fail[page]; err != nil {
		return nil, err
	}
	return []App{{AppID: 1000 + page, Name: "App"}}, nil
}

func newTestArchiver(t *testing.T, fetcher PageFetcher) (*Archiver, *[]time.Duration) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	arc := NewArchiver(fetcher, t.TempDir())
	arc.Logger = log

	var sleeps []time.Duration
	arc.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return arc, &sleeps
}

func TestArchiver_Validate(t *testing.T) {
	arc := &Archiver{Cooldown: -time.Second, SleepPadding: -time.Second}
	arc.Validate()

	assert.True(t, arc.isValidated)
	assert.Equal(t, FormatJSON, arc.Format)
	assert.Equal(t, DefaultFilePrefix, arc.FilePrefix)
	assert.Equal(t, ".", arc.OutputDir)
	assert.Zero(t, arc.Cooldown)
	assert.Zero(t, arc.SleepPadding)
	assert.NotNil(t, arc.sleep)
}

func TestNewArchiver(t *testing.T) {
	arc := NewArchiver(&fakeFetcher{}, "out")
	assert.Equal(t, 60*time.Second, arc.Cooldown)
	assert.Equal(t, 10*time.Second, arc.SleepPadding)
	assert.Equal(t, DefaultMaxPages, arc.MaxPages)
	assert.Equal(t, "steam_apps_page_7.json", arc.FileName(7))
}

func TestArchiver_Run(t *testing.T) {
	fetcher := &fakeFetcher{}
	arc, sleeps := newTestArchiver(t, fetcher)
	arc.StartPage = 0
	arc.MaxPages = 3
	arc.Validate()

	result, err := arc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, fetcher.fetched)
	require.Len(t, result.Pages, 3)

	for i, page := range result.Pages {
		assert.Equal(t, i, page.Page)
		assert.Equal(t, 1, page.Apps)

		path := filepath.Join(arc.OutputDir, fmt.Sprintf("steam_apps_page_%d.json", i))
		assert.Equal(t, path, page.Path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var apps []App
		require.NoError(t, json.Unmarshal(data, &apps))
		require.Len(t, apps, 1)
		assert.Equal(t, 1000+i, apps[0].AppID)
	}

	// No cool-down after the final page.
	assert.Equal(t, []time.Duration{70 * time.Second, 70 * time.Second}, *sleeps)
}

func TestArchiver_RunOffset(t *testing.T) {
	fetcher := &fakeFetcher{}
	arc, sleeps := newTestArchiver(t, fetcher)
	arc.StartPage = 5
	arc.MaxPages = 2
	arc.Format = FormatCSV
	arc.SleepPadding = 0
	arc.Validate()

	result, err := arc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, fetcher.fetched)
	assert.Len(t, result.Pages, 2)
	assert.FileExists(t, filepath.Join(arc.OutputDir, "steam_apps_page_5.csv"))
	assert.FileExists(t, filepath.Join(arc.OutputDir, "steam_apps_page_6.csv"))
	assert.Equal(t, []time.Duration{60 * time.Second}, *sleeps)
}

func TestArchiver_StopsOnFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[int]error{
		1: &FetchError{URL: "https://steamspy.com/api.php?request=all&page=1", Err: errors.New("browser crashed")},
	}}
	arc, sleeps := newTestArchiver(t, fetcher)
	arc.MaxPages = 3
	arc.Validate()

	result, err := arc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))

	assert.Equal(t, []int{0, 1}, fetcher.fetched)
	require.Len(t, result.Pages, 1)
	assert.FileExists(t, filepath.Join(arc.OutputDir, "steam_apps_page_0.json"))
	assert.NoFileExists(t, filepath.Join(arc.OutputDir, "steam_apps_page_1.json"))
	assert.NoFileExists(t, filepath.Join(arc.OutputDir, "steam_apps_page_2.json"))
	assert.Len(t, *sleeps, 1)
}

func TestArchiver_StopsOnMissingField(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[int]error{
		0: errors.Wrap(&FieldError{Field: "ccu", Missing: true}, "app 10"),
	}}
	arc, _ := newTestArchiver(t, fetcher)
	arc.MaxPages = 2
	arc.Validate()

	result, err := arc.Run(context.Background())
	assert.True(t, IsMissingField(err))
	assert.Empty(t, result.Pages)
	assert.Equal(t, []int{0}, fetcher.fetched)
}

func TestArchiver_UnsupportedFormat(t *testing.T) {
	fetcher := &fakeFetcher{}
	arc, _ := newTestArchiver(t, fetcher)
	arc.MaxPages = 3
	arc.Format = Format("xlsx")
	arc.Validate()

	_, err := arc.Run(context.Background())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Empty(t, fetcher.fetched)

	entries, err := os.ReadDir(arc.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchiver_NotValidated(t *testing.T) {
	arc := NewArchiver(&fakeFetcher{}, t.TempDir())

	_, err := arc.Run(context.Background())
	assert.True(t, errors.Is(err, ErrNotValidated))
}

func TestArchiver_CancelDuringCooldown(t *testing.T) {
	fetcher := &fakeFetcher{}
	arc := NewArchiver(fetcher, t.TempDir())
	arc.EnableLog = false
	arc.MaxPages = 3
	arc.Cooldown = time.Hour
	arc.Validate()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result, err := arc.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, result.Pages, 1)
	assert.Equal(t, []int{0}, fetcher.fetched)
}
