package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	fp "path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/go-shiori/steamspy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appPayload(id int) string {
	return fmt.Sprintf(`{"%d": {"appid": %d, "name": "App %d", "developer": "Dev", "publisher": "Pub",
		"score_rank": "", "positive": 1, "negative": 2, "userscore": 0, "owners": "0 .. 20,000",
		"average_forever": 0, "average_2weeks": 0, "median_forever": 0, "median_2weeks": 0,
		"price": "499", "initialprice": "999", "discount": "50", "ccu": 3,
		"languages": "English", "genre": "Indie", "tags": []}}`, id, id, id)
}

func TestArchiveCommand(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		pages = append(pages, req.URL.Query().Get("page"))
		mu.Unlock()

		assert.Equal(t, "all", req.URL.Query().Get("request"))
		page, _ := strconv.Atoi(req.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, appPayload(1000+page))
	}))
	defer server.Close()

	var logs bytes.Buffer
	logrus.SetOutput(&logs)
	defer logrus.SetOutput(os.Stderr)

	output := t.TempDir()
	cmd := rootCmd()

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"archive",
		"--renderer", "http",
		"--no-bypass",
		"--base-url", server.URL,
		"--output", output,
		"--max-pages", "2",
		"--cooldown", "0",
		"--sleep-padding", "0",
	})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, []string{"0", "1"}, pages)
	assert.Equal(t, "Data fetching completed.\n", stdout.String())

	// One progress line per fetched page.
	assert.Contains(t, logs.String(), "Fetching page 0...")
	assert.Contains(t, logs.String(), "Fetching page 1...")

	// Pages land in a single dated folder under output.
	entries, err := os.ReadDir(output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
	assert.Regexp(t, `^\d{6}$`, entries[0].Name())

	for page := 0; page < 2; page++ {
		path := fp.Join(output, entries[0].Name(), fmt.Sprintf("steam_apps_page_%d.json", page))
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var apps []steamspy.App
		require.NoError(t, json.Unmarshal(data, &apps))
		require.Len(t, apps, 1)
		assert.Equal(t, 1000+page, apps[0].AppID)
	}
}

func TestArchiveCommand_UnsupportedFormat(t *testing.T) {
	output := t.TempDir()
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"archive",
		"--renderer", "http",
		"--output", output,
		"--format", "xlsx",
	})

	err := cmd.Execute()
	assert.ErrorIs(t, err, steamspy.ErrUnsupportedFormat)

	entries, err := os.ReadDir(output)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
