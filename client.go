package steamspy

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Client queries the SteamSpy API through a Renderer.
//
// Extraction failures are not errors: a page whose hidden container is
// missing or holds invalid JSON is logged and treated as an empty
// payload, so a flaky render never aborts a long run. Renderer errors
// are returned as *FetchError. A required field missing from any app of
// a collection fails the whole call.
type Client struct {
	BaseURL string

	// RawParams embeds parameter values without query escaping.
	RawParams bool

	Logger logrus.FieldLogger

	renderer Renderer
}

// NewClient returns a client that renders every request with r.
func NewClient(r Renderer) *Client {
	return &Client{
		BaseURL:  DefaultBaseURL,
		renderer: r,
	}
}

// Close releases the renderer session.
func (c *Client) Close() error {
	return c.renderer.Close()
}

// AppDetails returns the details of a single app.
// ErrNotFound is returned when the API yields nothing for appID.
func (c *Client) AppDetails(ctx context.Context, appID int) (App, error) {
	if appID <= 0 {
		return App{}, errors.Wrapf(ErrInvalidParameter, "appid %d", appID)
	}

	payload, err := c.fetch(ctx, RequestAppDetails, Param{"appid", strconv.Itoa(appID)})
	if err != nil {
		return App{}, err
	}

	if isEmptyPayload(payload) {
		return App{}, errors.Wrapf(ErrNotFound, "appid %d", appID)
	}

	return buildApp(payload, c.logger())
}

// Genre returns the apps in a genre.
func (c *Client) Genre(ctx context.Context, genre string) ([]App, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, errors.Wrap(ErrInvalidParameter, "genre is empty")
	}
	return c.fetchApps(ctx, RequestGenre, Param{"genre", genre})
}

// Tag returns the apps carrying a user tag.
func (c *Client) Tag(ctx context.Context, tag string) ([]App, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, errors.Wrap(ErrInvalidParameter, "tag is empty")
	}
	return c.fetchApps(ctx, RequestTag, Param{"tag", tag})
}

// Top100In2Weeks returns the top 100 apps by players in the last two weeks.
func (c *Client) Top100In2Weeks(ctx context.Context) ([]App, error) {
	return c.fetchApps(ctx, RequestTop100In2Weeks)
}

// Top100Forever returns the top 100 apps by players since March 2009.
func (c *Client) Top100Forever(ctx context.Context) ([]App, error) {
	return c.fetchApps(ctx, RequestTop100Forever)
}

// Top100Owned returns the top 100 apps by owners.
func (c *Client) Top100Owned(ctx context.Context) ([]App, error) {
	return c.fetchApps(ctx, RequestTop100Owned)
}

// All returns one page of all apps, sorted by owners.
func (c *Client) All(ctx context.Context, page int) ([]App, error) {
	if page < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "page %d", page)
	}
	return c.fetchApps(ctx, RequestAll, Param{"page", strconv.Itoa(page)})
}

func (c *Client) fetchApps(ctx context.Context, req Request, params ...Param) ([]App, error) {
	payload, err := c.fetch(ctx, req, params...)
	if err != nil {
		return nil, err
	}

	apps := []App{}
	var buildErr error
	payload.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			c.logger().WithField("key", key.String()).Warn("skipping app entry which is not an object")
			return true
		}

		app, err := buildApp(value, c.logger())
		if err != nil {
			buildErr = errors.Wrapf(err, "app %s", key.String())
			return false
		}

		apps = append(apps, app)
		return true
	})

	if buildErr != nil {
		return nil, buildErr
	}

	return apps, nil
}

// fetch renders the request and extracts its JSON payload.
func (c *Client) fetch(ctx context.Context, req Request, params ...Param) (gjson.Result, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := BuildURL(base, req, params, c.RawParams)

	document, err := c.renderer.Render(ctx, url)
	if err != nil {
		return emptyPayload, &FetchError{URL: url, Err: err}
	}

	text, err := findHiddenContainer(document)
	if err != nil {
		c.logger().WithError(err).WithField("url", url).Error("error extracting JSON")
		return emptyPayload, nil
	}

	payload, err := decodePayload(text)
	if err != nil {
		c.logger().WithError(err).WithField("url", url).Error("error extracting JSON")
		return emptyPayload, nil
	}

	return payload, nil
}

func (c *Client) logger() logrus.FieldLogger {
	return loggerOrDefault(c.Logger)
}
