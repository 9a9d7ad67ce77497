package steamspy

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Format is the serialization of an archived page.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
	}
	return f, nil
}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatCSV
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// WritePage serializes apps into dir/name, creating dir if needed and
// replacing any existing file. It returns the written path.
func WritePage(dir, name string, apps []App, format Format) (string, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatJSON:
		err = writeJSON(&buf, apps)
	case FormatCSV:
		err = writeCSV(&buf, apps)
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode %s", format)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}

	return path, nil
}

func writeJSON(w io.Writer, apps []App) error {
	if apps == nil {
		apps = []App{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(apps)
}

// csvRow is the flat form of App. Lists are joined with ", " and tags
// are stored as a JSON object.
type csvRow struct {
	AppID          int    `csv:"appid"`
	Name           string `csv:"name"`
	Developer      string `csv:"developer"`
	Publisher      string `csv:"publisher"`
	ScoreRank      string `csv:"score_rank"`
	OwnersMin      int    `csv:"owners_min"`
	OwnersMax      int    `csv:"owners_max"`
	Positive       int    `csv:"positive"`
	Negative       int    `csv:"negative"`
	UserScore      int    `csv:"userscore"`
	AverageForever int    `csv:"average_forever"`
	Average2Weeks  int    `csv:"average_2weeks"`
	MedianForever  int    `csv:"median_forever"`
	Median2Weeks   int    `csv:"median_2weeks"`
	Price          string `csv:"price"`
	InitialPrice   string `csv:"initialprice"`
	Discount       string `csv:"discount"`
	CCU            int    `csv:"ccu"`
	Languages      string `csv:"languages"`
	Genre          string `csv:"genre"`
	Tags           string `csv:"tags"`
}

func newCSVRow(app App) (csvRow, error) {
	row := csvRow{
		AppID:          app.AppID,
		Name:           app.Name,
		Developer:      app.Developer,
		Publisher:      app.Publisher,
		ScoreRank:      app.ScoreRank,
		OwnersMin:      app.Owners.Min,
		OwnersMax:      app.Owners.Max,
		Positive:       app.Positive,
		Negative:       app.Negative,
		UserScore:      app.UserScore,
		AverageForever: app.AverageForever,
		Average2Weeks:  app.Average2Weeks,
		MedianForever:  app.MedianForever,
		Median2Weeks:   app.Median2Weeks,
		Price:          app.Price,
		InitialPrice:   app.InitialPrice,
		Discount:       app.Discount,
		CCU:            app.CCU,
		Languages:      strings.Join(app.Languages, ", "),
		Genre:          strings.Join(app.Genre, ", "),
	}

	if app.Tags != nil {
		tags, err := json.Marshal(app.Tags)
		if err != nil {
			return csvRow{}, err
		}
		row.Tags = string(tags)
	}

	return row, nil
}

func writeCSV(w io.Writer, apps []App) error {
	rows := make([]csvRow, 0, len(apps))
	for _, app := range apps {
		row, err := newCSVRow(app)
		if err != nil {
			return errors.Wrapf(err, "app %d", app.AppID)
		}
		rows = append(rows, row)
	}

	return gocsv.Marshal(&rows, w)
}

// writeFileAtomic writes data next to path and renames it into place,
// so readers never observe a partially written page.
func writeFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "failed to chmod temp file")
	}

	return errors.Wrap(os.Rename(tmpName, path), "failed to move page into place")
}
