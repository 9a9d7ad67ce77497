package steamspy

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var rxOwners = regexp.MustCompile(`^\s*(\d[\d,]*)\s*\.\.\s*(\d[\d,]*)`)

// ParseOwners parses an owners estimate such as "1,000,000 .. 2,000,000".
// On failure it returns the zero range together with the reason, so
// callers can decide how loudly to complain.
func ParseOwners(s string) (OwnersRange, error) {
	groups := rxOwners.FindStringSubmatch(s)
	if groups == nil {
		return OwnersRange{}, errors.Errorf("failed to parse owners string: %q", s)
	}

	min, err := strconv.Atoi(strings.ReplaceAll(groups[1], ",", ""))
	if err != nil {
		return OwnersRange{}, errors.Wrap(err, "error converting owners data")
	}

	max, err := strconv.Atoi(strings.ReplaceAll(groups[2], ",", ""))
	if err != nil {
		return OwnersRange{}, errors.Wrap(err, "error converting owners data")
	}

	if min > max {
		return OwnersRange{}, errors.Errorf("owners range %q is reversed", s)
	}

	return OwnersRange{Min: min, Max: max}, nil
}

// SplitList splits a comma separated list and trims each element.
// Empty input yields nil, never an empty slice.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// buildApp converts one raw app object into an App. Any missing or
// malformed required field fails the whole object, and so does a
// non-positive appid or a negative count. Only userscore is signed.
func buildApp(obj gjson.Result, log logrus.FieldLogger) (App, error) {
	var (
		app App
		err error
	)

	ints := []struct {
		field  string
		dst    *int
		signed bool
	}{
		{"appid", &app.AppID, false},
		{"positive", &app.Positive, false},
		{"negative", &app.Negative, false},
		{"userscore", &app.UserScore, true},
		{"average_forever", &app.AverageForever, false},
		{"average_2weeks", &app.Average2Weeks, false},
		{"median_forever", &app.MedianForever, false},
		{"median_2weeks", &app.Median2Weeks, false},
		{"ccu", &app.CCU, false},
	}
	for _, f := range ints {
		if *f.dst, err = intField(obj, f.field); err != nil {
			return App{}, err
		}
		if !f.signed && *f.dst < 0 {
			return App{}, &FieldError{Field: f.field, Value: obj.Get(f.field).Raw}
		}
	}

	if app.AppID == 0 {
		return App{}, &FieldError{Field: "appid", Value: obj.Get("appid").Raw}
	}

	texts := []struct {
		field string
		dst   *string
	}{
		{"name", &app.Name},
		{"developer", &app.Developer},
		{"publisher", &app.Publisher},
		{"price", &app.Price},
		{"initialprice", &app.InitialPrice},
		{"discount", &app.Discount},
	}
	for _, f := range texts {
		if *f.dst, err = textField(obj, f.field); err != nil {
			return App{}, err
		}
	}

	if rank := obj.Get("score_rank"); rank.Exists() {
		app.ScoreRank = textValue(rank)
	}

	owners := obj.Get("owners")
	app.Owners, err = ParseOwners(owners.String())
	if err != nil {
		log.WithField("appid", app.AppID).Warn(err)
	}

	app.Languages = listField(obj, "languages")
	app.Genre = listField(obj, "genre")
	app.Tags = tagsField(obj, "tags")

	return app, nil
}

func intField(obj gjson.Result, field string) (int, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return 0, &FieldError{Field: field, Missing: true}
	}

	switch v.Type {
	case gjson.Number:
		if n, err := strconv.Atoi(v.Raw); err == nil {
			return n, nil
		}
		// Whole floats such as 12.0 or 1e3 are still integers.
		if f, err := strconv.ParseFloat(v.Raw, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
			return int(f), nil
		}
	case gjson.String:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil {
			return n, nil
		}
	}

	return 0, &FieldError{Field: field, Value: v.Raw}
}

func textField(obj gjson.Result, field string) (string, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return "", &FieldError{Field: field, Missing: true}
	}
	return textValue(v), nil
}

func textValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}

func listField(obj gjson.Result, field string) []string {
	v := obj.Get(field)
	if v.Type != gjson.String {
		return nil
	}
	return SplitList(v.Str)
}

// tagsField returns nil for anything but a non-empty object. The API
// sends an empty array for apps without tags.
func tagsField(obj gjson.Result, field string) map[string]int {
	v := obj.Get(field)
	if !v.IsObject() {
		return nil
	}

	var tags map[string]int
	v.ForEach(func(key, value gjson.Result) bool {
		if tags == nil {
			tags = make(map[string]int)
		}
		tags[key.String()] = int(value.Int())
		return true
	})
	return tags
}
