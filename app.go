package steamspy

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// OwnersRange is the estimated number of accounts owning an app.
// The zero value is used when the source range is absent or unparsable.
type OwnersRange struct {
	Min int
	Max int
}

// IsZero reports whether the range is the "unknown" sentinel.
func (o OwnersRange) IsZero() bool {
	return o.Min == 0 && o.Max == 0
}

// MarshalJSON encodes the range as a two element array.
func (o OwnersRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{o.Min, o.Max})
}

// UnmarshalJSON decodes a two element array.
func (o *OwnersRange) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return errors.Wrap(err, "owners range")
	}
	o.Min, o.Max = pair[0], pair[1]
	return nil
}

// App is the statistics snapshot of one application.
//
// Languages, Genre and Tags are nil when the source did not provide
// them. A present list always has at least one element.
type App struct {
	AppID     int    `json:"appid"`
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Publisher string `json:"publisher"`
	ScoreRank string `json:"score_rank"`

	Owners OwnersRange `json:"owners"`

	Positive  int `json:"positive"`
	Negative  int `json:"negative"`
	UserScore int `json:"userscore"`

	// Playtime values are in minutes.
	AverageForever int `json:"average_forever"`
	Average2Weeks  int `json:"average_2weeks"`
	MedianForever  int `json:"median_forever"`
	Median2Weeks   int `json:"median_2weeks"`

	// Prices are kept verbatim, in the smallest currency unit.
	Price        string `json:"price"`
	InitialPrice string `json:"initialprice"`
	Discount     string `json:"discount"`

	CCU int `json:"ccu"`

	Languages []string       `json:"languages"`
	Genre     []string       `json:"genre"`
	Tags      map[string]int `json:"tags"`
}
