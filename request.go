package steamspy

import (
	nurl "net/url"
	"strings"
)

// DefaultBaseURL is the SteamSpy API endpoint.
const DefaultBaseURL = "https://steamspy.com/api.php"

// Request is the kind of query sent to the API.
type Request string

const (
	RequestAppDetails     Request = "appdetails"
	RequestGenre          Request = "genre"
	RequestTag            Request = "tag"
	RequestTop100In2Weeks Request = "top100in2weeks"
	RequestTop100Forever  Request = "top100forever"
	RequestTop100Owned    Request = "top100owned"
	RequestAll            Request = "all"
)

// Param is a single query parameter. Parameters keep their order in the URL.
type Param struct {
	Key   string
	Value string
}

// BuildURL appends the request kind and params to base as key=value
// pairs joined by "&". Values are query-escaped unless raw is set, in
// which case the caller guarantees they are safe to embed as is.
func BuildURL(base string, req Request, params []Param, raw bool) string {
	pairs := make([]string, 0, len(params)+1)
	pairs = append(pairs, "request="+string(req))
	for _, p := range params {
		value := p.Value
		if !raw {
			value = nurl.QueryEscape(value)
		}
		pairs = append(pairs, p.Key+"="+value)
	}

	return base + "?" + strings.Join(pairs, "&")
}
