package steamspy

import (
	"strings"

	"github.com/go-shiori/dom"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// The API hides its JSON inside a hidden div of an otherwise empty page.
const hiddenContainerSelector = "div[hidden]"

var emptyPayload = gjson.Parse("{}")

// findHiddenContainer returns the text content of the hidden container
// in a rendered document.
func findHiddenContainer(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse HTML")
	}

	node := dom.QuerySelector(doc, hiddenContainerSelector)
	if node == nil {
		return "", errors.New("hidden container not found")
	}

	return dom.TextContent(node), nil
}

// decodePayload validates the container text as a JSON object. The
// returned result keeps members in the order the API sent them.
func decodePayload(text string) (gjson.Result, error) {
	text = strings.TrimSpace(text)
	if !gjson.Valid(text) {
		return emptyPayload, errors.New("payload is not valid JSON")
	}

	payload := gjson.Parse(text)
	if !payload.IsObject() {
		return emptyPayload, errors.Errorf("payload is a JSON %s, not an object", payload.Type)
	}

	return payload, nil
}

func isEmptyPayload(payload gjson.Result) bool {
	empty := true
	payload.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}
