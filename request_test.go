package steamspy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	base := "https://steamspy.com/api.php"

	t.Run("no params", func(t *testing.T) {
		assert.Equal(t, base+"?request=top100owned", BuildURL(base, RequestTop100Owned, nil, false))
	})

	t.Run("params keep their order", func(t *testing.T) {
		url := BuildURL(base, RequestAll, []Param{{"page", "2"}, {"format", "json"}}, false)
		assert.Equal(t, base+"?request=all&page=2&format=json", url)
	})

	t.Run("values are escaped", func(t *testing.T) {
		url := BuildURL(base, RequestTag, []Param{{"tag", "Rogue-like & Co"}}, false)
		assert.Equal(t, base+"?request=tag&tag=Rogue-like+%26+Co", url)
	})

	t.Run("raw values are embedded verbatim", func(t *testing.T) {
		url := BuildURL(base, RequestGenre, []Param{{"genre", "Early+Access"}}, true)
		assert.Equal(t, base+"?request=genre&genre=Early+Access", url)
	})
}
