package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientLabel(t *testing.T) {
	t.Run("empty user agent yields empty label", func(t *testing.T) {
		assert.Empty(t, ClientLabel(""))
	})

	t.Run("chrome on desktop includes browser and OS", func(t *testing.T) {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		label := ClientLabel(ua)
		assert.Contains(t, label, "Chrome")
		assert.Contains(t, label, "on")
		assert.NotContains(t, label, "120.0.0.0")
	})

	t.Run("firefox on linux includes browser and OS", func(t *testing.T) {
		ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		label := ClientLabel(ua)
		assert.Contains(t, label, "Firefox")
		assert.Contains(t, label, "on")
	})

	t.Run("unparseable agent falls back to the raw string", func(t *testing.T) {
		assert.NotEmpty(t, ClientLabel("talentflow-cli/1.0"))
	})

	t.Run("label has no surrounding whitespace", func(t *testing.T) {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
		label := ClientLabel(ua)
		assert.Equal(t, label, strings.TrimSpace(label))
	})
}
