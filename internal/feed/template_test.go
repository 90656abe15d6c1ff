package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateRender(t *testing.T) {
	assert.Equal(t, "", Template(nil).Render())
	assert.Equal(t, "<brand>", Template{"brand"}.Render())
	assert.Equal(t, "<brand> <color> <size>", Template{"brand", "color", "size"}.Render())
}

func TestTemplateContains(t *testing.T) {
	tmpl := Template{"brand", "color"}
	assert.True(t, tmpl.Contains("brand"))
	assert.False(t, tmpl.Contains("size"))
	assert.False(t, Template(nil).Contains("brand"))
}

func TestParseTemplate(t *testing.T) {
	assert.Nil(t, ParseTemplate(""))
	assert.Nil(t, ParseTemplate("no tokens here"))
	assert.Equal(t, Template{"brand", "color", "size"}, ParseTemplate("<brand> <color> <size>"))
}

func TestParseTemplateRoundTrip(t *testing.T) {
	tmpl := Template{"brand", "color", "size"}
	assert.Equal(t, tmpl, ParseTemplate(tmpl.Render()))
}
