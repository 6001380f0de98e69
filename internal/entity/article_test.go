package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleGraphID(t *testing.T) {
	a := &Article{Title: "Apple beats expectations"}
	b := &Article{Title: "Apple beats expectations"}
	c := &Article{Title: "Apple misses expectations"}

	assert.Equal(t, a.GraphID(), b.GraphID())
	assert.NotEqual(t, a.GraphID(), c.GraphID())
	assert.True(t, strings.HasPrefix(a.GraphID(), "article_"))

	// Articles without a URL still get a stable id.
	assert.NotEmpty(t, (&Article{Title: "untitled source"}).GraphID())
}

func TestArticleCombinedText(t *testing.T) {
	a := &Article{Title: "Title", Description: "Desc", Content: "Body"}
	assert.Equal(t, "Title Desc Body", a.CombinedText())
}
