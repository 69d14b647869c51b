package browsertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iconidentify/clipgrab/internal/browser"
)

func TestPage_Evaluate(t *testing.T) {
	var engine browser.Engine = &Engine{Page: func() *Page {
		return &Page{EvalResult: map[string]any{"src": "https://cdn.example/v.mp4", "count": 2}}
	}}
	ctx := context.Background()

	session, err := engine.Launch(ctx)
	require.NoError(t, err)
	defer session.Close()

	page, err := session.NewPage(ctx)
	require.NoError(t, err)

	var out struct {
		Src   string `json:"src"`
		Count int    `json:"count"`
	}
	require.NoError(t, page.Evaluate(ctx, `({src: document.querySelector("video").src, count: 2})`, &out))
	assert.Equal(t, "https://cdn.example/v.mp4", out.Src)
	assert.Equal(t, 2, out.Count)

	fake := page.(*Page)
	assert.Equal(t, []string{"eval"}, fake.Actions())
}

func TestSession_NewPageAfterClose(t *testing.T) {
	engine := &Engine{}
	ctx := context.Background()

	session, err := engine.Launch(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	_, err = session.NewPage(ctx)
	assert.Error(t, err)
	assert.True(t, engine.Sessions()[0].Closed())
}
