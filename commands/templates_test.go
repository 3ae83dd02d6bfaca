package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	options, out := setup(t, fixture(), "")
	ctx := context.Background()

	cmd := Templates{title: "Intro", content: "Hi {{name}}"}
	require.NoError(t, cmd.save(ctx, options))

	id := strings.TrimSpace(out.String())
	require.NotEmpty(t, id)

	out.Reset()
	cmd = Templates{id: id, title: "Intro v2", content: "Hello {{name}}"}
	require.NoError(t, cmd.save(ctx, options))
	assert.Equal(t, id+"\n", out.String())

	out.Reset()
	require.NoError(t, cmd.show(ctx, options, id))
	assert.Equal(t, "Intro v2\n\nHello {{name}}\n", out.String())

	out.Reset()
	require.NoError(t, cmd.list(ctx, options))
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "Intro v2")

	require.NoError(t, cmd.delete(ctx, options, id))
	assert.Error(t, cmd.show(ctx, options, id))

	out.Reset()
	require.NoError(t, cmd.list(ctx, options))
	assert.Equal(t, "No saved templates\n", out.String())
}

func TestTemplatesSaveRequiresTitle(t *testing.T) {
	options, _ := setup(t, fixture(), "")

	cmd := Templates{content: "untitled"}
	assert.Error(t, cmd.save(context.Background(), options))

	cmd = Templates{id: "missing", title: "Intro"}
	assert.Error(t, cmd.save(context.Background(), options))
}
