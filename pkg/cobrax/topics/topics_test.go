package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.md":          {Data: []byte("# Layout\n\nHow files map.\n")},
		"variants.txt":       {Data: []byte("Variants explained.\n")},
		"option-dry-run.txt": {Data: []byte("Dry run explained.\n")},
		"ignored.json":       {Data: []byte("{}")},
	}
}

func TestNewScansSupportedExtensions(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"layout", "option-dry-run", "variants"}, m.List())
}

func TestGetResolvesFlagSpelling(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	topic, ok := m.Get("--dry-run")
	require.True(t, ok)
	assert.Equal(t, "option-dry-run", topic.Name)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestListTextGroupsOptions(t *testing.T) {
	m, err := New(testFS(), Options{})
	require.NoError(t, err)

	text := m.ListText("myapp")
	assert.Contains(t, text, "General topics:")
	assert.Contains(t, text, "  layout")
	assert.Contains(t, text, "Option topics:")
	assert.Contains(t, text, "  --dry-run")
	assert.Contains(t, text, "'myapp help <topic>'")
}

func TestPlainRendererPassesThrough(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "raw", r.Render("raw", ".md"))
}

func TestGlamourRendererIgnoresNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}

func TestInitializeServesTopicsThroughHelp(t *testing.T) {
	rootCmd := &cobra.Command{Use: "myapp"}
	_, err := Initialize(rootCmd, testFS(), Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "variants"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Variants explained.")
}

func TestInitializeListsTopics(t *testing.T) {
	rootCmd := &cobra.Command{Use: "myapp"}
	_, err := Initialize(rootCmd, testFS(), Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Available help topics:")
	assert.Contains(t, out.String(), "layout")
}
