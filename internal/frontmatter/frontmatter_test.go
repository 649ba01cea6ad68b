package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestParseMap_ValidYAML_ReturnsMap(t *testing.T) {
	fm := []byte("uid: abc\ntags:\n  - one\n")

	fields, err := ParseMap(fm)
	require.NoError(t, err)
	require.Equal(t, "abc", fields["uid"])
}

func TestParseMap_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseMap(nil)
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestDecodePost_FullMatter(t *testing.T) {
	raw := []byte(`title: Understanding Grids
description: A deep dive.
published: 2023-01-05
edited: "2023-02-01T10:30:00Z"
authors:
  - jdoe
tags:
  - css
  - webdev
license: cc-by-4
collection: layout-fundamentals
order: 2
originalLink: https://example.com/original
noindex: true
`)

	m, err := DecodePost(raw)
	require.NoError(t, err)
	require.Equal(t, "Understanding Grids", m.Title)
	require.Equal(t, 2023, m.Published.Year())
	require.Equal(t, []string{"jdoe"}, m.Authors)
	require.Equal(t, []string{"css", "webdev"}, m.Tags)
	require.Equal(t, "cc-by-4", m.License)
	require.Equal(t, "layout-fundamentals", m.Collection)
	require.Equal(t, 2, m.Order)
	require.True(t, m.NoIndex)
	require.False(t, m.Edited.IsZero())
}

func TestDecodePost_MissingPublished(t *testing.T) {
	_, err := DecodePost([]byte("title: No Date\n"))
	require.ErrorIs(t, err, ErrNoPublishedDate)
}

func TestDecodePost_BadEditedDate(t *testing.T) {
	raw := []byte("title: X\npublished: 2023-01-05\nedited: not-a-date\n")
	_, err := DecodePost(raw)
	require.ErrorIs(t, err, ErrBadDate)
}

func TestDecodeCollection(t *testing.T) {
	raw := []byte(`title: Layout Fundamentals
description: Series on layout.
published: 2022-11-30
authors: [jdoe, asmith]
coverImg: cover.png
`)

	m, err := DecodeCollection(raw)
	require.NoError(t, err)
	require.Equal(t, "Layout Fundamentals", m.Title)
	require.Equal(t, []string{"jdoe", "asmith"}, m.Authors)
	require.Equal(t, "cover.png", m.CoverImg)
	require.Equal(t, 2022, m.Published.Year())
}
