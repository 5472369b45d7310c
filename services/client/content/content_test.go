// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zidio-dev/inkpress/services/client/events"
)

func newTestCatalog() *Catalog {
	return NewCatalog(events.NewBus(), nil)
}

// TestCatalog_Seed verifies the demo catalog: eight posts newest first,
// one featured, six categories.
func TestCatalog_Seed(t *testing.T) {
	c := newTestCatalog()

	posts := c.Posts()
	require.Len(t, posts, 8)
	assert.Equal(t, "1", posts[0].ID)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].PublishedAt.After(posts[i-1].PublishedAt))
	}

	featured := c.Featured()
	require.Len(t, featured, 1)
	assert.Equal(t, "Building Modern React Applications with TypeScript", featured[0].Title)

	cats := c.Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, Category{ID: "tech", Name: "Technology", Count: 45}, cats[0])
}

// TestCatalog_Lookup exercises by-id and by-category access.
func TestCatalog_Lookup(t *testing.T) {
	c := newTestCatalog()

	p, ok := c.Post("3")
	require.True(t, ok)
	assert.Equal(t, "Michael Zhang", p.Author.Name)

	_, ok = c.Post("99")
	assert.False(t, ok)

	tech := c.ByCategory("technology")
	require.Len(t, tech, 3)
	for _, p := range tech {
		assert.Equal(t, "Technology", p.Category)
	}
}

// TestCatalog_Search verifies case-insensitive matching across titles,
// excerpts, authors, and categories.
func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "title match", query: "typescript", want: 1},
		{name: "author match", query: "sarah chen", want: 1},
		{name: "category match", query: "design", want: 2},
		{name: "excerpt match", query: "mindfulness", want: 1},
		{name: "no match", query: "quantum chromodynamics", want: 0},
		{name: "empty query", query: "   ", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, c.Search(tt.query), tt.want)
		})
	}
}

// TestCatalog_Comments verifies the seeded discussion thread on post 1.
func TestCatalog_Comments(t *testing.T) {
	c := newTestCatalog()

	thread := c.Comments("1")
	require.Len(t, thread, 2)
	assert.Equal(t, "John Smith", thread[0].Author.Name)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "sarahdev", thread[0].Replies[0].Author.Username)

	assert.Empty(t, c.Comments("2"))
}

// TestCatalog_AddComment verifies comments are sanitized and bump the
// post's comment count.
func TestCatalog_AddComment(t *testing.T) {
	c := newTestCatalog()
	before, _ := c.Post("2")

	cm, ok := c.AddComment("2", Author{Name: "Eve", Username: "eve"},
		`Nice one <script>alert("x")</script>`)
	require.True(t, ok)
	assert.NotContains(t, cm.Content, "<script>")
	assert.Contains(t, cm.Content, "Nice one")

	after, _ := c.Post("2")
	assert.Equal(t, before.Comments+1, after.Comments)
	require.Len(t, c.Comments("2"), 1)

	_, ok = c.AddComment("99", Author{}, "orphan")
	assert.False(t, ok)
}

// TestCatalog_Trending verifies the board is ranked by views.
func TestCatalog_Trending(t *testing.T) {
	c := newTestCatalog()

	board := c.Trending()
	require.Len(t, board, 4)
	assert.Equal(t, 15420, board[0].Views)
	for i := 1; i < len(board); i++ {
		assert.LessOrEqual(t, board[i].Views, board[i-1].Views)
	}
	assert.Equal(t, TrendingHot, board[0].Label)
}

// TestCatalog_AddPost verifies publication: sanitized fields, category
// count bump, event emission.
func TestCatalog_AddPost(t *testing.T) {
	bus := events.NewBus()
	c := NewCatalog(bus, nil)

	var got []events.Event
	bus.Subscribe(func(ev events.Event) { got = append(got, ev) }, events.KindPostAdded)

	p := c.AddPost(PostInput{
		Title:    `Going <b>Serverless</b>`,
		Excerpt:  "What it costs and what it buys.",
		Content:  `<p>Hello</p><script>alert("x")</script>`,
		Author:   Author{Name: "Jasleen Kaur", Username: "jasleenkaur"},
		ReadTime: 5,
		Category: "Technology",
	})

	require.NotEmpty(t, p.ID)
	assert.Equal(t, "Going Serverless", p.Title)
	assert.Equal(t, "<p>Hello</p>", p.Content)
	assert.False(t, p.PublishedAt.IsZero())

	// Newest first in listings.
	assert.Equal(t, p.ID, c.Posts()[0].ID)

	for _, cat := range c.Categories() {
		if cat.ID == "tech" {
			assert.Equal(t, 46, cat.Count)
		}
	}

	require.Len(t, got, 1)
	data, ok := got[0].Data.(events.PostData)
	require.True(t, ok)
	assert.Equal(t, p.ID, data.ID)
}

// TestCatalog_UpdatePost verifies partial updates, category rebalancing,
// and sanitization of patched markup.
func TestCatalog_UpdatePost(t *testing.T) {
	c := newTestCatalog()

	title := "Renamed <i>Post</i>"
	cat := "Design"
	feat := true
	p, ok := c.UpdatePost("3", PostPatch{Title: &title, Category: &cat, Featured: &feat})
	require.True(t, ok)
	assert.Equal(t, "Renamed Post", p.Title)
	assert.Equal(t, "Design", p.Category)
	assert.True(t, p.Featured)

	var techCount, designCount int
	for _, cc := range c.Categories() {
		switch cc.ID {
		case "tech":
			techCount = cc.Count
		case "design":
			designCount = cc.Count
		}
	}
	assert.Equal(t, 44, techCount)
	assert.Equal(t, 33, designCount)

	_, ok = c.UpdatePost("99", PostPatch{Title: &title})
	assert.False(t, ok)
}

// TestCatalog_PostsAreCopies verifies mutating a returned slice does not
// leak into the catalog.
func TestCatalog_PostsAreCopies(t *testing.T) {
	c := newTestCatalog()

	posts := c.Posts()
	posts[0].Title = strings.Repeat("x", 8)

	p, _ := c.Post(posts[0].ID)
	assert.NotEqual(t, posts[0].Title, p.Title)
}
