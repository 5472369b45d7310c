// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package content is the in-memory catalog behind the presentation
// shell: posts, categories, comment threads, and the trending board.
// User-supplied markup is sanitized on the way in.
package content

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zidio-dev/inkpress/services/client/events"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Author is a post or comment byline.
type Author struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Username string `json:"username"`
}

// Post is one published article.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      Author    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured,omitempty"`
	CoverImage  string    `json:"coverImage"`
}

// PostInput is a post as submitted for publication. The catalog assigns
// the identifier and timestamp and sanitizes the markup.
type PostInput struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	Author     Author `json:"author"`
	ReadTime   int    `json:"readTime"`
	Category   string `json:"category"`
	CoverImage string `json:"coverImage"`
}

// PostPatch is a partial post update. Nil fields are left untouched.
type PostPatch struct {
	Title    *string `json:"title,omitempty"`
	Excerpt  *string `json:"excerpt,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
}

// Category is a content grouping with its article count.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Comment is one entry in a post's discussion thread.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"postId,omitempty"`
	Author      Author    `json:"author"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"publishedAt"`
	Likes       int       `json:"likes"`
	Replies     []Comment `json:"replies"`
}

// TrendingLabel classifies a trending entry for presentation.
type TrendingLabel string

const (
	TrendingHot    TrendingLabel = "hot"
	TrendingRising TrendingLabel = "rising"
	TrendingSteady TrendingLabel = "trending"
)

// TrendingPost is one entry on the trending board, ranked by views.
type TrendingPost struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Excerpt  string        `json:"excerpt"`
	Author   string        `json:"author"`
	Views    int           `json:"views"`
	Likes    int           `json:"likes"`
	Comments int           `json:"comments"`
	Category string        `json:"category"`
	ReadTime string        `json:"readTime"`
	Label    TrendingLabel `json:"trending"`
}

// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// Catalog is the content store.
//
// Thread Safety: Safe for concurrent use.
type Catalog struct {
	bus    *events.Bus
	logger *slog.Logger

	// strict strips all markup; ugc allows the usual article subset.
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy

	mu         sync.RWMutex
	posts      []Post
	categories []Category
	comments   map[string][]Comment
	trending   []TrendingPost
}

// NewCatalog creates a catalog seeded with the demo content.
func NewCatalog(bus *events.Bus, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		bus:        bus,
		logger:     logger.With(slog.String("component", "content")),
		strict:     bluemonday.StrictPolicy(),
		ugc:        bluemonday.UGCPolicy(),
		posts:      seedPosts(),
		categories: seedCategories(),
		comments:   seedComments(),
		trending:   seedTrending(),
	}
}

// Posts returns all posts, newest first. The slice is a copy.
func (c *Catalog) Posts() []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Post, len(c.posts))
	copy(out, c.posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

// Post returns one post by identifier.
func (c *Catalog) Post(id string) (Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// Featured returns the posts flagged for the hero slot.
func (c *Catalog) Featured() []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Post
	for _, p := range c.posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns the posts in a category, matched case-insensitively.
func (c *Catalog) ByCategory(name string) []Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Post
	for _, p := range c.posts {
		if strings.EqualFold(p.Category, name) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the category list with counts.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Comments returns the discussion thread for a post, oldest first.
func (c *Catalog) Comments(postID string) []Comment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	thread := c.comments[postID]
	out := make([]Comment, len(thread))
	copy(out, thread)
	return out
}

// Search matches the query against titles, excerpts, authors, and
// categories, case-insensitively. An empty query matches nothing.
func (c *Catalog) Search(query string) []Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Post
	for _, p := range c.posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) ||
			strings.Contains(strings.ToLower(p.Author.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Trending returns the trending board ordered by views, descending.
func (c *Catalog) Trending() []TrendingPost {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TrendingPost, len(c.trending))
	copy(out, c.trending)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out
}

// AddPost publishes a new post. Markup is sanitized: titles and excerpts
// are stripped to plain text, content is reduced to the UGC subset.
func (c *Catalog) AddPost(in PostInput) Post {
	p := Post{
		ID:          uuid.NewString(),
		Title:       c.strict.Sanitize(in.Title),
		Excerpt:     c.strict.Sanitize(in.Excerpt),
		Content:     c.ugc.Sanitize(in.Content),
		Author:      in.Author,
		PublishedAt: time.Now(),
		ReadTime:    in.ReadTime,
		Category:    in.Category,
		CoverImage:  in.CoverImage,
	}

	c.mu.Lock()
	c.posts = append(c.posts, p)
	c.bumpCategory(p.Category, 1)
	c.mu.Unlock()

	c.logger.Info("post published", slog.String("id", p.ID), slog.String("title", p.Title))
	if c.bus != nil {
		c.bus.Emit(events.KindPostAdded, events.PostData{ID: p.ID, Title: p.Title})
	}
	return p
}

// UpdatePost applies a partial update to a post, sanitizing incoming
// markup the same way AddPost does.
func (c *Catalog) UpdatePost(id string, patch PostPatch) (Post, bool) {
	c.mu.Lock()
	idx := -1
	for i := range c.posts {
		if c.posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return Post{}, false
	}

	p := &c.posts[idx]
	if patch.Title != nil {
		p.Title = c.strict.Sanitize(*patch.Title)
	}
	if patch.Excerpt != nil {
		p.Excerpt = c.strict.Sanitize(*patch.Excerpt)
	}
	if patch.Content != nil {
		p.Content = c.ugc.Sanitize(*patch.Content)
	}
	if patch.Category != nil && !strings.EqualFold(p.Category, *patch.Category) {
		c.bumpCategory(p.Category, -1)
		p.Category = *patch.Category
		c.bumpCategory(p.Category, 1)
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	updated := *p
	c.mu.Unlock()

	c.logger.Info("post updated", slog.String("id", id))
	if c.bus != nil {
		c.bus.Emit(events.KindPostUpdated, events.PostData{ID: updated.ID, Title: updated.Title})
	}
	return updated, true
}

// AddComment appends a top-level comment to a post's thread and bumps the
// post's comment count. The content passes through the UGC sanitizer.
func (c *Catalog) AddComment(postID string, author Author, body string) (Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.posts {
		if c.posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Comment{}, false
	}

	cm := Comment{
		ID:          uuid.NewString(),
		PostID:      postID,
		Author:      author,
		Content:     c.ugc.Sanitize(body),
		PublishedAt: time.Now(),
		Replies:     []Comment{},
	}
	c.comments[postID] = append(c.comments[postID], cm)
	c.posts[idx].Comments++
	return cm, true
}

// bumpCategory adjusts a category count, matched case-insensitively.
// Callers hold mu. Unknown categories are created with the given delta.
func (c *Catalog) bumpCategory(name string, delta int) {
	if name == "" {
		return
	}
	for i := range c.categories {
		if strings.EqualFold(c.categories[i].Name, name) {
			c.categories[i].Count += delta
			if c.categories[i].Count < 0 {
				c.categories[i].Count = 0
			}
			return
		}
	}
	if delta > 0 {
		c.categories = append(c.categories, Category{
			ID:    strings.ToLower(name),
			Name:  name,
			Count: delta,
		})
	}
}
