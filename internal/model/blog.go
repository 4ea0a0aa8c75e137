package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBlogPost is returned by the store layer when a write would leave a
// record with an empty required field.
var ErrInvalidBlogPost = errors.New("invalid blog post")

// Author is the structured author stored with every post.
type Author struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// BlogPost is the stored shape of a post. It is never written to clients
// directly; use APIRepr.
type BlogPost struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  Author `json:"author"`
	Content string `json:"content"`
}

// BlogPostAPI is the public JSON representation of a post.
type BlogPostAPI struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// BlogPostPatch holds fields that can be updated on a post.
type BlogPostPatch struct {
	Title   *string
	Author  *Author
	Content *string
}

// AuthorString renders the author as "First Last", trimmed.
func (p *BlogPost) AuthorString() string {
	return strings.TrimSpace(p.Author.FirstName + " " + p.Author.LastName)
}

// APIRepr projects a stored post into its public representation.
func (p *BlogPost) APIRepr() BlogPostAPI {
	return BlogPostAPI{
		ID:      p.ID,
		Title:   p.Title,
		Author:  p.AuthorString(),
		Content: p.Content,
	}
}

// Validate reports whether every required field is non-empty.
func (p *BlogPost) Validate() error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidBlogPost)
	case p.Author.FirstName == "":
		return fmt.Errorf("%w: author.firstName is required", ErrInvalidBlogPost)
	case p.Author.LastName == "":
		return fmt.Errorf("%w: author.lastName is required", ErrInvalidBlogPost)
	case p.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalidBlogPost)
	}
	return nil
}

// Empty reports whether the patch sets no field at all.
func (p BlogPostPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Content == nil
}

// Validate checks that every field present in the patch would keep the
// record valid. The author is replaced as a whole, so both names are required.
func (p BlogPostPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidBlogPost)
	}
	if p.Author != nil {
		if p.Author.FirstName == "" {
			return fmt.Errorf("%w: author.firstName is required", ErrInvalidBlogPost)
		}
		if p.Author.LastName == "" {
			return fmt.Errorf("%w: author.lastName is required", ErrInvalidBlogPost)
		}
	}
	if p.Content != nil && *p.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidBlogPost)
	}
	return nil
}

// Apply copies the fields present in patch onto p.
func (p *BlogPost) Apply(patch BlogPostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
}
