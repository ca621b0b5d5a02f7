package models

import (
	"time"
)

const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
	StatusPrivate = "private"

	TypePost    = "post"
	TypePage    = "page"
	TypeProject = "project"

	DefaultAuthor = "Admin"

	FeaturedLimit = 3
)

// ValidStatus reports whether s is one of the known post statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublish, StatusPrivate:
		return true
	}
	return false
}

type Post struct {
	ID          string     `json:"id" db:"post_id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Content     string     `json:"content" db:"content"`
	Excerpt     string     `json:"excerpt" db:"excerpt"`
	Author      string     `json:"author" db:"author"`
	PostType    string     `json:"postType" db:"post_type"`
	PostStatus  string     `json:"postStatus" db:"post_status"`
	PostParent  *string    `json:"postParent" db:"post_parent"`
	Featured    bool       `json:"featured" db:"featured"`
	Scheduled   bool       `json:"scheduled" db:"scheduled"`
	CategoryID  *string    `json:"categoryId" db:"category_id"`
	UserID      *string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	PublishedAt *time.Time `json:"publishedAt" db:"published_at"`

	Category *Category `json:"-" db:"-"`
	Tags     []Tag     `json:"-" db:"-"`
}

// Published is derived from the status only.
func (p *Post) Published() bool {
	return p.PostStatus == StatusPublish
}

// IsOwnedBy is false for a missing or anonymous principal.
func (p *Post) IsOwnedBy(user *User) bool {
	if user == nil || user.UserID == "" || p.UserID == nil {
		return false
	}
	return *p.UserID == user.UserID
}

// CanBeEditedBy allows the owner and administrators.
func (p *Post) CanBeEditedBy(user *User) bool {
	if user == nil || user.UserID == "" {
		return false
	}
	return user.IsAdmin || p.IsOwnedBy(user)
}

// CanBeViewedBy allows everyone to see published posts. Drafts and private
// posts are visible to those who may edit them.
func (p *Post) CanBeViewedBy(user *User) bool {
	return p.Published() || p.CanBeEditedBy(user)
}

// Schedule marks a draft for the publication sweep at the given time.
func (p *Post) Schedule(at time.Time) {
	stamp := at.UTC().Truncate(time.Microsecond)
	p.PublishedAt = &stamp
	p.Scheduled = true
}

// ApplyStatus moves the post into status at the given instant. Entering publish
// stamps PublishedAt unless it already holds a fulfilled publication time.
// Leaving draft cancels the schedule, so an unpublished post stays a draft.
func (p *Post) ApplyStatus(status string, now time.Time) {
	if status == StatusPublish && p.PostStatus != StatusPublish {
		if p.PublishedAt == nil || p.PublishedAt.After(now) {
			stamp := now
			p.PublishedAt = &stamp
		}
	}
	if status != StatusDraft {
		p.Scheduled = false
	}
	p.PostStatus = status
}

// PostDict is the JSON shape served by the public API.
type PostDict struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	Author      string   `json:"author"`
	PostType    string   `json:"post_type"`
	PostStatus  string   `json:"post_status"`
	PostParent  *string  `json:"post_parent"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	CreatedAt   *string  `json:"created_at"`
	UpdatedAt   *string  `json:"updated_at"`
	PublishedAt *string  `json:"published_at"`
}

func (p *Post) ToDict() PostDict {
	d := PostDict{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		Author:      p.Author,
		PostType:    p.PostType,
		PostStatus:  p.PostStatus,
		PostParent:  p.PostParent,
		Published:   p.Published(),
		Featured:    p.Featured,
		CreatedAt:   isoTime(&p.CreatedAt),
		UpdatedAt:   isoTime(&p.UpdatedAt),
		PublishedAt: isoTime(p.PublishedAt),
	}

	if p.Category != nil {
		name := p.Category.Name
		d.Category = &name
	}

	for _, tag := range p.Tags {
		d.Tags = append(d.Tags, tag.Name)
	}

	return d
}

func isoTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type CreatePostRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Slug        string            `json:"slug" validate:"max=200"`
	Content     string            `json:"content" validate:"required"`
	Excerpt     string            `json:"excerpt" validate:"max=500"`
	Author      string            `json:"author" validate:"max=100"`
	PostType    string            `json:"postType" validate:"max=50"`
	PostStatus  string            `json:"postStatus" validate:"omitempty,oneof=draft publish private"`
	PostParent  *string           `json:"postParent"`
	Featured    bool              `json:"featured"`
	CategoryID  *string           `json:"categoryId"`
	Tags        *string           `json:"tags"`
	PublishedAt *time.Time        `json:"publishedAt"`
	Meta        map[string]string `json:"meta"`
}

// UpdatePostRequest carries only the fields to change; nil means "leave as is".
type UpdatePostRequest struct {
	Title         *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Slug          *string           `json:"slug" validate:"omitempty,max=200"`
	Content       *string           `json:"content" validate:"omitempty,min=1"`
	Excerpt       *string           `json:"excerpt" validate:"omitempty,max=500"`
	Author        *string           `json:"author" validate:"omitempty,max=100"`
	PostStatus    *string           `json:"postStatus" validate:"omitempty,oneof=draft publish private"`
	PostParent    *string           `json:"postParent"`
	ClearParent   bool              `json:"clearParent"`
	Featured      *bool             `json:"featured"`
	CategoryID    *string           `json:"categoryId"`
	ClearCategory bool              `json:"clearCategory"`
	Tags          *string           `json:"tags"`
	PublishedAt   *time.Time        `json:"publishedAt"`
	Meta          map[string]string `json:"meta"`
}
