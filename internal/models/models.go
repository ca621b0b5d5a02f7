package models

import (
	"time"
)

type User struct {
	UserID    string     `json:"userId" db:"user_id"`
	GitHubID  string     `json:"githubId" db:"github_id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AvatarURL string     `json:"avatarUrl" db:"avatar_url"`
	IsAdmin   bool       `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	LastLogin *time.Time `json:"lastLogin" db:"last_login"`
}

// GitHubIdentity is the profile returned by the OAuth provider after a successful login.
type GitHubIdentity struct {
	GitHubID  string
	Username  string
	Email     string
	AvatarURL string
}

type PostMeta struct {
	MetaID    string `json:"metaId" db:"meta_id"`
	PostID    string `json:"postId" db:"post_id"`
	MetaKey   string `json:"metaKey" db:"meta_key"`
	MetaValue string `json:"metaValue" db:"meta_value"`
}

type PostType struct {
	Name                  string `json:"name" db:"name" validate:"required,max=50"`
	Label                 string `json:"label" db:"label" validate:"required,max=100"`
	SingularLabel         string `json:"singularLabel" db:"singular_label" validate:"required,max=100"`
	Description           string `json:"description" db:"description"`
	Hierarchical          bool   `json:"hierarchical" db:"hierarchical"`
	HasArchive            bool   `json:"hasArchive" db:"has_archive"`
	SupportsCategories    bool   `json:"supportsCategories" db:"supports_categories"`
	SupportsTags          bool   `json:"supportsTags" db:"supports_tags"`
	SupportsExcerpt       bool   `json:"supportsExcerpt" db:"supports_excerpt"`
	SupportsFeaturedImage bool   `json:"supportsFeaturedImage" db:"supports_featured_image"`
	MenuIcon              string `json:"menuIcon" db:"menu_icon"`
	MenuPosition          int    `json:"menuPosition" db:"menu_position"`
	Public                bool   `json:"public" db:"public"`
}

type Category struct {
	ID        string    `json:"id" db:"category_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Tag struct {
	ID        string    `json:"id" db:"tag_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Setting struct {
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Image struct {
	ImageID    string    `json:"imageId" db:"image_id"`
	PostID     *string   `json:"postId" db:"post_id"`
	UserID     *string   `json:"userId" db:"user_id"`
	ObjectName string    `json:"objectName" db:"object_name"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Posts       map[string]int `json:"posts"`
	Categories  int            `json:"categories"`
	Tags        int            `json:"tags"`
	CountTables int            `json:"countTables"`
}

// TaxonomyRequest creates or renames a category or a tag. An empty slug is derived from the name.
type TaxonomyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"max=100"`
}

const (
	SettingImageMaxWidth  = "image_max_width"
	SettingImageMaxHeight = "image_max_height"
	SettingImageQuality   = "image_quality"
)

// ImageSettings controls how uploaded images are resized and re-encoded.
type ImageSettings struct {
	MaxWidth  int `json:"maxWidth" validate:"min=100,max=4000"`
	MaxHeight int `json:"maxHeight" validate:"min=100,max=4000"`
	Quality   int `json:"quality" validate:"min=1,max=100"`
}
