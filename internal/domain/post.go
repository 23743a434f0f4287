package domain

import "time"

// MediaKind is the closed set of media shapes a post can resolve to.
// It is decided exactly once, by the media resolver; everything downstream
// switches on the tag and never re-inspects the post.
type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindGallery MediaKind = "gallery"
	KindVideo   MediaKind = "video"
	KindUnknown MediaKind = "unknown"
)

// SortMode represents the listing sort order requested from the feed
type SortMode string

const (
	SortHot SortMode = "hot"
	SortNew SortMode = "new"
	SortTop SortMode = "top"
)

// TimeWindow represents the time filter for the "top" sort mode
type TimeWindow string

const (
	WindowHour  TimeWindow = "hour"
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// ValidateSortMode checks if a sort mode is valid
func ValidateSortMode(mode SortMode) bool {
	return mode == SortHot || mode == SortNew || mode == SortTop
}

// ValidateTimeWindow checks if a time window is valid
func ValidateTimeWindow(window TimeWindow) bool {
	switch window {
	case WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return true
	}
	return false
}

// GalleryItem is one image of a gallery post, in gallery order.
type GalleryItem struct {
	URL string
	Ext string
}

// Post is an immutable content item from a feed listing. It is created by
// the API client from a raw listing response and consumed read-only by the
// filter and the resolver.
type Post struct {
	ID        string
	Subreddit string
	Title     string
	Score     int
	CreatedAt time.Time

	// URL is the primary media reference (the post link).
	URL string

	// Kind hints from the listing. The resolver turns these into a MediaKind.
	IsVideo   bool
	IsGallery bool

	// VideoURL is the fallback stream URL for video posts.
	VideoURL string

	// HasAudio indicates a separately hosted audio track may exist.
	HasAudio bool

	// GalleryItems are the gallery images in display order, empty otherwise.
	GalleryItems []GalleryItem
}
