package reddit

// Wire types mimicking reddit.com listing responses. Only the fields the
// pipeline consumes are declared.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type listingResponse struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []child `json:"children"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	URL        string  `json:"url"`
	IsVideo    bool    `json:"is_video"`
	IsGallery  bool    `json:"is_gallery"`

	Media struct {
		RedditVideo struct {
			FallbackURL string `json:"fallback_url"`
			HasAudio    bool   `json:"has_audio"`
			Height      int    `json:"height"`
			Width       int    `json:"width"`
			Duration    int    `json:"duration"`
			IsGif       bool   `json:"is_gif"`
		} `json:"reddit_video"`
	} `json:"media"`

	GalleryData struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`

	MediaMetadata map[string]struct {
		Status string `json:"status"`
		Mime   string `json:"m"`
		Source struct {
			URL string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`
}
