package models

// LinkRecord is one shortened link kept in the local store. The JSON field
// names are part of the persisted format and must not change.
type LinkRecord struct {
	ID          string `json:"id" format:"uuid"`
	OriginalURL string `json:"originalUrl"`
	// Alias is the slug granted by the shortening service, which may differ
	// from the one requested.
	Alias     string `json:"alias"`
	ShortURL  string `json:"shortUrl"`
	CreatedAt int64  `json:"createdAt"`
	// Clicks is never incremented locally; the shortening service owns click tracking.
	Clicks      int  `json:"clicks"`
	AIGenerated bool `json:"aiGenerated"`
}
