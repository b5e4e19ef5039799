package types

// Topic is a named discussion category that articles are filed under.
type Topic struct {
	// Slug is the unique, URL-safe name of the topic.
	Slug string `json:"slug" db:"slug"`

	// Description is a short human-readable summary of the topic.
	Description string `json:"description" db:"description"`
}
