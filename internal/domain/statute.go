package domain

// StatuteSection is one row of the labour-law corpus. Text is immutable;
// the embedding is populated exactly once by the ingestion job, and a section
// becomes eligible for retrieval only after that.
type StatuteSection struct {
	ID            int64     `json:"id"`
	SectionNumber string    `json:"section_number"`
	Text          string    `json:"text"`
	Embedding     []float32 `json:"embedding,omitempty"`
}

// SectionMatch is a retrieved passage with its similarity score in [0,1].
// Transient; produced per query and never persisted.
type SectionMatch struct {
	SectionNumber string  `json:"section_number"`
	Text          string  `json:"text"`
	Similarity    float64 `json:"similarity"`
}
