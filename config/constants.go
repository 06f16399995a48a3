package config

import "time"

// Search Constants
const (
	// DefaultDebounceDelay is how long input must stay quiet before a query is committed
	DefaultDebounceDelay = 300 * time.Millisecond

	// MinDebounceDelay and MaxDebounceDelay bound the configurable window
	MinDebounceDelay = 300 * time.Millisecond
	MaxDebounceDelay = 500 * time.Millisecond

	// DefaultQuery is committed for an empty search when the empty policy is "default"
	DefaultQuery = "politics economy world"
)

// Layout Constants
const (
	// WideViewportColumns is the terminal width at which all three leaning columns fit side by side
	WideViewportColumns = 120

	// QuoteWordLimit is the number of words shown on a collapsed card
	QuoteWordLimit = 30

	// RecentFeedLimit caps the homepage feed
	RecentFeedLimit = 30
)

// Comment Constants
const (
	// MaxCommentLength is the maximum number of characters accepted for a comment
	MaxCommentLength = 500
)

// HTTP Constants
const (
	// DefaultAPIURL is used when API_URL is not set
	DefaultAPIURL = "http://localhost:8000"

	// DefaultPort is the port the API server listens on
	DefaultPort = "8000"

	// ClientTimeout bounds every outbound API request
	ClientTimeout = 10 * time.Second

	// DefaultCacheTTL is how long a cached search result stays valid
	DefaultCacheTTL = 60 * time.Second
)

// Ingestion Constants
const (
	// IngestWorkerCount is the number of concurrent readability extractions
	IngestWorkerCount = 5

	// IngestItemsPerSource caps how many feed items are taken from each source
	IngestItemsPerSource = 20

	// ExtractorTimeout bounds a single readability extraction
	ExtractorTimeout = 30 * time.Second

	// MinQuoteWords is the summary length below which the article body is extracted
	MinQuoteWords = 20

	// KafkaTopic carries externally scraped perspectives
	KafkaTopic = "perspectives-ingest"

	// KafkaGroupID is the consumer group for KafkaTopic
	KafkaGroupID = "fullpicture-ingest"

	// SnapshotKey is the S3 object key for the published recent feed
	SnapshotKey = "recent.json"
)
