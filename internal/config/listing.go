package config

import "time"

// ListingConfig tunes the catalog loader and live search.
type ListingConfig struct {
	// LoadDelay is an artificial latency in front of the catalog loader,
	// used in demos to exercise the loading states of the client.
	LoadDelay time.Duration
	// SearchDebounce is the quiet period of the live search socket.
	SearchDebounce time.Duration
}

func LoadListingConfig() ListingConfig {
	return ListingConfig{
		LoadDelay:      envDur("CATALOG_DELAY", 0),
		SearchDebounce: envDur("SEARCH_DEBOUNCE", 300*time.Millisecond),
	}
}
