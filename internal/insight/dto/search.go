package dto

// SearchDocument is the normalized shape every search-provider result is
// mapped into before it enters the core. Downstream code never sees the
// provider payload.
type SearchDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
}

// WebSearchRequest is the provider wire request.
type WebSearchRequest struct {
	SearchQuery         string `json:"search_query"`
	Count               int    `json:"count,omitempty"`
	SearchDomainFilter  string `json:"search_domain_filter,omitempty"`
	SearchRecencyFilter string `json:"search_recency_filter,omitempty"`
	ContentSize         string `json:"content_size,omitempty"`
}

// WebSearchResponse is the provider wire response. Providers are loose about
// which of the content fields they fill in, so all are decoded and the
// repository picks the first usable one.
type WebSearchResponse struct {
	SearchResult []WebSearchResult `json:"search_result"`
}

// WebSearchResult is one raw provider result.
type WebSearchResult struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	ContentSummary string `json:"content_summary"`
	Snippet        string `json:"snippet"`
	Link           string `json:"link"`
	URL            string `json:"url"`
}
