package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxResults is how many search candidates are evaluated by default.
	DefaultMaxResults = 10
	// MinMaxResults and MaxMaxResults bound the candidate cap.
	MinMaxResults = 5
	MaxMaxResults = 50

	DefaultBaseURL       = "http://www.databazeknih.cz/"
	DefaultSearchTimeout = 30 * time.Second
	DefaultDetailTimeout = 20 * time.Second
	DefaultCoverTimeout  = 30 * time.Second
	DefaultRateLimit     = 5
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// Global configuration variables
var (
	// MaxResults caps the number of search candidates fetched per identify call
	MaxResults = DefaultMaxResults
	// BaseURL is the root of the book database site, with a trailing slash
	BaseURL = DefaultBaseURL
	// SearchTimeout bounds the search request
	SearchTimeout = DefaultSearchTimeout
	// DetailTimeout bounds each detail page and auxiliary ISBN request
	DetailTimeout = DefaultDetailTimeout
	// CoverTimeout bounds the cover image download
	CoverTimeout = DefaultCoverTimeout
	// RateLimit is the allowed number of requests per second
	RateLimit = DefaultRateLimit
	// UserAgent is sent with every HTTP request
	UserAgent = DefaultUserAgent
	// OverwriteFiles controls whether existing output files are replaced
	OverwriteFiles bool
)

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("databazeknih.maxresults", DefaultMaxResults)
	viper.SetDefault("databazeknih.baseurl", DefaultBaseURL)
	viper.SetDefault("databazeknih.searchtimeout", DefaultSearchTimeout)
	viper.SetDefault("databazeknih.detailtimeout", DefaultDetailTimeout)
	viper.SetDefault("databazeknih.covertimeout", DefaultCoverTimeout)
	viper.SetDefault("databazeknih.ratelimit", DefaultRateLimit)
	viper.SetDefault("databazeknih.useragent", DefaultUserAgent)
	viper.SetDefault("OverwriteFiles", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	MaxResults = ClampMaxResults(viper.GetInt("databazeknih.maxresults"))
	BaseURL = normalizeBaseURL(viper.GetString("databazeknih.baseurl"))
	SearchTimeout = positiveOr(viper.GetDuration("databazeknih.searchtimeout"), DefaultSearchTimeout)
	DetailTimeout = positiveOr(viper.GetDuration("databazeknih.detailtimeout"), DefaultDetailTimeout)
	CoverTimeout = positiveOr(viper.GetDuration("databazeknih.covertimeout"), DefaultCoverTimeout)
	RateLimit = viper.GetInt("databazeknih.ratelimit")
	UserAgent = viper.GetString("databazeknih.useragent")
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// ClampMaxResults keeps n within [MinMaxResults, MaxMaxResults]; zero means the default.
func ClampMaxResults(n int) int {
	switch {
	case n == 0:
		return DefaultMaxResults
	case n < MinMaxResults:
		return MinMaxResults
	case n > MaxMaxResults:
		return MaxMaxResults
	}
	return n
}

// SetMaxResults overrides the candidate cap, clamped to the allowed range
func SetMaxResults(n int) {
	MaxResults = ClampMaxResults(n)
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

func normalizeBaseURL(u string) string {
	if u == "" {
		return DefaultBaseURL
	}
	if u[len(u)-1] != '/' {
		u += "/"
	}
	return u
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
