// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used when the corpus is fetched
// from a remote source.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-clusters/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CorpusConfig controls where the paper corpus comes from.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Source is a JSON file path, an http(s) URL serving a JSON array of
	// papers, or "openalex:<query>" to import matching works from OpenAlex.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// FetchLimit caps the number of works imported from OpenAlex.
	FetchLimit int `json:"fetch_limit" yaml:"fetch_limit" mapstructure:"fetch_limit"`

	// Mailto is sent to OpenAlex for polite pool access.
	Mailto string `json:"mailto" yaml:"mailto" mapstructure:"mailto"`

	// SampleSize is the number of papers generated when a file source is missing.
	SampleSize int `json:"sample_size" yaml:"sample_size" mapstructure:"sample_size"`

	// SampleSeed seeds the sample generator. Zero draws a time-based seed.
	SampleSeed int64 `json:"sample_seed" yaml:"sample_seed" mapstructure:"sample_seed"`
}

// VectorConfig configures the TF-IDF term matrix shared by the vector-space
// strategies.
type VectorConfig struct {
	// MaxFeatures caps the vocabulary at the most frequent terms.
	MaxFeatures int `json:"max_features" yaml:"max_features" mapstructure:"max_features"`

	// MinDF is the minimum number of documents a term must appear in.
	MinDF int `json:"min_df" yaml:"min_df" mapstructure:"min_df"`

	// MaxDF drops terms appearing in more than this fraction of documents.
	MaxDF float64 `json:"max_df" yaml:"max_df" mapstructure:"max_df"`

	// NGramMax is the longest n-gram included (1 = uni-grams only).
	NGramMax int `json:"ngram_max" yaml:"ngram_max" mapstructure:"ngram_max"`

	// StopWords removes English stop words before n-grams are formed.
	StopWords bool `json:"stop_words" yaml:"stop_words" mapstructure:"stop_words"`
}

// TopicConfig configures the generative topic model.
type TopicConfig struct {
	// MinDF is the minimum number of documents a token must appear in.
	MinDF int `json:"min_df" yaml:"min_df" mapstructure:"min_df"`

	// MaxDF drops tokens appearing in more than this fraction of documents.
	MaxDF float64 `json:"max_df" yaml:"max_df" mapstructure:"max_df"`

	// Passes is the number of full passes over the corpus (minimum 10).
	Passes int `json:"passes" yaml:"passes" mapstructure:"passes"`

	// Iterations bounds the per-document variational updates in each pass.
	Iterations int `json:"iterations" yaml:"iterations" mapstructure:"iterations"`
}

// ClusteringConfig holds settings for the clustering strategies.
type ClusteringConfig struct {
	// Method is the strategy used at startup: kmeans, hierarchical, or lda.
	Method string `json:"method" yaml:"method" mapstructure:"method"`

	// Clusters is the cluster count used at startup (2-20).
	Clusters int `json:"clusters" yaml:"clusters" mapstructure:"clusters"`

	// Seed drives every random choice so runs are reproducible.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// Restarts is the number of k-means initializations (minimum 10).
	Restarts int `json:"restarts" yaml:"restarts" mapstructure:"restarts"`

	// MaxIterations bounds Lloyd iterations per k-means restart.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`

	Vector VectorConfig `json:"vector" yaml:"vector" mapstructure:"vector"`
	Topic  TopicConfig  `json:"topic" yaml:"topic" mapstructure:"topic"`
}

// ServerConfig holds settings for the HTTP query API.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":9000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists the CORS origins permitted to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// ReclusterRate limits recluster requests per second. Zero disables the limit.
	ReclusterRate float64 `json:"recluster_rate" yaml:"recluster_rate" mapstructure:"recluster_rate"`
}

// ArchiveConfig holds settings for the SQLite run archive.
type ArchiveConfig struct {
	// Enabled records every published clustering run.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding the archive database and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all component configurations.
type Config struct {
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Clustering ClusteringConfig `json:"clustering" yaml:"clustering" mapstructure:"clustering"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive" mapstructure:"archive"`
}

// DefaultVectorConfig returns the TF-IDF settings used by the vector-space
// strategies: top 1000 terms, English stop words, uni- and bi-grams,
// min_df 2, max_df 0.8.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		MaxFeatures: 1000,
		MinDF:       2,
		MaxDF:       0.8,
		NGramMax:    2,
		StopWords:   true,
	}
}

// DefaultTopicConfig returns the topic model settings: min_df 2,
// max_df 0.5, 10 passes.
func DefaultTopicConfig() TopicConfig {
	return TopicConfig{
		MinDF:      2,
		MaxDF:      0.5,
		Passes:     10,
		Iterations: 50,
	}
}

// DefaultClusteringConfig returns the clustering defaults.
func DefaultClusteringConfig() ClusteringConfig {
	return ClusteringConfig{
		Method:        "kmeans",
		Clusters:      5,
		Seed:          42,
		Restarts:      10,
		MaxIterations: 300,
		Vector:        DefaultVectorConfig(),
		Topic:         DefaultTopicConfig(),
	}
}

// DefaultConfig returns a complete configuration with every default filled in.
func DefaultConfig() Config {
	return Config{
		Corpus: CorpusConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   60 * time.Second,
				UserAgent: "paper-clusters/0.1",
			},
			Source:     "data/sample_papers.json",
			FetchLimit: 200,
			SampleSize: 100,
		},
		Clustering: DefaultClusteringConfig(),
		Server: ServerConfig{
			Addr:           ":9000",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			ReclusterRate:  1,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Dir:     "data/archive",
		},
	}
}
