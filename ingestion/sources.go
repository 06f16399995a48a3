// Package ingestion pulls perspectives from RSS sources and Kafka into the store.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fullpicture/types"

	"gopkg.in/yaml.v3"
)

// Source is one outlet to ingest and the community its coverage is filed under
type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Community string `yaml:"community"`
}

// SourcesFile is the on-disk sources.yaml layout
type SourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// DefaultSources is used when no sources file is configured.
var DefaultSources = []Source{
	{Name: "The Guardian", URL: "https://www.theguardian.com/world/rss", Community: "left"},
	{Name: "BBC News", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Community: "center"},
	{Name: "Fox News", URL: "https://moxie.foxnews.com/google-publisher/politics.xml", Community: "right"},
	{Name: "Channel News Asia", URL: "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml", Community: "international"},
	{Name: "Straits Times", URL: "https://www.straitstimes.com/news/world/rss.xml", Community: "international"},
	{Name: "r/politics", URL: "https://www.reddit.com/r/politics/.rss", Community: "social"},
}

// LoadSources reads and validates a sources file. An empty path yields DefaultSources.
func LoadSources(path string) ([]Source, error) {
	if path == "" {
		return DefaultSources, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes sources.yaml content
func ParseSources(data []byte) ([]Source, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, errors.New("sources file lists no sources")
	}

	for i := range file.Sources {
		if err := file.Sources[i].Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}
	return file.Sources, nil
}

// Validate checks the source has a name, a URL and a recognised community
func (s *Source) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.URL = strings.TrimSpace(s.URL)
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("%s: url is required", s.Name)
	}
	if _, ok := types.ClassifyLeaning(s.Community); !ok {
		return fmt.Errorf("%s: unknown community %q", s.Name, s.Community)
	}
	return nil
}
