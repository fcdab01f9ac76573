package pipeline

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/venicegeo/bf-imagery-clip/model"
)

const defaultWorkers = 4

// JobConfig is the YAML-backed, process-wide run configuration shared
// read-only across every point's pipeline
type JobConfig struct {
	Radius     float64                           `yaml:"radius"`
	Bands      []string                          `yaml:"bands"`
	Collection string                            `yaml:"collection"`
	StartDate  string                            `yaml:"start_date"`
	EndDate    string                            `yaml:"end_date"`
	Platforms  []string                          `yaml:"platforms,omitempty"`
	Query      map[string]map[string]interface{} `yaml:"query,omitempty"`
	Workers    int                               `yaml:"workers,omitempty"`
}

// LoadJobConfig parses and validates a job configuration
func LoadJobConfig(source io.Reader) (*JobConfig, error) {
	config := JobConfig{}
	decoder := yaml.NewDecoder(source)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("could not parse job configuration: %w", err)
	}

	if config.Radius <= 0 {
		return nil, fmt.Errorf("job configuration needs a positive radius, got %v", config.Radius)
	}
	if len(config.Bands) == 0 {
		return nil, fmt.Errorf("job configuration names no band keys")
	}
	if config.Collection == "" {
		return nil, fmt.Errorf("job configuration names no collection")
	}
	for _, date := range []string{config.StartDate, config.EndDate} {
		if _, err := model.ParseStacTime(date); err != nil {
			return nil, fmt.Errorf("job configuration has an unusable date: %w", err)
		}
	}
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}
	return &config, nil
}

// QuerySpec renders the configuration as the immutable per-run query spec.
// A platform allow-list becomes a query-extension "in" filter unless the
// raw query already constrains the platform field.
func (c *JobConfig) QuerySpec() model.QuerySpec {
	query := map[string]map[string]interface{}{}
	for field, predicate := range c.Query {
		query[field] = predicate
	}
	if len(c.Platforms) > 0 {
		if _, exists := query["platform"]; !exists {
			allowed := make([]interface{}, len(c.Platforms))
			for i, platform := range c.Platforms {
				allowed[i] = platform
			}
			query["platform"] = map[string]interface{}{"in": allowed}
		}
	}

	return model.QuerySpec{
		Radius:     c.Radius,
		BandKeys:   append([]string{}, c.Bands...),
		Collection: c.Collection,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		Query:      query,
	}
}
