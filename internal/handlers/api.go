package handlers

import (
	_ "embed"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var endpointsYAML []byte

// Endpoint describes one route in the catalog served at GET /api.
type Endpoint struct {
	Description string         `yaml:"description" json:"description"`
	Auth        bool           `yaml:"auth" json:"auth"`
	Queries     []string       `yaml:"queries,omitempty" json:"queries,omitempty"`
	Body        []string       `yaml:"body,omitempty" json:"body,omitempty"`
	Example     map[string]any `yaml:"example,omitempty" json:"example,omitempty"`
}

// LoadEndpoints parses the embedded catalog.
func LoadEndpoints() (map[string]Endpoint, error) {
	endpoints := map[string]Endpoint{}
	if err := yaml.Unmarshal(endpointsYAML, &endpoints); err != nil {
		return nil, fmt.Errorf("parse endpoints catalog: %w", err)
	}
	return endpoints, nil
}

// EndpointsHandler serves a fixed catalog.
func EndpointsHandler(endpoints map[string]Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, EndpointsResponse{Endpoints: endpoints})
	}
}

type EndpointsResponse struct {
	Endpoints map[string]Endpoint `json:"endpoints"`
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
