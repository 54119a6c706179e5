package domain

import "time"

// Napp describe los metadatos de una network application publicada.
type Napp struct {
	ID              string    `json:"id"`
	Author          string    `json:"author"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description,omitempty"`
	Version         string    `json:"version"`
	License         string    `json:"license"`
	Git             string    `json:"git"`
	Branch          string    `json:"branch"`
	Readme          string    `json:"readme,omitempty"`
	OFVersions      []string  `json:"ofversions"`
	Tags            []string  `json:"tags"`
	Dependencies    []string  `json:"dependencies"`
	CreatedAt       time.Time `json:"created_at"`
}
