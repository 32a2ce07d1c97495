package mcpserver

import (
	"encoding/json"
)

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository contains source repository information.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package describes how to install and launch the server.
type Package struct {
	RegistryType     string     `json:"registryType"`
	Identifier       string     `json:"identifier"`
	PackageArguments []Argument `json:"packageArguments,omitempty"`
	Transport        Transport  `json:"transport"`
}

// Argument is a command-line argument.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Transport names the communication method.
type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders server.json for version.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	return json.MarshalIndent(Manifest{
		Schema:      "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json",
		Name:        "io.github.panbanda/jsprune",
		Description: "Remove unused named functions from library JavaScript based on application call sites",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/jsprune",
			Source: "github",
		},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       "ghcr.io/panbanda/jsprune:" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			Transport:        Transport{Type: "stdio"},
		}},
	}, "", "  ")
}
