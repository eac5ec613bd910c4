package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MappingFile holds rename tables read from a YAML, JSON or TOML file:
//
//	assignee:
//	  - "jdoe::john.doe"
//	status:
//	  - "in progress::In Progress"
//	tag:
//	  - "bug::Bug"
//
// Entries use the same key::value form as the command line so that keys
// keep their case until BuildMapping lowercases them.
type MappingFile struct {
	Assignee []string
	Status   []string
	Tag      []string
}

// LoadMappingFile reads path. The format follows the file extension.
func LoadMappingFile(path string) (MappingFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return MappingFile{}, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	return MappingFile{
		Assignee: v.GetStringSlice("assignee"),
		Status:   v.GetStringSlice("status"),
		Tag:      v.GetStringSlice("tag"),
	}, nil
}
