package compose

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComposeFile represents a docker-compose.yaml file or the output of
// "docker compose config"
type ComposeFile struct {
	Version  string                     `yaml:"version"`
	Services Services                   `yaml:"services"`
	Networks map[string]*ComposeNetwork `yaml:"networks"`
	Volumes  map[string]*ComposeVolume  `yaml:"volumes"`
}

// ComposeService represents a service in docker-compose.yaml
type ComposeService struct {
	Name          string        // Service name from compose
	Image         string        `yaml:"image"`
	Build         *BuildConfig  `yaml:"build"`
	Command       StringOrSlice `yaml:"command"`
	Entrypoint    StringOrSlice `yaml:"entrypoint"`
	WorkingDir    string        `yaml:"working_dir"`
	Environment   Environment   `yaml:"environment"`
	Networks      StringOrSlice `yaml:"networks"`
	DependsOn     DependsOn     `yaml:"depends_on"`
	ContainerName string        `yaml:"container_name"`
}

// Active reports whether the service is explicitly enabled through
// environment.ACTIVATE
func (s *ComposeService) Active() bool {
	return s.Environment["ACTIVATE"] == "1"
}

// BuildConfig represents build configuration
type BuildConfig struct {
	Context    string            `yaml:"context"`
	Dockerfile string            `yaml:"dockerfile"`
	Args       map[string]string `yaml:"args"`
}

// UnmarshalYAML accepts both "build: ./path" and the long form
func (b *BuildConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		b.Context = value.Value
		return nil
	}

	type plain BuildConfig
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*b = BuildConfig(out)
	return nil
}

// ComposeNetwork represents a network definition
type ComposeNetwork struct {
	Driver string `yaml:"driver"`
}

// ComposeVolume represents a volume definition
type ComposeVolume struct {
	Driver string `yaml:"driver"`
}

// Services is the ordered list of services of a compose file. Order
// follows the YAML mapping.
type Services []*ComposeService

func (s *Services) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: services must be a mapping", value.Line)
	}

	out := make(Services, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		service := &ComposeService{}
		if err := value.Content[i+1].Decode(service); err != nil {
			return fmt.Errorf("service %s: %w", value.Content[i].Value, err)
		}
		service.Name = value.Content[i].Value
		out = append(out, service)
	}
	*s = out
	return nil
}

// Get returns the named service, or nil
func (s Services) Get(name string) *ComposeService {
	for _, service := range s {
		if service.Name == name {
			return service
		}
	}
	return nil
}

// Names returns the service names in order
func (s Services) Names() []string {
	names := make([]string, 0, len(s))
	for _, service := range s {
		names = append(names, service.Name)
	}
	return names
}

// StringOrSlice can be either a string or a slice of strings
type StringOrSlice []string

func (s *StringOrSlice) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	err := value.Decode(&multi)
	if err != nil {
		var single string
		err := value.Decode(&single)
		if err != nil {
			return err
		}
		*s = []string{single}
	} else {
		*s = multi
	}
	return nil
}

// DependsOn can be either a list of service names or a mapping of
// service names to conditions
type DependsOn []string

func (d *DependsOn) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*d = names
	case yaml.MappingNode:
		names := make([]string, 0, len(value.Content)/2)
		for i := 0; i < len(value.Content); i += 2 {
			names = append(names, value.Content[i].Value)
		}
		*d = names
	default:
		return fmt.Errorf("line %d: depends_on must be a list or a mapping", value.Line)
	}
	return nil
}

// Environment can be either a map or a slice of KEY=VALUE strings.
// Scalar values are kept verbatim, so ACTIVATE: 1 reads as "1".
type Environment map[string]string

func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	*e = make(map[string]string)

	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			v := value.Content[i+1]
			if v.Tag == "!!null" {
				(*e)[value.Content[i].Value] = ""
				continue
			}
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: environment values must be scalars", v.Line)
			}
			(*e)[value.Content[i].Value] = v.Value
		}
		return nil
	case yaml.SequenceNode:
		var envSlice []string
		if err := value.Decode(&envSlice); err != nil {
			return err
		}
		for _, env := range envSlice {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				(*e)[parts[0]] = parts[1]
			} else {
				// Environment variable without value
				(*e)[parts[0]] = ""
			}
		}
		return nil
	}

	return fmt.Errorf("environment must be a map or slice of strings")
}

// ParseComposeFile reads and parses a docker-compose.yaml file
func ParseComposeFile(path string) (*ComposeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading compose file: %w", err)
	}
	return ParseCompose(data)
}

// ParseCompose parses compose YAML already held in memory
func ParseCompose(data []byte) (*ComposeFile, error) {
	var compose ComposeFile
	if err := yaml.Unmarshal(data, &compose); err != nil {
		return nil, fmt.Errorf("parsing compose file: %w", err)
	}
	return &compose, nil
}
