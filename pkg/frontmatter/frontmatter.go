package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---(?:\r?\n(.*))?$`)

// Frontmatter is the subset of a markdown document's YAML header the store surfaces.
type Frontmatter struct {
	Title   string     `yaml:"title"`
	Aliases StringList `yaml:"aliases"`
	Tags    StringList `yaml:"tags"`
}

// StringList accepts either a YAML sequence of strings or a single scalar,
// which may itself be a comma-separated list.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Parse extracts frontmatter from content and returns the parsed data and body.
// Content without a frontmatter block returns a nil Frontmatter and no error.
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	fm.Tags = MergeTags(fm.Tags)
	fm.Aliases = MergeTags(fm.Aliases)

	return &fm, matches[2], nil
}

// MergeTags combines multiple tag sources, trimming a leading '#' and dropping
// empty entries and duplicates.
func MergeTags(sources ...[]string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, tags := range sources {
		for _, tag := range tags {
			tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
			if tag != "" && !seen[tag] {
				seen[tag] = true
				result = append(result, tag)
			}
		}
	}

	return result
}
