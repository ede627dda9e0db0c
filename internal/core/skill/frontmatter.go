package skill

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const skillFileName = "SKILL.md"

// frontmatter is the YAML header of a SKILL.md file.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Metadata    struct {
		Author  string `yaml:"author,omitempty"`
		Version string `yaml:"version,omitempty"`
	} `yaml:"metadata,omitempty"`
}

// parseFrontmatter reads the YAML block between the leading --- lines.
func parseFrontmatter(r io.Reader) (*frontmatter, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, errors.New("empty SKILL.md")
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil, errors.New("no frontmatter in SKILL.md")
	}

	var b strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading SKILL.md: %w", err)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(b.String()), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if fm.Name == "" {
		return nil, errors.New("SKILL.md missing name field")
	}
	return &fm, nil
}
