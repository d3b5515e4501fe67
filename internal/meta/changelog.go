package meta

import (
	"regexp"
	"strings"
)

type ChangelogVersion struct {
	Version  string   `json:"version"`
	Date     *string  `json:"date"`
	Added    []string `json:"added"`
	Changed  []string `json:"changed"`
	Fixed    []string `json:"fixed"`
	Security []string `json:"security"`
}

type ChangelogResponse struct {
	Markdown string             `json:"markdown"`
	Versions []ChangelogVersion `json:"versions"`
}

var (
	versionRe = regexp.MustCompile(`^## \[([^\]]+)\](?:\s*-\s*(.+))?`)
	sectionRe = regexp.MustCompile(`(?i)^### (Added|Changed|Fixed|Security|Deprecated|Removed)`)
	itemRe    = regexp.MustCompile(`^- (.+)$`)
)

// ParseChangelog turns keep-a-changelog flavored markdown into
// structured version entries. Unknown sections are skipped.
func ParseChangelog(content string) []ChangelogVersion {
	versions := []ChangelogVersion{}
	var current *ChangelogVersion
	section := ""

	for _, line := range strings.Split(content, "\n") {
		if m := versionRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				versions = append(versions, *current)
			}
			v := ChangelogVersion{
				Version:  m[1],
				Added:    []string{},
				Changed:  []string{},
				Fixed:    []string{},
				Security: []string{},
			}
			if m[2] != "" {
				date := m[2]
				v.Date = &date
			}
			current = &v
			section = ""
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil && current != nil {
			section = strings.ToLower(m[1])
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil && current != nil && section != "" {
			switch section {
			case "added":
				current.Added = append(current.Added, m[1])
			case "changed":
				current.Changed = append(current.Changed, m[1])
			case "fixed":
				current.Fixed = append(current.Fixed, m[1])
			case "security":
				current.Security = append(current.Security, m[1])
			}
		}
	}

	if current != nil {
		versions = append(versions, *current)
	}
	return versions
}
