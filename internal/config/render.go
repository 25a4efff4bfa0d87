package config

import (
	"fmt"
	"sort"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var lines []string
	lines = append(lines, "# markmapview configuration (TOML)", "")
	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		lines = appendOption(lines, o)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML adds missing defaults to an existing TOML document and comments
// out keys that are no longer part of the option table. Missing keys land at
// the end of their section, or in a new section appended to the file. It
// reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	// sectionEnd maps a section ("" is the top level) to the index just past
	// its last non-blank line in out.
	sectionEnd := map[string]int{"": 0}
	section := ""
	changed := false
	out := make([]string, 0)
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "":
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "#"):
			out = append(out, line)
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
		default:
			key, ok := parseTOMLKey(trim)
			if ok && section != "" {
				key = section + "." + key
			}
			if ok {
				seen[key] = true
			}
			if ok && !known[key] {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
				changed = true
			} else {
				out = append(out, line)
			}
		}
		sectionEnd[section] = len(out)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	top, sections, order := groupOptions(missing)
	inserts := make(map[int][]string)
	for _, o := range top {
		inserts[sectionEnd[""]] = appendOption(inserts[sectionEnd[""]], o)
	}
	var appended []string
	for _, name := range order {
		at, exists := sectionEnd[name]
		if !exists {
			appended = append(appended, "", "# Added by config update", "["+name+"]")
			for _, o := range sections[name] {
				appended = appendOption(appended, o)
			}
			continue
		}
		for _, o := range sections[name] {
			inserts[at] = appendOption(inserts[at], o)
		}
	}

	positions := make([]int, 0, len(inserts))
	for at := range inserts {
		positions = append(positions, at)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	for _, at := range positions {
		block := inserts[at]
		if at > 0 {
			block = append([]string{""}, block...)
		}
		out = append(out[:at], append(block, out[at:]...)...)
	}
	out = append(out, appended...)
	return strings.Join(out, "\n"), true
}

func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key[:1], `["'`) {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, fmt.Sprintf("%s = %s", o.Key, tomlValue(o.Default)), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
