package services

import (
	"path"
	"strings"
)

var extensionCategories = map[string]string{
	"js":         "JavaScript",
	"jsx":        "React JSX",
	"mjs":        "JavaScript",
	"ts":         "TypeScript",
	"tsx":        "React TSX",
	"py":         "Python",
	"go":         "Go",
	"java":       "Java",
	"kt":         "Kotlin",
	"rb":         "Ruby",
	"rs":         "Rust",
	"php":        "PHP",
	"cs":         "C#",
	"c":          "C",
	"h":          "C Header",
	"cpp":        "C++",
	"swift":      "Swift",
	"scala":      "Scala",
	"sh":         "Shell Script",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"scss":       "SCSS",
	"vue":        "Vue Component",
	"json":       "JSON",
	"yml":        "YAML Config",
	"yaml":       "YAML Config",
	"toml":       "TOML Config",
	"xml":        "XML",
	"md":         "Markdown",
	"txt":        "Text",
	"proto":      "Protocol Buffers",
	"graphql":    "GraphQL",
	"dockerfile": "Docker",
	"tf":         "Terraform",
}

// fileExtension is the lowercased text after the last dot of the base name, or "" when there is none.
// Dotfiles such as ".env" count as extension "env".
func fileExtension(filename string) string {
	base := path.Base(filename)
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		if strings.EqualFold(base, "dockerfile") {
			return "dockerfile"
		}
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// fileCategory maps a filename to a human category. Unknown extensions render as "<EXT> File".
func fileCategory(filename string) string {
	ext := fileExtension(filename)
	if category, ok := extensionCategories[ext]; ok {
		return category
	}
	if ext == "" {
		return "File"
	}
	return strings.ToUpper(ext) + " File"
}
