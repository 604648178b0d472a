// Package classify maps file names to document kinds.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-folio/pkg/models"
)

// LanguageText is the language of plain-text files with no registered language.
const LanguageText = "text"

// SynctexSuffix is matched before the generic extension lookup.
const SynctexSuffix = ".synctex.gz"

type entry struct {
	kind     models.DocumentKind
	language string
}

func code(language string) entry {
	return entry{kind: models.KindCode, language: language}
}

// extensions is the static extension table, keyed by lowercase extension without the dot.
var extensions = map[string]entry{
	"md":       {kind: models.KindMarkdown},
	"markdown": {kind: models.KindMarkdown},
	"mdown":    {kind: models.KindMarkdown},
	"mkd":      {kind: models.KindMarkdown},

	"pdf": {kind: models.KindPDF},

	"png":  {kind: models.KindImage},
	"jpg":  {kind: models.KindImage},
	"jpeg": {kind: models.KindImage},
	"gif":  {kind: models.KindImage},
	"webp": {kind: models.KindImage},
	"svg":  {kind: models.KindImage},
	"bmp":  {kind: models.KindImage},
	"ico":  {kind: models.KindImage},
	"avif": {kind: models.KindImage},

	"mp4":  {kind: models.KindVideo},
	"webm": {kind: models.KindVideo},
	"mov":  {kind: models.KindVideo},
	"m4v":  {kind: models.KindVideo},
	"ogv":  {kind: models.KindVideo},
	"mkv":  {kind: models.KindVideo},

	"html": {kind: models.KindHTML},
	"htm":  {kind: models.KindHTML},

	"ipynb": {kind: models.KindNotebook},

	"py":   code("python"),
	"sh":   code("shell"),
	"bash": code("shell"),
	"zsh":  code("shell"),
	"tex":  code("latex"),
	"sty":  code("latex"),
	"cls":  code("latex"),
	"bib":  code("latex"),
	"js":   code("javascript"),
	"mjs":  code("javascript"),
	"cjs":  code("javascript"),
	"jsx":  code("javascript"),
	"ts":   code("typescript"),
	"tsx":  code("typescript"),
	"go":   code("go"),
	"rs":   code("rust"),
	"c":    code("c"),
	"h":    code("c"),
	"cpp":  code("cpp"),
	"cc":   code("cpp"),
	"hpp":  code("cpp"),
	"java": code("java"),
	"rb":   code("ruby"),
	"json": code("json"),
	"yaml": code("yaml"),
	"yml":  code("yaml"),
	"toml": code("toml"),
	"css":  code("css"),
	"sql":  code("sql"),
	"r":    code("r"),
	"jl":   code("julia"),
	"lua":  code("lua"),

	// Plain text without a registered language.
	"txt":  code(LanguageText),
	"log":  code(LanguageText),
	"csv":  code(LanguageText),
	"tsv":  code(LanguageText),
	"ini":  code(LanguageText),
	"cfg":  code(LanguageText),
	"conf": code(LanguageText),
	"env":  code(LanguageText),
	"rst":  code(LanguageText),
	"org":  code(LanguageText),
	"adoc": code(LanguageText),
	"aux":  code(LanguageText),
	"out":  code(LanguageText),
	"toc":  code(LanguageText),
	"bbl":  code(LanguageText),
	"blg":  code(LanguageText),
}

// Extension returns the lowercase extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Classify returns the kind of the file called name and, for code, its
// language. Names ending in .synctex.gz are plain text regardless of the
// outer extension. Unknown extensions are unsupported.
func Classify(name string) (models.DocumentKind, string) {
	if strings.HasSuffix(strings.ToLower(name), SynctexSuffix) {
		return models.KindCode, LanguageText
	}
	e, ok := extensions[Extension(name)]
	if !ok {
		return models.KindUnsupported, ""
	}
	return e.kind, e.language
}

// IsTextLike reports whether documents of kind carry their full text content.
func IsTextLike(kind models.DocumentKind) bool {
	return kind == models.KindMarkdown || kind == models.KindCode
}

// IsEditable reports whether the editor may open a document for writing.
// Markdown is always editable; code only when it has a language, which every
// text extension has because unregistered ones default to "text".
func IsEditable(kind models.DocumentKind, language string) bool {
	switch kind {
	case models.KindMarkdown:
		return true
	case models.KindCode:
		return language != ""
	default:
		return false
	}
}

// IsTextName reports whether name already carries a text-like extension.
func IsTextName(name string) bool {
	kind, _ := Classify(name)
	return IsTextLike(kind)
}
