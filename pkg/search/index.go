package search

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-folio/pkg/classify"
	"github.com/mattsolo1/grove-folio/pkg/models"
)

const (
	defaultLimit  = 50
	schemaVersion = 1
)

// Index manages the search index
type Index struct {
	db     *sql.DB
	useFTS bool
}

// Result is one search hit.
type Result struct {
	ID      string              `json:"id"`
	Root    string              `json:"root"`
	Path    string              `json:"path"`
	Title   string              `json:"title"`
	Kind    models.DocumentKind `json:"kind"`
	Snippet string              `json:"snippet"`
}

// Options for searching
type Options struct {
	Root  string
	Kind  models.DocumentKind
	Limit int
}

// NewIndex creates a new search index
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", dbPath, err)
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize index %s: %w", dbPath, err)
	}

	return idx, nil
}

// UsesFTS reports whether queries run against the FTS5 table.
func (idx *Index) UsesFTS() bool {
	return idx.useFTS
}

// init creates the database schema
func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	if err := idx.migrate(); err != nil {
		return err
	}

	metaSchema := `
	CREATE TABLE IF NOT EXISTS documents_meta (
		id TEXT NOT NULL,
		root TEXT NOT NULL,
		path TEXT NOT NULL,
		kind TEXT,
		language TEXT,
		title TEXT,
		content TEXT,
		tags TEXT,
		updated_at TIMESTAMP,
		PRIMARY KEY (root, id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_meta_root ON documents_meta(root);
	CREATE INDEX IF NOT EXISTS idx_documents_meta_kind ON documents_meta(kind);
	`

	if _, err := idx.db.Exec(metaSchema); err != nil {
		return err
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			id UNINDEXED,
			root UNINDEXED,
			title,
			content,
			tags,
			tokenize = 'porter unicode61'
		);
		`

		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// Fall back to LIKE queries over the metadata table.
			idx.useFTS = false
		}
	}

	return nil
}

// migrate drops tables written by an older schema. The index is derived
// data, so it is rebuilt on the next index run.
func (idx *Index) migrate() error {
	var version int
	if err := idx.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	stmts := []string{
		"DROP TABLE IF EXISTS documents_meta",
		"DROP TABLE IF EXISTS documents_fts",
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := idx.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// checkFTS5Support checks if FTS5 module is available
func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}

	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// IndexSnapshot replaces every indexed document under root with the
// text-like documents in docs. It returns the number of documents indexed.
func (idx *Index) IndexSnapshot(root string, docs []*models.DocumentRecord) (int, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteRoot(tx, root, idx.useFTS); err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		if !classify.IsTextLike(doc.Kind) {
			continue
		}
		tags := strings.Join(doc.Tags, " ")

		if idx.useFTS {
			_, err = tx.Exec(`
				INSERT INTO documents_fts (id, root, title, content, tags)
				VALUES (?, ?, ?, ?, ?)
			`, doc.ID, root, doc.Title, doc.Text(), tags)
			if err != nil {
				return 0, fmt.Errorf("index %s: %w", doc.AbsolutePath, err)
			}
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO documents_meta (
				id, root, path, kind, language, title, content, tags, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.ID, root, doc.AbsolutePath, string(doc.Kind), doc.Language,
			doc.Title, doc.Text(), tags, doc.UpdatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return 0, fmt.Errorf("index %s: %w", doc.AbsolutePath, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// RemoveRoot removes every document indexed under root.
func (idx *Index) RemoveRoot(root string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteRoot(tx, root, idx.useFTS); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteRoot(tx *sql.Tx, root string, useFTS bool) error {
	if useFTS {
		if _, err := tx.Exec("DELETE FROM documents_fts WHERE root = ?", root); err != nil {
			return err
		}
	}
	_, err := tx.Exec("DELETE FROM documents_meta WHERE root = ?", root)
	return err
}

// Search performs a full-text search
func (idx *Index) Search(query string, opts *Options) ([]*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}

	terms := strings.Fields(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	if idx.useFTS {
		return idx.searchWithFTS(terms, opts)
	}
	return idx.searchWithoutFTS(terms, opts)
}

// searchWithFTS performs search using FTS5
func (idx *Index) searchWithFTS(terms []string, opts *Options) ([]*Result, error) {
	conditions, args := filters("m.", opts)

	searchQuery := fmt.Sprintf(`
		SELECT
			m.id, m.root, m.path, m.title, m.kind,
			snippet(documents_fts, 3, '<match>', '</match>', '...', 32) AS snippet
		FROM documents_fts f
		JOIN documents_meta m ON f.id = m.id AND f.root = m.root
		WHERE documents_fts MATCH ?%s
		ORDER BY rank
		LIMIT ?
	`, conditions)

	args = append([]any{matchExpression(terms)}, args...)
	args = append(args, opts.Limit)

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*Result{}
	for rows.Next() {
		r := &Result{}
		var kind string
		if err := rows.Scan(&r.ID, &r.Root, &r.Path, &r.Title, &kind, &r.Snippet); err != nil {
			return nil, err
		}
		r.Kind = models.DocumentKind(kind)
		results = append(results, r)
	}

	return results, rows.Err()
}

// searchWithoutFTS performs search using LIKE queries on metadata table
func (idx *Index) searchWithoutFTS(terms []string, opts *Options) ([]*Result, error) {
	var (
		matches []string
		args    []any
	)
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		matches = append(matches, `(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	conditions, filterArgs := filters("", opts)
	args = append(args, filterArgs...)

	searchQuery := fmt.Sprintf(`
		SELECT id, root, path, title, kind, content
		FROM documents_meta
		WHERE %s%s
		ORDER BY updated_at DESC
		LIMIT ?
	`, strings.Join(matches, " AND "), conditions)

	args = append(args, opts.Limit)

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*Result{}
	for rows.Next() {
		r := &Result{}
		var kind, content string
		if err := rows.Scan(&r.ID, &r.Root, &r.Path, &r.Title, &kind, &content); err != nil {
			return nil, err
		}
		r.Kind = models.DocumentKind(kind)
		r.Snippet = excerpt(content, terms[0], 32)
		results = append(results, r)
	}

	return results, rows.Err()
}

func filters(prefix string, opts *Options) (string, []any) {
	var clause strings.Builder
	var args []any
	if opts.Root != "" {
		clause.WriteString(" AND " + prefix + "root = ?")
		args = append(args, opts.Root)
	}
	if opts.Kind != "" {
		clause.WriteString(" AND " + prefix + "kind = ?")
		args = append(args, string(opts.Kind))
	}
	return clause.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes term match literally inside a LIKE pattern escaped with '\'.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// matchExpression quotes every term so user input never reaches the FTS5
// query grammar. Terms are ANDed.
func matchExpression(terms []string) string {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// excerpt returns up to width runes on either side of the first
// case-insensitive occurrence of term.
func excerpt(content, term string, width int) string {
	lower := strings.ToLower(content)
	at := strings.Index(lower, strings.ToLower(term))
	if at < 0 || len(lower) != len(content) {
		at = 0
	}

	start := at
	for n := 0; start > 0 && n < width; n++ {
		_, size := utf8.DecodeLastRuneInString(content[:start])
		start -= size
	}
	end := at + len(term)
	if end > len(content) {
		end = len(content)
	}
	for n := 0; end < len(content) && n < width; n++ {
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}

	out := strings.Join(strings.Fields(content[start:end]), " ")
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
