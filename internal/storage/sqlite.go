package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"noveltran/internal"
)

// SQLiteStore keeps all project data in a single embedded database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		author TEXT,
		genre TEXT,
		description TEXT,
		source_language TEXT,
		target_language TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chapters (
		project_id TEXT NOT NULL,
		chapter_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		title TEXT,
		content TEXT NOT NULL,
		summary TEXT,
		characters TEXT,
		terminology_keys TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (project_id, chapter_id),
		FOREIGN KEY (project_id) REFERENCES projects(id)
	);

	CREATE TABLE IF NOT EXISTS terminology (
		entry_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		source_term TEXT NOT NULL,
		approved_translation TEXT NOT NULL,
		variants TEXT,
		kind TEXT,
		part_of_speech TEXT,
		notes TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (project_id, entry_id),
		UNIQUE (project_id, source_term)
	);

	CREATE TABLE IF NOT EXISTS translations (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		chapter_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		content TEXT NOT NULL,
		validation TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (project_id, chapter_id, stage)
	);

	CREATE INDEX IF NOT EXISTS idx_chapters_project ON chapters(project_id, idx);
	CREATE INDEX IF NOT EXISTS idx_terminology_project ON terminology(project_id);
	CREATE INDEX IF NOT EXISTS idx_translations_chapter ON translations(project_id, chapter_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateProject(ctx context.Context, project *internal.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, author, genre, description, source_language, target_language, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Author, project.Genre, project.Description,
		project.SourceLanguage, project.TargetLanguage, marshalMap(project.Metadata))
	return err
}

func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*internal.Project, error) {
	var p internal.Project
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, author, genre, description, source_language, target_language, metadata
		 FROM projects WHERE id = ?`, projectID).
		Scan(&p.ID, &p.Name, &p.Author, &p.Genre, &p.Description,
			&p.SourceLanguage, &p.TargetLanguage, &metadata)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %q: %w", projectID, internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.Metadata = unmarshalMap(metadata.String)
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]internal.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, author, genre, description, source_language, target_language, metadata
		 FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []internal.Project
	for rows.Next() {
		var p internal.Project
		var metadata sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Author, &p.Genre, &p.Description,
			&p.SourceLanguage, &p.TargetLanguage, &metadata); err != nil {
			return nil, err
		}
		p.Metadata = unmarshalMap(metadata.String)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) CreateChapter(ctx context.Context, chapter *internal.Chapter) error {
	if chapter.ChapterID == "" {
		chapter.ChapterID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO chapters (project_id, chapter_id, idx, title, content, summary, characters, terminology_keys, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chapter.ProjectID, chapter.ChapterID, chapter.Index, chapter.Title, chapter.Content,
		chapter.Summary, marshalSlice(chapter.Characters), marshalSlice(chapter.TerminologyKeys),
		marshalMap(chapter.Metadata))
	return err
}

func (s *SQLiteStore) GetChapter(ctx context.Context, projectID, chapterID string) (*internal.Chapter, error) {
	var c internal.Chapter
	var characters, termKeys, metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT project_id, chapter_id, idx, title, content, summary, characters, terminology_keys, metadata
		 FROM chapters WHERE project_id = ? AND chapter_id = ?`, projectID, chapterID).
		Scan(&c.ProjectID, &c.ChapterID, &c.Index, &c.Title, &c.Content, &c.Summary,
			&characters, &termKeys, &metadata)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chapter %s/%s: %w", projectID, chapterID, internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	c.Characters = unmarshalSlice(characters.String)
	c.TerminologyKeys = unmarshalSlice(termKeys.String)
	c.Metadata = unmarshalMap(metadata.String)
	return &c, nil
}

func (s *SQLiteStore) ListChapters(ctx context.Context, projectID string) ([]internal.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, chapter_id, idx, title, content, summary, characters, terminology_keys, metadata
		 FROM chapters WHERE project_id = ? ORDER BY idx`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []internal.Chapter
	for rows.Next() {
		var c internal.Chapter
		var characters, termKeys, metadata sql.NullString
		if err := rows.Scan(&c.ProjectID, &c.ChapterID, &c.Index, &c.Title, &c.Content,
			&c.Summary, &characters, &termKeys, &metadata); err != nil {
			return nil, err
		}
		c.Characters = unmarshalSlice(characters.String)
		c.TerminologyKeys = unmarshalSlice(termKeys.String)
		c.Metadata = unmarshalMap(metadata.String)
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

func (s *SQLiteStore) UpdateChapterSummary(ctx context.Context, projectID, chapterID, summary string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chapters SET summary = ? WHERE project_id = ? AND chapter_id = ?`,
		summary, projectID, chapterID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chapter %s/%s: %w", projectID, chapterID, internal.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) UpsertTerm(ctx context.Context, entry *internal.TerminologyEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO terminology (entry_id, project_id, source_term, approved_translation, variants, kind, part_of_speech, notes, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, entry.ProjectID, normalizeTerm(entry.SourceTerm), entry.ApprovedTranslation,
		marshalSlice(entry.Variants), string(entry.Kind), entry.PartOfSpeech, entry.Notes,
		marshalMap(entry.Metadata))
	return err
}

func (s *SQLiteStore) ListTerminology(ctx context.Context, projectID string) ([]internal.TerminologyEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, project_id, source_term, approved_translation, variants, kind, part_of_speech, notes, metadata
		 FROM terminology WHERE project_id = ? ORDER BY source_term`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []internal.TerminologyEntry
	for rows.Next() {
		var e internal.TerminologyEntry
		var variants, metadata sql.NullString
		var kind string
		if err := rows.Scan(&e.EntryID, &e.ProjectID, &e.SourceTerm, &e.ApprovedTranslation,
			&variants, &kind, &e.PartOfSpeech, &e.Notes, &metadata); err != nil {
			return nil, err
		}
		e.Kind = internal.TermKind(kind)
		e.Variants = unmarshalSlice(variants.String)
		e.Metadata = unmarshalMap(metadata.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) DeleteTerm(ctx context.Context, projectID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM terminology WHERE project_id = ? AND entry_id = ?`, projectID, entryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("terminology entry %s/%s: %w", projectID, entryID, internal.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) SaveTranslation(ctx context.Context, tr *internal.Translation) error {
	if tr.ID == "" {
		tr.ID = uuid.NewString()
	}
	now := time.Now()
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = now
	}
	tr.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (id, project_id, chapter_id, stage, content, validation, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (project_id, chapter_id, stage)
		 DO UPDATE SET content = excluded.content, validation = excluded.validation,
		   metadata = excluded.metadata, updated_at = excluded.updated_at`,
		tr.ID, tr.ProjectID, tr.ChapterID, string(tr.Stage), tr.Content,
		marshalMap(tr.Validation), marshalMap(tr.Metadata), tr.CreatedAt, tr.UpdatedAt)
	return err
}

func (s *SQLiteStore) GetTranslation(ctx context.Context, projectID, chapterID string, stage internal.TranslationStage) (*internal.Translation, error) {
	var tr internal.Translation
	var validation, metadata sql.NullString
	var stageStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, chapter_id, stage, content, validation, metadata, created_at, updated_at
		 FROM translations WHERE project_id = ? AND chapter_id = ? AND stage = ?`,
		projectID, chapterID, string(stage)).
		Scan(&tr.ID, &tr.ProjectID, &tr.ChapterID, &stageStr, &tr.Content,
			&validation, &metadata, &tr.CreatedAt, &tr.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("translation %s/%s stage %s: %w", projectID, chapterID, stage, internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	tr.Stage = internal.TranslationStage(stageStr)
	tr.Validation = unmarshalMap(validation.String)
	tr.Metadata = unmarshalMap(metadata.String)
	return &tr, nil
}

func (s *SQLiteStore) ListTranslations(ctx context.Context, projectID, chapterID string) ([]internal.Translation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, chapter_id, stage, content, validation, metadata, created_at, updated_at
		 FROM translations WHERE project_id = ? AND chapter_id = ? ORDER BY created_at`,
		projectID, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var translations []internal.Translation
	for rows.Next() {
		var tr internal.Translation
		var validation, metadata sql.NullString
		var stageStr string
		if err := rows.Scan(&tr.ID, &tr.ProjectID, &tr.ChapterID, &stageStr, &tr.Content,
			&validation, &metadata, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
			return nil, err
		}
		tr.Stage = internal.TranslationStage(stageStr)
		tr.Validation = unmarshalMap(validation.String)
		tr.Metadata = unmarshalMap(metadata.String)
		translations = append(translations, tr)
	}
	return translations, rows.Err()
}

// normalizeTerm applies NFC so the unique constraint on source terms
// compares canonical forms.
func normalizeTerm(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}

func marshalSlice(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalSlice(data string) []string {
	if data == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil
	}
	return values
}

func marshalMap(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalMap(data string) map[string]string {
	if data == "" {
		return nil
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil
	}
	return values
}
