package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"noveltran/internal"
)

// DirectusStore reads and writes project data through a Directus CMS REST
// API. Every collection response arrives inside a {"data": ...} envelope.
type DirectusStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewDirectusStore(baseURL, token string) *DirectusStore {
	return &DirectusStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Close satisfies Store; a REST client holds no resources.
func (s *DirectusStore) Close() error { return nil }

func (s *DirectusStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("directus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, internal.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("directus returned status %d for %s %s", resp.StatusCode, method, path)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (s *DirectusStore) CreateProject(ctx context.Context, project *internal.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	return s.do(ctx, http.MethodPost, "/items/projects", project, nil)
}

func (s *DirectusStore) GetProject(ctx context.Context, projectID string) (*internal.Project, error) {
	var envelope struct {
		Data internal.Project `json:"data"`
	}
	path := "/items/projects/" + url.PathEscape(projectID)
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (s *DirectusStore) ListProjects(ctx context.Context) ([]internal.Project, error) {
	var envelope struct {
		Data []internal.Project `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/items/projects?sort=name", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (s *DirectusStore) CreateChapter(ctx context.Context, chapter *internal.Chapter) error {
	if chapter.ChapterID == "" {
		chapter.ChapterID = uuid.NewString()
	}
	return s.do(ctx, http.MethodPost, "/items/chapters", chapter, nil)
}

func (s *DirectusStore) GetChapter(ctx context.Context, projectID, chapterID string) (*internal.Chapter, error) {
	var envelope struct {
		Data []internal.Chapter `json:"data"`
	}
	path := fmt.Sprintf("/items/chapters?filter[project_id][_eq]=%s&filter[chapter_id][_eq]=%s",
		url.QueryEscape(projectID), url.QueryEscape(chapterID))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("chapter %s/%s: %w", projectID, chapterID, internal.ErrNotFound)
	}
	return &envelope.Data[0], nil
}

func (s *DirectusStore) ListChapters(ctx context.Context, projectID string) ([]internal.Chapter, error) {
	var envelope struct {
		Data []internal.Chapter `json:"data"`
	}
	path := fmt.Sprintf("/items/chapters?filter[project_id][_eq]=%s&sort=index&limit=-1",
		url.QueryEscape(projectID))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (s *DirectusStore) UpdateChapterSummary(ctx context.Context, projectID, chapterID, summary string) error {
	// Directus has no compound-key PATCH; resolve the item first.
	if _, err := s.GetChapter(ctx, projectID, chapterID); err != nil {
		return err
	}
	path := fmt.Sprintf("/items/chapters/%s", url.PathEscape(chapterID))
	return s.do(ctx, http.MethodPatch, path, map[string]string{"summary": summary}, nil)
}

func (s *DirectusStore) UpsertTerm(ctx context.Context, entry *internal.TerminologyEntry) error {
	entry.SourceTerm = normalizeTerm(entry.SourceTerm)
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
		return s.do(ctx, http.MethodPost, "/items/terminology", entry, nil)
	}

	existing, err := s.findTerm(ctx, entry.ProjectID, entry.EntryID)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.do(ctx, http.MethodPost, "/items/terminology", entry, nil)
	}
	path := "/items/terminology/" + url.PathEscape(entry.EntryID)
	return s.do(ctx, http.MethodPatch, path, entry, nil)
}

func (s *DirectusStore) findTerm(ctx context.Context, projectID, entryID string) (*internal.TerminologyEntry, error) {
	var envelope struct {
		Data []internal.TerminologyEntry `json:"data"`
	}
	path := fmt.Sprintf("/items/terminology?filter[project_id][_eq]=%s&filter[entry_id][_eq]=%s",
		url.QueryEscape(projectID), url.QueryEscape(entryID))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}
	return &envelope.Data[0], nil
}

func (s *DirectusStore) ListTerminology(ctx context.Context, projectID string) ([]internal.TerminologyEntry, error) {
	var envelope struct {
		Data []internal.TerminologyEntry `json:"data"`
	}
	path := fmt.Sprintf("/items/terminology?filter[project_id][_eq]=%s&limit=-1",
		url.QueryEscape(projectID))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (s *DirectusStore) DeleteTerm(ctx context.Context, projectID, entryID string) error {
	existing, err := s.findTerm(ctx, projectID, entryID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("terminology entry %s/%s: %w", projectID, entryID, internal.ErrNotFound)
	}
	path := "/items/terminology/" + url.PathEscape(entryID)
	return s.do(ctx, http.MethodDelete, path, nil, nil)
}

func (s *DirectusStore) SaveTranslation(ctx context.Context, tr *internal.Translation) error {
	now := time.Now()
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = now
	}
	tr.UpdatedAt = now

	existing, err := s.findTranslation(ctx, tr.ProjectID, tr.ChapterID, tr.Stage)
	if err != nil {
		return err
	}
	if existing != nil {
		tr.ID = existing.ID
		tr.CreatedAt = existing.CreatedAt
		path := "/items/translations/" + url.PathEscape(tr.ID)
		return s.do(ctx, http.MethodPatch, path, tr, nil)
	}
	if tr.ID == "" {
		tr.ID = uuid.NewString()
	}
	return s.do(ctx, http.MethodPost, "/items/translations", tr, nil)
}

func (s *DirectusStore) findTranslation(ctx context.Context, projectID, chapterID string, stage internal.TranslationStage) (*internal.Translation, error) {
	var envelope struct {
		Data []internal.Translation `json:"data"`
	}
	path := fmt.Sprintf("/items/translations?filter[project_id][_eq]=%s&filter[chapter_id][_eq]=%s&filter[stage][_eq]=%s",
		url.QueryEscape(projectID), url.QueryEscape(chapterID), url.QueryEscape(string(stage)))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}
	return &envelope.Data[0], nil
}

func (s *DirectusStore) GetTranslation(ctx context.Context, projectID, chapterID string, stage internal.TranslationStage) (*internal.Translation, error) {
	tr, err := s.findTranslation(ctx, projectID, chapterID, stage)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("translation %s/%s stage %s: %w", projectID, chapterID, stage, internal.ErrNotFound)
	}
	return tr, nil
}

func (s *DirectusStore) ListTranslations(ctx context.Context, projectID, chapterID string) ([]internal.Translation, error) {
	var envelope struct {
		Data []internal.Translation `json:"data"`
	}
	path := fmt.Sprintf("/items/translations?filter[project_id][_eq]=%s&filter[chapter_id][_eq]=%s&limit=-1",
		url.QueryEscape(projectID), url.QueryEscape(chapterID))
	if err := s.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
