package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/reoring/flexform/docs"
	"github.com/reoring/flexform/internal/jsonx"
	"github.com/reoring/flexform/issue"
	"github.com/reoring/flexform/render"
	"github.com/reoring/flexform/schema"
	"github.com/reoring/flexform/templates"
)

// fixed width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const migration = `
CREATE TABLE IF NOT EXISTS templates (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	version       INTEGER NOT NULL DEFAULT 0,
	mode          TEXT NOT NULL DEFAULT '',
	template_text TEXT NOT NULL,
	schema        TEXT NOT NULL,
	sample_data   TEXT NOT NULL DEFAULT 'null'
);
CREATE TABLE IF NOT EXISTS docs (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	template_id       TEXT NOT NULL,
	data              TEXT NOT NULL,
	mode              TEXT NOT NULL,
	status            TEXT NOT NULL,
	preview_json      TEXT,
	is_valid          INTEGER NOT NULL DEFAULT 0,
	validation_errors TEXT NOT NULL DEFAULT '[]',
	last_validated_at TEXT,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	published_at      TEXT
);
CREATE INDEX IF NOT EXISTS docs_template_id ON docs (template_id);
`

// SQL stores templates and documents in a SQL database through sqlx.
// JSON-valued columns are TEXT encoded with goccy/go-json and timestamps are
// fixed-width RFC 3339 text in UTC.
type SQL struct {
	db *sqlx.DB
}

var (
	_ docs.TemplateStore = (*SQL)(nil)
	_ docs.DocStore      = (*SQL)(nil)
)

// NewSQL wraps an open database. Call Migrate before first use.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// OpenSQLite opens (creating if needed) a SQLite database file and migrates
// it.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	db, err := sqlx.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)
	s := NewSQL(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist.
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQL) Close() error { return s.db.Close() }

type templateRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Status       string `db:"status"`
	Version      int    `db:"version"`
	Mode         string `db:"mode"`
	TemplateText string `db:"template_text"`
	Schema       string `db:"schema"`
	SampleData   string `db:"sample_data"`
}

// GetTemplate loads one template, or returns docs.ErrNotFound.
func (s *SQL) GetTemplate(ctx context.Context, id string) (*templates.Template, error) {
	query := `
		SELECT id, name, description, status, version, mode, template_text, schema, sample_data
		FROM templates
		WHERE id = ?
	`
	var row templateRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", id, docs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return row.template()
}

// PutTemplate inserts or replaces t, assigning an ID when it has none.
func (s *SQL) PutTemplate(ctx context.Context, t *templates.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	row, err := newTemplateRow(t)
	if err != nil {
		return err
	}
	query := `
		INSERT OR REPLACE INTO templates (id, name, description, status, version, mode, template_text, schema, sample_data)
		VALUES (:id, :name, :description, :status, :version, :mode, :template_text, :schema, :sample_data)
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to put template: %w", err)
	}
	return nil
}

// ListTemplates returns every template ordered by name, then ID.
func (s *SQL) ListTemplates(ctx context.Context) ([]*templates.Template, error) {
	query := `
		SELECT id, name, description, status, version, mode, template_text, schema, sample_data
		FROM templates
		ORDER BY name, id
	`
	var rows []templateRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]*templates.Template, 0, len(rows))
	for _, r := range rows {
		t, err := r.template()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func newTemplateRow(t *templates.Template) (templateRow, error) {
	sch, err := jsonx.Marshal(t.Schema)
	if err != nil {
		return templateRow{}, fmt.Errorf("failed to encode schema: %w", err)
	}
	sample, err := jsonx.Marshal(t.SampleData)
	if err != nil {
		return templateRow{}, fmt.Errorf("failed to encode sample data: %w", err)
	}
	return templateRow{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Status:       string(t.Status),
		Version:      t.Version,
		Mode:         string(t.Mode),
		TemplateText: t.TemplateText,
		Schema:       string(sch),
		SampleData:   string(sample),
	}, nil
}

func (r templateRow) template() (*templates.Template, error) {
	t := &templates.Template{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Status:       templates.Status(r.Status),
		Version:      r.Version,
		Mode:         render.Mode(r.Mode),
		TemplateText: r.TemplateText,
		Schema:       &schema.Descriptor{},
	}
	if err := jsonx.UnmarshalInto([]byte(r.Schema), t.Schema); err != nil {
		return nil, fmt.Errorf("template %s: failed to decode schema: %w", r.ID, err)
	}
	if err := jsonx.UnmarshalInto([]byte(r.SampleData), &t.SampleData); err != nil {
		return nil, fmt.Errorf("template %s: failed to decode sample data: %w", r.ID, err)
	}
	return t, nil
}

type docRow struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	TemplateID       string         `db:"template_id"`
	Data             string         `db:"data"`
	Mode             string         `db:"mode"`
	Status           string         `db:"status"`
	PreviewJSON      sql.NullString `db:"preview_json"`
	IsValid          bool           `db:"is_valid"`
	ValidationErrors string         `db:"validation_errors"`
	LastValidatedAt  sql.NullString `db:"last_validated_at"`
	CreatedAt        string         `db:"created_at"`
	UpdatedAt        string         `db:"updated_at"`
	PublishedAt      sql.NullString `db:"published_at"`
}

const docColumns = `id, title, template_id, data, mode, status, preview_json, is_valid,
	validation_errors, last_validated_at, created_at, updated_at, published_at`

// GetDoc loads one document, or returns docs.ErrNotFound.
func (s *SQL) GetDoc(ctx context.Context, id string) (*docs.Doc, error) {
	query := `SELECT ` + docColumns + ` FROM docs WHERE id = ?`
	var row docRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doc %s: %w", id, docs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get doc: %w", err)
	}
	return row.doc()
}

// PutDoc inserts or replaces d, assigning an ID when it has none.
func (s *SQL) PutDoc(ctx context.Context, d *docs.Doc) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	row, err := newDocRow(d)
	if err != nil {
		return err
	}
	query := `
		INSERT OR REPLACE INTO docs (` + docColumns + `)
		VALUES (:id, :title, :template_id, :data, :mode, :status, :preview_json, :is_valid,
			:validation_errors, :last_validated_at, :created_at, :updated_at, :published_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to put doc: %w", err)
	}
	return nil
}

// ListDocs returns every document ordered by creation time, then ID.
func (s *SQL) ListDocs(ctx context.Context) ([]*docs.Doc, error) {
	query := `SELECT ` + docColumns + ` FROM docs ORDER BY created_at, id`
	var rows []docRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list docs: %w", err)
	}
	out := make([]*docs.Doc, 0, len(rows))
	for _, r := range rows {
		d, err := r.doc()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func newDocRow(d *docs.Doc) (docRow, error) {
	data, err := jsonx.Marshal(d.Data)
	if err != nil {
		return docRow{}, fmt.Errorf("failed to encode data: %w", err)
	}
	errs := d.ValidationErrors
	if errs == nil {
		errs = issue.List{}
	}
	encodedErrs, err := jsonx.Marshal(errs)
	if err != nil {
		return docRow{}, fmt.Errorf("failed to encode validation errors: %w", err)
	}
	row := docRow{
		ID:               d.ID,
		Title:            d.Title,
		TemplateID:       d.TemplateID,
		Data:             string(data),
		Mode:             string(d.Mode),
		Status:           string(d.Status),
		IsValid:          d.IsValid,
		ValidationErrors: string(encodedErrs),
		LastValidatedAt:  nullTime(d.LastValidatedAt),
		CreatedAt:        d.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:        d.UpdatedAt.UTC().Format(timeLayout),
		PublishedAt:      nullTime(d.PublishedAt),
	}
	if d.PreviewJSON != nil {
		preview, err := jsonx.Marshal(d.PreviewJSON)
		if err != nil {
			return docRow{}, fmt.Errorf("failed to encode preview: %w", err)
		}
		row.PreviewJSON = sql.NullString{String: string(preview), Valid: true}
	}
	return row, nil
}

func (r docRow) doc() (*docs.Doc, error) {
	d := &docs.Doc{
		ID:         r.ID,
		Title:      r.Title,
		TemplateID: r.TemplateID,
		Mode:       docs.Mode(r.Mode),
		Status:     docs.Status(r.Status),
		IsValid:    r.IsValid,
	}
	if err := jsonx.UnmarshalInto([]byte(r.Data), &d.Data); err != nil {
		return nil, fmt.Errorf("doc %s: failed to decode data: %w", r.ID, err)
	}
	if r.PreviewJSON.Valid {
		if err := jsonx.UnmarshalInto([]byte(r.PreviewJSON.String), &d.PreviewJSON); err != nil {
			return nil, fmt.Errorf("doc %s: failed to decode preview: %w", r.ID, err)
		}
	}
	if err := jsonx.UnmarshalInto([]byte(r.ValidationErrors), &d.ValidationErrors); err != nil {
		return nil, fmt.Errorf("doc %s: failed to decode validation errors: %w", r.ID, err)
	}
	var err error
	if d.CreatedAt, err = time.Parse(timeLayout, r.CreatedAt); err != nil {
		return nil, fmt.Errorf("doc %s: %w", r.ID, err)
	}
	if d.UpdatedAt, err = time.Parse(timeLayout, r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("doc %s: %w", r.ID, err)
	}
	if d.LastValidatedAt, err = parseNullTime(r.LastValidatedAt); err != nil {
		return nil, fmt.Errorf("doc %s: %w", r.ID, err)
	}
	if d.PublishedAt, err = parseNullTime(r.PublishedAt); err != nil {
		return nil, fmt.Errorf("doc %s: %w", r.ID, err)
	}
	return d, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
