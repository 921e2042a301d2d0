package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"vitrola/internal/database"
	"vitrola/internal/models"
)

const wordsTable = "karaoke_words"

var wordColumns = []string{"id", "word", "language", "theme", "youtube_url", "created_at"}

// builder emits ? placeholders; the database layer rewrites them per dialect
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// WordRepository handles database operations for the shared word pool
type WordRepository struct {
	db database.DBTX
}

// NewWordRepository creates a new word repository
func NewWordRepository(db database.DBTX) *WordRepository {
	return &WordRepository{db: db}
}

// WithTx returns a repository bound to a transaction
func (r *WordRepository) WithTx(tx database.DBTX) *WordRepository {
	return &WordRepository{db: tx}
}

// FetchWords returns the words matching filter, sorted by text ascending
func (r *WordRepository) FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error) {
	query := builder.Select(wordColumns...).From(wordsTable).OrderBy("word ASC", "id ASC")
	if lang := filter.Language(); lang != "" {
		query = query.Where(squirrel.Eq{"language": lang})
	}
	return r.list(ctx, query)
}

// ListAll returns every word in insertion order
func (r *WordRepository) ListAll(ctx context.Context) ([]models.Word, error) {
	return r.list(ctx, builder.Select(wordColumns...).From(wordsTable).OrderBy("id ASC"))
}

// InsertWord stores a word and returns it with its generated id.
// Empty optional fields are stored as NULL.
func (r *WordRepository) InsertWord(ctx context.Context, nw models.NewWord, createdAt time.Time) (*models.Word, error) {
	query, args, err := builder.Insert(wordsTable).
		Columns("word", "language", "theme", "youtube_url", "created_at").
		Values(nw.Text, nullString(nw.Language), nullString(nw.Theme), nullString(nw.MediaURL), createdAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	id, err := r.db.ExecReturningID(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert word: %w", err)
	}

	return &models.Word{
		ID:        id,
		Text:      nw.Text,
		Language:  nw.Language,
		Theme:     nw.Theme,
		MediaURL:  nw.MediaURL,
		CreatedAt: createdAt,
	}, nil
}

// GetWordByID retrieves a word by ID. A missing word returns nil, nil.
func (r *WordRepository) GetWordByID(ctx context.Context, id int64) (*models.Word, error) {
	query, args, err := builder.Select(wordColumns...).From(wordsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	w, err := scanWord(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return w, nil
}

// CountWords returns the number of stored words
func (r *WordRepository) CountWords(ctx context.Context) (int, error) {
	query, args, err := builder.Select("COUNT(*)").From(wordsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// DeleteAll removes every word and returns how many were deleted
func (r *WordRepository) DeleteAll(ctx context.Context) (int64, error) {
	query, args, err := builder.Delete(wordsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete words: %w", err)
	}
	return result.RowsAffected()
}

func (r *WordRepository) list(ctx context.Context, sb squirrel.SelectBuilder) ([]models.Word, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []models.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}
	return words, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(row rowScanner) (*models.Word, error) {
	var (
		w                         models.Word
		language, theme, mediaURL sql.NullString
	)
	if err := row.Scan(&w.ID, &w.Text, &language, &theme, &mediaURL, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.Language = language.String
	w.Theme = theme.String
	w.MediaURL = mediaURL.String
	return &w, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
