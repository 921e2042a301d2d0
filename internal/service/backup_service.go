package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"vitrola/internal/database"
	"vitrola/internal/logger"
	"vitrola/internal/models"
	"vitrola/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete word catalog backup structure
type BackupData struct {
	Version      string       `json:"version"`
	ExportedAt   time.Time    `json:"exported_at"`
	DatabaseType string       `json:"database_type"`
	Words        []WordBackup `json:"words"`
}

// WordBackup represents a word record for backup
type WordBackup struct {
	ID         int64     `json:"id"`
	Word       string    `json:"word"`
	Language   string    `json:"language,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	YoutubeURL string    `json:"youtube_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ImportResult summarises an import
type ImportResult struct {
	Deleted  int64
	Imported int
}

// BackupService handles word catalog backup and restore operations
type BackupService struct {
	db   *database.DB
	repo *repository.WordRepository
	now  func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:   db,
		repo: repository.NewWordRepository(db),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Export writes every stored word as JSON to w
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	words, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export words: %w", err)
	}

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   s.now(),
		DatabaseType: s.db.Dialect.Name(),
		Words:        make([]WordBackup, 0, len(words)),
	}
	for _, word := range words {
		backup.Words = append(backup.Words, WordBackup{
			ID:         word.ID,
			Word:       word.Text,
			Language:   word.Language,
			Theme:      word.Theme,
			YoutubeURL: word.MediaURL,
			CreatedAt:  word.CreatedAt,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	logger.Info("words exported", zap.Int("count", len(backup.Words)))
	return backup, nil
}

// ExportToFile creates a backup file at outputPath
func (s *BackupService) ExportToFile(ctx context.Context, outputPath string) (*BackupData, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.Export(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("failed to flush output file: %w", err)
	}
	return backup, nil
}

// Import reads a backup from r and inserts its words in one transaction.
// Ids are regenerated. With clear set, existing words are deleted first.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) (*ImportResult, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	logger.Info("importing backup",
		zap.String("version", backup.Version),
		zap.Time("exported_at", backup.ExportedAt),
		zap.String("database_type", backup.DatabaseType),
		zap.Int("words", len(backup.Words)))

	result := &ImportResult{}
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.repo.WithTx(tx)

		if clear {
			deleted, err := repo.DeleteAll(ctx)
			if err != nil {
				return err
			}
			result.Deleted = deleted
		}

		for i, wb := range backup.Words {
			nw := models.NewWord{
				Text:     wb.Word,
				Language: wb.Language,
				Theme:    wb.Theme,
				MediaURL: wb.YoutubeURL,
			}.Normalize()
			if nw.Text == "" {
				return fmt.Errorf("word %d has no text", i)
			}

			createdAt := wb.CreatedAt
			if createdAt.IsZero() {
				createdAt = s.now()
			}
			if _, err := repo.InsertWord(ctx, nw, createdAt.UTC()); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import words: %w", err)
	}

	logger.Info("backup imported", zap.Int64("deleted", result.Deleted), zap.Int("imported", result.Imported))
	return result, nil
}

// ImportFromFile restores words from a backup file
func (s *BackupService) ImportFromFile(ctx context.Context, inputPath string, clear bool) (*ImportResult, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.Import(ctx, file, clear)
}

// CountWords returns the number of stored words
func (s *BackupService) CountWords(ctx context.Context) (int, error) {
	return s.repo.CountWords(ctx)
}
