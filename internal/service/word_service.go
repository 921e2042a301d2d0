package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"go.uber.org/zap"

	"vitrola/internal/database"
	"vitrola/internal/game"
	"vitrola/internal/logger"
	"vitrola/internal/models"
	"vitrola/internal/repository"
	"vitrola/internal/utils"
)

const maxLanguageLength = 8

// detectable maps the languages the game knows to their stored codes
var detectable = map[whatlanggo.Lang]string{
	whatlanggo.Por: models.LanguagePT,
	whatlanggo.Eng: "EN",
}

// WordService is the storage collaborator of the game session
type WordService struct {
	db             *database.DB
	repo           *repository.WordRepository
	detectLanguage bool
	now            func() time.Time
}

// NewWordService creates a new word service. With detectLanguage set, words
// stored without a language get one when the guess is reliable.
func NewWordService(db *database.DB, detectLanguage bool) *WordService {
	return &WordService{
		db:             db,
		repo:           repository.NewWordRepository(db),
		detectLanguage: detectLanguage,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ game.WordStore = (*WordService)(nil)

// FetchWords returns the words matching filter sorted by text
func (s *WordService) FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error) {
	words, err := s.repo.FetchWords(ctx, filter)
	if err != nil {
		return nil, &game.StorageError{Op: "fetch", Err: err}
	}
	return words, nil
}

// InsertWord validates and stores a word
func (s *WordService) InsertWord(ctx context.Context, nw models.NewWord) (*models.Word, error) {
	nw, err := s.prepare(nw)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.InsertWord(ctx, nw, s.now())
	if err != nil {
		return nil, &game.StorageError{Op: "insert", Err: err}
	}

	logger.Info("word stored", zap.Int64("word_id", w.ID), zap.String("language", w.Language))
	return w, nil
}

// ListAll returns every stored word regardless of language
func (s *WordService) ListAll(ctx context.Context) ([]models.Word, error) {
	words, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, &game.StorageError{Op: "fetch", Err: err}
	}
	return words, nil
}

// SeedDefaultWords fills an empty table with the built-in word list.
// It returns the number of words inserted.
func (s *WordService) SeedDefaultWords(ctx context.Context) (int, error) {
	count, err := s.repo.CountWords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing words: %w", err)
	}
	if count > 0 {
		logger.Debug("word table not empty, skipping seed", zap.Int("count", count))
		return 0, nil
	}

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.repo.WithTx(tx)
		for _, nw := range defaultWords {
			if _, err := repo.InsertWord(ctx, nw, s.now()); err != nil {
				return fmt.Errorf("failed to seed %q: %w", nw.Text, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("seeded default words", zap.Int("count", len(defaultWords)))
	return len(defaultWords), nil
}

func (s *WordService) prepare(nw models.NewWord) (models.NewWord, error) {
	nw = nw.Normalize()
	if err := utils.ValidateWordText(nw.Text); err != nil {
		return nw, err
	}
	if utf8.RuneCountInString(nw.Language) > maxLanguageLength {
		return nw, utils.ValidationError{Field: "language", Message: fmt.Sprintf("language must be at most %d characters", maxLanguageLength)}
	}
	if nw.Language == "" && s.detectLanguage {
		nw.Language = DetectLanguage(nw.Text)
	}
	return nw, nil
}

// DetectLanguage guesses the language code of text. Only reliable
// Portuguese or English guesses are returned; otherwise "".
func DetectLanguage(text string) string {
	info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{
		Whitelist: map[whatlanggo.Lang]bool{whatlanggo.Por: true, whatlanggo.Eng: true},
	})
	if !info.IsReliable() {
		return ""
	}
	return detectable[info.Lang]
}
