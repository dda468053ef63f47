package configstore

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	radar "radar-austral/internal/radar/domain"
)

// sourceRecord is the persisted shape of one configured source.
type sourceRecord struct {
	ID                  string `gorm:"primaryKey"`
	Position            int
	Name                string
	Endpoint            string
	Format              string
	Enabled             bool
	CategoryHint        string
	PollIntervalMinutes int
}

func (sourceRecord) TableName() string { return "sources" }

// settingsRecord is a single-row table holding the user settings.
type settingsRecord struct {
	ID                   int `gorm:"primaryKey"`
	NotificationsEnabled bool
	PriorityOnly         bool
	SoundEnabled         bool
	DefaultPollMinutes   int
}

func (settingsRecord) TableName() string { return "settings" }

// Store persists source and settings edits in an embedded sqlite file so
// they survive restarts. The live collections are never persisted.
type Store struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, logger *log.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("configstore: path is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("configstore: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&sourceRecord{}, &settingsRecord{}); err != nil {
		return nil, fmt.Errorf("configstore: migrating schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// DB exposes the underlying handle so sibling repositories (audit log) can
// share the same database file.
func (s *Store) DB() *gorm.DB { return s.db }

// Load returns the persisted sources and settings, seeding both with the
// given defaults on first run.
func (s *Store) Load(defaultSources []radar.Source, defaultSettings radar.Settings) ([]radar.Source, radar.Settings, error) {
	sources, err := s.loadSources(defaultSources)
	if err != nil {
		return nil, radar.Settings{}, err
	}
	settings, err := s.loadSettings(defaultSettings)
	if err != nil {
		return nil, radar.Settings{}, err
	}
	return sources, settings, nil
}

func (s *Store) loadSources(defaults []radar.Source) ([]radar.Source, error) {
	var records []sourceRecord
	if err := s.db.Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("configstore: loading sources: %w", err)
	}
	if len(records) == 0 {
		if err := s.SaveSources(defaults); err != nil {
			return nil, err
		}
		s.logger.Printf("configstore: seeded %d default sources", len(defaults))
		return append([]radar.Source(nil), defaults...), nil
	}

	known := make(map[string]struct{}, len(records))
	sources := make([]radar.Source, 0, len(records))
	for _, rec := range records {
		known[rec.ID] = struct{}{}
		sources = append(sources, radar.Source{
			ID:                  rec.ID,
			Name:                rec.Name,
			Endpoint:            rec.Endpoint,
			Format:              rec.Format,
			Enabled:             rec.Enabled,
			CategoryHint:        rec.CategoryHint,
			PollIntervalMinutes: rec.PollIntervalMinutes,
		})
	}

	// Defaults added in a newer release are appended, preserving edits to
	// the sources the user already has.
	added := false
	for _, src := range defaults {
		if _, ok := known[src.ID]; ok {
			continue
		}
		sources = append(sources, src)
		added = true
	}
	if added {
		if err := s.SaveSources(sources); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func (s *Store) loadSettings(defaults radar.Settings) (radar.Settings, error) {
	var rec settingsRecord
	err := s.db.First(&rec, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.SaveSettings(defaults); err != nil {
			return radar.Settings{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return radar.Settings{}, fmt.Errorf("configstore: loading settings: %w", err)
	}
	return radar.Settings{
		NotificationsEnabled: rec.NotificationsEnabled,
		PriorityOnly:         rec.PriorityOnly,
		SoundEnabled:         rec.SoundEnabled,
		DefaultPollMinutes:   rec.DefaultPollMinutes,
	}, nil
}

// SaveSources replaces the persisted source set.
func (s *Store) SaveSources(sources []radar.Source) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sourceRecord{}).Error; err != nil {
			return fmt.Errorf("configstore: clearing sources: %w", err)
		}
		for i, src := range sources {
			rec := sourceRecord{
				ID:                  src.ID,
				Position:            i,
				Name:                src.Name,
				Endpoint:            src.Endpoint,
				Format:              src.Format,
				Enabled:             src.Enabled,
				CategoryHint:        src.CategoryHint,
				PollIntervalMinutes: src.PollIntervalMinutes,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("configstore: saving source %s: %w", src.ID, err)
			}
		}
		return nil
	})
}

// SaveSettings upserts the single settings row.
func (s *Store) SaveSettings(settings radar.Settings) error {
	rec := settingsRecord{
		ID:                   1,
		NotificationsEnabled: settings.NotificationsEnabled,
		PriorityOnly:         settings.PriorityOnly,
		SoundEnabled:         settings.SoundEnabled,
		DefaultPollMinutes:   settings.DefaultPollMinutes,
	}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("configstore: saving settings: %w", err)
	}
	return nil
}
