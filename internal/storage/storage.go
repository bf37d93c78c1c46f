package storage

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hailam/chessai/internal/board"
)

// Storage keys
const (
	keyPreferences  = "preferences"
	keyStats        = "stats"
	keyResultPrefix = "result/"
)

// ErrInvalidPreferences is wrapped by every preference validation error.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences stores the self-play settings.
type Preferences struct {
	Depth        int           `json:"depth"`
	StartingSide string        `json:"starting_side"`
	MaxPlies     int           `json:"max_plies"` // 0 = unlimited
	Parallel     int           `json:"parallel"`  // root workers, 0 or 1 = sequential
	MoveTime     time.Duration `json:"move_time"` // 0 = no limit
	LastPlayed   time.Time     `json:"last_played"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:        2,
		StartingSide: "white",
		MaxPlies:     200,
		Parallel:     1,
	}
}

// Validate reports every invalid field.
func (p *Preferences) Validate() error {
	var result error
	if p.Depth < 1 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidPreferences, "depth %d must be positive", p.Depth))
	}
	if _, err := board.ParseColor(p.StartingSide); err != nil {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidPreferences, "starting side %q", p.StartingSide))
	}
	if p.MaxPlies < 0 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidPreferences, "max plies %d is negative", p.MaxPlies))
	}
	if p.Parallel < 0 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidPreferences, "parallel %d is negative", p.Parallel))
	}
	if p.MoveTime < 0 {
		result = multierror.Append(result, errors.Wrapf(ErrInvalidPreferences, "move time %s is negative", p.MoveTime))
	}
	return result
}

// Side returns the starting side, White if it does not parse.
func (p *Preferences) Side() board.Color {
	c, err := board.ParseColor(p.StartingSide)
	if err != nil {
		return board.White
	}
	return c
}

// GameStats stores aggregate self-play statistics.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	ByReason      map[string]int `json:"by_reason"`
	TotalPlies    int            `json:"total_plies"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	LongestGame   int            `json:"longest_game"` // in plies
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
	}
}

// WinRate returns the share of games won by c as a percentage (0-100).
func (s *GameStats) WinRate(c board.Color) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	wins := s.WhiteWins
	if c == board.Black {
		wins = s.BlackWins
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// GameResult represents the result of a completed game.
type GameResult struct {
	ID             string        `json:"id"`
	Winner         string        `json:"winner"` // "" for a draw
	Reason         string        `json:"reason"`
	Plies          int           `json:"plies"`
	Duration       time.Duration `json:"duration"`
	Depth          int           `json:"depth"`
	StartingSide   string        `json:"starting_side"`
	Moves          []string      `json:"moves"`
	FinalPlacement string        `json:"final_placement"`
	PlayedAt       time.Time     `json:"played_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir("")
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", dir)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory database")
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func getJSON(txn *badger.Txn, key string, v interface{}) (bool, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "get %s", key)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
	return true, errors.Wrapf(err, "decode %s", key)
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(txn.Set([]byte(key), data), "set %s", key)
}

// SavePreferences validates and saves preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	prefs.LastPlayed = time.Now()

	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyPreferences, prefs)
		return err
	})

	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}

	return stats, err
}

// RecordGame stores result under a fresh id and updates the statistics in
// the same transaction. It returns the id.
func (s *Storage) RecordGame(result GameResult) (string, error) {
	result.ID = uuid.NewString()
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		stats := NewGameStats()
		if _, err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		if stats.ByReason == nil {
			stats.ByReason = make(map[string]int)
		}

		stats.GamesPlayed++
		stats.TotalPlies += result.Plies
		stats.TotalPlayTime += result.Duration
		stats.ByReason[result.Reason]++
		if result.Plies > stats.LongestGame {
			stats.LongestGame = result.Plies
		}

		switch result.Winner {
		case "":
			stats.Draws++
		case "white":
			stats.WhiteWins++
		case "black":
			stats.BlackWins++
		default:
			return errors.Errorf("unknown winner %q", result.Winner)
		}

		if err := setJSON(txn, keyResultPrefix+result.ID, result); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
	if err != nil {
		return "", errors.Wrap(err, "record game")
	}
	return result.ID, nil
}

// GetResult loads the result stored under id.
func (s *Storage) GetResult(id string) (*GameResult, error) {
	var result GameResult
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getJSON(txn, keyResultPrefix+id, &result)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(badger.ErrKeyNotFound, "result %s", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults returns every stored result, oldest first.
func (s *Storage) ListResults() ([]GameResult, error) {
	var results []GameResult

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyResultPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var r GameResult
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", strings.TrimPrefix(string(item.Key()), keyResultPrefix))
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PlayedAt.Before(results[j].PlayedAt)
	})
	return results, nil
}
