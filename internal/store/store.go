// Package store persists rendered clips in SQLite.
package store

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/clip"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS clips (
	clip_id       TEXT PRIMARY KEY,
	name          TEXT,
	evaluator     TEXT NOT NULL,
	traits_json   TEXT NOT NULL,
	settings_json TEXT NOT NULL,
	frequency     REAL NOT NULL,
	body_parts    TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS keyframes (
	clip_id     TEXT NOT NULL,
	frame       INTEGER NOT NULL,
	walkertime  REAL NOT NULL,
	positions   BLOB NOT NULL,
	PRIMARY KEY (clip_id, frame),
	FOREIGN KEY (clip_id) REFERENCES clips(clip_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS generation_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	clip_id       TEXT,
	trigger_type  TEXT NOT NULL,
	evaluator     TEXT NOT NULL,
	warnings_json TEXT,
	duration_ms   INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// timeLayout is RFC3339 with a fixed nine digit fraction so that text order
// matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// Store manages rendered clips in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #region save-clip
// SaveClip inserts a clip and all of its keyframes in one transaction.
func (s *Store) SaveClip(c clip.Clip) error {
	if c.ID == "" {
		return errors.New("save clip: empty id")
	}
	traitsJSON, err := json.Marshal(c.Traits)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	settingsJSON, err := json.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	partsJSON, err := json.Marshal(bodyParts(c))
	if err != nil {
		return fmt.Errorf("marshal body parts: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO clips (clip_id, name, evaluator, traits_json, settings_json, frequency, body_parts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, nullIfEmpty(c.Name), c.Evaluator, string(traitsJSON), string(settingsJSON),
		c.Frequency, string(partsJSON), c.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO keyframes (clip_id, frame, walkertime, positions) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare keyframe insert: %w", err)
	}
	defer stmt.Close()
	for _, kf := range c.Keyframes {
		if _, err := stmt.Exec(c.ID, kf.Frame, kf.Walkertime, encodePositions(kf.Poses)); err != nil {
			return fmt.Errorf("insert keyframe %d: %w", kf.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-clip

// #region get-clip
// GetClip reads a clip with all keyframes, ordered by frame.
func (s *Store) GetClip(id string) (clip.Clip, error) {
	var c clip.Clip
	var name sql.NullString
	var traitsJSON, settingsJSON, partsJSON, createdStr string

	err := s.db.QueryRow(
		`SELECT clip_id, name, evaluator, traits_json, settings_json, frequency, body_parts, created_at
		 FROM clips WHERE clip_id = ?`, id,
	).Scan(&c.ID, &name, &c.Evaluator, &traitsJSON, &settingsJSON, &c.Frequency, &partsJSON, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return clip.Clip{}, fmt.Errorf("get clip %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return clip.Clip{}, fmt.Errorf("get clip %s: %w", id, err)
	}
	c.Name = name.String
	if err := json.Unmarshal([]byte(traitsJSON), &c.Traits); err != nil {
		return clip.Clip{}, fmt.Errorf("unmarshal traits: %w", err)
	}
	if err := json.Unmarshal([]byte(settingsJSON), &c.Settings); err != nil {
		return clip.Clip{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	var parts []string
	if err := json.Unmarshal([]byte(partsJSON), &parts); err != nil {
		return clip.Clip{}, fmt.Errorf("unmarshal body parts: %w", err)
	}
	c.CreatedAt, _ = time.Parse(timeLayout, createdStr)

	rows, err := s.db.Query(
		`SELECT frame, walkertime, positions FROM keyframes WHERE clip_id = ? ORDER BY frame`, id,
	)
	if err != nil {
		return clip.Clip{}, fmt.Errorf("list keyframes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kf clip.Keyframe
		var blob []byte
		if err := rows.Scan(&kf.Frame, &kf.Walkertime, &blob); err != nil {
			return clip.Clip{}, fmt.Errorf("scan keyframe: %w", err)
		}
		kf.Poses, err = decodePositions(parts, blob)
		if err != nil {
			return clip.Clip{}, fmt.Errorf("get clip %s frame %d: %w", id, kf.Frame, err)
		}
		c.Keyframes = append(c.Keyframes, kf)
	}
	return c, rows.Err()
}

// #endregion get-clip

// #region list-clips
// ListClips returns the most recent clips without keyframes.
func (s *Store) ListClips(limit int) ([]ClipSummary, error) {
	rows, err := s.db.Query(
		`SELECT c.clip_id, c.name, c.evaluator, c.frequency, c.traits_json, c.created_at,
		        (SELECT COUNT(*) FROM keyframes k WHERE k.clip_id = c.clip_id)
		 FROM clips c ORDER BY c.created_at DESC, c.rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	var out []ClipSummary
	for rows.Next() {
		var cs ClipSummary
		var name sql.NullString
		var traitsJSON, createdStr string
		if err := rows.Scan(&cs.ID, &name, &cs.Evaluator, &cs.Frequency, &traitsJSON, &createdStr, &cs.Keyframes); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cs.Name = name.String
		if err := json.Unmarshal([]byte(traitsJSON), &cs.Traits); err != nil {
			return nil, fmt.Errorf("unmarshal traits: %w", err)
		}
		cs.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, cs)
	}
	return out, rows.Err()
}

// #endregion list-clips

// #region delete-clip
// DeleteClip removes a clip and its keyframes.
func (s *Store) DeleteClip(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM keyframes WHERE clip_id = ?`, id); err != nil {
		return fmt.Errorf("delete keyframes: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM clips WHERE clip_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete clip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete clip %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// #endregion delete-clip

// #region position-encoding
// Positions are stored as little-endian float64 x, y, z per landmark.
func encodePositions(poses gait.PoseFrame) []byte {
	buf := make([]byte, len(poses)*3*8)
	for i, p := range poses {
		off := i * 24
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(p.Y))
		binary.LittleEndian.PutUint64(buf[off+16:], math.Float64bits(p.Z))
	}
	return buf
}

func decodePositions(parts []string, b []byte) (gait.PoseFrame, error) {
	if len(b) != len(parts)*24 {
		return nil, fmt.Errorf("decode positions: %d bytes for %d landmarks", len(b), len(parts))
	}
	frame := make(gait.PoseFrame, len(parts))
	for i, part := range parts {
		frame[i].Part = part
		off := i * 24
		frame[i].X = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		frame[i].Y = math.Float64frombits(binary.LittleEndian.Uint64(b[off+8:]))
		frame[i].Z = math.Float64frombits(binary.LittleEndian.Uint64(b[off+16:]))
	}
	return frame, nil
}

// #endregion position-encoding

func bodyParts(c clip.Clip) []string {
	if len(c.Keyframes) == 0 {
		return []string{}
	}
	parts := make([]string, len(c.Keyframes[0].Poses))
	for i, p := range c.Keyframes[0].Poses {
		parts[i] = p.Part
	}
	return parts
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
