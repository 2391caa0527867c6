package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// #region log-generation
// LogGeneration writes an entry to the generation_log table.
func (s *Store) LogGeneration(entry GenerationEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var warnings interface{}
	if len(entry.Warnings) > 0 {
		b, err := json.Marshal(entry.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		warnings = string(b)
	}

	_, err := s.db.Exec(
		`INSERT INTO generation_log (clip_id, trigger_type, evaluator, warnings_json, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.ClipID),
		entry.TriggerType,
		entry.Evaluator,
		warnings,
		entry.DurationMs,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log generation: %w", err)
	}
	return nil
}

// #endregion log-generation

// #region list-generations
// ListGenerations returns the most recent generation log entries.
func (s *Store) ListGenerations(limit int) ([]GenerationEntry, error) {
	rows, err := s.db.Query(
		`SELECT COALESCE(clip_id, ''), trigger_type, evaluator, COALESCE(warnings_json, ''), duration_ms, created_at
		 FROM generation_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []GenerationEntry
	for rows.Next() {
		var e GenerationEntry
		var warnings, createdStr string
		if err := rows.Scan(&e.ClipID, &e.TriggerType, &e.Evaluator, &warnings, &e.DurationMs, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if warnings != "" {
			if err := json.Unmarshal([]byte(warnings), &e.Warnings); err != nil {
				return nil, fmt.Errorf("unmarshal warnings: %w", err)
			}
		}
		e.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-generations
