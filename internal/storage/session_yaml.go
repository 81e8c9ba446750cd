package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"lockedflow/internal/core/timer"

	"gopkg.in/yaml.v3"
)

const sessionFileName = "session.yaml"

// ErrNoSession indicates no saved session exists.
var ErrNoSession = errors.New("no saved session")

// Session is the persisted part of a timer, restored on the next start.
type Session struct {
	Elapsed   time.Duration
	Target    time.Duration
	HasTarget bool
	SavedAt   time.Time
}

type yamlSession struct {
	ElapsedMs int64     `yaml:"elapsed_ms"`
	TargetMs  *int64    `yaml:"target_ms,omitempty"`
	SavedAt   time.Time `yaml:"saved_at"`
}

// SessionFromSnapshot captures the fields of snapshot worth persisting.
func SessionFromSnapshot(snapshot timer.Snapshot, savedAt time.Time) Session {
	return Session{
		Elapsed:   snapshot.Elapsed,
		Target:    snapshot.Target,
		HasTarget: snapshot.HasTarget,
		SavedAt:   savedAt,
	}
}

// LoadSession reads the saved session. It returns ErrNoSession when none exists.
func (store *Store) LoadSession() (Session, error) {
	rawData, err := os.ReadFile(store.path(sessionFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var fileData yamlSession
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return Session{}, fmt.Errorf("parse session yaml: %w", err)
	}

	session := Session{SavedAt: fileData.SavedAt}
	if fileData.ElapsedMs > 0 {
		session.Elapsed = time.Duration(fileData.ElapsedMs) * time.Millisecond
	}
	if fileData.TargetMs != nil && *fileData.TargetMs >= 0 {
		session.Target = time.Duration(*fileData.TargetMs) * time.Millisecond
		session.HasTarget = true
	}
	return session, nil
}

// SaveSession writes session to YAML.
func (store *Store) SaveSession(session Session) error {
	fileData := yamlSession{
		ElapsedMs: session.Elapsed.Milliseconds(),
		SavedAt:   session.SavedAt,
	}
	if session.HasTarget {
		targetMs := session.Target.Milliseconds()
		fileData.TargetMs = &targetMs
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal session yaml: %w", err)
	}
	return store.write(sessionFileName, serialized)
}

// ClearSession removes the saved session, if any.
func (store *Store) ClearSession() error {
	err := os.Remove(store.path(sessionFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Restore feeds session into engine through its restore intake.
func (session Session) Restore(engine *timer.Engine) {
	engine.SaveElapsed(session.Elapsed)
	if session.HasTarget {
		engine.SetTargetDuration(session.Target)
	}
}
