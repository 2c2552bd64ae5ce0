package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// JournalSchemaVersion defines the current schema version for journal files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for journal files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// JournalRepository defines the interface for persisting gate run records
type JournalRepository interface {
	Save(ctx context.Context, record *domain.RunRecord) error
	Load(ctx context.Context, sessionID string) (*domain.RunRecord, error)
	LoadLatest(ctx context.Context) (*domain.RunRecord, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// JournalMetadata contains metadata about a journal file
type JournalMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// JournalEntry wraps the run record with metadata
type JournalEntry struct {
	Metadata JournalMetadata   `json:"metadata"`
	Record   *domain.RunRecord `json:"record"`
}

// JSONJournalRepository implements JournalRepository using JSON file storage
type JSONJournalRepository struct {
	fs         afero.Fs
	journalDir string
	log        *zap.Logger
	mu         sync.RWMutex
}

// NewJSONJournalRepository creates a new JSON-based journal repository
func NewJSONJournalRepository(fs afero.Fs, journalDir string, log *zap.Logger) JournalRepository {
	if journalDir == "" {
		journalDir = ".releasegate"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JSONJournalRepository{
		fs:         fs,
		journalDir: journalDir,
		log:        log,
	}
}

// Save persists the run record to a JSON file with proper locking
func (r *JSONJournalRepository) Save(ctx context.Context, record *domain.RunRecord) error {
	if err := r.ensureJournalDir(); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	filename := r.getRecordFilename(record.SessionID)
	lockFile := r.getLockFilename(record.SessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.log.Warn("failed to unlock journal file", zap.Error(unlockErr))
		}
	}()
	entry := JournalEntry{
		Metadata: JournalMetadata{
			SchemaVersion: JournalSchemaVersion,
			CreatedAt:     record.StartedAt,
			UpdatedAt:     time.Now(),
		},
		Record: record,
	}
	recordData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for checksum: %w", err)
	}
	entry.Metadata.Checksum = r.calculateChecksum(recordData)
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	// Write atomically using temp file
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp journal file: %w", err)
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			r.log.Warn("failed to remove temp journal file", zap.Error(removeErr))
		}
		return fmt.Errorf("failed to rename journal file: %w", err)
	}
	if err := r.updateLatestLink(filename); err != nil {
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

// Load retrieves a specific run record by session ID with validation
func (r *JSONJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunRecord, error) {
	filename := r.getRecordFilename(sessionID)
	lockFile := r.getLockFilename(sessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireSharedLockWithContext(lockCtx, lock)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire shared lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire shared lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.log.Warn("failed to unlock journal file", zap.Error(unlockErr))
		}
	}()
	data, err := afero.ReadFile(r.fs, filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	var entry JournalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	if entry.Metadata.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, entry.Metadata.SchemaVersion)
	}
	recordData, err := json.Marshal(entry.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record for checksum validation: %w", err)
	}
	if entry.Metadata.Checksum != r.calculateChecksum(recordData) {
		return nil, fmt.Errorf("journal checksum mismatch: data may be corrupted")
	}
	return entry.Record, nil
}

// LoadLatest retrieves the most recent run record
func (r *JSONJournalRepository) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	latestLink := r.getLatestLink()
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, latestLink)
	r.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no journaled runs found")
		}
		return nil, fmt.Errorf("failed to read latest link: %w", err)
	}
	sessionID := r.extractSessionID(string(data))
	if sessionID == "" {
		return nil, fmt.Errorf("invalid latest link target: %s", string(data))
	}
	return r.Load(ctx, sessionID)
}

// Delete removes a run record
func (r *JSONJournalRepository) Delete(ctx context.Context, sessionID string) error {
	filename := r.getRecordFilename(sessionID)
	lockFile := r.getLockFilename(sessionID)
	lock := flock.New(lockFile)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire lock for deletion: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.log.Warn("failed to unlock journal file", zap.Error(unlockErr))
		}
	}()
	if err := r.fs.Remove(filename); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete journal file: %w", err)
	}
	if removeErr := r.fs.Remove(lockFile); removeErr != nil && !os.IsNotExist(removeErr) {
		r.log.Warn("failed to remove lock file", zap.Error(removeErr))
	}
	return nil
}

// Exists checks if a run record exists
func (r *JSONJournalRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	filename := r.getRecordFilename(sessionID)
	_, err := r.fs.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check journal file: %w", err)
	}
	return true, nil
}

// acquireLockWithContext attempts to acquire an exclusive lock with context support
func (r *JSONJournalRepository) acquireLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

// acquireSharedLockWithContext attempts to acquire a shared lock with context support
func (r *JSONJournalRepository) acquireSharedLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryRLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

// calculateChecksum calculates SHA-256 checksum of data
func (r *JSONJournalRepository) calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ensureJournalDir creates the journal directory if it doesn't exist
func (r *JSONJournalRepository) ensureJournalDir() error {
	return r.fs.MkdirAll(r.journalDir, JournalDirPermissions)
}

// getRecordFilename returns the filename for a given session ID
func (r *JSONJournalRepository) getRecordFilename(sessionID string) string {
	return filepath.Join(r.journalDir, fmt.Sprintf("run-%s.json", sessionID))
}

// getLockFilename returns the lock filename for a given session ID
func (r *JSONJournalRepository) getLockFilename(sessionID string) string {
	return filepath.Join(r.journalDir, fmt.Sprintf(".run-%s.lock", sessionID))
}

// getLatestLink returns the path to the latest run link
func (r *JSONJournalRepository) getLatestLink() string {
	return filepath.Join(r.journalDir, "latest.txt")
}

// updateLatestLink updates the link pointing to the latest run
func (r *JSONJournalRepository) updateLatestLink(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link := r.getLatestLink()
	tempLink := link + ".tmp"
	if err := afero.WriteFile(r.fs, tempLink, []byte(target), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp latest link: %w", err)
	}
	if err := r.fs.Rename(tempLink, link); err != nil {
		if removeErr := r.fs.Remove(tempLink); removeErr != nil {
			r.log.Warn("failed to remove temp latest link", zap.Error(removeErr))
		}
		return fmt.Errorf("failed to update latest link: %w", err)
	}
	return nil
}

// extractSessionID extracts the session ID from a run filename
func (r *JSONJournalRepository) extractSessionID(filename string) string {
	base := filepath.Base(filename)
	if len(base) > 9 && base[:4] == "run-" && base[len(base)-5:] == ".json" {
		return base[4 : len(base)-5]
	}
	return ""
}
