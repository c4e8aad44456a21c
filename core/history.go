package core

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

const (
	maxCommands  = 500
	maxTransfers = 200
)

type TransferRecord struct {
	Direction string    `json:"direction"` // download, upload
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	At        time.Time `json:"at"`
}

type historyData struct {
	Commands []string `json:"commands"`
	// Host address -> transfers, oldest first
	Transfers map[string][]TransferRecord `json:"transfers"`
}

// HistoryManager keeps submitted command lines and completed transfers
// across runs.
type HistoryManager struct {
	Path string
	data historyData
	mu   sync.RWMutex
}

func NewHistoryManager(path string) *HistoryManager {
	return &HistoryManager{
		Path: path,
		data: historyData{Transfers: make(map[string][]TransferRecord)},
	}
}

func (hm *HistoryManager) Load() error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	data, err := os.ReadFile(hm.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded historyData
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Transfers == nil {
		loaded.Transfers = make(map[string][]TransferRecord)
	}
	hm.data = loaded
	return nil
}

func (hm *HistoryManager) Save() error {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	data, err := json.MarshalIndent(hm.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(hm.Path, data, 0644)
}

func (hm *HistoryManager) AddCommand(line string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.data.Commands = appendBounded(hm.data.Commands, line, maxCommands)
}

// Commands returns a copy of the recorded command lines, oldest first.
func (hm *HistoryManager) Commands() []string {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return append([]string(nil), hm.data.Commands...)
}

func (hm *HistoryManager) AddTransfer(host string, rec TransferRecord) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	hm.data.Transfers[host] = appendBounded(hm.data.Transfers[host], rec, maxTransfers)
}

func (hm *HistoryManager) Transfers(host string) []TransferRecord {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return append([]TransferRecord(nil), hm.data.Transfers[host]...)
}

func appendBounded[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = append(s[:0:0], s[len(s)-limit:]...)
	}
	return s
}
