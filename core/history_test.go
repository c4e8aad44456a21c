package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLoadMissingFile(t *testing.T) {
	hm := NewHistoryManager(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, hm.Load())
	assert.Empty(t, hm.Commands())
	assert.Empty(t, hm.Transfers("host:21"))
}

func TestHistoryLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	assert.Error(t, NewHistoryManager(path).Load())
}

func TestHistorySaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	hm := NewHistoryManager(path)
	hm.AddCommand("cd pub")
	hm.AddCommand("get a.txt")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	hm.AddTransfer("host:21", TransferRecord{Direction: "download", Name: "a.txt", Size: 42, At: at})
	require.NoError(t, hm.Save())

	loaded := NewHistoryManager(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, []string{"cd pub", "get a.txt"}, loaded.Commands())

	transfers := loaded.Transfers("host:21")
	require.Len(t, transfers, 1)
	assert.Equal(t, "a.txt", transfers[0].Name)
	assert.Equal(t, int64(42), transfers[0].Size)
	assert.True(t, at.Equal(transfers[0].At))
}

func TestHistoryBounds(t *testing.T) {
	hm := NewHistoryManager(filepath.Join(t.TempDir(), "history.json"))
	for i := 0; i < maxCommands+10; i++ {
		hm.AddCommand(fmt.Sprintf("cd dir%d", i))
	}
	commands := hm.Commands()
	require.Len(t, commands, maxCommands)
	assert.Equal(t, "cd dir10", commands[0])
	assert.Equal(t, fmt.Sprintf("cd dir%d", maxCommands+9), commands[len(commands)-1])

	for i := 0; i < maxTransfers+1; i++ {
		hm.AddTransfer("host:21", TransferRecord{Direction: "upload", Name: fmt.Sprintf("f%d", i)})
	}
	transfers := hm.Transfers("host:21")
	require.Len(t, transfers, maxTransfers)
	assert.Equal(t, "f1", transfers[0].Name)
	assert.False(t, transfers[0].At.IsZero())
}
