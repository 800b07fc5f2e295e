package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/device-sync/models"
)

func TestResolveConflict(t *testing.T) {
	lastSeen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	device := func(id string, priority int) models.Device {
		return models.Device{DeviceID: id, Priority: priority, LastSeen: lastSeen, IsActive: true}
	}
	write := func(modified time.Time) models.SyncWrite {
		return models.SyncWrite{Domain: "notes", EntityID: uuid.New(), Version: 3, ModifiedAt: modified}
	}
	state := models.SyncState{DeviceID: "existing", LastSyncVersion: 5}

	tests := []struct {
		name       string
		incoming   models.Device
		write      models.SyncWrite
		existing   models.Device
		wantWinner string
		wantKind   models.ResolutionKind
	}{
		{
			name:       "desktop beats phone",
			incoming:   device("desk", 100),
			write:      write(lastSeen.Add(-time.Hour)),
			existing:   device("phone", 40),
			wantWinner: "desk",
			wantKind:   models.ResolutionCurrentWins,
		},
		{
			name:       "phone loses to desktop",
			incoming:   device("phone", 40),
			write:      write(lastSeen.Add(time.Hour)),
			existing:   device("desk", 100),
			wantWinner: "desk",
			wantKind:   models.ResolutionLatestWins,
		},
		{
			name:       "equal priority, write after last seen",
			incoming:   device("laptop-a", 80),
			write:      write(lastSeen.Add(time.Second)),
			existing:   device("laptop-b", 80),
			wantWinner: "laptop-a",
			wantKind:   models.ResolutionMostRecentWins,
		},
		{
			name:       "equal priority, write before last seen",
			incoming:   device("laptop-a", 80),
			write:      write(lastSeen.Add(-time.Second)),
			existing:   device("laptop-b", 80),
			wantWinner: "laptop-b",
			wantKind:   models.ResolutionLatestWins,
		},
		{
			name:       "equal priority, write exactly at last seen",
			incoming:   device("tab-a", 60),
			write:      write(lastSeen),
			existing:   device("tab-b", 60),
			wantWinner: "tab-b",
			wantKind:   models.ResolutionLatestWins,
		},
		{
			name:       "priority is checked before time",
			incoming:   device("phone", 40),
			write:      write(lastSeen.Add(24 * time.Hour)),
			existing:   device("custom", 50),
			wantWinner: "custom",
			wantKind:   models.ResolutionLatestWins,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveConflict(tt.incoming, tt.write, tt.existing, state)

			assert.Equal(t, tt.wantWinner, got.WinnerDeviceID)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.True(t, got.Conflict)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestResolveConflict_Deterministic(t *testing.T) {
	now := time.Now()
	incoming := models.Device{DeviceID: "a", Priority: 60, LastSeen: now}
	existing := models.Device{DeviceID: "b", Priority: 60, LastSeen: now}
	w := models.SyncWrite{Domain: "notes", EntityID: uuid.New(), Version: 1, ModifiedAt: now.Add(time.Minute)}
	st := models.SyncState{LastSyncVersion: 2}

	first := ResolveConflict(incoming, w, existing, st)
	for range 10 {
		assert.Equal(t, first, ResolveConflict(incoming, w, existing, st))
	}
}
