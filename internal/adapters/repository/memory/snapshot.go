// Package adapters provides in-memory snapshot storage.
package adapters

import (
	"context"
	"fmt"
	"sync"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/pkg/serialization"
)

// InMemorySnapshotSaver implements services.SnapshotSaver with thread-safe
// in-memory storage. Snapshots are stored serialized, exercising the same
// pipeline the durable savers use, so a snapshot that round-trips here
// round-trips everywhere.
// PRINCIPLES:
// - KISS: A map behind a mutex
// - DIP: Implements the services.SnapshotSaver interface
type InMemorySnapshotSaver struct {
	mu         sync.RWMutex
	snapshots  map[string][]byte
	serializer *serialization.Serializer
}

// NewInMemorySnapshotSaver creates a saver with the default snapshot
// serializer.
func NewInMemorySnapshotSaver() *InMemorySnapshotSaver {
	return &InMemorySnapshotSaver{
		snapshots:  make(map[string][]byte),
		serializer: serialization.DefaultSnapshotSerializer(),
	}
}

// WithSerializer overrides the serializer.
func (s *InMemorySnapshotSaver) WithSerializer(serializer *serialization.Serializer) *InMemorySnapshotSaver {
	s.serializer = serializer
	return s
}

func (s *InMemorySnapshotSaver) Save(ctx context.Context, canvasID string, snap *dto.Snapshot) error {
	if canvasID == "" || snap == nil {
		return fmt.Errorf("invalid snapshot save request")
	}
	data, err := s.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[canvasID] = data
	return nil
}

func (s *InMemorySnapshotSaver) Load(ctx context.Context, canvasID string) (*dto.Snapshot, error) {
	s.mu.RLock()
	data, ok := s.snapshots[canvasID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no snapshot for canvas %s", canvasID)
	}
	var snap dto.Snapshot
	if err := s.serializer.Deserialize(data, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot: %w", err)
	}
	return &snap, nil
}

func (s *InMemorySnapshotSaver) Delete(ctx context.Context, canvasID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, canvasID)
	return nil
}
