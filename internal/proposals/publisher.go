package proposals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
)

// SummaryStore publishes the derived line-item collection and summary to
// Redis for cross-view consumption. Publication is one-way; nothing here
// reads the store back into the engine.
type SummaryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryStore constructs a SummaryStore. A zero ttl keeps snapshots
// until overwritten.
func NewSummaryStore(client *redis.Client, ttl time.Duration) *SummaryStore {
	return &SummaryStore{client: client, ttl: ttl}
}

// Publish writes the full snapshot for a manufacturer version.
func (s *SummaryStore) Publish(ctx context.Context, versionID string, snap pricing.Version) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("proposals: encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(versionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("proposals: publish snapshot: %w", err)
	}
	return nil
}

func snapshotKey(versionID string) string {
	return "quote:snapshot:" + versionID
}
