package db

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Cleanup deletes preferences not updated within the retention duration
func Cleanup(ctx context.Context, store PreferenceStore, retention time.Duration) error {
	days := int(retention.Hours() / 24)
	if days < 1 {
		days = 1
	}

	deleted, err := store.DeleteStale(ctx, time.Now().Add(-time.Duration(days)*24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to cleanup preferences: %w", err)
	}

	if deleted > 0 {
		log.Printf("Cleanup: deleted %d preferences older than %d days", deleted, days)
	}

	return nil
}
