package events

import (
	"context"
	"log"
	"time"
)

// CleanupService periodically deactivates events that ended longer
// than the retention window ago, keeping the catalog queries lean.
type CleanupService struct {
	service   Service
	interval  time.Duration
	retention time.Duration
}

func NewCleanupService(service Service, interval, retention time.Duration) *CleanupService {
	return &CleanupService{
		service:   service,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the cleanup job
func (c *CleanupService) Start(ctx context.Context) {
	log.Printf("Starting event cleanup service with interval: %v", c.interval)

	// Run initial cleanup
	c.runCleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup(ctx)
		case <-ctx.Done():
			log.Println("Stopping event cleanup service")
			return
		}
	}
}

func (c *CleanupService) runCleanup(ctx context.Context) {
	log.Println("Running event cleanup...")

	startTime := time.Now()
	deactivated, err := c.service.DeactivateEndedEvents(ctx, time.Now().Add(-c.retention))
	if err != nil {
		log.Printf("Failed to clean up ended events: %v", err)
		return
	}
	log.Printf("Event cleanup completed in %v, deactivated %d events", time.Since(startTime), deactivated)
}
