package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient connects the notification broker. Returns nil when Redis
// is disabled; the notifier degrades to the in-process registry only.
func NewRedisClient(addr string, enabled bool) rueidis.Client {
	if !enabled {
		log.Println("redis disabled, notifications stay in-process")
		return nil
	}

	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return redisClient
}
