package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"SetRadar/cache"
	"SetRadar/config"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Test the Redis result cache connection",
	Long:  `Verify that the configured Redis instance is reachable and supports basic read/write operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if !cfg.CacheEnabled() {
			log.Fatal("Redis cache is not configured (set REDIS_HOST)")
		}
		fmt.Printf("Redis config: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		fmt.Println("Connected.")

		if err := cache.TestRedis(); err != nil {
			log.Fatalf("Redis read/write test failed: %v", err)
		}
		fmt.Println("Read/write test passed.")

		if err := cache.CloseRedis(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
