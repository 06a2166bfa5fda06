package main

import (
	"context"
	"log"
	"time"

	"club-pulse/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumUsers:          10,
		NumCommunities:    5,
		SimulationTime:    5 * time.Minute,
		DiscussionsPerMin: 6.0,
		CommentsPerMin:    20.0,
		LikesPerMin:       30.0,
		PrivateRatio:      0.3,
		ClubID:            "gators",
		EngineURL:         "http://localhost:8080",
	}

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Number of users: %d", config.NumUsers)
	log.Printf("- Number of communities: %d", config.NumCommunities)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Discussions per minute: %.1f", config.DiscussionsPerMin)
	log.Printf("- Comments per minute: %.1f", config.CommentsPerMin)
	log.Printf("- Likes per minute: %.1f", config.LikesPerMin)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total users: %d", metrics.TotalUsers)
	log.Printf("- Total communities: %d", metrics.TotalCommunities)
	log.Printf("- Total discussions: %d", metrics.TotalDiscussions)
	log.Printf("- Total comments: %d", metrics.TotalComments)
	log.Printf("- Total likes: %d", metrics.TotalLikes)
	log.Printf("- Total joins: %d", metrics.TotalJoins)
	log.Printf("- Failed requests: %d/%d", metrics.FailedRequests, metrics.TotalRequests)
	log.Printf("- Average latency: %v", metrics.AverageLatency)
}
