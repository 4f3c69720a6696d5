package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"example.com/golfbuddy/internal/loadtest"
	"example.com/golfbuddy/internal/models"
)

// e2e_bench measures how long a post takes to show up in the notification
// timelines of the author's followers.
func main() {
	var (
		server      string
		certFile    string
		keyFile     string
		numUsers    int
		follows     int
		numPosts    int
		concurrency int
		pollTimeout int
	)
	flag.StringVar(&server, "server", "http://localhost:8080", "server base URL")
	flag.StringVar(&certFile, "cert", "", "client certificate for mTLS")
	flag.StringVar(&keyFile, "key", "", "client key for mTLS")
	flag.IntVar(&numUsers, "users", 50, "number of users to create")
	flag.IntVar(&follows, "follows", 10, "average follows per user")
	flag.IntVar(&numPosts, "posts", 100, "number of posts to publish")
	flag.IntVar(&concurrency, "c", 20, "concurrency for posting")
	flag.IntVar(&pollTimeout, "timeout", 10, "seconds to wait for a notification")
	flag.Parse()

	client, err := loadtest.NewClient(server, certFile, keyFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	ctx := context.Background()

	fmt.Printf("Creating %d users...\n", numUsers)
	run := time.Now().UnixNano()
	users := make([]loadtest.Session, numUsers)
	for i := range users {
		users[i], err = client.Signup(ctx, fmt.Sprintf("e2e-%d-%d", i, run))
		if err != nil {
			fmt.Printf("signup failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Creating follows (~%d per user)...\n", follows)
	followers := make(map[int64][]loadtest.Session)
	for _, u := range users {
		seen := map[int64]bool{u.UserID: true}
		for range follows {
			target := users[rand.Intn(len(users))]
			if seen[target.UserID] {
				continue
			}
			seen[target.UserID] = true
			if err := client.Follow(ctx, u, target.UserID); err != nil {
				fmt.Printf("follow failed: %v\n", err)
				os.Exit(1)
			}
			followers[target.UserID] = append(followers[target.UserID], u)
		}
	}

	type postRecord struct {
		Author int64
		Sent   time.Time
	}

	fmt.Printf("Publishing %d posts with concurrency %d...\n", numPosts, concurrency)
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	postsCh := make(chan postRecord, numPosts)

	for range numPosts {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			author := users[rand.Intn(len(users))]
			sent := time.Now().UTC()
			code, err := client.Post(ctx, author, fmt.Sprintf("Par on %d", rand.Intn(18)+1))
			if err != nil || code != 200 {
				fmt.Printf("post failed: status=%d err=%v\n", code, err)
				return
			}
			postsCh <- postRecord{Author: author.UserID, Sent: sent}
		}()
	}
	wg.Wait()
	close(postsCh)

	fmt.Println("Checking notification delivery...")
	var latencies []float64
	var failCount int
	var mu sync.Mutex
	var checks sync.WaitGroup

	for pr := range postsCh {
		for _, f := range followers[pr.Author] {
			checks.Add(1)
			go func(pr postRecord, f loadtest.Session) {
				defer checks.Done()
				deadline := time.Now().Add(time.Duration(pollTimeout) * time.Second)

				for time.Now().Before(deadline) {
					items, err := client.Notifications(ctx, f, 200)
					if err == nil && delivered(items, pr.Author, pr.Sent) {
						mu.Lock()
						latencies = append(latencies, time.Since(pr.Sent).Seconds()*1000)
						mu.Unlock()
						return
					}
					time.Sleep(200 * time.Millisecond)
				}

				mu.Lock()
				failCount++
				mu.Unlock()
			}(pr, f)
		}
	}
	checks.Wait()

	if len(latencies) == 0 {
		fmt.Println("No successful deliveries recorded.")
		return
	}
	summary := loadtest.Summarize(latencies, 1.0)
	fmt.Printf("Delivery stats (ms): %s fails=%d\n", summary, failCount)

	f, err := os.Create("e2e_latencies.csv")
	if err != nil {
		fmt.Printf("Failed to create CSV file: %v\n", err)
		return
	}
	defer f.Close()
	if err := loadtest.WriteCSV(f, latencies); err != nil {
		fmt.Printf("Failed to write CSV: %v\n", err)
		return
	}
	fmt.Println("Saved e2e_latencies.csv")
}

func delivered(items []models.Notification, author int64, sent time.Time) bool {
	for _, n := range items {
		if n.Type == models.EventPostCreated && n.ActorID == author && !n.Created.Before(sent.Add(-time.Second)) {
			return true
		}
	}
	return false
}
