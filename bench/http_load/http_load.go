package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"example.com/golfbuddy/internal/loadtest"
)

func main() {
	var (
		server      string
		certFile    string
		keyFile     string
		duration    int
		concurrency int
		csvFile     string
		trimPercent float64
	)
	flag.StringVar(&server, "server", "http://localhost:8080", "server base URL")
	flag.StringVar(&certFile, "cert", "", "client certificate for mTLS")
	flag.StringVar(&keyFile, "key", "", "client key for mTLS")
	flag.IntVar(&duration, "duration", 30, "duration in seconds")
	flag.IntVar(&concurrency, "c", 50, "number of concurrent users")
	flag.StringVar(&csvFile, "csv", "latencies.csv", "CSV file to save latencies")
	flag.Float64Var(&trimPercent, "trim", 1.0, "percent trimmed from each end for the mean")
	flag.Parse()

	client, err := loadtest.NewClient(server, certFile, keyFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	ctx := context.Background()

	fmt.Printf("Creating %d users...\n", concurrency)
	run := time.Now().UnixNano()
	users := make([]loadtest.Session, concurrency)
	for i := range users {
		users[i], err = client.Signup(ctx, fmt.Sprintf("load-%d-%d", i, run))
		if err != nil {
			fmt.Printf("signup failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("Users created.")

	stopTime := time.Now().Add(time.Duration(duration) * time.Second)
	var wg sync.WaitGroup
	var requests, successes, errors4xx, errors5xx int64
	latencySlices := make([][]float64, concurrency)

	for i := range concurrency {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			var local []float64

			for time.Now().Before(stopTime) {
				start := time.Now()
				code, err := client.Post(ctx, users[idx], fmt.Sprintf("Round %d done", time.Now().UnixNano()))
				local = append(local, time.Since(start).Seconds()*1000)
				atomic.AddInt64(&requests, 1)

				switch {
				case err != nil:
					fmt.Printf("Request error: %v\n", err)
				case code >= 200 && code < 300:
					atomic.AddInt64(&successes, 1)
				case code >= 400 && code < 500:
					atomic.AddInt64(&errors4xx, 1)
				case code >= 500:
					atomic.AddInt64(&errors5xx, 1)
				}
			}
			latencySlices[idx] = local
		}(i)
	}
	wg.Wait()

	var all []float64
	for _, s := range latencySlices {
		all = append(all, s...)
	}
	summary := loadtest.Summarize(all, trimPercent)

	fmt.Printf("Requests: %d  Successes: %d  4xx: %d  5xx: %d\n", requests, successes, errors4xx, errors5xx)
	fmt.Printf("Latency (ms): %s\n", summary)

	f, err := os.Create(csvFile)
	if err != nil {
		fmt.Printf("Failed to create CSV file: %v\n", err)
		return
	}
	defer f.Close()
	if err := loadtest.WriteCSV(f, all); err != nil {
		fmt.Printf("Failed to write CSV: %v\n", err)
		return
	}
	fmt.Printf("Saved latencies to %s\n", csvFile)
}
