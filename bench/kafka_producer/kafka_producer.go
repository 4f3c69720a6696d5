package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	appkafka "example.com/golfbuddy/internal/broker"
	"example.com/golfbuddy/internal/models"
	"github.com/gocql/gocql"
	"github.com/segmentio/kafka-go"
)

func main() {
	var (
		broker     string
		topic      string
		total      int
		batchSize  int
		numWorkers int
		actorID    int64
		postID     int64
	)
	flag.StringVar(&broker, "broker", "localhost:9092", "Kafka broker address")
	flag.StringVar(&topic, "topic", "golfbuddy-activity", "activity topic")
	flag.IntVar(&total, "n", 100000, "total number of events to send")
	flag.IntVar(&batchSize, "batch", 100, "events per write")
	flag.IntVar(&numWorkers, "workers", 4, "number of parallel writers")
	flag.Int64Var(&actorID, "actor", 1, "user id the synthetic posts are attributed to")
	flag.Int64Var(&postID, "post", 1, "post id carried by the events")
	flag.Parse()

	w, err := appkafka.NewKafkaWriter(appkafka.KafkaConfig{
		Brokers:      []string{broker},
		Topic:        topic,
		WriteTimeout: 10 * time.Second,
	})
	if err != nil {
		fmt.Printf("failed to connect to Kafka: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	start := time.Now()
	var successCount, failCount uint64

	flush := func(batch []kafka.Message) {
		if len(batch) == 0 {
			return
		}
		if err := w.WriteMessages(batch...); err != nil {
			atomic.AddUint64(&failCount, uint64(len(batch)))
			fmt.Printf("write error: %v\n", err)
			return
		}
		atomic.AddUint64(&successCount, uint64(len(batch)))
	}

	jobs := make(chan int, total)
	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]kafka.Message, 0, batchSize)

			for range jobs {
				msg, err := appkafka.EncodeEvent(models.Event{
					ID:      gocql.TimeUUID().String(),
					Type:    models.EventPostCreated,
					ActorID: actorID,
					PostID:  postID,
					Created: time.Now().UTC(),
				})
				if err != nil {
					atomic.AddUint64(&failCount, 1)
					fmt.Printf("encode error: %v\n", err)
					continue
				}

				batch = append(batch, msg)
				if len(batch) >= batchSize {
					flush(batch)
					batch = batch[:0]
				}
			}
			flush(batch)
		}()
	}

	for i := range total {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("Total events: %d\n", total)
	fmt.Printf("Successful: %d, Failed: %d\n", successCount, failCount)
	fmt.Printf("Elapsed time: %s\n", elapsed)
	fmt.Printf("Throughput: %.2f msg/s\n", float64(successCount)/elapsed.Seconds())
}
