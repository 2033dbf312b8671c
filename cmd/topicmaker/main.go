package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/retail-pos/config"
	"github.com/niksmo/retail-pos/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	delete            = "delete"
	compact           = "compact"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	cl := createClient(cfg.Broker.SeedBrokers)
	defer cl.Close()

	printStart(cfg)
	defer printComplete(time.Now())

	// orders stream
	err := makeTopics(
		sigCtx, cl, delete,
		cfg.Broker.Topics.OrdersStream,
	)
	if err != nil {
		printFail(err)
		return
	}

	// sales stats group table
	err = makeTopics(
		sigCtx, cl, compact,
		toGroupTable(cfg.Broker.Consumers.SalesStatsGroup),
	)
	if err != nil {
		printFail(err)
		return
	}
}

func createClient(seedBrokers []string) *kadm.Client {
	cl, err := kadm.NewOptClient(
		kgo.SeedBrokers(seedBrokers...),
	)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context, cl *kadm.Client, cleanupPolicy string, topics ...string,
) error {
	minISR := "1"

	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		config,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		err := res.Err
		if err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}
	return errors.Join(errs...)
}

func toGroupTable(group string) string {
	return group + "-table"
}

func printStart(cfg config.Config) {
	fmt.Printf(
		"creating topics %q, %q\n",
		cfg.Broker.Topics.OrdersStream,
		toGroupTable(cfg.Broker.Consumers.SalesStatsGroup),
	)
}

func printComplete(start time.Time) {
	fmt.Printf("completed in %v\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: %v\n", err)
}
