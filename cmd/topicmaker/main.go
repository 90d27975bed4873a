package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/pkg/sigctx"
)

const (
	partitions        = 3
	replicationFactor = 3
	cleanupDelete     = "delete"
	minISR            = "1"

	// Product views only feed analytics; a week is enough to replay them.
	productViewsRetention = "604800000"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	cl := createClient(cfg)
	defer cl.Close()

	printStart(cfg)
	defer printComplete(time.Now())

	err := makeTopics(
		sigCtx, cl, nil,
		cfg.Broker.Topics.OrdersCreated,
	)
	if err != nil {
		printFail(err)
		return
	}

	retention := productViewsRetention
	err = makeTopics(
		sigCtx, cl, map[string]*string{"retention.ms": &retention},
		cfg.Broker.Topics.ProductViews,
	)
	if err != nil {
		printFail(err)
		return
	}
}

func createClient(cfg config.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}
	if cfg.TLSEnabled() {
		tlsCfg := adapter.MakeTLSConfig(
			cfg.Broker.TLS.CA, cfg.Broker.TLS.Cert, cfg.Broker.TLS.Key,
		)
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context, cl *kadm.Client, extra map[string]*string, topics ...string,
) error {
	cleanupPolicy, isr := cleanupDelete, minISR
	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &isr,
	}
	for k, v := range extra {
		config[k] = v
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

func printStart(cfg config.Config) {
	fmt.Printf(`initializing topics...
	- %q
	- %q

`,
		cfg.Broker.Topics.OrdersCreated,
		cfg.Broker.Topics.ProductViews,
	)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
