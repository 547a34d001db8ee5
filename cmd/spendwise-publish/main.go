package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/cli"
	"spendwise/internal/inbox"
	"spendwise/internal/log"
)

func main() {
	cli.LoadEnvFile()

	file := flag.String("file", "", "inbox dump to publish (default: INBOX_FILE)")
	maxCount := flag.Int("max", 0, "maximum number of messages (default: INBOX_MAX_COUNT)")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentAMQP)

	path := *file
	if path == "" {
		path = cfg.InboxFile
	}
	if path == "" {
		logger.Error("No inbox file given, use -file or INBOX_FILE")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to publish")
		os.Exit(1)
	}
	limit := *maxCount
	if limit <= 0 {
		limit = cfg.InboxMaxCount
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	msgs, err := inbox.NewFile(path).ListInbox(ctx, inbox.ListOptions{MaxCount: limit})
	if err != nil {
		logger.Error("Failed to read inbox", "path", path, log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	published := 0
	for _, msg := range msgs {
		if err := client.PublishMessage(ctx, msg); err != nil {
			logger.Error("Publish failed", "external_id", msg.ExternalID, "published", published, log.FieldError, err)
			os.Exit(1)
		}
		published++
	}

	logger.Info("Messages published", "published", published, "path", path)
	fmt.Printf("Published %d messages\n", published)
}
