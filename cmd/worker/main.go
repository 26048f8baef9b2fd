package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyreserve/skyreserve/config"
	"github.com/skyreserve/skyreserve/internal/email"
	"github.com/skyreserve/skyreserve/internal/kafka"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(cfg.Mail)

	log.Printf("worker consuming %s", cfg.Kafka.NotificationsTopic)
	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.NotificationEvent) error {
		if err := sender.Send(ctx, event.To, event.Subject, event.Body); err != nil {
			// Mail failures are logged and the offset advances; a bounced
			// notification never wedges the topic.
			log.Printf("send %s mail to %s: %v", event.Type, event.To, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Println("worker shut down")
}
