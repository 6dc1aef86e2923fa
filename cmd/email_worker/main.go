package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/MateusMartins/projetoPOS/config"
	"github.com/MateusMartins/projetoPOS/pkg/helpers"
	"github.com/MateusMartins/projetoPOS/pkg/mailer"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.Fatalf("rabbitmq: %v", err)
	}
	defer q.Close()

	msgs, err := q.Consume(prefetch)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, sender, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(ctx context.Context, logger logrus.FieldLogger, sender mailer.Sender, msg amqp.Delivery) {
	log := logger.WithField("delivery_tag", msg.DeliveryTag)
	outcome, err := mailer.Process(ctx, sender, msg.Body)
	switch outcome {
	case mailer.Ack:
		log.Info("email sent")
		_ = msg.Ack(false)
	case mailer.Drop:
		helpers.LogError(log, "email job dropped", err, nil)
		_ = msg.Nack(false, false)
	case mailer.Retry:
		helpers.LogError(log, "email send failed, requeued", err, nil)
		_ = msg.Nack(false, true)
	}
}
