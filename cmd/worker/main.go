// The worker drains the notification queue and delivers admin login codes
// through the mail gateway. It runs alongside the API so a slow or flaky
// mail path never blocks the login endpoint.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resultportal/internal/config"
	"resultportal/internal/mailer"
	"resultportal/internal/queue"
	"resultportal/internal/store"
)

type loginCodeMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func main() {
	cfg := config.Load()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		log.Println("warning: memory queue backend has no cross-process delivery; worker will see nothing")
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "resultportal:otp")
	}

	mail := mailer.New(cfg.MailGatewayURL, cfg.MailFrom, cfg.MailSkip)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down worker...")
		cancel()
	}()

	msgs, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume failed: %v", err)
	}

	log.Println("worker started, waiting for login codes")
	for msg := range msgs {
		if msg.Type != "otp" {
			log.Printf("skipping message of type %q", msg.Type)
			continue
		}
		var m loginCodeMessage
		if err := json.Unmarshal(msg.Body, &m); err != nil {
			log.Printf("bad otp message: %v", err)
			continue
		}
		if err := mail.SendLoginCode(ctx, m.Email, m.Code); err != nil {
			log.Printf("login code delivery failed for %s: %v", m.Email, err)
		}
	}

	log.Println("Worker exited")
}
