// Package main provides a load testing tool for the realtime WebSocket
// fan-out: many clients subscribe to today's APOD post topic while a
// writer posts comments through the REST API, so every comment should
// reach every subscriber.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Metrics tracks the test results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	CommentsSent         int64
	EventsReceived       int64
	Errors               int64
}

var metrics Metrics

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	email := flag.String("email", "barish@example.com", "Test user email")
	password := flag.String("password", "password123", "Test user password")
	clients := flag.Int("clients", 50, "Number of concurrent subscribers")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	flag.Parse()

	log.Printf("🚀 Starting Realtime Fan-out Probe")
	log.Printf("Target: %s", *host)
	log.Printf("Clients: %d", *clients)
	log.Printf("Duration: %v", *duration)

	token, err := login(*host, *email, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	log.Printf("✅ Logged in successfully")

	date := time.Now().UTC().Format("2006-01-02")
	topic := "post:" + date

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runSubscriber(*host, token, topic, stopChan, &wg)
		time.Sleep(20 * time.Millisecond) // stagger connections
	}

	wg.Add(1)
	go runWriter(*host, token, date, stopChan, &wg)

	select {
	case <-time.After(*duration):
		log.Println("⏱️  Test duration reached")
	case <-interrupt:
		log.Println("🛑 Interrupted by user")
	}

	close(stopChan)
	log.Println("Waiting for clients to disconnect...")
	wg.Wait()

	printMetrics()
}

func login(host, email, password string) (string, error) {
	loginURL := fmt.Sprintf("http://%s/api/auth/login", host)
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(loginURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func runSubscriber(host, token, topic string, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws", RawQuery: "token=" + url.QueryEscape(token)}

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	sub := map[string]string{"type": "subscribe", "topic": topic}
	if err := c.WriteJSON(sub); err != nil {
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, _, err := c.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&metrics.EventsReceived, 1)
		}
	}()

	select {
	case <-stopChan:
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	case <-done:
	}
}

// runWriter posts a comment on today's APOD entry every few seconds;
// each one should fan out to every subscriber.
func runWriter(host, token, date string, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	client := &http.Client{Timeout: 5 * time.Second}
	commentURL := fmt.Sprintf("http://%s/api/apod/%s/comments", host, date)

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			n++
			body, _ := json.Marshal(map[string]string{
				"text": fmt.Sprintf("probe comment %d", n),
			})
			req, _ := http.NewRequest(http.MethodPost, commentURL, bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.CommentsSent, 1)
		}
	}
}

func printMetrics() {
	log.Println("\n📊 Test Results")
	log.Println("===============")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", atomic.LoadInt64(&metrics.ConnectionsSuccess))
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Comments Sent: %d", atomic.LoadInt64(&metrics.CommentsSent))
	log.Printf("Events Received: %d", atomic.LoadInt64(&metrics.EventsReceived))
	log.Printf("Total Errors: %d", atomic.LoadInt64(&metrics.Errors))
}
