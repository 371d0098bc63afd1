package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"ecowatch-reporting-system/pkg/middleware"
	"ecowatch-reporting-system/pkg/queue"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusEvent mirrors the report lifecycle event published by the report
// service on each transition.
type StatusEvent struct {
	ReportID      string    `json:"report_id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	SubmitterID   string    `json:"submitter_id"`
	PointsAwarded int       `json:"points_awarded,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Client struct {
	UserID string
	Role   string
	Send   chan StatusEvent
}

var (
	clients    = make(map[*Client]bool)
	broadcast  = make(chan StatusEvent, 100)
	register   = make(chan *Client)
	unregister = make(chan *Client)
	mu         sync.RWMutex
)

func main() {
	rabbitMQURL := os.Getenv("RABBITMQ_URL")
	if rabbitMQURL == "" {
		host := os.Getenv("RABBITMQ_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("RABBITMQ_PORT")
		if port == "" {
			port = "5672"
		}
		user := os.Getenv("RABBITMQ_USER")
		if user == "" {
			user = "guest"
		}
		pass := os.Getenv("RABBITMQ_PASS")
		if pass == "" {
			pass = "guest"
		}
		rabbitMQURL = fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)
	}

	conn, ch, err := queue.ConnectRabbitMQ(rabbitMQURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()

	log.Println("[OK] Connected to RabbitMQ")

	msgs, err := queue.ConsumeMessages(ch, "notifications", "report.updated")
	if err != nil {
		log.Fatalf("[ERROR] Failed to consume queue: %v", err)
	}
	log.Println("[INFO] Listening to notifications queue")

	middleware.RegisterMetrics()

	go consumeEvents(msgs)
	go handleClients()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/health", healthHandler)
	apiMux.Handle("/metrics", middleware.GetMetricsHandler())

	apiHandler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(apiMux),
		),
	)

	rootMux := http.NewServeMux()
	rootMux.Handle("/notifications/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/", apiHandler)

	port := os.Getenv("NOTIFICATION_PORT")
	if port == "" {
		port = "8084"
	}

	log.Printf("[INFO] Notification Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, rootMux); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func consumeEvents(msgs <-chan amqp.Delivery) {
	for d := range msgs {
		var event StatusEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("[WARN] Failed to parse event: %v", err)
			continue
		}

		log.Printf("[OK] Event received - Report: %s, Status: %s", event.ReportID, event.Status)
		broadcast <- event
	}
}

func handleClients() {
	for {
		select {
		case client := <-register:
			mu.Lock()
			clients[client] = true
			mu.Unlock()
			log.Printf("[INFO] Client registered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case client := <-unregister:
			mu.Lock()
			if _, ok := clients[client]; ok {
				delete(clients, client)
				close(client.Send)
			}
			mu.Unlock()
			log.Printf("[INFO] Client unregistered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case event := <-broadcast:
			mu.RLock()
			for client := range clients {
				// Status updates go to the report owner and to admin
				// dashboards. Anonymous reports reach admins only.
				if client.Role != "admin" && client.UserID != event.SubmitterID {
					continue
				}

				select {
				case client.Send <- event:
				default:
					// Client's send channel is full, skip
				}
			}
			mu.RUnlock()
		}
	}
}

// subscribeHandler streams lifecycle events over SSE.
func subscribeHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		log.Printf("[WARN] Invalid token attempt: %v", err)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	client := &Client{
		UserID: claims.UserID,
		Role:   claims.Role,
		Send:   make(chan StatusEvent, 10),
	}

	register <- client
	defer func() {
		unregister <- client
	}()

	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","message":"Connection established"}`)
	w.(http.Flusher).Flush()

	for event := range client.Send {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", string(data))
		w.(http.Flusher).Flush()
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	mu.RLock()
	connectedClients := len(clients)
	mu.RUnlock()

	health := map[string]interface{}{
		"status":            "UP",
		"service":           "notification-service",
		"connected_clients": connectedClients,
	}

	json.NewEncoder(w).Encode(health)
}
