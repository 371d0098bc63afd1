package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"

	"ecowatch-reporting-system/pkg/database"
	"ecowatch-reporting-system/pkg/middleware"
	"ecowatch-reporting-system/pkg/response"
	"ecowatch-reporting-system/services/auth-service/models"
	"ecowatch-reporting-system/services/auth-service/utils"

	"gorm.io/gorm"
)

var db *gorm.DB

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

func main() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_PORT"),
	)

	if os.Getenv("POSTGRES_HOST") == "" {
		dsn = "host=localhost user=admin password=password dbname=auth_db port=5434 sslmode=disable TimeZone=UTC"
	}

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to database: %v", err)
	}

	log.Println("[INFO] Running Auto Migration...")
	err = db.AutoMigrate(&models.User{})
	if err != nil {
		log.Fatalf("[ERROR] Migration failed: %v", err)
	}
	log.Println("[OK] Migration success")

	http.HandleFunc("/api/auth/register", middleware.LoggerMiddleware(http.HandlerFunc(registerHandler)).ServeHTTP)
	http.HandleFunc("/api/auth/login", middleware.LoggerMiddleware(http.HandlerFunc(loginHandler)).ServeHTTP)
	http.HandleFunc("/api/auth/me", middleware.LoggerMiddleware(middleware.AuthMiddleware(meHandler)).ServeHTTP)
	http.HandleFunc("/api/leaderboard", middleware.LoggerMiddleware(http.HandlerFunc(leaderboardHandler)).ServeHTTP)

	http.HandleFunc("/health", healthCheckHandler)

	port := ":8081"
	log.Printf("[INFO] Auth Service running on port %s", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		response.Error(w, http.StatusBadRequest, "Email, Password, and Name are required", "")
		return
	}

	if !isValidEmail(input.Email) {
		response.Error(w, http.StatusBadRequest, "Invalid email format", "")
		return
	}

	if valid, msg := isValidPassword(input.Password); !valid {
		response.Error(w, http.StatusBadRequest, msg, "")
		return
	}

	if len(strings.TrimSpace(input.Name)) < 3 {
		response.Error(w, http.StatusBadRequest, "Name must be at least 3 characters", "")
		return
	}

	var existingUser models.User
	if result := db.Where("email = ?", input.Email).First(&existingUser); result.Error == nil {
		log.Printf("[WARN] Registration attempt with existing email")
		response.Error(w, http.StatusConflict, "Email already registered", "")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to process registration", "")
		return
	}

	newUser := models.User{
		Email:    input.Email,
		Password: hashedPassword,
		Name:     strings.TrimSpace(input.Name),
		Phone:    input.Phone,
		Role:     "citizen",
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("[ERROR] Failed to save user to database: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to save user", "")
		return
	}

	log.Printf("[OK] User registered - ID: %s", newUser.ID)

	token, err := utils.GenerateJWT(newUser.ID, newUser.Email, newUser.Name, newUser.Role)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for user id: %s", newUser.ID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"id":     newUser.ID,
		"token":  token,
		"name":   newUser.Name,
		"role":   newUser.Role,
		"points": newUser.Points,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid login request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if input.Email == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email and Password are required", "")
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		log.Printf("[WARN] Failed login attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		log.Printf("[WARN] Invalid password attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid email or password", "")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for user id: %s", user.ID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	log.Printf("[OK] User logged in - ID: %s, Role: %s", user.ID, user.Role)

	response.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"id":     user.ID,
		"token":  token,
		"name":   user.Name,
		"role":   user.Role,
		"points": user.Points,
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*middleware.UserClaims)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve user context", "")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	response.Success(w, http.StatusOK, "User profile fetched", user)
}

// leaderboardHandler returns the top contributors ordered by points.
func leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	limit := 25
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	var users []models.User
	if err := db.Order("points DESC, created_at ASC").Limit(limit).Find(&users).Error; err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch leaderboard", err.Error())
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Points: u.Points,
		})
	}

	response.Success(w, http.StatusOK, "Leaderboard fetched", entries)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "UP",
		"service": "auth-service",
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		health["status"] = "DOWN"
		health["database"] = "disconnected"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		health["database"] = "connected"
		w.WriteHeader(http.StatusOK)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
