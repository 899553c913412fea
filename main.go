package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Pranjal6955/TaskBoard-Pro/auth"
	"github.com/Pranjal6955/TaskBoard-Pro/engine"
	"github.com/Pranjal6955/TaskBoard-Pro/handlers"
	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/middleware"
	"github.com/Pranjal6955/TaskBoard-Pro/repositories"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting TaskBoard Pro...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "taskboard"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := mongoClient.Database(mongoDBName)

	notificationRepo, err := repositories.NewNotificationRepo()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASS_INIT_FAILED, Description: Cassandra initialization failed: %v", err)
	}
	defer notificationRepo.CloseSession()
	notificationRepo.CreateTable()

	emailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	taskService := services.NewTaskService(db)
	projectService := services.NewProjectService(db)
	userService := services.NewUserService(db)
	commentService := services.NewCommentService(db, taskService)
	automationService := services.NewAutomationService(db)
	badgeService := services.NewBadgeService(db)
	notificationService := services.NewNotificationService(notificationRepo, emailBreaker)

	controller := engine.NewController(taskService, projectService, automationService, badgeService, notificationService)
	taskService.OnTaskMutated(controller.ProcessEvent)

	checkInterval, _ := time.ParseDuration(os.Getenv("DUE_DATE_CHECK_INTERVAL"))
	checker := services.NewDueDateChecker(taskService, controller, checkInterval)
	checkerCtx, stopChecker := context.WithCancel(context.Background())
	defer stopChecker()
	go checker.Run(checkerCtx)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}
	localVerifier := auth.NewLocalVerifier(jwtSecret)

	verifiers := []auth.TokenVerifier{}
	if jwksURL := os.Getenv("JWKS_URL"); jwksURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(jwksURL, os.Getenv("JWKS_ISSUER"), os.Getenv("JWKS_AUDIENCE"))
		if err != nil {
			logging.Logger.Fatalf("Event ID: JWKS_INIT_FAILED, Description: Identity provider JWKS setup failed: %v", err)
		}
		verifiers = append(verifiers, jwksVerifier)
	} else {
		logging.Logger.Warn("Event ID: JWKS_DISABLED, Description: JWKS_URL not set, provider tokens will not be accepted.")
	}
	verifiers = append(verifiers, localVerifier)
	chain := auth.NewChain(verifiers...)

	authHandler := handlers.NewAuthHandler(localVerifier, userService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, commentService, automationService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService)
	commentHandler := handlers.NewCommentHandler(commentService, taskService, projectService)
	automationHandler := handlers.NewAutomationHandler(automationService, projectService, badgeService, notificationService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/token", authHandler.ExchangeToken).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return middleware.TokenAuthMiddleware(chain, next)
	})

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	protected.HandleFunc("/projects/{id}/members", projectHandler.AddMember).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}/members/{userId}", projectHandler.RemoveMember).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/project/{projectId}", taskHandler.GetTasksByProject).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks/{id}/comments", commentHandler.CreateComment).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}/comments", commentHandler.GetCommentsByTask).Methods(http.MethodGet)
	protected.HandleFunc("/comments/{id}", commentHandler.DeleteComment).Methods(http.MethodDelete)

	protected.HandleFunc("/automations", automationHandler.CreateRule).Methods(http.MethodPost)
	protected.HandleFunc("/automations/project/{projectId}", automationHandler.GetRulesByProject).Methods(http.MethodGet)
	protected.HandleFunc("/automations/badges", automationHandler.GetUserBadges).Methods(http.MethodGet)
	protected.HandleFunc("/automations/notifications", automationHandler.GetUserNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/automations/notifications/{id}/read", automationHandler.MarkNotificationRead).Methods(http.MethodPatch)
	protected.HandleFunc("/automations/{id}", automationHandler.UpdateRule).Methods(http.MethodPut)
	protected.HandleFunc("/automations/{id}", automationHandler.DeleteRule).Methods(http.MethodDelete)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
