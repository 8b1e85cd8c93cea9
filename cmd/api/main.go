package main

import (
	"fmt"
	"net/http"

	"github.com/peoplekit/absence-backend-go/internal/config"
	appHTTP "github.com/peoplekit/absence-backend-go/internal/handler/http"
	"github.com/peoplekit/absence-backend-go/internal/pkg/database"
	"github.com/peoplekit/absence-backend-go/internal/pkg/jwt"
	"github.com/peoplekit/absence-backend-go/internal/pkg/oauth"
	"github.com/peoplekit/absence-backend-go/internal/pkg/sse"
	"github.com/peoplekit/absence-backend-go/internal/repository/postgresql"
	absenceService "github.com/peoplekit/absence-backend-go/internal/service/absence"
	authService "github.com/peoplekit/absence-backend-go/internal/service/auth"
	employeeService "github.com/peoplekit/absence-backend-go/internal/service/employee"
	notificationService "github.com/peoplekit/absence-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, hub, cfg.Notification)
	defer notifService.Stop()

	authSvc := authService.NewAuthService(db, userRepo, jwtService, jwtRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, userRepo, notifService)
	absenceSvc := absenceService.NewRecordService(db, cfg.Absence, absenceRepo, employeeRepo, userRepo, notifService)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifService, jwtService)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, FrontendURL: cfg.App.FrontendURL},
		jwtService,
		authHandler,
		absenceHandler,
		employeeHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
