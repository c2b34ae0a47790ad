package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "SIMS-backend/docs"
	"SIMS-backend/internal/attendance"
	"SIMS-backend/internal/platform/auth"
	"SIMS-backend/internal/platform/db"
	"SIMS-backend/internal/school"
	"SIMS-backend/internal/students"
)

// @title           SIMS API
// @version         1.0
// @description     School attendance backend (Gin + MySQL)
// @BasePath        /api/v1
func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS is only needed while the frontend runs on its own dev server.
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	schoolSvc := school.NewService(conn)

	// /api/v1
	api := r.Group("/api/v1")
	attendance.RegisterRoutes(api, attendance.NewService(conn, schoolSvc))
	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(conn))

	// roster and settings management requires a staff token
	admin := api.Group("", auth.RequireAuth(auth.JWTSecret()))
	school.RegisterRoutes(admin, schoolSvc)
	students.RegisterRoutes(admin, students.NewService(conn))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if cfg.Certificate.Cert != "" {
			var certFile, keyFile string
			if mode == "dev" {
				certFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Cert)
				keyFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Key)
			} else {
				certFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
				keyFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
			}
			log.Printf("[INFO] listening on https://0.0.0.0:%s", cfg.Port)
			if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
			return
		}
		log.Printf("[INFO] listening on http://0.0.0.0:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
