package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/api/handlers"
	"github.com/hackathon-melon-soda/tetcore-backend/internal/api/middleware"
	"github.com/hackathon-melon-soda/tetcore-backend/internal/database"
	"github.com/hackathon-melon-soda/tetcore-backend/internal/services/tetris"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}

	// データベース接続（DATABASE_URL未設定ならスコア保存なしで起動する）
	var dbService *database.DatabaseService
	var resultRepo database.ResultRepository
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		var err error
		dbService, err = database.NewDatabaseService(databaseURL)
		if err != nil {
			log.Fatalf("データベース接続に失敗しました: %v", err)
		}
		defer dbService.Close()
		resultRepo = database.NewResultRepository(dbService.DB)
	} else {
		log.Println("warning: DATABASE_URL is not set. Running without score persistence.")
	}

	// ゲームセッションマネージャーを起動
	sessionManager := tetris.NewSessionManager(resultRepo)

	gameHandler := handlers.NewGameHandler(sessionManager, dbService)

	r := mux.NewRouter()

	// 認証不要な公開エンドポイント
	r.HandleFunc("/api/public", handlers.PublicHandlerFunc).Methods("GET")

	// データベースに依存するエンドポイント（DBがある場合のみ）
	if dbService != nil {
		publicHandler := handlers.NewPublicHandler(dbService)
		resultHandler := handlers.NewResultHandler(resultRepo)
		r.HandleFunc("/api/user/{userID}/display-name", publicHandler.GetUserDisplayNameHandler).Methods("GET")
		r.HandleFunc("/api/results", resultHandler.GetTopResults).Methods("GET")
		r.HandleFunc("/api/results", resultHandler.PostScore).Methods("POST")
		r.HandleFunc("/api/results/user/{userID}", resultHandler.GetUserResult).Methods("GET")
	}

	// WebSocket接続（認証はハンドシェイクメッセージで行う）
	r.HandleFunc("/ws/game/{roomID}", gameHandler.HandleWebSocketConnection)

	// 認証が必要なルートグループ
	protectedRouter := r.PathPrefix("/api/game").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware)
	protectedRouter.HandleFunc("/rooms", gameHandler.CreateRoom).Methods("POST")
	protectedRouter.HandleFunc("/rooms/{roomID}", gameHandler.GetRoomStatus).Methods("GET")

	handler := middleware.CORSHandler()(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("サーバーの起動に失敗しました: %v", err)
		}
	}()

	// SIGINT/SIGTERMでグレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sessionManager.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("サーバーのシャットダウンに失敗しました: %v", err)
	}
	log.Println("Server stopped.")
}
