package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQLドライバー
)

// DatabaseService provides methods for interacting with the database.
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService creates a new instance of DatabaseService and establishes a database connection.
func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	log.Printf("データベース接続を試行中: URLの最初の50文字: %s...", databaseURL[:min(len(databaseURL), 50)])
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("DatabaseService Error: sql.Openに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースへの接続オブジェクト作成に失敗しました: %w", err)
	}

	// データベース接続の確認 (Ping)
	if err := db.Ping(); err != nil {
		log.Printf("DatabaseService Error: db.Pingに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースのPingに失敗しました。接続情報やネットワークを確認してください: %w", err)
	}

	log.Println("データベースに正常に接続しました。")
	return &DatabaseService{DB: db}, nil
}

// Close closes the underlying database connection.
func (s *DatabaseService) Close() error {
	return s.DB.Close()
}

// GetUserDisplayNameByUserID fetches the display name (user_name) for a given user ID (UUID).
// If the user doesn't exist or user_name is empty, returns "ゲスト".
func (s *DatabaseService) GetUserDisplayNameByUserID(userID string) string {
	var userName sql.NullString
	// users テーブルから userID に紐づく user_name を取得するクエリ
	query := `SELECT user_name FROM users WHERE id = $1`
	err := s.DB.QueryRow(query, userID).Scan(&userName)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("DatabaseService Info: ユーザーID %s が見つからないため、「ゲスト」を返します", userID)
			return "ゲスト"
		}
		log.Printf("DatabaseService Error: ユーザー名の取得に失敗しました: %v, 「ゲスト」を返します", err)
		return "ゲスト"
	}

	// user_nameがNULLまたは空文字列の場合も「ゲスト」を返す
	if !userName.Valid || userName.String == "" {
		log.Printf("DatabaseService Info: ユーザーID %s のuser_nameが空のため、「ゲスト」を返します", userID)
		return "ゲスト"
	}

	return userName.String
}

// min helper function for logging
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
