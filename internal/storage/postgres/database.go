package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/VitaminP8/moim/models"
	"github.com/VitaminP8/moim/pkg/logger"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB(dsn string) error {
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	DB = db
	logger.Get().Info("Successfully connected to the database")
	return nil
}

// Migrate создаёт или обновляет схему для всех моделей
func Migrate() error {
	if DB == nil {
		return errors.New("database is not initialized")
	}
	if err := DB.AutoMigrate(models.AllModels()...).Error; err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	// sqlite не умеет ALTER TABLE ... ADD CONSTRAINT
	if DB.Dialect().GetName() == "postgres" {
		if err := addForeignKeys(DB); err != nil {
			return fmt.Errorf("failed to add foreign keys: %w", err)
		}
	}
	logger.Get().Info("Database schema migrated", zap.Int("models", len(models.AllModels())))
	return nil
}

type foreignKey struct {
	model  interface{}
	field  string
	target string
}

var foreignKeys = []foreignKey{
	{&models.Post{}, "user_id", "users(id)"},
	{&models.Comment{}, "post_id", "posts(id)"},
	{&models.Comment{}, "user_id", "users(id)"},
	{&models.Like{}, "post_id", "posts(id)"},
	{&models.Like{}, "user_id", "users(id)"},
	{&models.Friendship{}, "requester_id", "users(id)"},
	{&models.Friendship{}, "addressee_id", "users(id)"},
}

// addForeignKeys удаляет зависимые строки вместе с пользователем или постом на уровне базы.
// gorm пропускает уже существующие ключи
func addForeignKeys(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		if err := db.Model(fk.model).AddForeignKey(fk.field, fk.target, "CASCADE", "CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}

// forUpdate блокирует выбранные строки до конца транзакции.
// sqlite сериализует запись сам и FOR UPDATE не принимает
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialect().GetName() == "postgres" {
		return tx.Set("gorm:query_option", "FOR UPDATE")
	}
	return tx
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	logger.Get().Info("Database connection closed")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}

// isUniqueViolation распознаёт нарушение уникального индекса в postgres и sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

// pairKey одинаков для (a, b) и (b, a)
func pairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
