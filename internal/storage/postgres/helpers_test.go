package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // Импортируем драйвер SQLite
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_secret_key_for_jwt"

// Создает контекст с ID пользователя
func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

// setupTestDB создает тестовую БД в памяти и выполняет миграции
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Сохраняем оригинальное соединение (если оно есть)
	oldDB := GetDB()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to connect to in-memory SQLite")

	// у каждого соединения :memory: своя база, поэтому пул из одного соединения
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)

	InitDBWithConnection(db)
	require.NoError(t, Migrate(), "Failed to migrate database schema")

	t.Cleanup(func() {
		db.Close()
	})
	return oldDB
}

// teardownTestDB восстанавливает оригинальную базу данных
func teardownTestDB(db *gorm.DB) {
	InitDBWithConnection(db)
}

// createTestUser вставляет пользователя напрямую, минуя bcrypt
func createTestUser(t *testing.T, name string) uint {
	t.Helper()

	user := &models.User{
		FirstName: name,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "not-a-hash",
	}
	require.NoError(t, DB.Create(user).Error, "Failed to create test user")
	return user.ID
}

// createTestUsers создаёт пользователей и возвращает их ID по имени
func createTestUsers(t *testing.T, names ...string) map[string]uint {
	t.Helper()

	ids := make(map[string]uint, len(names))
	for _, name := range names {
		ids[name] = createTestUser(t, name)
	}
	return ids
}

// beforeInsert запускает action в отдельной горутине перед первой вставкой в table
// и ждёт её не дольше wait. Возвращаемый канал закрывается, когда action завершилась
func beforeInsert(t *testing.T, table string, wait time.Duration, action func()) <-chan struct{} {
	t.Helper()

	done := make(chan struct{})
	var once sync.Once
	name := "test:before_insert_" + table

	DB.Callback().Create().Before("gorm:begin_transaction").Register(name, func(scope *gorm.Scope) {
		if scope.TableName() != table {
			return
		}
		once.Do(func() {
			go func() {
				defer close(done)
				action()
			}()
			select {
			case <-done:
			case <-time.After(wait):
			}
		})
	})
	t.Cleanup(func() {
		DB.Callback().Create().Remove(name)
	})
	return done
}
