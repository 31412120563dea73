package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	return gormDB, mock, nil
}

func TestProductRepository_ListStalest(t *testing.T) {
	db, mock, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)

	rows := sqlmock.NewRows([]string{"id", "asin", "user_id", "title", "affiliate_link", "price"}).
		AddRow(1, "B000TEST01", "device-1", "Old Product", "https://amzn.to/a", 100.0).
		AddRow(2, "B000TEST02", "device-1", "Older Product", "https://amzn.to/b", 50.0)

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE user_id = \\? ORDER BY last_update ASC LIMIT \\?").
		WithArgs("device-1", 20).
		WillReturnRows(rows)

	products, err := repo.ListStalest(context.Background(), "device-1", 20)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}
	if products[0].ASIN != "B000TEST01" {
		t.Errorf("Expected ASIN B000TEST01, got %s", products[0].ASIN)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_SiblingsByMessageID(t *testing.T) {
	db, mock, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)

	rows := sqlmock.NewRows([]string{"id", "asin", "user_id", "message_id"}).
		AddRow(1, "B000TEST01", "device-1", 555).
		AddRow(2, "B000TEST02", "device-1", 555)

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE user_id = \\? AND message_id = \\?").
		WithArgs("device-1", int64(555)).
		WillReturnRows(rows)

	siblings, err := repo.SiblingsByMessageID(context.Background(), "device-1", 555)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(siblings) != 2 {
		t.Errorf("Expected 2 siblings, got %d", len(siblings))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_UpdatePrice(t *testing.T) {
	db, mock, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET").
		WithArgs(at, 90.0, "device-1", "B000TEST01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.UpdatePrice(context.Background(), "device-1", "B000TEST01", 90.0, at)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_Touch(t *testing.T) {
	db, mock, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET `last_update`=\\? WHERE user_id = \\? AND asin = \\?").
		WithArgs(at, "device-1", "B000TEST01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Touch(context.Background(), "device-1", "B000TEST01", at)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_DeleteByASINs(t *testing.T) {
	db, mock, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `products` WHERE user_id = \\? AND asin IN \\(\\?,\\?\\)").
		WithArgs("device-1", "B000TEST01", "B000TEST02").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	deleted, err := repo.DeleteByASINs(context.Background(), "device-1", []string{"B000TEST01", "B000TEST02"})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProductRepository_DeleteByASINs_Empty(t *testing.T) {
	db, _, err := setupTestDB()
	if err != nil {
		t.Fatalf("Failed to setup test database: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := NewProductRepository(db)

	deleted, err := repo.DeleteByASINs(context.Background(), "device-1", nil)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deleted rows, got %d", deleted)
	}
}
