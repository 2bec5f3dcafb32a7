package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"product_id", "product_name", "product_desc", "category_id", "base_price", "product_img", "featured", "score", "created_at", "updated_at"})
}

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%tee%", 2, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT product_id").
		WithArgs("%tee%", 2, false, 20, 0).
		WillReturnRows(productRows().
			AddRow(1, "Training tee", "breathable", 2, int64(150000), "/img/1", false, 4, "t", "u"))

	products, total, err := repo.List(Filter{Search: "tee", CategoryID: 2, Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected 1 product, got total=%d len=%d", total, len(products))
	}
	if products[0].Name != "Training tee" || products[0].BasePrice != 150000 {
		t.Fatalf("unexpected product %+v", products[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT product_id").WithArgs(99).WillReturnRows(productRows())

	if _, err := repo.GetByID(99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE product SET score").
		WithArgs(4, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetScore(7, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE product SET score").
		WithArgs(4, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.SetScore(99, 4); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
