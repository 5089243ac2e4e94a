package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/middleware"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
)

func newMockRecipeService(t *testing.T) (*RecipeService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecipeService(repository.NewRecipeRepository(db), repository.NewUserRepository(db)), mock
}

func authedContext(guid string) context.Context {
	return middleware.WithPrincipal(context.Background(), model.Principal{ID: 7, GUID: guid, FirstName: "Avanish", LastName: "Pandey"})
}

func expectRecipeByGUID(mock sqlmock.Sqlmock, guid, ownerGUID string, createdOn time.Time) {
	mock.ExpectQuery("SELECT (.+) FROM recipe r").
		WithArgs(guid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guid", "name", "vegetarian", "suitable_for", "instruction", "user_id", "owner_guid", "created_on", "version"}).
			AddRow(3, guid, "Dal Tadka", true, 2, "Simmer.", 7, ownerGUID, createdOn, 1))
	mock.ExpectQuery("SELECT name FROM recipe_ingredient").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ghee").AddRow("lentils"))
}

func TestFindByGUIDDeniesNonOwner(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	expectRecipeByGUID(mock, "r-guid", "someone-else", time.Now())

	_, err := svc.FindByGUID(authedContext("u-guid"), "r-guid")
	if kindOf(t, err) != apierror.KindPermissionDenied {
		t.Fatalf("FindByGUID() kind = %v, want KindPermissionDenied", kindOf(t, err))
	}
	if err.Error() != "You don't have permission to edit/delete this record." {
		t.Errorf("denial message = %q", err.Error())
	}
}

func TestFindByGUIDAllowsOwner(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	createdOn := time.Date(2026, time.August, 29, 18, 5, 0, 0, time.UTC)
	expectRecipeByGUID(mock, "r-guid", "u-guid", createdOn)

	resp, err := svc.FindByGUID(authedContext("u-guid"), "r-guid")
	if err != nil {
		t.Fatalf("FindByGUID() unexpected error: %v", err)
	}
	if resp.UUID != "r-guid" || resp.SuitableFor != 2 {
		t.Errorf("FindByGUID() = %+v, want stored recipe", resp)
	}
	if resp.CreatedAt != "29-08-2026 18:05" {
		t.Errorf("createdAt = %q, want dd-MM-yyyy HH:mm formatting", resp.CreatedAt)
	}
}

func TestFindByGUIDDeniesAnonymous(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	expectRecipeByGUID(mock, "r-guid", "u-guid", time.Now())

	_, err := svc.FindByGUID(context.Background(), "r-guid")
	if kindOf(t, err) != apierror.KindPermissionDenied {
		t.Errorf("FindByGUID() kind = %v, want KindPermissionDenied for missing identity", kindOf(t, err))
	}
}

func TestUpdateDeniesNonOwner(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	expectRecipeByGUID(mock, "r-guid", "someone-else", time.Now())

	req := model.RecipeRequest{Name: "Dal Tadka", SuitableFor: 2, Ingredients: []string{"lentils"}, CookingInstruction: "Simmer."}
	_, err := svc.Update(authedContext("u-guid"), "r-guid", req)
	if kindOf(t, err) != apierror.KindPermissionDenied {
		t.Errorf("Update() kind = %v, want KindPermissionDenied", kindOf(t, err))
	}
}

func TestDeleteDeniesNonOwner(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	expectRecipeByGUID(mock, "r-guid", "someone-else", time.Now())

	err := svc.Delete(authedContext("u-guid"), "r-guid")
	if kindOf(t, err) != apierror.KindPermissionDenied {
		t.Errorf("Delete() kind = %v, want KindPermissionDenied", kindOf(t, err))
	}
}

func TestDelete(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	expectRecipeByGUID(mock, "r-guid", "u-guid", time.Now())
	mock.ExpectExec("UPDATE recipe SET deleted").
		WithArgs(int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Delete(authedContext("u-guid"), "r-guid"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByGUIDNotFound(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	mock.ExpectQuery("SELECT (.+) FROM recipe r").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.FindByGUID(authedContext("u-guid"), "missing")
	if kindOf(t, err) != apierror.KindNotFound {
		t.Errorf("FindByGUID() kind = %v, want KindNotFound", kindOf(t, err))
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMockRecipeService(t)

	_, err := svc.Create(authedContext("u-guid"), model.RecipeRequest{})
	if kindOf(t, err) != apierror.KindValidation {
		t.Errorf("Create() kind = %v, want KindValidation", kindOf(t, err))
	}
}

func TestFindAllRequiresIdentity(t *testing.T) {
	svc, _ := newMockRecipeService(t)

	_, err := svc.FindAll(context.Background(), 0, 10)
	if kindOf(t, err) != apierror.KindUnauthenticated {
		t.Errorf("FindAll() kind = %v, want KindUnauthenticated", kindOf(t, err))
	}
}

func TestFindAllPageMath(t *testing.T) {
	svc, mock := newMockRecipeService(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u-guid").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("SELECT (.+) FROM recipe r").
		WithArgs("u-guid", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guid", "name", "vegetarian", "suitable_for", "instruction", "user_id", "owner_guid", "created_on", "version"}).
			AddRow(3, "r-guid", "Dal Tadka", true, 2, "Simmer.", 7, "u-guid", time.Now(), 0))
	mock.ExpectQuery("SELECT name FROM recipe_ingredient").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("lentils"))

	resp, err := svc.FindAll(authedContext("u-guid"), 1, 10)
	if err != nil {
		t.Fatalf("FindAll() unexpected error: %v", err)
	}
	if resp.TotalItems != 11 || resp.TotalPages != 2 || resp.CurrentPage != 1 {
		t.Errorf("page = %+v, want totals 11/2/1", resp)
	}
	if len(resp.Contents) != 1 {
		t.Errorf("contents length = %d, want 1", len(resp.Contents))
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
