package integration

import (
	"fmt"
	"net/http"
	"testing"

	"fintrack/internal/models"
)

func TestCategoryFlow_CreateListUpdateDelete(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "cat@test.com")

	// Step 1: create out of order
	app.createCategory(t, user.ID, "rent", "1200")
	foodID := app.createCategory(t, user.ID, "Food", "300.5")
	app.createCategory(t, user.ID, "books", "40")

	// Step 2: listed alphabetically, ignoring case
	rec := app.request(http.MethodGet, "/categories", "", user.ID)
	expectStatus(t, rec, http.StatusOK)
	list := parseJSONArray(t, rec)
	if len(list) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(list))
	}
	for i, want := range []string{"books", "Food", "rent"} {
		if list[i]["name"] != want {
			t.Errorf("position %d: expected %s, got %v", i, want, list[i]["name"])
		}
	}
	if list[1]["budget"].(float64) != 300.5 {
		t.Errorf("expected numeric budget 300.5, got %v", list[1]["budget"])
	}

	// Step 3: update
	rec = app.request(http.MethodPut, fmt.Sprintf("/categories/%.0f", foodID), `{"name":"Groceries","budget":350}`, user.ID)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["name"] != "Groceries" {
		t.Errorf("expected updated name, got %s", rec.Body.String())
	}

	// Step 4: delete an unused category
	rec = app.request(http.MethodDelete, fmt.Sprintf("/categories/%.0f", foodID), "", user.ID)
	expectStatus(t, rec, http.StatusNoContent)

	rec = app.request(http.MethodGet, fmt.Sprintf("/categories/%.0f", foodID), "", user.ID)
	expectError(t, rec, http.StatusNotFound, "CATEGORY_NOT_FOUND")

	// Every change left an audit row.
	if n := app.count(t, &models.AuditLog{}); n != 5 {
		t.Errorf("expected 5 audit rows, got %d", n)
	}
}

func TestCategoryFlow_DeleteInUse(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "inuse@test.com")

	catID := app.createCategory(t, user.ID, "Food", "100")
	app.createTransaction(t, user.ID, catID, "-12.5", "2025-05-01")

	rec := app.request(http.MethodDelete, fmt.Sprintf("/categories/%.0f", catID), "", user.ID)
	expectError(t, rec, http.StatusMethodNotAllowed, "CATEGORY_IN_USE")

	// The category and its transaction are untouched.
	if n := app.count(t, &models.Category{}); n != 1 {
		t.Errorf("expected category to remain, found %d", n)
	}
	if n := app.count(t, &models.Transaction{}); n != 1 {
		t.Errorf("expected transaction to remain, found %d", n)
	}
}

func TestCategoryFlow_MissingFields(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "missing@test.com")

	for _, body := range []string{
		`{}`,
		`{"name":"Food"}`,
		`{"budget":10}`,
		`{"name":"","budget":10}`,
		`{"name":"Food","budget":0}`,
	} {
		rec := app.request(http.MethodPost, "/categories", body, user.ID)
		expectError(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	}

	rec := app.request(http.MethodPost, "/categories", `{"name":"Food","budget":-1}`, user.ID)
	expectStatus(t, rec, http.StatusBadRequest)

	if n := app.count(t, &models.Category{}); n != 0 {
		t.Errorf("expected nothing persisted, found %d categories", n)
	}
}

func TestCategoryFlow_OwnerScoped(t *testing.T) {
	app := setupApp(t)
	alice := app.createUser(t, "alice@test.com")
	bob := app.createUser(t, "bob@test.com")

	catID := app.createCategory(t, alice.ID, "Food", "100")

	rec := app.request(http.MethodGet, "/categories", "", bob.ID)
	expectStatus(t, rec, http.StatusOK)
	if len(parseJSONArray(t, rec)) != 0 {
		t.Errorf("expected bob to see no categories, got %s", rec.Body.String())
	}

	rec = app.request(http.MethodPut, fmt.Sprintf("/categories/%.0f", catID), `{"name":"Mine","budget":1}`, bob.ID)
	expectError(t, rec, http.StatusNotFound, "CATEGORY_NOT_FOUND")

	rec = app.request(http.MethodDelete, fmt.Sprintf("/categories/%.0f", catID), "", bob.ID)
	expectError(t, rec, http.StatusNotFound, "CATEGORY_NOT_FOUND")
}

func TestCategoryFlow_Pagination(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "page@test.com")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		app.createCategory(t, user.ID, name, "10")
	}

	rec := app.request(http.MethodGet, "/categories?page=3&page_size=2", "", user.ID)
	expectStatus(t, rec, http.StatusOK)

	if rec.Header().Get("X-Total-Count") != "5" || rec.Header().Get("X-Total-Pages") != "3" {
		t.Errorf("unexpected pagination headers: %v", rec.Header())
	}
	list := parseJSONArray(t, rec)
	if len(list) != 1 || list[0]["name"] != "e" {
		t.Errorf("expected last page [e], got %s", rec.Body.String())
	}
}

func TestCategoryFlow_LargeIDIsNotFound(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "largeid@test.com")

	for _, id := range []string{"4294967296", "9223372036854775807", "9223372036854775808"} {
		rec := app.request(http.MethodGet, "/categories/"+id, "", user.ID)
		expectError(t, rec, http.StatusNotFound, "CATEGORY_NOT_FOUND")

		rec = app.request(http.MethodDelete, "/transactions/"+id, "", user.ID)
		expectError(t, rec, http.StatusNotFound, "TRANSACTION_NOT_FOUND")
	}
}
