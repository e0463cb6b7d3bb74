package integration

import (
	"fmt"
	"net/http"
	"testing"

	"fintrack/internal/models"
)

func TestTransactionFlow_CreateListUpdateDelete(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "tx@test.com")
	catID := app.createCategory(t, user.ID, "Food", "100")
	otherCatID := app.createCategory(t, user.ID, "Salary", "1")

	// Step 1: create with a description that gets trimmed
	body := fmt.Sprintf(`{"amount":-12.5,"date":"2025-05-02","category_id":%.0f,"description":"  lunch  "}`, catID)
	rec := app.request(http.MethodPost, "/transactions", body, user.ID)
	expectStatus(t, rec, http.StatusCreated)
	created := parseJSON(t, rec)
	if created["description"] != "lunch" || created["date"] != "2025-05-02" || created["amount"].(float64) != -12.5 {
		t.Errorf("unexpected created transaction: %v", created)
	}
	txID := created["id"].(float64)

	app.createTransaction(t, user.ID, otherCatID, "2500", "2025-05-01")
	app.createTransaction(t, user.ID, catID, "-7", "2025-05-03")

	// Step 2: newest first
	rec = app.request(http.MethodGet, "/transactions", "", user.ID)
	expectStatus(t, rec, http.StatusOK)
	list := parseJSONArray(t, rec)
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
	for i, want := range []string{"2025-05-03", "2025-05-02", "2025-05-01"} {
		if list[i]["date"] != want {
			t.Errorf("position %d: expected %s, got %v", i, want, list[i]["date"])
		}
	}

	// Step 3: filters
	rec = app.request(http.MethodGet, fmt.Sprintf("/transactions?category_id=%.0f&from_date=2025-05-03", catID), "", user.ID)
	expectStatus(t, rec, http.StatusOK)
	if list := parseJSONArray(t, rec); len(list) != 1 || list[0]["amount"].(float64) != -7 {
		t.Errorf("expected only the -7 expense, got %s", rec.Body.String())
	}

	// Step 4: full update clears the description
	body = fmt.Sprintf(`{"amount":-15,"date":"2025-05-04","category_id":%.0f}`, otherCatID)
	rec = app.request(http.MethodPut, fmt.Sprintf("/transactions/%.0f", txID), body, user.ID)
	expectStatus(t, rec, http.StatusOK)
	updated := parseJSON(t, rec)
	if updated["description"] != nil || updated["category_id"].(float64) != otherCatID {
		t.Errorf("unexpected updated transaction: %v", updated)
	}

	// Step 5: delete
	rec = app.request(http.MethodDelete, fmt.Sprintf("/transactions/%.0f", txID), "", user.ID)
	expectStatus(t, rec, http.StatusNoContent)

	rec = app.request(http.MethodGet, fmt.Sprintf("/transactions/%.0f", txID), "", user.ID)
	expectError(t, rec, http.StatusNotFound, "TRANSACTION_NOT_FOUND")
}

func TestTransactionFlow_InvalidCategory(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "badcat@test.com")

	rec := app.request(http.MethodPost, "/transactions", `{"amount":-5,"date":"2025-05-01","category_id":999}`, user.ID)
	expectError(t, rec, http.StatusBadRequest, "INVALID_CATEGORY")

	if n := app.count(t, &models.Transaction{}); n != 0 {
		t.Errorf("expected nothing persisted, found %d transactions", n)
	}
}

func TestTransactionFlow_MissingFields(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "txmissing@test.com")
	catID := app.createCategory(t, user.ID, "Food", "100")

	for _, body := range []string{
		`{}`,
		fmt.Sprintf(`{"date":"2025-05-01","category_id":%.0f}`, catID),
		fmt.Sprintf(`{"amount":0,"date":"2025-05-01","category_id":%.0f}`, catID),
		fmt.Sprintf(`{"amount":-5,"category_id":%.0f}`, catID),
		fmt.Sprintf(`{"amount":-5,"date":"","category_id":%.0f}`, catID),
		`{"amount":-5,"date":"2025-05-01"}`,
	} {
		rec := app.request(http.MethodPost, "/transactions", body, user.ID)
		expectError(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	}

	if n := app.count(t, &models.Transaction{}); n != 0 {
		t.Errorf("expected nothing persisted, found %d transactions", n)
	}
}

func TestTransactionFlow_InvalidJSON(t *testing.T) {
	app := setupApp(t)
	user := app.createUser(t, "json@test.com")

	rec := app.request(http.MethodPost, "/transactions", `{"amount":`, user.ID)
	expectError(t, rec, http.StatusBadRequest, "INVALID_JSON")

	rec = app.request(http.MethodPost, "/categories", `not json`, user.ID)
	expectError(t, rec, http.StatusBadRequest, "INVALID_JSON")
}

func TestTransactionFlow_OwnerScoped(t *testing.T) {
	app := setupApp(t)
	alice := app.createUser(t, "alice@test.com")
	bob := app.createUser(t, "bob@test.com")
	catID := app.createCategory(t, alice.ID, "Food", "100")
	txID := app.createTransaction(t, alice.ID, catID, "-3", "2025-05-01")

	rec := app.request(http.MethodGet, "/transactions", "", bob.ID)
	expectStatus(t, rec, http.StatusOK)
	if len(parseJSONArray(t, rec)) != 0 {
		t.Errorf("expected bob to see nothing, got %s", rec.Body.String())
	}

	rec = app.request(http.MethodDelete, fmt.Sprintf("/transactions/%.0f", txID), "", bob.ID)
	expectError(t, rec, http.StatusNotFound, "TRANSACTION_NOT_FOUND")
}
