package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/billtab/internal/auth"
	"github.com/mmynk/billtab/internal/ledger"
	"github.com/mmynk/billtab/internal/storage/sqlite"
)

// newTestServer spins up the full router over a temp sqlite store with the
// bootstrap admin "admin"/"admin123".
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billtab-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"), "admin", "admin123")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := New(ledger.New(store, "admin"), tokens, tempDir)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// postJSON posts body to path and decodes the response envelope.
func postJSON(t *testing.T, ts *httptest.Server, path string, body any) (int, map[string]any) {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, envelope
}

func getJSON(t *testing.T, ts *httptest.Server, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, envelope
}

// addUser creates a user through the API as the bootstrap admin.
func addUser(t *testing.T, ts *httptest.Server, username string) {
	t.Helper()
	status, envelope := postJSON(t, ts, "/api/admin/add_user", map[string]any{
		"admin": "admin", "username": username, "password": "pw-" + username,
	})
	if status != http.StatusOK {
		t.Fatalf("add_user %s: status %d, body %v", username, status, envelope)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	addUser(t, ts, "alice")

	t.Run("valid credentials return user and token", func(t *testing.T) {
		status, envelope := postJSON(t, ts, "/api/login", map[string]any{
			"username": "alice", "password": "pw-alice",
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if envelope["ok"] != true || envelope["username"] != "alice" || envelope["is_admin"] != false {
			t.Errorf("envelope = %v", envelope)
		}
		if token, _ := envelope["token"].(string); token == "" {
			t.Error("expected a session token")
		}
	})

	t.Run("invalid credentials are 401", func(t *testing.T) {
		status, envelope := postJSON(t, ts, "/api/login", map[string]any{
			"username": "alice", "password": "wrong",
		})
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
		if envelope["ok"] != false {
			t.Errorf("envelope = %v", envelope)
		}
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		status, _ := postJSON(t, ts, "/api/login", map[string]any{"username": "alice"})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})
}

func TestBillLifecycle(t *testing.T) {
	ts := newTestServer(t)
	addUser(t, ts, "alice")
	addUser(t, ts, "bob")

	// Create a discounted bill; amount sent as a string on purpose.
	status, envelope := postJSON(t, ts, "/api/bills", map[string]any{
		"creator":      "alice",
		"amount":       "100.00",
		"date":         "2024-05-01",
		"description":  "team dinner",
		"participants": []string{"alice", "bob"},
		"discount":     true,
	})
	if status != http.StatusOK {
		t.Fatalf("create bill: status %d, body %v", status, envelope)
	}
	billID, _ := envelope["bill_id"].(string)
	if billID == "" {
		t.Fatalf("missing bill_id in %v", envelope)
	}

	t.Run("get bill exposes expanded shares", func(t *testing.T) {
		status, envelope := getJSON(t, ts, "/api/bills/"+billID)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		bill := envelope["bill"].(map[string]any)
		shares := bill["shares"].([]any)
		if len(shares) != 2 {
			t.Fatalf("got %d shares, want 2", len(shares))
		}

		// Creator pays the discounted share and is born paid.
		first := shares[0].(map[string]any)
		if first["username"] != "alice" || first["share_amount"] != 42.86 || first["is_paid"] != true {
			t.Errorf("creator share = %v, want alice/42.86/paid", first)
		}
		second := shares[1].(map[string]any)
		if second["username"] != "bob" || second["share_amount"] != 57.14 || second["is_paid"] != false {
			t.Errorf("other share = %v, want bob/57.14/unpaid", second)
		}
	})

	t.Run("unknown bill is 404", func(t *testing.T) {
		status, _ := getJSON(t, ts, "/api/bills/no-such-bill")
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("pay transitions once", func(t *testing.T) {
		status, envelope := postJSON(t, ts, "/api/bills/"+billID+"/pay", map[string]any{"username": "bob"})
		if status != http.StatusOK {
			t.Fatalf("pay: status %d, body %v", status, envelope)
		}

		status, envelope = postJSON(t, ts, "/api/bills/"+billID+"/pay", map[string]any{"username": "bob"})
		if status != http.StatusBadRequest {
			t.Errorf("repeat pay: status %d, want 400 (%v)", status, envelope)
		}
	})

	t.Run("pay for unknown share is 404", func(t *testing.T) {
		status, _ := postJSON(t, ts, "/api/bills/"+billID+"/pay", map[string]any{"username": "ghost"})
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("visibility filters by query username", func(t *testing.T) {
		// carol holds no share in the bill.
		addUser(t, ts, "carol")
		status, envelope := getJSON(t, ts, "/api/bills?username=carol")
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if bills := envelope["bills"].([]any); len(bills) != 0 {
			t.Errorf("carol sees %d bills, want 0", len(bills))
		}

		_, envelope = getJSON(t, ts, "/api/bills?username=bob")
		if bills := envelope["bills"].([]any); len(bills) != 1 {
			t.Errorf("bob sees %d bills, want 1", len(bills))
		}
	})

	t.Run("delete requires admin", func(t *testing.T) {
		status, _ := postJSON(t, ts, "/api/admin/delete_bill", map[string]any{
			"admin": "bob", "bill_id": billID,
		})
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}

		status, _ = postJSON(t, ts, "/api/admin/delete_bill", map[string]any{
			"admin": "admin", "bill_id": billID,
		})
		if status != http.StatusOK {
			t.Errorf("status = %d, want 200", status)
		}

		status, _ = getJSON(t, ts, "/api/bills/"+billID)
		if status != http.StatusNotFound {
			t.Errorf("deleted bill status = %d, want 404", status)
		}
	})
}

func TestTokenFallbackIdentity(t *testing.T) {
	ts := newTestServer(t)
	addUser(t, ts, "alice")
	addUser(t, ts, "bob")

	_, envelope := postJSON(t, ts, "/api/login", map[string]any{
		"username": "bob", "password": "pw-bob",
	})
	token := envelope["token"].(string)

	status, envelope := postJSON(t, ts, "/api/bills", map[string]any{
		"creator": "alice", "amount": 50, "participants": []string{"bob"},
	})
	if status != http.StatusOK {
		t.Fatalf("create bill: %v", envelope)
	}
	billID := envelope["bill_id"].(string)

	// Pay without a username in the body; the bearer token identifies bob.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/bills/"+billID+"/pay", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("pay request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	status, envelope = getJSON(t, ts, "/api/bills/"+billID)
	if status != http.StatusOK {
		t.Fatalf("get bill failed: %v", envelope)
	}
	for _, raw := range envelope["bill"].(map[string]any)["shares"].([]any) {
		share := raw.(map[string]any)
		if share["is_paid"] != true {
			t.Errorf("share %v should be paid", share["username"])
		}
	}
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)
	addUser(t, ts, "zoe")
	addUser(t, ts, "abe")

	status, envelope := getJSON(t, ts, "/api/users")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	users := envelope["users"].([]any)
	want := []string{"abe", "admin", "zoe"}
	if len(users) != len(want) {
		t.Fatalf("users = %v, want %v", users, want)
	}
	for i, u := range want {
		if users[i] != u {
			t.Errorf("users = %v, want %v", users, want)
			break
		}
	}
}

func TestUserAdministrationAPI(t *testing.T) {
	ts := newTestServer(t)
	addUser(t, ts, "alice")

	t.Run("duplicate user is rejected", func(t *testing.T) {
		status, envelope := postJSON(t, ts, "/api/admin/add_user", map[string]any{
			"admin": "admin", "username": "alice", "password": "pw",
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 (%v)", status, envelope)
		}
	})

	t.Run("non-admin cannot add users", func(t *testing.T) {
		status, _ := postJSON(t, ts, "/api/admin/add_user", map[string]any{
			"admin": "alice", "username": "mallory", "password": "pw",
		})
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("deleting the bootstrap admin is rejected", func(t *testing.T) {
		status, _ := postJSON(t, ts, "/api/admin/delete_user", map[string]any{
			"admin": "admin", "username": "admin",
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})
}
