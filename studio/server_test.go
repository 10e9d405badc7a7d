package studio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridoystarlord/visusql/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer() *gin.Engine {
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return NewServer(schema.New(), Config{Now: now}).Router()
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decoding data: %v", err)
		}
	}
	return env
}

type tableResult struct {
	Table schema.Table `json:"table"`
	SQL   string       `json:"sql"`
}

func createTable(t *testing.T, router *gin.Engine, name string) schema.Table {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/tables", `{"name":"`+name+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/tables status = %d: %s", w.Code, w.Body.String())
	}
	var res tableResult
	decode(t, w, &res)
	return res.Table
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET / status = %d", w.Code)
	}
}

func TestCreateTableReturnsSQL(t *testing.T) {
	router := newTestServer()
	w := do(t, router, http.MethodPost, "/api/tables", `{"name":"users"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var res tableResult
	env := decode(t, w, &res)
	if env.Message != `Table "users" created successfully!` {
		t.Errorf("message = %q", env.Message)
	}
	want := "CREATE TABLE `users` (\n    `id` INTEGER NOT NULL AUTO_INCREMENT,\n    PRIMARY KEY (`id`)\n);"
	if res.SQL != want {
		t.Errorf("sql = %q, want %q", res.SQL, want)
	}
}

func TestErrorStatusCodes(t *testing.T) {
	router := newTestServer()
	users := createTable(t, router, "users")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"blank table name", http.MethodPost, "/api/tables", `{"name":"  "}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/tables", `{"name":"x","colour":"red"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/tables", `{`, http.StatusBadRequest},
		{"update unknown table", http.MethodPut, "/api/tables/missing", `{"name":"x","columns":[]}`, http.StatusNotFound},
		{"update blank column", http.MethodPut, "/api/tables/" + users.ID, `{"name":"users","columns":[{"name":""}]}`, http.StatusBadRequest},
		{"add column unknown table", http.MethodPost, "/api/tables/missing/columns", "", http.StatusNotFound},
		{"patch unknown column", http.MethodPatch, "/api/tables/" + users.ID + "/columns/missing", `{}`, http.StatusNotFound},
		{"delete unknown column", http.MethodDelete, "/api/tables/" + users.ID + "/columns/missing", "", http.StatusNotFound},
		{"connect unknown table", http.MethodPost, "/api/relationships", `{"sourceTableId":"` + users.ID + `","targetTableId":"missing"}`, http.StatusNotFound},
		{"delete unknown table is fine", http.MethodDelete, "/api/tables/missing", "", http.StatusOK},
		{"disconnect unknown is fine", http.MethodDelete, "/api/relationships/missing", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("%s %s status = %d, want %d: %s", tt.method, tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestColumnLifecycle(t *testing.T) {
	router := newTestServer()
	users := createTable(t, router, "users")

	w := do(t, router, http.MethodPost, "/api/tables/"+users.ID+"/columns", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("add column status = %d: %s", w.Code, w.Body.String())
	}
	var added struct {
		Column schema.Column `json:"column"`
	}
	decode(t, w, &added)

	w = do(t, router, http.MethodPatch, "/api/tables/"+users.ID+"/columns/"+added.Column.ID,
		`{"name":"email","isNullable":false,"isUnique":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch column status = %d: %s", w.Code, w.Body.String())
	}
	var patched struct {
		Column schema.Column `json:"column"`
		SQL    string        `json:"sql"`
	}
	decode(t, w, &patched)
	if !strings.Contains(patched.SQL, "`email` VARCHAR(255) NOT NULL UNIQUE,") {
		t.Errorf("sql after patch:\n%s", patched.SQL)
	}

	w = do(t, router, http.MethodDelete, "/api/tables/"+users.ID+"/columns/"+added.Column.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete column status = %d", w.Code)
	}
	var deleted struct {
		SQL string `json:"sql"`
	}
	decode(t, w, &deleted)
	if strings.Contains(deleted.SQL, "email") {
		t.Errorf("column still present after delete:\n%s", deleted.SQL)
	}
}

func TestRelationshipsAndCascade(t *testing.T) {
	router := newTestServer()
	orders := createTable(t, router, "orders")
	customers := createTable(t, router, "customers")

	w := do(t, router, http.MethodPost, "/api/relationships",
		`{"sourceTableId":"`+orders.ID+`","targetTableId":"`+customers.ID+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("connect status = %d: %s", w.Code, w.Body.String())
	}
	var rel struct {
		Relationship schema.Relationship `json:"relationship"`
	}
	env := decode(t, w, &rel)
	if rel.Relationship.Label != "orders → customers" {
		t.Errorf("label = %q", rel.Relationship.Label)
	}
	if env.Message != "Relationship created: orders → customers" {
		t.Errorf("message = %q", env.Message)
	}

	do(t, router, http.MethodDelete, "/api/tables/"+customers.ID, "")

	w = do(t, router, http.MethodGet, "/api/schema", "")
	var view schemaView
	decode(t, w, &view)
	if len(view.Tables) != 1 || len(view.Relationships) != 0 {
		t.Errorf("after delete: %d tables, %d relationships", len(view.Tables), len(view.Relationships))
	}
	if view.Tables[0].Position != schema.DefaultPosition(0) {
		t.Errorf("position = %+v", view.Tables[0].Position)
	}
	if view.Stats.Tables != 1 || len(view.DataTypes) != len(schema.DataTypes) {
		t.Errorf("stats = %+v, dataTypes = %v", view.Stats, view.DataTypes)
	}
}

func TestExports(t *testing.T) {
	router := newTestServer()

	if w := do(t, router, http.MethodGet, "/api/export/sql", ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty SQL export status = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/export/json", ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty JSON export status = %d, want 400", w.Code)
	}

	createTable(t, router, "users")

	w := do(t, router, http.MethodGet, "/api/export/sql", "")
	if w.Code != http.StatusOK {
		t.Fatalf("SQL export status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="database_schema_2026-01-02T03-04-05.sql"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	sqlBody := w.Body.String()

	w = do(t, router, http.MethodGet, "/api/sql", "")
	if w.Body.String() != sqlBody {
		t.Errorf("GET /api/sql differs from export")
	}

	w = do(t, router, http.MethodGet, "/api/export/json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("JSON export status = %d", w.Code)
	}
	var doc struct {
		Metadata struct {
			ExportedAt  string `json:"exported_at"`
			TablesCount int    `json:"tables_count"`
		} `json:"metadata"`
		SQL string `json:"sql"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.TablesCount != 1 || doc.SQL != sqlBody || doc.Metadata.ExportedAt != "2026-01-02T03:04:05.000Z" {
		t.Errorf("export document = %+v", doc)
	}
}

func TestResetDocsAndValidate(t *testing.T) {
	router := newTestServer()

	if w := do(t, router, http.MethodPost, "/api/reset", ""); w.Code != http.StatusBadRequest {
		t.Errorf("reset of empty schema status = %d, want 400", w.Code)
	}

	createTable(t, router, "orders")

	w := do(t, router, http.MethodGet, "/api/docs/mermaid", "")
	if !strings.Contains(w.Body.String(), "erDiagram") {
		t.Errorf("mermaid output = %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/validate", "")
	var result struct {
		Valid bool `json:"valid"`
	}
	decode(t, w, &result)
	if !result.Valid {
		t.Errorf("validate = %s", w.Body.String())
	}

	if w := do(t, router, http.MethodPost, "/api/reset", ""); w.Code != http.StatusOK {
		t.Errorf("reset status = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/api/sql", "")
	if w.Body.String() != "" {
		t.Errorf("sql after reset = %q", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewServer(nil, Config{AllowedOrigins: []string{"http://localhost:5173"}}).Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestSaveFetchedTableUnchanged(t *testing.T) {
	router := newTestServer()
	createTable(t, router, "users")

	var before schemaView
	decode(t, do(t, router, http.MethodGet, "/api/schema", ""), &before)

	body, err := json.Marshal(before.Tables[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"position"`) {
		t.Fatalf("served table has no position: %s", body)
	}

	w := do(t, router, http.MethodPut, "/api/tables/"+before.Tables[0].ID, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT of fetched table status = %d: %s", w.Code, w.Body.String())
	}
	var res tableResult
	decode(t, w, &res)
	if res.SQL != before.SQL {
		t.Errorf("sql after save = %q, want %q", res.SQL, before.SQL)
	}
}

func TestRelationshipResponsesCarrySQL(t *testing.T) {
	router := newTestServer()
	orders := createTable(t, router, "orders")
	customers := createTable(t, router, "customers")

	var want string
	decode(t, do(t, router, http.MethodGet, "/api/schema", ""), &struct {
		SQL *string `json:"sql"`
	}{&want})

	w := do(t, router, http.MethodPost, "/api/relationships",
		`{"sourceTableId":"`+orders.ID+`","targetTableId":"`+customers.ID+`"}`)
	var connected struct {
		Relationship schema.Relationship `json:"relationship"`
		SQL          string              `json:"sql"`
	}
	decode(t, w, &connected)
	if connected.SQL == "" || connected.SQL != want {
		t.Errorf("connect sql = %q, want %q", connected.SQL, want)
	}

	w = do(t, router, http.MethodDelete, "/api/relationships/"+connected.Relationship.ID, "")
	var disconnected struct {
		SQL string `json:"sql"`
	}
	decode(t, w, &disconnected)
	if disconnected.SQL != want {
		t.Errorf("disconnect sql = %q, want %q", disconnected.SQL, want)
	}
}
