package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/auth/ledger"
	"github.com/vida-academica/backend/auth/password"
	"github.com/vida-academica/backend/auth/token"
	"github.com/vida-academica/backend/logger"
	"github.com/vida-academica/backend/server/middleware"
	"github.com/vida-academica/backend/store"
)

func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	models := append(store.Models(), &ledger.Record{})
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	codec, err := token.NewCodec(token.Config{
		Secret:          "handlers-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	hasher := password.NewHasher(password.Config{BcryptCost: 4})
	log := logger.NewDefault("handlers-test")

	tokenLedger := ledger.NewGormLedger(db, time.Hour)
	credentials := store.NewCredentialStore(db)
	authenticator := auth.NewAuthenticator(credentials, hasher, codec, tokenLedger, log)
	guard := auth.NewGuard(codec, credentials)
	repo := store.New(db)

	engine := gin.New()
	registry := &Registry{
		Auth:        NewAuthHandler(authenticator),
		Usuarios:    NewUsuarioHandler(repo, hasher, authenticator),
		Records:     NewRecordHandler(repo, guard),
		Catalog:     NewCatalogHandler(repo),
		Health:      Health("handlers-test", nil),
		RequireAuth: middleware.RequireAuth(guard),
	}
	registry.Register(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, engine *gin.Engine, ra, username, email string) {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/usuarios", "", gin.H{
		"ra":          ra,
		"nome":        "Joao da Silva",
		"email":       email,
		"username":    username,
		"senha":       "secret1",
		"instituicao": "FATEC",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
}

type tokenPairBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func login(t *testing.T, engine *gin.Engine, login, senha string) tokenPairBody {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/login", "", gin.H{"login": login, "senha": senha})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var pair tokenPairBody
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	return pair
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")

	pair := login(t, engine, "joao123", "secret1")
	if pair.TokenType != "bearer" {
		t.Errorf("token_type = %s", pair.TokenType)
	}

	// access token works
	w := doJSON(t, engine, http.MethodGet, "/usuarios/me", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", w.Code, w.Body.String())
	}

	// rotate
	w = doJSON(t, engine, http.MethodPost, "/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: status %d body %s", w.Code, w.Body.String())
	}
	var rotated tokenPairBody
	if err := json.Unmarshal(w.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("decode rotated: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token not rotated")
	}

	// the old refresh token is dead
	w = doJSON(t, engine, http.MethodPost, "/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("replayed refresh: status %d, want 401", w.Code)
	}

	// logout kills the newest one too
	w = doJSON(t, engine, http.MethodPost, "/logout", "", gin.H{"refresh_token": rotated.RefreshToken})
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodPost, "/refresh", "", gin.H{"refresh_token": rotated.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout: status %d, want 401", w.Code)
	}

	// logout is idempotent
	w = doJSON(t, engine, http.MethodPost, "/logout", "", gin.H{"refresh_token": rotated.RefreshToken})
	if w.Code != http.StatusNoContent {
		t.Errorf("second logout: status %d, want 204", w.Code)
	}
}

func TestLoginFailuresIdentical(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")

	wrongPassword := doJSON(t, engine, http.MethodPost, "/login", "", gin.H{"login": "joao123", "senha": "wrong99"})
	unknownUser := doJSON(t, engine, http.MethodPost, "/login", "", gin.H{"login": "nobody", "senha": "secret1"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401 both", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("login failure bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestAPI(t)

	for _, path := range []string{"/usuarios/me", "/notas", "/anotacoes", "/cursos"} {
		w := doJSON(t, engine, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d, want 401", path, w.Code)
		}
	}

	// refresh token is not an access token
	engineWithUser := newTestAPI(t)
	registerUser(t, engineWithUser, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
	pair := login(t, engineWithUser, "joao123", "secret1")
	w := doJSON(t, engineWithUser, http.MethodGet, "/usuarios/me", pair.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh used as access: status %d, want 401", w.Code)
	}
}

func TestRecordOwnership(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
	registerUser(t, engine, "1110482329667", "maria99", "maria@fatec.sp.gov.br")
	joao := login(t, engine, "joao123", "secret1")
	maria := login(t, engine, "maria99", "secret1")

	w := doJSON(t, engine, http.MethodPost, "/anotacoes", joao.AccessToken, gin.H{
		"titulo":   "Prova de ED",
		"anotacao": "Estudar arvores AVL",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create anotacao: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Data store.Anotacao `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	path := fmt.Sprintf("/anotacoes/%d", created.Data.ID)

	// owner reads it
	if w := doJSON(t, engine, http.MethodGet, path, joao.AccessToken, nil); w.Code != http.StatusOK {
		t.Errorf("owner read: status %d", w.Code)
	}

	// foreign caller gets 403 on read, update and delete
	if w := doJSON(t, engine, http.MethodGet, path, maria.AccessToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign read: status %d, want 403", w.Code)
	}
	w = doJSON(t, engine, http.MethodPut, path, maria.AccessToken, gin.H{
		"titulo": "hijacked", "anotacao": "hijacked",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign update: status %d, want 403", w.Code)
	}
	if w := doJSON(t, engine, http.MethodDelete, path, maria.AccessToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign delete: status %d, want 403", w.Code)
	}

	// foreign records never appear in lists
	w = doJSON(t, engine, http.MethodGet, "/anotacoes", maria.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("maria list: status %d", w.Code)
	}
	var listed struct {
		Data []store.Anotacao `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Data) != 0 {
		t.Errorf("foreign records leaked into list: %+v", listed.Data)
	}
}

func TestChangeSenha(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
	pair := login(t, engine, "joao123", "secret1")

	// wrong current password is rejected
	w := doJSON(t, engine, http.MethodPut, "/usuarios/me/senha", pair.AccessToken, gin.H{
		"senha_atual": "wrong99",
		"senha_nova":  "secret2",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: status %d, want 401", w.Code)
	}

	w = doJSON(t, engine, http.MethodPut, "/usuarios/me/senha", pair.AccessToken, gin.H{
		"senha_atual": "secret1",
		"senha_nova":  "secret2",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("change senha: status %d body %s", w.Code, w.Body.String())
	}

	// old password no longer logs in, new one does
	if w := doJSON(t, engine, http.MethodPost, "/login", "", gin.H{"login": "joao123", "senha": "secret1"}); w.Code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: status %d", w.Code)
	}
	login(t, engine, "joao123", "secret2")
}

func TestRegisterValidation(t *testing.T) {
	engine := newTestAPI(t)

	w := doJSON(t, engine, http.MethodPost, "/usuarios", "", gin.H{
		"ra":          "123",
		"nome":        "Joao",
		"email":       "joao@fatec.sp.gov.br",
		"username":    "joao123",
		"senha":       "secret1",
		"instituicao": "FATEC",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short RA: status %d, want 400", w.Code)
	}

	// duplicate RA
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
	w = doJSON(t, engine, http.MethodPost, "/usuarios", "", gin.H{
		"ra":          "1110482329666",
		"nome":        "Impostor",
		"email":       "other@fatec.sp.gov.br",
		"username":    "other1",
		"senha":       "secret1",
		"instituicao": "FATEC",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate RA: status %d, want 409", w.Code)
	}
}

func TestDeleteAccount(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
	pair := login(t, engine, "joao123", "secret1")

	// the account owns a record before deletion
	w := doJSON(t, engine, http.MethodPost, "/notas", pair.AccessToken, gin.H{
		"id_disciplina": 1,
		"bimestre":      1,
		"nota":          8.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create nota: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodDelete, "/usuarios/me", pair.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete account: status %d body %s", w.Code, w.Body.String())
	}

	// the access token no longer resolves to an identity
	w = doJSON(t, engine, http.MethodGet, "/usuarios/me", pair.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("me after delete: status %d, want 401", w.Code)
	}

	// the refresh chain is revoked, not just orphaned
	w = doJSON(t, engine, http.MethodPost, "/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after delete: status %d, want 401", w.Code)
	}

	// credentials are gone
	w = doJSON(t, engine, http.MethodPost, "/login", "", gin.H{"login": "joao123", "senha": "secret1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login after delete: status %d, want 401", w.Code)
	}

	// the RA is free for re-registration
	registerUser(t, engine, "1110482329666", "joao123", "joao@fatec.sp.gov.br")
}

func TestCatalogMutations(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao123@fatec.sp.gov.br")
	pair := login(t, engine, "joao123", "secret1")

	w := doJSON(t, engine, http.MethodPost, "/disciplinas", pair.AccessToken, gin.H{
		"nome": "Estrutura de Dados",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create disciplina: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Data store.Disciplina `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode disciplina: %v", err)
	}
	if created.Data.ID == 0 {
		t.Fatal("disciplina id not assigned")
	}

	w = doJSON(t, engine, http.MethodPost, "/tipos-data", pair.AccessToken, gin.H{"nome": "Prova"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tipo-data: status %d body %s", w.Code, w.Body.String())
	}

	// place the subject into a course, then remove it
	w = doJSON(t, engine, http.MethodPost, "/curso-disciplina", pair.AccessToken, gin.H{
		"id_curso":      1,
		"id_disciplina": created.Data.ID,
		"modulo":        2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("link curso-disciplina: status %d body %s", w.Code, w.Body.String())
	}
	path := fmt.Sprintf("/curso-disciplina/1/%d", created.Data.ID)
	w = doJSON(t, engine, http.MethodDelete, path, pair.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unlink curso-disciplina: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodDelete, path, pair.AccessToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second unlink: status %d, want 404", w.Code)
	}
}

func TestDisciplinaDocenteLinks(t *testing.T) {
	engine := newTestAPI(t)
	registerUser(t, engine, "1110482329666", "joao123", "joao123@fatec.sp.gov.br")
	pair := login(t, engine, "joao123", "secret1")

	w := doJSON(t, engine, http.MethodPost, "/disciplinas", pair.AccessToken, gin.H{
		"nome": "Banco de Dados",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create disciplina: status %d body %s", w.Code, w.Body.String())
	}
	var disciplina struct {
		Data store.Disciplina `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &disciplina); err != nil {
		t.Fatalf("decode disciplina: %v", err)
	}

	w = doJSON(t, engine, http.MethodPost, "/docentes", pair.AccessToken, gin.H{
		"nome":  "Profa. Ana Souza",
		"email": "ana.souza@fatec.sp.gov.br",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create docente: status %d body %s", w.Code, w.Body.String())
	}
	var docente struct {
		Data store.Docente `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &docente); err != nil {
		t.Fatalf("decode docente: %v", err)
	}

	w = doJSON(t, engine, http.MethodPost, "/disciplina-docente", pair.AccessToken, gin.H{
		"id_disciplina": disciplina.Data.ID,
		"id_docente":    docente.Data.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("link: status %d body %s", w.Code, w.Body.String())
	}

	// the assignment shows up in both list shapes
	w = doJSON(t, engine, http.MethodGet,
		fmt.Sprintf("/disciplina-docente?disciplina=%d", disciplina.Data.ID), pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list links: status %d body %s", w.Code, w.Body.String())
	}
	var links struct {
		Data []store.DisciplinaDocente `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &links); err != nil {
		t.Fatalf("decode links: %v", err)
	}
	if len(links.Data) != 1 || links.Data[0].DocenteID != docente.Data.ID {
		t.Fatalf("links = %+v, want one row for docente %d", links.Data, docente.Data.ID)
	}

	w = doJSON(t, engine, http.MethodGet,
		fmt.Sprintf("/disciplinas/%d/docentes", disciplina.Data.ID), pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("docentes da disciplina: status %d body %s", w.Code, w.Body.String())
	}
	var docentes struct {
		Data []store.Docente `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &docentes); err != nil {
		t.Fatalf("decode docentes: %v", err)
	}
	if len(docentes.Data) != 1 || docentes.Data[0].Nome != "Profa. Ana Souza" {
		t.Fatalf("docentes = %+v", docentes.Data)
	}

	// duplicate assignment is rejected
	w = doJSON(t, engine, http.MethodPost, "/disciplina-docente", pair.AccessToken, gin.H{
		"id_disciplina": disciplina.Data.ID,
		"id_docente":    docente.Data.ID,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate link: status %d, want 409", w.Code)
	}

	path := fmt.Sprintf("/disciplina-docente/%d/%d", disciplina.Data.ID, docente.Data.ID)
	w = doJSON(t, engine, http.MethodDelete, path, pair.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unlink: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodDelete, path, pair.AccessToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second unlink: status %d, want 404", w.Code)
	}
}

func TestHealthOpen(t *testing.T) {
	engine := newTestAPI(t)
	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health: status %d", w.Code)
	}
}
