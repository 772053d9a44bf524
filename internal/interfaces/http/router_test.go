package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Propiedades-api/internal/application/auth"
	"github.com/jhoicas/Propiedades-api/internal/application/dto"
	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Propiedades-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Propiedades-api/internal/interfaces/http"
)

const (
	requesterID = "u-1"
	approverID  = "a-1"
	issuerID    = "s-1"
)

// newAPI levanta el router completo sobre SQLite en memoria con los tres usuarios por defecto.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	db := sqlite.NewTestDB(t)
	users := sqlite.NewUserRepository(db)
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	for _, u := range []*entity.User{
		{ID: requesterID, Username: "user", Name: "Sidrak H.", Department: "ADRD", Role: entity.RoleRequester},
		{ID: approverID, Username: "admin", Name: "Administrator", Department: "Property Office", Role: entity.RoleApprover},
		{ID: issuerID, Username: "store", Name: "Store Manager", Department: "Store Department", Role: entity.RoleIssuer},
	} {
		u.PasswordHash = hash
		require.NoError(t, users.Create(context.Background(), u))
	}
	coord := lifecycle.NewCoordinator(lifecycle.Deps{
		Tx:         sqlite.NewTxRunner(db),
		Properties: sqlite.NewPropertyRepository(db),
		Requests:   sqlite.NewRequestRepository(db),
		Issuances:  sqlite.NewIssuanceRepository(db),
		Users:      users,
		Receipts:   pdf.NewMarotoReceiptGenerator("Property Office"),
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Coordinator: coord,
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestLogin(t *testing.T) {
	app := newAPI(t)

	var out dto.LoginResponse
	status := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "secret123"}, &out)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "approver", out.User.Role)

	var profile dto.UserResponse
	status = call(t, app, http.MethodGet, "/api/profile", "Bearer "+out.Token, nil, &profile)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Administrator", profile.Name)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "mala"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", e.Code)
}

func TestFlujoCompleto_SolicitarAprobarEntregar(t *testing.T) {
	app := newAPI(t)
	reqTok := tokenFor(t, requesterID, "requester")
	appTok := tokenFor(t, approverID, "approver")
	issTok := tokenFor(t, issuerID, "issuer")

	var prop dto.PropertyResponse
	status := call(t, app, http.MethodPost, "/api/properties", appTok, map[string]interface{}{
		"number": "IRD-001", "name": "Laptop", "measurement": "pcs", "quantity": 10,
		"unit_price": "250.00", "property_type": "permanent",
	}, &prop)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 10, prop.AvailableQuantity)

	var r dto.RequestResponse
	status = call(t, app, http.MethodPost, "/api/requests", reqTok, dto.SubmitRequest{PropertyID: prop.ID, RequestedQuantity: 4}, &r)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", r.Status)

	status = call(t, app, http.MethodPost, "/api/requests/"+r.ID+"/approve", appTok, nil, &r)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", r.Status)

	var iss dto.IssuanceResponse
	status = call(t, app, http.MethodPost, "/api/issuances", issTok, dto.IssueRequest{RequestID: r.ID, Model22Number: "M22-7"}, &iss)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 4, iss.IssuedQuantity)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/issuances", issTok, dto.IssueRequest{RequestID: r.ID}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_ISSUED", e.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/issuances/"+iss.ID+"/receipt", nil)
	req.Header.Set("Authorization", reqTok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "model22-M22-7.pdf")

	var stats dto.DashboardStatsDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dashboard/stats", reqTok, nil, &stats))
	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 1, stats.IssuedProperties)
}

func TestMapeoDeErrores(t *testing.T) {
	app := newAPI(t)
	reqTok := tokenFor(t, requesterID, "requester")
	appTok := tokenFor(t, approverID, "approver")

	var prop dto.PropertyResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/properties", appTok, map[string]interface{}{
		"number": "IRD-002", "name": "Chair", "measurement": "pcs", "quantity": 2, "property_type": "temporary",
	}, &prop))

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/properties", reqTok, map[string]interface{}{"number": "X"}, &e))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/properties/no-existe", reqTok, nil, &e))
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodPost, "/api/requests", reqTok, dto.SubmitRequest{PropertyID: prop.ID, RequestedQuantity: 0}, &e))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/requests?status=cancelled", reqTok, nil, &e))

	var r dto.RequestResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/requests", reqTok, dto.SubmitRequest{PropertyID: prop.ID, RequestedQuantity: 3}, &r))
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/requests/"+r.ID+"/approve", appTok, nil, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodPost, "/api/requests/"+r.ID+"/adjust", appTok, dto.AdjustRequest{ApprovedQuantity: 4}, &e))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/requests/"+r.ID+"/reject", appTok, nil, &r))
	assert.Equal(t, "rejected", r.Status)
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/requests/"+r.ID+"/reject", appTok, nil, &e))
	assert.Equal(t, "INVALID_TRANSITION", e.Code)
}

func TestListadoSolicitudes_RequesterSoloVeLasSuyas(t *testing.T) {
	app := newAPI(t)
	appTok := tokenFor(t, approverID, "approver")

	var prop dto.PropertyResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/properties", appTok, map[string]interface{}{
		"number": "IRD-003", "name": "Pen", "measurement": "box", "quantity": 50, "property_type": "temporary",
	}, &prop))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/requests", tokenFor(t, requesterID, "requester"),
		dto.SubmitRequest{PropertyID: prop.ID, RequestedQuantity: 1}, nil))

	var list dto.RequestListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/requests?status=pending", appTok, nil, &list))
	assert.Len(t, list.Items, 1)

	// Un requester sin solicitudes propias no ve las ajenas aunque pida requester_id.
	other := tokenFor(t, "u-9", "requester")
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/requests?requester_id="+requesterID, other, nil, &list))
	assert.Empty(t, list.Items)
}
