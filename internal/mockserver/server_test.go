package mockserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-tickets/internal/mockserver"
)

const testSecret = "secret-de-test"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildApp(t *testing.T) (*fiber.App, *mockserver.Server) {
	t.Helper()
	srv := mockserver.New(mockserver.NewStore(), pdf.NewMarotoReportGenerator(), nil, mockserver.Config{
		JWTSecret:     testSecret,
		JWTIssuer:     "taller-test",
		JWTExpMinutes: 60,
	})
	require.NoError(t, srv.Seed())
	return srv.App(), srv
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// login devuelve el token y el cuerpo completo de la respuesta.
func login(t *testing.T, app *fiber.App, email, password string) (string, map[string]any) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

// El login devuelve el rol como campo hermano del user: la forma de API
// que el Session Store del cliente corrige con su merge.
func TestLogin_RolComoCampoHermano(t *testing.T) {
	app, _ := buildApp(t)
	_, body := login(t, app, "carlos@taller.com", "tecnico123")

	assert.Equal(t, "tecnico", body["rol"], "el rol debe viajar como hermano del user")
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "carlos@taller.com", user["email"])
}

func TestLogin_CredencialesInvalidas401(t *testing.T) {
	app, _ := buildApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email": "carlos@taller.com", "password": "equivocada",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_SinCampos422ConErroresPorCampo(t *testing.T) {
	app, _ := buildApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decode(t, resp, &body)
	assert.NotEmpty(t, body.Errors["email"])
	assert.NotEmpty(t, body.Errors["password"])
}

func TestSignup_EmailDuplicado422(t *testing.T) {
	app, _ := buildApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/signup", "", map[string]string{
		"nombre": "Otro", "email": "carlos@taller.com", "password": "12345678x",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Errors["email"])
	assert.Equal(t, "el email ya está registrado", body.Errors["email"][0])
}

// Tras logout el token queda revocado: el refresco de tickets del
// cliente recibe el 401 que dispara su cierre de sesión forzado.
func TestLogout_RevocaElToken(t *testing.T) {
	app, _ := buildApp(t)
	tok, _ := login(t, app, "rosa@taller.com", "recepcion123")

	resp := doJSON(t, app, http.MethodPost, "/api/logout", tok, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/tickets", tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tickets: alcance por rol e invariantes
// ──────────────────────────────────────────────────────────────────────────────

func ticketsDe(t *testing.T, app *fiber.App, tok string) []entity.Ticket {
	t.Helper()
	resp := doJSON(t, app, http.MethodGet, "/api/tickets", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []entity.Ticket
	decode(t, resp, &out)
	return out
}

func TestTickets_AlcancePorRol(t *testing.T) {
	app, _ := buildApp(t)

	admin, _ := login(t, app, "admin@taller.com", "admin12345")
	tecnico, _ := login(t, app, "carlos@taller.com", "tecnico123")
	recep, _ := login(t, app, "rosa@taller.com", "recepcion123")

	assert.Len(t, ticketsDe(t, app, admin), 2, "admin ve toda la colección")
	assert.Len(t, ticketsDe(t, app, recep), 2, "la recepcionista ve los que creó")

	// El seed deja un ticket disponible y uno tomado por Carlos: el
	// técnico ve disponibles + suyos.
	deTecnico := ticketsDe(t, app, tecnico)
	assert.Len(t, deTecnico, 2)
	for _, tk := range deTecnico {
		disponible := tk.TecnicoID == nil
		assert.True(t, disponible || *tk.TecnicoID > 0)
	}
}

func TestCreateTicket_DefaultsDelServidor(t *testing.T) {
	app, _ := buildApp(t)
	recep, _ := login(t, app, "rosa@taller.com", "recepcion123")

	resp := doJSON(t, app, http.MethodPost, "/api/tickets", recep, map[string]string{
		"tipo_dispositivo":     "tablet",
		"marca":                "Apple",
		"modelo":               "iPad 9",
		"descripcion_problema": "no carga",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tk entity.Ticket
	decode(t, resp, &tk)
	assert.Equal(t, entity.EstadoUsuarioPendiente, tk.EstadoUsuario, "estado inicial lo pone el servidor")
	assert.Equal(t, entity.EstadoInternoSinIniciar, tk.EstadoInterno)
	assert.Equal(t, entity.PrioridadMedia, tk.Prioridad, "prioridad por defecto")
	assert.Nil(t, tk.TecnicoID)
}

func TestCreateTicket_Validacion422(t *testing.T) {
	app, _ := buildApp(t)
	recep, _ := login(t, app, "rosa@taller.com", "recepcion123")

	resp := doJSON(t, app, http.MethodPost, "/api/tickets", recep, map[string]string{
		"tipo_dispositivo": "tablet",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decode(t, resp, &body)
	assert.NotEmpty(t, body.Errors["marca"])
	assert.NotEmpty(t, body.Errors["modelo"])
	assert.NotEmpty(t, body.Errors["descripcion_problema"])
}

// Máximo un técnico por ticket: asignar dos veces responde 409.
func TestAssignTicket_Conflicto409(t *testing.T) {
	app, _ := buildApp(t)
	tecnico, _ := login(t, app, "carlos@taller.com", "tecnico123")

	// El ticket 1 del seed está disponible.
	resp := doJSON(t, app, http.MethodPost, "/api/tickets/1/assign", tecnico, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/tickets/1/assign", tecnico, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAssignTicket_SoloTecnicos(t *testing.T) {
	app, _ := buildApp(t)
	recep, _ := login(t, app, "rosa@taller.com", "recepcion123")

	resp := doJSON(t, app, http.MethodPost, "/api/tickets/1/assign", recep, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateTicket_SoloAsignadoOAdmin(t *testing.T) {
	app, _ := buildApp(t)
	recep, _ := login(t, app, "rosa@taller.com", "recepcion123")
	admin, _ := login(t, app, "admin@taller.com", "admin12345")

	patch := map[string]string{"estado_interno": entity.EstadoInternoCompletado}

	// El ticket 2 del seed está asignado a Carlos: Rosa no puede tocarlo.
	resp := doJSON(t, app, http.MethodPatch, "/api/tickets/2", recep, patch)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/api/tickets/2", admin, patch)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tk entity.Ticket
	decode(t, resp, &tk)
	assert.Equal(t, entity.EstadoInternoCompletado, tk.EstadoInterno)
	assert.Equal(t, entity.EstadoUsuarioEnRevision, tk.EstadoUsuario,
		"los dos ejes de estado son independientes: tocar uno no mueve el otro")
}

func TestUpdateTicket_EstadoInvalido422(t *testing.T) {
	app, _ := buildApp(t)
	admin, _ := login(t, app, "admin@taller.com", "admin12345")

	resp := doJSON(t, app, http.MethodPatch, "/api/tickets/1", admin, map[string]string{
		"estado_usuario": "volando",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMyTickets_SoloDelTecnico(t *testing.T) {
	app, _ := buildApp(t)
	tecnico, _ := login(t, app, "carlos@taller.com", "tecnico123")

	resp := doJSON(t, app, http.MethodGet, "/api/my-tickets", tecnico, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []entity.Ticket
	decode(t, resp, &out)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].TecnicoID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Panel admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_RequiereRolAdmin(t *testing.T) {
	app, _ := buildApp(t)
	tecnico, _ := login(t, app, "carlos@taller.com", "tecnico123")

	resp := doJSON(t, app, http.MethodGet, "/api/admin/users", tecnico, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdmin_UsersFiltroPorRol(t *testing.T) {
	app, _ := buildApp(t)
	admin, _ := login(t, app, "admin@taller.com", "admin12345")

	resp := doJSON(t, app, http.MethodGet, "/api/admin/users?role=tecnico", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []entity.User
	decode(t, resp, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "carlos@taller.com", out[0].Email)
}

func TestAdmin_CambiarRolYEliminar(t *testing.T) {
	app, _ := buildApp(t)
	admin, _ := login(t, app, "admin@taller.com", "admin12345")

	// Rosa (id 3 en el seed) pasa a técnico.
	resp := doJSON(t, app, http.MethodPut, "/api/admin/users/3/role", admin, map[string]string{"rol": "tecnico"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u entity.User
	decode(t, resp, &u)
	assert.Equal(t, "tecnico", u.Rol)

	resp = doJSON(t, app, http.MethodDelete, "/api/admin/users/3", admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// El admin no puede eliminarse a sí mismo.
	resp = doJSON(t, app, http.MethodDelete, "/api/admin/users/1", admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdmin_StatsYPDF(t *testing.T) {
	app, _ := buildApp(t)
	admin, _ := login(t, app, "admin@taller.com", "admin12345")

	resp := doJSON(t, app, http.MethodGet, "/api/admin/reports/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats entity.ReportStats
	decode(t, resp, &stats)
	assert.Equal(t, 2, stats.TotalTickets)
	assert.Equal(t, 1, stats.TicketsSinTecnico)

	resp = doJSON(t, app, http.MethodGet, "/api/admin/reports/pdf", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), fmt.Sprintf("cuerpo inesperado: %q...", raw[:min(8, len(raw))]))
}
