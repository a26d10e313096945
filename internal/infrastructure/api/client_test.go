package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
)

// memTokens es un TokenStore en memoria para los tests.
type memTokens struct {
	token string
}

func (m *memTokens) Load() (string, error)  { return m.token, nil }
func (m *memTokens) Save(t string) error    { m.token = t; return nil }
func (m *memTokens) Clear() error           { m.token = ""; return nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL+"/api", &memTokens{token: token}, nil), srv
}

// Caso 1: no-2xx con cuerpo JSON → *APIError con Status y Data.
func TestCall_Error500ConCuerpo_DevuelveAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"fail"}`))
	}, "")

	_, err := c.Call(context.Background(), "/tickets", http.MethodGet, nil, "")
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "fail", apiErr.Data["message"],
		"el cuerpo del error debe viajar decodificado en Data")
}

// Caso 2: 2xx con cuerpo vacío → nil sin error de parseo.
func TestCall_RespuestaVacia_DevuelveNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "")

	raw, err := c.Call(context.Background(), "/logout", http.MethodPost, nil, "")
	require.NoError(t, err)
	assert.Nil(t, raw, "cuerpo vacío debe resolver a nil, no a error")
}

// Caso 2b: 2xx con cuerpo no-JSON también resuelve a nil.
func TestCall_RespuestaNoJSON_DevuelveNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}, "")

	raw, err := c.Call(context.Background(), "/user", http.MethodGet, nil, "")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// Caso 3: error no-2xx con cuerpo no-JSON → Data queda nil.
func TestCall_ErrorSinCuerpoJSON_DataNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}, "")

	_, err := c.Call(context.Background(), "/tickets", http.MethodGet, nil, "")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Nil(t, apiErr.Data)
}

// Caso 4: headers — Accept siempre, Content-Type solo con body,
// Authorization solo con token disponible.
func TestCall_Headers(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}, "tok-guardado")

	_, err := c.Call(context.Background(), "/tickets", http.MethodGet, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Empty(t, got.Get("Content-Type"), "GET sin body no debe llevar Content-Type")
	assert.Equal(t, "Bearer tok-guardado", got.Get("Authorization"),
		"sin override debe usarse el token persistido")

	_, err = c.Call(context.Background(), "/tickets", http.MethodPost,
		dto.CreateTicketRequest{TipoDispositivo: "laptop"}, "tok-override")
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-override", got.Get("Authorization"),
		"el override explícito gana sobre el token persistido")
}

// Caso 5: error de validación 422 → Mensaje() devuelve el primer
// mensaje del primer campo.
func TestAPIError_Mensaje_Validacion(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"marca":["la marca es obligatoria"]}}`))
	}, "")

	_, err := c.Call(context.Background(), "/tickets", http.MethodPost, dto.CreateTicketRequest{}, "")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "la marca es obligatoria", apiErr.Mensaje())
}

// Caso 6: fallo de transporte (servidor caído) → error sin *APIError.
func TestCall_FalloDeRed_PropagaSinStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close() // el cliente apunta a un puerto ya cerrado

	c := api.New(base, &memTokens{}, nil)
	_, err := c.Call(context.Background(), "/tickets", http.MethodGet, nil, "")
	require.Error(t, err)

	var apiErr *api.APIError
	assert.False(t, errors.As(err, &apiErr), "un fallo de red no lleva Status")
}
