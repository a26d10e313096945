package session_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-tickets/internal/application/dto"
	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/storage"
	"github.com/tu-usuario/taller-tickets/internal/mockserver"
)

// arrancarMock levanta el servidor mock en un puerto efímero y devuelve
// la URL base de la API.
func arrancarMock(t *testing.T) string {
	t.Helper()
	srv := mockserver.New(mockserver.NewStore(), pdf.NewMarotoReportGenerator(), nil, mockserver.Config{
		JWTSecret:     "secret-integracion",
		JWTIssuer:     "taller-test",
		JWTExpMinutes: 60,
	})
	require.NoError(t, srv.Seed())

	app := srv.App()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = app.ShutdownWithContext(ctx)
	})
	return "http://" + ln.Addr().String() + "/api"
}

// Flujo completo contra el servidor mock: login con merge de rol,
// creación con refetch, restauración desde token persistido y cierre
// forzado por 401 tras un logout del lado servidor.
func TestIntegracion_CicloDeVidaCompleto(t *testing.T) {
	base := arrancarMock(t)
	ctx := context.Background()

	tokens := storage.NewTokenFile(filepath.Join(t.TempDir(), "session_token"))
	cliente := api.New(base, tokens, nil)
	s := session.NewStore(cliente, tokens, nil)

	// Login de la recepcionista del seed.
	user, err := s.Login(ctx, dto.LoginRequest{Email: "rosa@taller.com", Password: "recepcion123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RolRecepcionista, user.Rol, "el rol hermano debe quedar fusionado")

	snap := s.Snapshot()
	assert.Equal(t, session.EstadoAutenticado, snap.Estado)
	assert.Len(t, snap.Tickets, 2, "el seed deja dos tickets de Rosa")

	// Crear un ticket: la caché termina siendo lo que devuelve el GET.
	err = s.CreateTicket(ctx, dto.CreateTicketRequest{
		TipoDispositivo:     "impresora",
		Marca:               "HP",
		Modelo:              "LaserJet",
		DescripcionProblema: "atasco de papel",
	})
	require.NoError(t, err)

	snap = s.Snapshot()
	require.Len(t, snap.Tickets, 3)
	creado := snap.Tickets[2]
	assert.Equal(t, entity.EstadoUsuarioPendiente, creado.EstadoUsuario, "default computado por el servidor")
	assert.Equal(t, entity.PrioridadMedia, creado.Prioridad)

	// Un proceso nuevo restaura la sesión desde el token persistido.
	s2 := session.NewStore(api.New(base, tokens, nil), tokens, nil)
	s2.Restore(ctx)
	snap2 := s2.Snapshot()
	require.Equal(t, session.EstadoAutenticado, snap2.Estado)
	assert.Equal(t, "rosa@taller.com", snap2.User.Email)
	assert.Len(t, snap2.Tickets, 3)

	// El primer store cierra sesión: el token queda revocado en el
	// servidor y el refresco del segundo recibe el 401 que fuerza su
	// propia transición a Anonimo.
	s.Logout(ctx)

	// El logout limpió el token compartido; el segundo store todavía se
	// cree autenticado y refresca con su token en memoria.
	s2.FetchUserTickets(ctx, snap2.Token)
	snap2 = s2.Snapshot()
	assert.Equal(t, session.EstadoAnonimo, snap2.Estado, "401 del servidor debe forzar el cierre local")
	assert.Nil(t, snap2.User)

	tok, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, tok, "el token persistido no debe sobrevivir al cierre")
}

// Errores de validación del backend llegan al caller con el detalle por
// campo para que el formulario muestre el primer mensaje.
func TestIntegracion_ValidacionDeFormulario(t *testing.T) {
	base := arrancarMock(t)
	ctx := context.Background()

	tokens := storage.NewTokenFile(filepath.Join(t.TempDir(), "session_token"))
	cliente := api.New(base, tokens, nil)
	s := session.NewStore(cliente, tokens, nil)

	_, err := s.Login(ctx, dto.LoginRequest{Email: "rosa@taller.com", Password: "recepcion123"})
	require.NoError(t, err)

	err = s.CreateTicket(ctx, dto.CreateTicketRequest{TipoDispositivo: "laptop"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.NotEmpty(t, apiErr.Mensaje(), "debe haber un mensaje de campo para la pantalla")
}
