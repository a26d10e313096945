// Package tui implementa las pantallas del cliente de terminal. Son
// consumidores delgados: toda mutación va al backend vía el Session
// Store o el cliente de API, seguida de un refetch; ninguna pantalla
// guarda estado autoritativo.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/tu-usuario/taller-tickets/internal/application/guard"
	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

// pantalla es lo que el modelo raíz necesita de cada pantalla.
type pantalla interface {
	Init() tea.Cmd
	Update(tea.Msg) (pantalla, tea.Cmd)
	View() string
}

// msgSesion llega cuando el Session Store notifica un cambio de estado.
type msgSesion struct {
	snap session.Snapshot
}

// App es el modelo raíz: observa el Session Store, evalúa el Route
// Guard en cada cambio y monta la pantalla del segmento activo.
type App struct {
	store   *session.Store
	cliente *api.Client
	log     *logger.Logger

	segmento string
	activa   pantalla
	snap     session.Snapshot
	carga    spinner.Model
	ancho    int
	alto     int
}

// NewApp construye el modelo raíz. El segmento inicial es auth: hasta
// que la restauración no termina, el guard no navega y se ve el
// indicador de carga.
func NewApp(store *session.Store, cliente *api.Client, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &App{
		store:    store,
		cliente:  cliente,
		log:      log,
		segmento: guard.SegmentoAuth,
		carga:    sp,
		snap:     store.Snapshot(),
	}
}

// Init arranca la restauración de sesión y la escucha de cambios.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.carga.Tick,
		func() tea.Msg {
			a.store.Restore(context.Background())
			return nil
		},
		a.esperarCambio(),
	)
}

// esperarCambio bloquea hasta la próxima notificación del store y la
// entrega al loop de mensajes.
func (a *App) esperarCambio() tea.Cmd {
	return func() tea.Msg {
		<-a.store.Cambios()
		return msgSesion{snap: a.store.Snapshot()}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ancho, a.alto = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case spinner.TickMsg:
		if a.snap.Cargando {
			var cmd tea.Cmd
			a.carga, cmd = a.carga.Update(msg)
			return a, cmd
		}

	case msgSesion:
		a.snap = msg.snap
		cmd := a.aplicarGuard()
		return a, tea.Batch(cmd, a.esperarCambio())
	}

	if a.activa != nil {
		var cmd tea.Cmd
		a.activa, cmd = a.activa.Update(msg)
		return a, cmd
	}
	return a, nil
}

// aplicarGuard ejecuta la decisión pura del guard como efecto de
// navegación. Si ya estamos en el destino la decisión es nil y no se
// monta nada de nuevo.
func (a *App) aplicarGuard() tea.Cmd {
	destino := guard.Decide(a.snap.User, a.snap.Cargando, a.segmento)
	if destino == nil {
		if a.activa == nil && !a.snap.Cargando {
			a.activa = a.montar(a.segmento)
			if a.activa != nil {
				return a.activa.Init()
			}
		}
		return nil
	}

	a.segmento = segmentoDeRuta(destino.Ruta)
	a.log.Debug().Str("ruta", destino.Ruta).Msg("navegación por guard")
	a.activa = a.montar(a.segmento)
	if a.activa != nil {
		return a.activa.Init()
	}
	return nil
}

// segmentoDeRuta traduce la ruta decidida por el guard al segmento de
// pantalla del TUI.
func segmentoDeRuta(ruta string) string {
	switch ruta {
	case guard.RutaLogin:
		return guard.SegmentoAuth
	case guard.RutaPanelAdmin:
		return "admin"
	case guard.RutaPanelTecnico:
		return "tecnico"
	default:
		return guard.SegmentoTabs
	}
}

// montar construye la pantalla del segmento.
func (a *App) montar(segmento string) pantalla {
	switch segmento {
	case guard.SegmentoAuth:
		return newLoginScreen(a.store)
	case "admin":
		return newAdminScreen(a.store, a.cliente)
	case "tecnico":
		return newTecnicoScreen(a.store, a.cliente)
	default:
		return newRecepcionScreen(a.store)
	}
}

func (a *App) View() string {
	if a.snap.Cargando {
		return lipgloss.Place(a.ancho, a.alto, lipgloss.Center, lipgloss.Center,
			a.carga.View()+" restaurando sesión...")
	}
	if a.activa == nil {
		return ""
	}
	return a.activa.View()
}
