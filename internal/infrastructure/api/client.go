// Package api implementa el cliente HTTP autenticado contra el backend
// REST del taller: inyección de Bearer token, encode/decode JSON y
// errores con forma uniforme para que las capas de arriba puedan
// distinguir fallos de validación de fallos genéricos.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

// TokenStore es lo que el cliente necesita del almacenamiento durable
// del token: lo implementa storage.TokenFile.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// APIError es el error de una respuesta no-2xx. Lleva el status y el
// cuerpo JSON decodificado (nil si el cuerpo estaba vacío o no era
// JSON), para que el caller pueda ramificar: 422 con errores de campo
// vs. fallo genérico.
type APIError struct {
	Status int
	Data   map[string]any
}

func (e *APIError) Error() string {
	if msg := e.Mensaje(); msg != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// EsAuth indica si el error es de sesión inválida (401).
func (e *APIError) EsAuth() bool { return e.Status == http.StatusUnauthorized }

// Mensaje devuelve el mejor mensaje humano disponible: el primer
// mensaje del primer campo en errores de validación, si no el campo
// "message" del cuerpo, si no vacío.
func (e *APIError) Mensaje() string {
	if e.Data == nil {
		return ""
	}
	if errs, ok := e.Data["errors"].(map[string]any); ok {
		for _, v := range errs {
			if msgs, ok := v.([]any); ok && len(msgs) > 0 {
				if s, ok := msgs[0].(string); ok {
					return s
				}
			}
		}
	}
	if s, ok := e.Data["message"].(string); ok {
		return s
	}
	return ""
}

// Client es el fetch autenticado: una sola pasada, sin retries ni
// backoff; los timeouts quedan en los defaults de la plataforma.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore
	log     *logger.Logger
}

// New construye el cliente apuntando a la raíz de la API
// (ej. http://localhost:8080/api).
func New(baseURL string, tokens TokenStore, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		tokens:  tokens,
		log:     log,
	}
}

// Call ejecuta una petición contra la API. Resuelve el token (override
// explícito, si no el persistido), arma headers y cuerpo JSON, y
// devuelve el JSON crudo de la respuesta (nil si el cuerpo está vacío o
// no es JSON). En no-2xx devuelve *APIError con {Status, Data}.
func (c *Client) Call(ctx context.Context, endpoint, method string, body any, tokenOverride string) (json.RawMessage, error) {
	token := tokenOverride
	if token == "" && c.tokens != nil {
		token, _ = c.tokens.Load() // sin token guardado se llama anónimo
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Fallo de red/transporte: se propaga tal cual, sin Status.
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		// Cuerpo vacío o no-JSON: Data queda nil.
		_ = json.Unmarshal(raw, &apiErr.Data)
		c.log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("respuesta de error de la API")
		return nil, apiErr
	}

	if len(raw) == 0 || !json.Valid(raw) {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// CallBinary ejecuta una petición que devuelve un cuerpo binario (la
// descarga del PDF de reportes). Mismo manejo de token y errores que
// Call, pero el cuerpo se devuelve en bytes sin interpretar.
func (c *Client) CallBinary(ctx context.Context, endpoint string) ([]byte, error) {
	token := ""
	if c.tokens != nil {
		token, _ = c.tokens.Load()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, &apiErr.Data)
		return nil, apiErr
	}
	return raw, nil
}
