//go:build integration

package router_test

// Flujo completo contra Postgres y Redis reales via testcontainers.
// Correr con: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/hvilloria/simple-stock/internal/config"
	"github.com/hvilloria/simple-stock/internal/infra"
	"github.com/hvilloria/simple-stock/internal/repository"
	"github.com/hvilloria/simple-stock/internal/router"
)

type testEnv struct {
	server *httptest.Server
	token  string
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stock_test"),
		tcPostgres.WithUsername("stock"),
		tcPostgres.WithPassword("stock"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		PDFStoragePath:     t.TempDir(),
		NombreNegocio:      "Distribuidora Test",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("stock2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at)
		VALUES (gen_random_uuid(), 'admin@test.local', 'Admin Test', ?, 'administrador', true, NOW())`,
		string(hash)).Error)

	clienteRepo := repository.NewClienteRepository(db)
	mostrador, err := clienteRepo.EnsureMostrador(ctx)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, mostrador.ID)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@test.local", "password": "stock2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

type outcomeBody struct {
	Succeeded bool            `json:"succeeded"`
	Value     json.RawMessage `json:"value"`
	Errors    []string        `json:"errors"`
}

func TestCicloCompraPedidoAnulacion(t *testing.T) {
	env := setupTestEnv(t)

	// Alta de producto
	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"sku":          "FIL-001",
			"nombre":       "Filtro de aceite",
			"precio_venta": "4500.00",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// Proveedor
	provResp := do(t, env.server, "POST", "/v1/proveedores",
		jsonBody(t, map[string]any{
			"razon_social": "Repuestos Norte SA",
			"cuit":         "30-11111111-1",
		}), env.token)
	require.Equal(t, http.StatusCreated, provResp.StatusCode)
	var prov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, provResp, &prov)

	// Compra detallada: ingresa 40 unidades a 30 USD con tc 1200
	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id": prov.ID,
			"moneda":       "USD",
			"tipo_cambio":  "1200",
			"items": []map[string]any{
				{"producto_id": prod.ID, "cantidad": 40, "costo_unitario": "30"},
			},
		}), env.token)
	require.Equal(t, http.StatusOK, compraResp.StatusCode)
	var compra outcomeBody
	decodeJSON(t, compraResp, &compra)
	require.True(t, compra.Succeeded, "errores: %v", compra.Errors)

	// Pedido mostrador de 3 unidades
	pedidoResp := do(t, env.server, "POST", "/v1/pedidos",
		jsonBody(t, map[string]any{
			"tipo": "contado",
			"items": []map[string]any{
				{"producto_id": prod.ID, "cantidad": 3},
			},
		}), env.token)
	require.Equal(t, http.StatusOK, pedidoResp.StatusCode)
	var pedido outcomeBody
	decodeJSON(t, pedidoResp, &pedido)
	require.True(t, pedido.Succeeded, "errores: %v", pedido.Errors)
	var pedidoVal struct {
		ID     string `json:"id"`
		Numero int    `json:"numero"`
		Total  string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(pedido.Value, &pedidoVal))
	assert.Equal(t, 1, pedidoVal.Numero)

	// Stock queda en 37
	getProd := do(t, env.server, "GET", "/v1/productos/"+prod.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getProd.StatusCode)
	var actual struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, getProd, &actual)
	assert.Equal(t, 37, actual.StockActual)

	// Anular el pedido restaura el stock
	anularResp := do(t, env.server, "POST", "/v1/pedidos/"+pedidoVal.ID+"/anular",
		jsonBody(t, map[string]any{"motivo": "pedido de prueba"}), env.token)
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	var anulado outcomeBody
	decodeJSON(t, anularResp, &anulado)
	require.True(t, anulado.Succeeded, "errores: %v", anulado.Errors)

	getProd2 := do(t, env.server, "GET", "/v1/productos/"+prod.ID, nil, env.token)
	decodeJSON(t, getProd2, &actual)
	assert.Equal(t, 40, actual.StockActual)
}

func TestConsultaDePreciosEsPublica(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"sku":          "BUJ-004",
			"nombre":       "Bujía NGK",
			"precio_venta": "3200.00",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Sin token
	precio := do(t, env.server, "GET", "/v1/precio/BUJ-004", nil, "")
	require.Equal(t, http.StatusOK, precio.StatusCode)
	var body struct {
		SKU         string `json:"sku"`
		PrecioVenta string `json:"precio_venta"`
	}
	decodeJSON(t, precio, &body)
	assert.Equal(t, "BUJ-004", body.SKU)

	// Las rutas protegidas siguen exigiendo token
	sinToken := do(t, env.server, "GET", "/v1/productos", nil, "")
	assert.Equal(t, http.StatusUnauthorized, sinToken.StatusCode)
}
