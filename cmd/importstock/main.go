// cmd/importstock/main.go — Importa un conteo físico de stock desde CSV.
//
// El CSV tiene encabezado y columnas: sku,nombre,rubro,precio_venta,stock.
// Por cada fila se busca el producto por SKU: si no existe se crea, y si el
// stock contado difiere del registrado se apendea un movimiento de ajuste por
// la diferencia. Re-ejecutar con el mismo archivo no duplica nada.
//
// Uso: go run cmd/importstock/main.go -archivo conteo.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hvilloria/simple-stock/internal/config"
	"github.com/hvilloria/simple-stock/internal/infra"
	"github.com/hvilloria/simple-stock/internal/model"
	"github.com/hvilloria/simple-stock/internal/repository"
	"github.com/hvilloria/simple-stock/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	archivo := flag.String("archivo", "", "ruta del CSV de conteo (sku,nombre,rubro,precio_venta,stock)")
	flag.Parse()
	if *archivo == "" {
		log.Fatal().Msg("falta -archivo")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	f, err := os.Open(*archivo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open csv")
	}
	defer f.Close()

	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	inventario := service.NewInventarioService(productoRepo, movimientoRepo)

	creados, ajustados, sinCambios := 0, 0, 0
	ctx := context.Background()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5
	if _, err := r.Read(); err != nil { // encabezado
		log.Fatal().Err(err).Msg("failed to read csv header")
	}

	for linea := 2; ; linea++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Int("linea", linea).Msg("failed to read csv row")
		}

		sku := strings.TrimSpace(row[0])
		nombre := strings.TrimSpace(row[1])
		rubro := strings.TrimSpace(row[2])
		if sku == "" {
			log.Warn().Int("linea", linea).Msg("fila sin sku, salteada")
			continue
		}
		precio, err := decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil {
			log.Fatal().Err(err).Int("linea", linea).Msg("precio_venta inválido")
		}
		contado, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || contado < 0 {
			log.Fatal().Int("linea", linea).Msg("stock inválido")
		}

		p, err := productoRepo.FindBySKU(ctx, sku)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = &model.Producto{SKU: sku, Nombre: nombre, Rubro: rubro, PrecioVenta: precio, Activo: true}
			if err := productoRepo.Create(ctx, p); err != nil {
				log.Fatal().Err(err).Str("sku", sku).Msg("failed to create producto")
			}
			creados++
		case err != nil:
			log.Fatal().Err(err).Str("sku", sku).Msg("failed to find producto")
		}

		diferencia := contado - p.StockActual
		if diferencia == 0 {
			sinCambios++
			continue
		}

		o := inventario.Ajustar(ctx, service.AjusteStockInput{
			ProductoID: p.ID,
			Tipo:       model.MovimientoAjuste,
			Cantidad:   diferencia,
			Nota:       fmt.Sprintf("conteo físico %s", time.Now().Format("2006-01-02")),
		})
		if !o.Succeeded {
			log.Fatal().Strs("errores", o.Errors).Str("sku", sku).Msg("failed to adjust stock")
		}
		ajustados++
	}

	log.Info().
		Int("creados", creados).
		Int("ajustados", ajustados).
		Int("sin_cambios", sinCambios).
		Msg("importación de conteo terminada")
}
