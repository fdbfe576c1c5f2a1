// seed_catalog genera un script SQL para poblar materials y material_formats
// a partir de la planilla de insumos de la planta (.xlsx, .xls o .csv).
//
// Uso: go run ./cmd/seed_catalog [-header 1] [-out ruta.sql] ruta/catalogo.xlsx
// Por defecto escribe: internal/infrastructure/postgres/seeds/catalogo.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/insumos-api/internal/infrastructure/catalogfile"
)

func main() {
	headerRow := flag.Int("header", 1, "fila de encabezados (1 = primera)")
	outFlag := flag.String("out", "", "ruta del script SQL de salida")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog [-header N] [-out archivo.sql] catalogo.xlsx")
		os.Exit(2)
	}
	inPath := flag.Arg(0)

	f, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir catálogo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, skipped, err := catalogfile.Read(f, inPath, *headerRow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida %v\n", s)
	}
	if len(cat.Materials) == 0 {
		fmt.Fprintln(os.Stderr, "El catálogo no tiene insumos válidos")
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "catalogo.sql")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := catalogfile.WriteSQL(out, cat, filepath.Base(inPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d insumos, %d formatos, %d filas omitidas\n",
		outPath, len(cat.Materials), len(cat.Formats), len(skipped))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
