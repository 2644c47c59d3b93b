package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bomcalc/internal"
	"bomcalc/internal/bom"
	"bomcalc/internal/config"
	"bomcalc/internal/pipeline"
	"bomcalc/internal/storage"
	"bomcalc/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	loader := bom.NewLoader(db)

	cmd := os.Args[1]
	switch cmd {
	case "bom:inspect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bomPath := fs.String("bom", cfg.BomPath, "path to the BOM workbook")
		_ = fs.Parse(os.Args[2:])
		res, err := loader.Load(*bomPath)
		must(err)
		fmt.Printf("bom loaded path=%s hash=%s cached=%v recipes=%d lines=%d\n",
			*bomPath, res.Hash[:12], res.Cached, len(res.Bom.Recipes), len(res.Bom.Lines))
	case "products":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bomPath := fs.String("bom", cfg.BomPath, "path to the BOM workbook")
		_ = fs.Parse(os.Args[2:])
		res, err := loader.Load(*bomPath)
		must(err)
		for _, r := range res.Bom.Recipes {
			fmt.Printf("%s  costo_receta=%.2f pu=%.2f\n", r.Label(), r.RecipeCost, r.UnitPrice)
		}
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bomPath := fs.String("bom", cfg.BomPath, "path to the BOM workbook")
		orderSpec := fs.String("order", "", "inline order, e.g. P001=3,P002=2")
		orderFile := fs.String("order-file", "", "order file with Producto and Cantidad_pedida columns")
		wasteRaw := fs.String("waste", cfg.DefaultWaste, "target waste fraction, e.g. 0.10, .30, 30%")
		actualsPath := fs.String("actuals", "", "actual consumption file (csv, html or xlsx)")
		actualsRaw := fs.Bool("actuals-raw-unit", cfg.ConvertActuals, "actuals are in raw recipe units (gr/ml) and need conversion")
		noCosts := fs.Bool("no-costs", !cfg.ShowCosts, "skip the cost section")
		noWasteOnCosts := fs.Bool("no-waste-on-costs", !cfg.ApplyWasteToCosts, "do not apply waste to the target cost")
		outDir := fs.String("out", cfg.OutputDir, "output directory for CSV artifacts")
		xlsxOut := fs.String("xlsx", "", "also write one xlsx workbook to this path")
		_ = fs.Parse(os.Args[2:])

		if *orderSpec == "" && *orderFile == "" {
			must(fmt.Errorf("--order or --order-file is required"))
		}

		waste, err := util.ParseWasteFraction(*wasteRaw)
		must(err)
		if waste >= 1 {
			fmt.Printf("warning: waste %s means 100%% or more; for 30%% use 0.30 or 30%%\n", *wasteRaw)
		}
		fmt.Printf("target factor applied to components: %.3f\n", 1+waste)

		var order []internal.OrderLine
		if *orderFile != "" {
			order, err = pipeline.ReadOrderFile(*orderFile)
		} else {
			order, err = pipeline.ParseOrderSpec(*orderSpec)
		}
		must(err)
		if !hasPositiveQty(order) {
			must(fmt.Errorf("enter quantities greater than 0 for at least one product"))
		}

		res, err := loader.Load(*bomPath)
		must(err)

		opts := pipeline.Options{
			WasteFraction:     waste,
			ShowCosts:         !*noCosts,
			ApplyWasteToCosts: !*noWasteOnCosts,
			ConvertActuals:    *actualsRaw,
		}

		if *actualsPath != "" {
			actuals, err := pipeline.ReadActualsFile(*actualsPath)
			var colErr *internal.MissingActualColumnsError
			if errors.As(err, &colErr) {
				// Bad actuals kill only the KPI section; the rest of
				// the run still produces output.
				fmt.Printf("warning: skipping KPI section: %v\n", err)
			} else {
				must(err)
				opts.Actuals = actuals
			}
		}

		result := pipeline.Compute(res.Bom, order, opts)

		for _, missing := range result.Explosion.MissingProducts {
			fmt.Printf("warning: product %s is not in the BOM; it contributes no components\n", missing)
		}

		if result.Costs != nil {
			fmt.Printf("costo total teorico: $%s\n", result.Costs.Summary.TotalTheoretical.StringFixed(2))
			if result.Costs.Summary.TotalTarget != nil {
				fmt.Printf("costo objetivo (con merma): $%s\n", result.Costs.Summary.TotalTarget.StringFixed(2))
			} else {
				fmt.Println("costo objetivo (con merma): —")
			}
		}

		if result.Kpi != nil {
			s := result.Kpi.Summary
			if s.GlobalShrinkage != nil {
				fmt.Printf("merma real global (vs teorico): %.2f%%\n", *s.GlobalShrinkage*100)
			} else {
				fmt.Println("merma real global (vs teorico): —")
			}
			fmt.Printf("gap global vs objetivo: %.3f\n", s.GlobalGapTarget)
		}

		written, err := pipeline.ExportCSV(result, *outDir, cfg.CSVDelimiter)
		must(err)
		for _, path := range written {
			fmt.Printf("wrote %s\n", path)
		}

		if strings.TrimSpace(*xlsxOut) != "" {
			must(pipeline.ExportXLSX(result, *xlsxOut))
			fmt.Printf("wrote %s\n", *xlsxOut)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func hasPositiveQty(order []internal.OrderLine) bool {
	for _, ol := range order {
		if ol.RequestedQty > 0 {
			return true
		}
	}
	return false
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Printf(`usage: %s <command> [flags]

commands:
  bom:inspect   load and normalize the BOM workbook, report cache status
  products      list the product catalog of the loaded BOM
  run           explode an order into component requirements, costs and KPI

examples:
  %s bom:inspect --bom data/bom_recetas.xlsx
  %s run --order "P001=3,P002=2" --waste 10%% --actuals real.csv --out out
`, prog, prog, prog)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
