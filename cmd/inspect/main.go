// Command inspect loads the dataset once and prints region keys or the last
// rows of one region's indicators as a table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"CaseSignal/internal/collector"
	"CaseSignal/internal/config"
	"CaseSignal/internal/model"
	"CaseSignal/internal/pipeline"
	"CaseSignal/internal/region"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", "configs/config.yaml", "config file")
	list := flag.Bool("list", false, "list region keys")
	key := flag.String("region", "", "region key (defaults to server.default_region)")
	tail := flag.Int("tail", 10, "number of trailing rows to print; 0 prints all")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	col := collector.NewCollector(cfg.Fetcher(), nil)
	snap, err := col.Collect(context.Background())
	if err != nil {
		log.Fatalf("[FATAL] load dataset: %v", err)
	}
	engine := pipeline.NewEngine(region.NewExtractor(cfg.DataSource.PrimaryColumn, cfg.DataSource.SubColumn))

	if *list {
		keys, err := engine.Regions(snap)
		if err != nil {
			log.Fatalf("[FATAL] list regions: %v", err)
		}
		fmt.Println(strings.Join(keys, "\n"))
		return
	}

	name := *key
	if name == "" {
		name = cfg.Server.DefaultRegion
	}
	b, err := engine.Run(snap, name, cfg.Params())
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	printBundle(os.Stdout, b, *tail)
}

func printBundle(w io.Writer, b *model.IndicatorBundle, tail int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(b.Region)

	header := table.Row{"date", "accumulated", "daily", "macd", "signal", "histogram"}
	for _, n := range b.RSINames() {
		header = append(header, n)
	}
	t.AppendHeader(header)

	rows := b.Rows()
	if tail > 0 && tail < len(rows) {
		rows = rows[len(rows)-tail:]
	}
	for _, r := range rows {
		row := table.Row{
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%.0f", r.Accumulated),
			fmt.Sprintf("%.0f", r.Daily),
			format(r.MACDLine),
			format(r.MACDSignal),
			format(r.MACDHistogram),
		}
		for _, n := range b.RSINames() {
			row = append(row, format(r.RSI[n]))
		}
		t.AppendRow(row)
	}
	t.Render()

	for _, warn := range b.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func format(v model.Value) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.V)
}
