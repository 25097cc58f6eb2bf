// cmd/reconcile/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"events-service/internal/core/events"
	"events-service/internal/core/workbook"

	"go.uber.org/zap"
)

func main() {
	var (
		reportIn  = flag.String("report", "", "relatório por blocos (.csv, .xls, .xlsx)")
		ledgerIn  = flag.String("ledger", "", "planilha consolidada (.csv, .xls, .xlsx)")
		ticketsIn = flag.String("tickets", "", "exportação de ingressos (.csv, .xls, .xlsx)")
		summary   = flag.Bool("summary", false, "imprime os indicadores em vez dos eventos")
		verbose   = flag.Bool("v", false, "log detalhado no stderr")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	src := events.Sources{
		Report:  mustRead(*reportIn, ','),
		Ledger:  mustRead(*ledgerIn, ','),
		Tickets: mustRead(*ticketsIn, ';'),
	}
	if src.Empty() {
		flag.Usage()
		os.Exit(2)
	}

	svc := events.NewService(logger)
	reconciled, err := svc.Reconcile(context.Background(), src)
	if err != nil {
		log.Fatalf("reconciliação falhou: %v", err)
	}

	var out interface{} = reconciled
	if *summary {
		out = svc.Analyze(reconciled)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("falha ao escrever saída: %v", err)
	}
}

func mustRead(path string, delim rune) string {
	if path == "" {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("falha ao abrir %s: %v", path, err)
	}
	defer f.Close()

	text, err := workbook.ReadText(f, path, delim)
	if err != nil {
		log.Fatalf("falha ao ler %s: %v", path, err)
	}
	return text
}
