package main

import (
	"fmt"
	"io"
	"os"

	"github.com/toyz/attrs/internal/annotations"
	"github.com/toyz/attrs/internal/catalog"
	"github.com/toyz/attrs/internal/config"
	"github.com/toyz/attrs/internal/report"
	"github.com/toyz/attrs/internal/utils"
)

func main() {
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticWarn)

	if err := run(os.Stdout, diagnostics); err != nil {
		diagnostics.Error("%v", err)
		os.Exit(1)
	}
}

// run loads the annotated catalog and prints its author report to out
func run(out io.Writer, diagnostics *utils.DiagnosticSystem) error {
	registry := annotations.NewRegistry()
	if err := catalog.Load(registry, diagnostics); err != nil {
		return fmt.Errorf("failed to load annotated declarations: %w", err)
	}

	return report.NewReporter(out, diagnostics).Report(registry, config.Default())
}
