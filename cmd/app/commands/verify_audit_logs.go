package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/opsdeck/filegate/internal/app"
	"github.com/opsdeck/filegate/internal/config"
	downloadUseCase "github.com/opsdeck/filegate/internal/download/usecase"
)

// VerifyAuditLogsCommand wires the container and runs RunVerifyAuditLogs
// against stdout.
func VerifyAuditLogsCommand(ctx context.Context, batchSize int, format string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	auditLogUseCase, err := container.AuditLogUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit log use case: %w", err)
	}

	return RunVerifyAuditLogs(ctx, auditLogUseCase, logger, os.Stdout, batchSize, format)
}

// defaultVerifyBatchSize bounds how many audit entries are loaded per page.
const defaultVerifyBatchSize = 500

// verifySummary aggregates verification results across all pages.
type verifySummary struct {
	TotalChecked int      `json:"total_checked"`
	InvalidCount int      `json:"invalid_count"`
	InvalidIDs   []string `json:"invalid_ids,omitempty"`
}

// RunVerifyAuditLogs walks the whole audit trail in pages and verifies the
// HMAC signature on every entry, reporting any that have been altered since
// they were written.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditLogUseCase downloadUseCase.AuditLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if batchSize <= 0 {
		batchSize = defaultVerifyBatchSize
	}

	logger.Info("verifying audit logs", slog.Int("batch_size", batchSize))

	summary := verifySummary{}
	for offset := 0; ; offset += batchSize {
		report, err := auditLogUseCase.VerifyBatch(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to verify audit logs: %w", err)
		}

		summary.TotalChecked += report.Checked
		summary.InvalidCount += len(report.Invalid)
		summary.InvalidIDs = append(summary.InvalidIDs, report.Invalid...)

		if report.Checked < batchSize {
			break
		}
	}

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summary); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputVerifyText(writer, summary)
	}

	logger.Info("verification completed",
		slog.Int("total_checked", summary.TotalChecked),
		slog.Int("invalid", summary.InvalidCount),
	)

	if summary.InvalidCount > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", summary.InvalidCount)
	}

	return nil
}

// outputVerifyText outputs the verification result in human-readable text format.
func outputVerifyText(writer io.Writer, summary verifySummary) {
	_, _ = fmt.Fprintf(writer, "Audit Log Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "=================================\n\n")
	_, _ = fmt.Fprintf(writer, "Total Checked: %d\n", summary.TotalChecked)
	_, _ = fmt.Fprintf(writer, "Valid:         %d\n", summary.TotalChecked-summary.InvalidCount)
	_, _ = fmt.Fprintf(writer, "Invalid:       %d\n\n", summary.InvalidCount)

	if summary.InvalidCount > 0 {
		_, _ = fmt.Fprintf(writer, "WARNING: %d entry(ies) failed integrity check!\n\n", summary.InvalidCount)
		_, _ = fmt.Fprintf(writer, "Invalid Entry IDs:\n")
		for _, id := range summary.InvalidIDs {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		return
	}

	_, _ = fmt.Fprintf(writer, "All audit entries verified successfully.\n")
}
