package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agis/tzcal/internal/contract"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var filePath string
	var continueOnError bool
	var strict bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute calendar operations from JSONL",
		Long: "Each line is a JSON object with an op field: create_calendar, edit_calendar,\n" +
			"use_calendar, create_event, edit_event, edit_events, print_events, busy,\n" +
			"free_busy, copy_event, copy_events or export. All lines share one set of calendars.",
		RunE: func(c *cobra.Command, _ []string) error {
			p, ro, logger, err := buildContext(c, opts, "run")
			if err != nil {
				return err
			}
			if strings.TrimSpace(filePath) == "" {
				return failWithHint(p, contract.ErrInvalidUsage, fmt.Errorf("--file is required"), "Pass --file <path> or --file -", 2)
			}
			if strict {
				continueOnError = false
			}
			raw, err := readTextInput(filePath, c.InOrStdin())
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Check file path or stdin", 2)
			}

			sess := newSession(ro.TZ, logger)
			txID := "tx-" + uuid.NewString()
			lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
			results := make([]map[string]any, 0)
			errorsCount := 0
			var firstErr error
			for i, line := range lines {
				s := strings.TrimSpace(line)
				if s == "" || strings.HasPrefix(s, "#") {
					continue
				}
				row, perr := decodeScriptLine(s)
				if perr != nil {
					errorsCount++
					if firstErr == nil {
						firstErr = usageErrorf("line %d: invalid json", i+1)
					}
					logger.Warn("script line rejected", "line", i+1, "error", perr)
					results = append(results, map[string]any{"tx_id": txID, "op_id": opID(i+1, "parse"), "line": i + 1, "ok": false, "error": "invalid json"})
					if !continueOnError {
						break
					}
					continue
				}
				id := opID(i+1, row.Op)
				logger.Debug("script op", "line", i+1, "op", row.Op)
				res, execErr := sess.execute(row)
				if execErr != nil {
					errorsCount++
					if firstErr == nil {
						firstErr = execErr
					}
					_, code := classify(execErr)
					logger.Warn("script op failed", "line", i+1, "op", row.Op, "code", code, "error", execErr)
					results = append(results, map[string]any{"tx_id": txID, "op_id": id, "line": i + 1, "op": row.Op, "ok": false, "code": code, "error": execErr.Error()})
					if !continueOnError {
						break
					}
					continue
				}
				res["tx_id"] = txID
				res["op_id"] = id
				res["line"] = i + 1
				res["op"] = normalizeOp(row.Op)
				res["ok"] = true
				results = append(results, res)
			}
			meta := map[string]any{"count": len(results), "errors": errorsCount, "tx_id": txID, "calendars": sess.reg.Names()}
			if errorsCount > 0 {
				_ = p.Success(results, meta, nil)
				exit, _ := classify(firstErr)
				return WrapPrinted(exit, fmt.Errorf("run completed with %d error(s): %w", errorsCount, firstErr))
			}
			return p.Success(results, meta, nil)
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "JSONL file path or - for stdin")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "Continue processing after line errors")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail fast on first line error")
	return cmd
}

func decodeScriptLine(s string) (scriptLine, error) {
	var row scriptLine
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&row); err != nil {
		return scriptLine{}, err
	}
	return row, nil
}

func opID(line int, op string) string {
	return fmt.Sprintf("op-%04d-%s", line, normalizeOp(op))
}
