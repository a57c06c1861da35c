package run

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type instrumentEntry struct {
	Code   uint32 `json:"code"`
	Reason string `json:"reason"`
}

type successEntry struct {
	Date        int               `json:"date"`
	Instruments int               `json:"instruments"`
	Bars        int               `json:"bars"`
	Empty       bool              `json:"empty,omitempty"`
	Dropped     int               `json:"dropped_ticks,omitempty"`
	Failed      []instrumentEntry `json:"failed_instruments,omitempty"`
}

type failedEntry struct {
	Date   int    `json:"date"`
	Reason string `json:"reason"`
}

type report[T any] struct {
	RunID    string `json:"run_id"`
	SecuType string `json:"secu_type"`
	Days     []T    `json:"days"`
}

const (
	successReportName = ".lastrun.success.json"
	failedReportName  = ".lastrun.failed.json"
)

func writeRunReport(dir, runID, secu string, successList []successEntry, failedList []failedEntry) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	sort.Slice(successList, func(i, j int) bool { return successList[i].Date < successList[j].Date })
	sort.Slice(failedList, func(i, j int) bool { return failedList[i].Date < failedList[j].Date })

	if len(successList) > 0 {
		p := filepath.Join(dir, successReportName)
		if err := writeJSON(p, report[successEntry]{RunID: runID, SecuType: secu, Days: successList}); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "days", len(successList))
	}
	if len(failedList) > 0 {
		p := filepath.Join(dir, failedReportName)
		if err := writeJSON(p, report[failedEntry]{RunID: runID, SecuType: secu, Days: failedList}); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failedList))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func joinFailedReasons(failedList []failedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%d: %s", f.Date, f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
