package common

import (
	"encoding/json"
	"io"
	"os"
)

type CIResult struct {
	OK         bool     `json:"ok"`
	Title      string   `json:"title"`
	DurationMS int64    `json:"duration_ms"`
	Details    []string `json:"details,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func NewCIResult(title string, details []string, durationMS int64, err error) CIResult {
	result := CIResult{OK: err == nil, Title: title, DurationMS: durationMS, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func PrintCIResult(result CIResult) {
	_ = WriteCIResult(os.Stdout, result)
}

func WriteCIResult(w io.Writer, result CIResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
