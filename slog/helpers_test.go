package slog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// idsFrom returns the "id" attribute of every JSON log record in b.
func idsFrom(t *testing.T, b []byte) []string {
	t.Helper()

	var ids []string
	for _, line := range bytes.Split(bytes.TrimSpace(b), []byte("\n")) {
		var rec struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(line, &rec))
		ids = append(ids, rec.ID)
	}
	return ids
}
