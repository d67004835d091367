package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ShillerHeader is the header row of Shiller's ie_data export, trimmed to the columns
// the generator reads plus one it ignores.
const ShillerHeader = "Date,S&P Comp. P,Dividend D,Earnings E,Long Interest Rate GS10"

// ShillerCSV is a small excerpt in the export's layout. It covers a pre-1928 December,
// a mid-year month, a missing price, a blank trailing row and an undated footer.
var ShillerCSV = strings.Join([]string{
	ShillerHeader,
	"1927.11,17.32,0.83,1.15,3.31",
	"1927.12,17.66,0.84,1.13,3.2",
	"1928.06,19.9,0.86,1.17,3.38",
	"1928.12,24.35,0.88,1.24,3.38",
	"1929.01,25.66,0.89,1.25,3.4",
	"1929.12,21.45,0.97,1.39,3.33",
	"1953.12,24.81,0.85,2.51,3.07",
	"1954.12,n/a,0.92,2.77,2.61",
	",,,,",
	",NA,,,",
}, "\n") + "\n"

// WriteFile writes content to name under a fresh temp directory and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
