package ops

import (
	"path/filepath"
	"strings"
)

// bagBase strips the directory and extension from a bag path.
func bagBase(bagPath string) string {
	base := filepath.Base(bagPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputDir picks the directory for an output file: the explicit request
// directory when given, else the source bag's directory.
func outputDir(bagPath, outDir string) string {
	if outDir != "" {
		return outDir
	}
	return filepath.Dir(bagPath)
}

// CSVName builds the export output path:
// <base>.<channel with '/'->'.', leading dots stripped>.csv
func CSVName(bagPath, channel, outDir string) string {
	sanitized := strings.TrimLeft(strings.ReplaceAll(channel, "/", "."), ".")
	return filepath.Join(outputDir(bagPath, outDir), bagBase(bagPath)+"."+sanitized+".csv")
}

// FilteredName builds the pick/remove output path: <base><postfix>.bag
func FilteredName(bagPath, outDir, postfix string) string {
	return filepath.Join(outputDir(bagPath, outDir), bagBase(bagPath)+postfix+".bag")
}
