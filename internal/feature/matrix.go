// Package feature builds the canonical numeric feature representation shared
// by every analytics model: the per-request join of deadlines with case
// aggregates, the fixed feature-column contract, and the single zero-fill
// point for missing values.
package feature

// Canonical deadline feature columns, in contract order. Every model consumer
// agrees on these names; no vector handed to a model may contain a null or
// NaN entry.
const (
	ColDaysToDue        = "days_to_due"
	ColDescriptionLen   = "description_length"
	ColCaseOpenFlag     = "case_open_flag"
	ColDocCount         = "doc_count"
	ColDocsTotalSizeMB  = "docs_total_size_mb"
	ColDaysSinceLastDoc = "days_since_last_doc"
	ColRecentFlag       = "recent_flag"
	ColPDFRatio         = "pdf_ratio"
)

// Canonical document feature columns.
const (
	ColDaysSinceCreated = "days_since_created"
	ColNameLength       = "name_length"
	ColIsPDF            = "is_pdf"
	ColSizeMB           = "size_mb"
)

// DeadlineFeatureNames is the fixed column order for deadline vectors.
func DeadlineFeatureNames() []string {
	return []string{
		ColDaysToDue, ColDescriptionLen, ColCaseOpenFlag,
		ColDocCount, ColDocsTotalSizeMB, ColDaysSinceLastDoc,
		ColRecentFlag, ColPDFRatio,
	}
}

// DocumentFeatureNames is the fixed column order for document vectors.
// SizeMB is excluded here: it is the regression target and would leak into
// the reconstruction models.
func DocumentFeatureNames() []string {
	return []string{ColDaysSinceCreated, ColNameLength, ColIsPDF}
}

// DocumentClusterFeatureNames extends the document contract with size_mb
// for clustering and anomaly scoring, where size is a legitimate input.
func DocumentClusterFeatureNames() []string {
	return append(DocumentFeatureNames(), ColSizeMB)
}

// Matrix is a dense feature table: named columns over row-major float64 data.
type Matrix struct {
	Names []string
	Rows  [][]float64
}

// NumRows returns the row count.
func (m Matrix) NumRows() int { return len(m.Rows) }

// NumCols returns the column count.
func (m Matrix) NumCols() int { return len(m.Names) }

// Column returns the index of the named column, or -1 when absent.
func (m Matrix) Column(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// RowMap returns row i as a name → value map, for result payloads.
func (m Matrix) RowMap(i int) map[string]float64 {
	out := make(map[string]float64, len(m.Names))
	for j, n := range m.Names {
		out[n] = m.Rows[i][j]
	}
	return out
}

// DropColumn returns a copy of m without the named column, plus the removed
// values in row order. The second return is nil when the column is absent.
func (m Matrix) DropColumn(name string) (Matrix, []float64) {
	j := m.Column(name)
	if j < 0 {
		return m, nil
	}
	names := make([]string, 0, len(m.Names)-1)
	names = append(names, m.Names[:j]...)
	names = append(names, m.Names[j+1:]...)
	rows := make([][]float64, len(m.Rows))
	removed := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		removed[i] = r[j]
		row := make([]float64, 0, len(r)-1)
		row = append(row, r[:j]...)
		row = append(row, r[j+1:]...)
		rows[i] = row
	}
	return Matrix{Names: names, Rows: rows}, removed
}

// DropZeroVariance returns a copy of m keeping only columns whose population
// standard deviation exceeds eps. Constant columns destabilize the
// standardize/reconstruct models, so they are filtered before modeling.
func (m Matrix) DropZeroVariance(eps float64) Matrix {
	if len(m.Rows) == 0 {
		return Matrix{Names: nil, Rows: nil}
	}
	n := float64(len(m.Rows))
	keep := make([]int, 0, len(m.Names))
	for j := range m.Names {
		var sum, sumSq float64
		for _, r := range m.Rows {
			sum += r[j]
			sumSq += r[j] * r[j]
		}
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		if variance > eps*eps {
			keep = append(keep, j)
		}
	}
	names := make([]string, len(keep))
	for i, j := range keep {
		names[i] = m.Names[j]
	}
	rows := make([][]float64, len(m.Rows))
	for i, r := range m.Rows {
		row := make([]float64, len(keep))
		for k, j := range keep {
			row[k] = r[j]
		}
		rows[i] = row
	}
	return Matrix{Names: names, Rows: rows}
}
