package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The CSV grid is laid out like a spreadsheet: row 1 is a title row,
// row 2 the header with the reserved Project_Name first column, data rows
// follow. Columns and rows are created append-only; existing cells are only
// ever overwritten by an upsert of the same (project, variable).
const (
	titleRowIndex  = 0
	headerRowIndex = 1
	projectColumn  = "Project_Name"
)

func (s *Store) recordFile(project, variable string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readGrid()
	if err != nil {
		return err
	}

	// Ensure title + header rows exist.
	for len(rows) <= headerRowIndex {
		rows = append(rows, nil)
	}
	if len(rows[titleRowIndex]) == 0 {
		rows[titleRowIndex] = []string{"Project Evaluation Scores"}
	}
	header := rows[headerRowIndex]
	if len(header) == 0 || header[0] != projectColumn {
		header = append([]string{projectColumn}, header...)
	}

	varCol := -1
	for i, h := range header {
		if h == variable {
			varCol = i
			break
		}
	}
	if varCol < 0 {
		header = append(header, variable)
		varCol = len(header) - 1
	}
	rows[headerRowIndex] = header

	projRow := -1
	for i := headerRowIndex + 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rows[i][0]), project) {
			projRow = i
			break
		}
	}
	if projRow < 0 {
		rows = append(rows, []string{project})
		projRow = len(rows) - 1
	}

	for len(rows[projRow]) <= varCol {
		rows[projRow] = append(rows[projRow], "")
	}
	rows[projRow][varCol] = strconv.Itoa(score)

	return s.writeGrid(rows)
}

func (s *Store) readGrid() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger: open grid %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ledger: parse grid %s: %w", s.path, err)
	}
	return rows, nil
}

func (s *Store) writeGrid(rows [][]string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ledger: create grid dir: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("ledger: write grid %s: %w", s.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: write grid %s: %w", s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: flush grid %s: %w", s.path, err)
	}
	return f.Close()
}
