package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML document read by the offline dry-run. Rules are listed
// in priority order; the first entry has the highest priority.
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Name            string                 `yaml:"name"`
	TransactionType domain.TransactionType `yaml:"transactionType"`
	CategoryID      *int64                 `yaml:"categoryID"`
	Conditions      []domain.RuleCondition `yaml:"conditions"`
	IsActive        *bool                  `yaml:"isActive"` // Defaults to true
}

// LoadRules decodes and validates a rule file. Priorities follow file order.
func LoadRules(r io.Reader) ([]domain.AllocationRule, error) {
	var file ruleFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.AllocationRule{}, nil
		}
		return nil, fmt.Errorf("failed to decode rule file: %w", err)
	}

	rules := make([]domain.AllocationRule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		rule := domain.AllocationRule{
			ID:              int64(i + 1),
			Name:            entry.Name,
			TransactionType: entry.TransactionType,
			CategoryID:      entry.CategoryID,
			Conditions:      entry.Conditions,
			IsActive:        entry.IsActive == nil || *entry.IsActive,
			Priority:        i + 1,
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, entry.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRulesFile reads the rule file at path.
func LoadRulesFile(path string) ([]domain.AllocationRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()
	return LoadRules(f)
}

// Recognised transaction export columns. Headers are matched case-insensitively.
const (
	colID          = "id"
	colType        = "type"
	colSender      = "sender"
	colReceiver    = "receiver"
	colDescription = "description"
	colAmount      = "amount"
)

// LoadTransactionsFile reads a bank export in CSV or XLSX format, chosen by file extension.
func LoadTransactionsFile(path string) ([]domain.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open transactions file: %w", err)
		}
		defer f.Close()
		return ReadTransactionsCSV(f)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open transactions file: %w", err)
		}
		defer f.Close()
		return ReadTransactionsXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported transactions file %q, expected .csv or .xlsx: %w", path, apperrors.ErrValidation)
	}
}

// ReadTransactionsCSV parses a CSV export whose first record is the header.
func ReadTransactionsCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseTransactionRecords(records)
}

// ReadTransactionsXLSX parses the first sheet of an XLSX export whose first row is the header.
func ReadTransactionsXLSX(r io.Reader) ([]domain.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets: %w", apperrors.ErrValidation)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return parseTransactionRecords(records)
}

func parseTransactionRecords(records [][]string) ([]domain.Transaction, error) {
	if len(records) == 0 {
		return []domain.Transaction{}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, header := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{colType, colAmount} {
		if _, ok := columns[required]; !ok {
			if guess := closestHeader(required, records[0]); guess != "" {
				return nil, fmt.Errorf("missing %q column (did you mean %q?): %w", required, guess, apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("missing %q column: %w", required, apperrors.ErrValidation)
		}
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	txns := make([]domain.Transaction, 0, len(records)-1)
	for n, record := range records[1:] {
		line := n + 2
		if isBlank(record) {
			continue
		}

		txn := domain.Transaction{
			ID:          int64(line - 1),
			Type:        domain.TransactionType(strings.ToUpper(cell(record, colType))),
			Sender:      cell(record, colSender),
			Receiver:    cell(record, colReceiver),
			Description: cell(record, colDescription),
		}
		if raw := cell(record, colID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid id %q: %w", line, raw, apperrors.ErrValidation)
			}
			txn.ID = id
		}
		if !txn.Type.IsValid() {
			return nil, fmt.Errorf("line %d: unknown transaction type %q: %w", line, txn.Type, apperrors.ErrValidation)
		}
		amount, err := decimal.NewFromString(cell(record, colAmount))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, cell(record, colAmount), apperrors.ErrValidation)
		}
		txn.Amount = amount
		txns = append(txns, txn)
	}
	return txns, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// closestHeader returns the header within two edits of want, if any.
func closestHeader(want string, headers []string) string {
	best, bestDistance := "", 3
	for _, h := range headers {
		d := levenshtein.ComputeDistance(want, strings.ToLower(strings.TrimSpace(h)))
		if d < bestDistance {
			best, bestDistance = h, d
		}
	}
	return best
}
