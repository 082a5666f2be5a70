package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// ErrContractNotFound is returned when a contract id has no row.
var ErrContractNotFound = errors.New("contract not found")

// SaveContract inserts or replaces a contract.
func (s *Store) SaveContract(c *model.Contract) error {
	rateJSON, err := json.Marshal(c.Rate)
	if err != nil {
		return fmt.Errorf("failed to encode rate: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO contracts
			(id, licensee_id, licensee_name, rate_json, annual_minimum, guarantee_period, reporting_frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LicenseeID, c.LicenseeName, string(rateJSON),
		c.AnnualMinimum, string(c.GuaranteePeriod), string(c.ReportingFrequency))
	return err
}

// GetContract loads one contract by id.
func (s *Store) GetContract(id string) (*model.Contract, error) {
	row := s.db.QueryRow(`
		SELECT id, licensee_id, licensee_name, rate_json, annual_minimum, guarantee_period, reporting_frequency
		FROM contracts WHERE id = ?`, id)
	return scanContract(row)
}

// ListContracts returns every contract ordered by licensee name.
func (s *Store) ListContracts() ([]*model.Contract, error) {
	rows, err := s.db.Query(`
		SELECT id, licensee_id, licensee_name, rate_json, annual_minimum, guarantee_period, reporting_frequency
		FROM contracts ORDER BY licensee_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*model.Contract, error) {
	var c model.Contract
	var rateJSON, guarantee, frequency string

	err := row.Scan(&c.ID, &c.LicenseeID, &c.LicenseeName, &rateJSON,
		&c.AnnualMinimum, &guarantee, &frequency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rateJSON), &c.Rate); err != nil {
		return nil, fmt.Errorf("failed to decode rate: %w", err)
	}
	c.GuaranteePeriod = model.GuaranteePeriod(guarantee)
	c.ReportingFrequency = model.ReportingFrequency(frequency)
	return &c, nil
}
