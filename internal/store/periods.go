package store

import (
	"encoding/json"
	"fmt"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

// InsertPeriod writes a confirmed sales period. A period with the same
// contract and label already on record is a duplicate, never overwritten.
func (s *Store) InsertPeriod(p *model.SalesPeriod) error {
	var exists int
	err := s.db.QueryRow(`
		SELECT COUNT(1) FROM sales_periods WHERE contract_id = ? AND period_label = ?`,
		p.ContractID, p.PeriodLabel).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s %s", model.ErrDuplicatePeriod, p.ContractID, p.PeriodLabel)
	}

	aggJSON, err := json.Marshal(p.Aggregated)
	if err != nil {
		return fmt.Errorf("failed to encode aggregated period: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sales_periods
			(id, contract_id, period_label, period_end, aggregated_json, royalty_amount, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ContractID, p.PeriodLabel, p.PeriodEnd, string(aggJSON),
		p.RoyaltyAmount, p.ConfirmedAt)
	return err
}

// ListPeriods returns a contract's confirmed periods ordered by period end.
func (s *Store) ListPeriods(contractID string) ([]*model.SalesPeriod, error) {
	rows, err := s.db.Query(`
		SELECT id, contract_id, period_label, period_end, aggregated_json, royalty_amount, confirmed_at
		FROM sales_periods WHERE contract_id = ? ORDER BY period_end`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SalesPeriod
	for rows.Next() {
		var p model.SalesPeriod
		var aggJSON string
		if err := rows.Scan(&p.ID, &p.ContractID, &p.PeriodLabel, &p.PeriodEnd,
			&aggJSON, &p.RoyaltyAmount, &p.ConfirmedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aggJSON), &p.Aggregated); err != nil {
			return nil, fmt.Errorf("failed to decode aggregated period: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ListPeriodsInYear returns a contract's confirmed periods whose end date
// falls inside the given calendar year, ordered by period end.
func (s *Store) ListPeriodsInYear(contractID string, year int) ([]*model.SalesPeriod, error) {
	periods, err := s.ListPeriods(contractID)
	if err != nil {
		return nil, err
	}
	out := periods[:0]
	for _, p := range periods {
		if p.PeriodEnd.Year() == year {
			out = append(out, p)
		}
	}
	return out, nil
}

// HasPeriod reports whether a confirmed period exists for the contract and
// label.
func (s *Store) HasPeriod(contractID, periodLabel string) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(1) FROM sales_periods WHERE contract_id = ? AND period_label = ?`,
		contractID, periodLabel).Scan(&n)
	return n > 0, err
}
