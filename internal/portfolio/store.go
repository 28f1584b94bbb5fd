package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"VNSentinel/internal/model"
)

// Store persists the portfolio to a JSON file with concurrency safety.
type Store struct {
	mu       sync.Mutex
	filePath string
	pf       *model.Portfolio
}

// NewStore loads the portfolio file, starting empty if it doesn't exist.
func NewStore(filePath string) (*Store, error) {
	pf, err := loadFile(filePath)
	if err != nil {
		return nil, err
	}
	return &Store{filePath: filePath, pf: pf}, nil
}

func loadFile(filePath string) (*model.Portfolio, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Portfolio{}, nil
		}
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	var pf model.Portfolio
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	return &pf, nil
}

// Get returns a copy of the current portfolio.
func (s *Store) Get() model.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.pf
	cp.Positions = append([]model.Position(nil), s.pf.Positions...)
	return cp
}

// Add inserts or tops up a position. avgCost is in the thousands quote
// unit, matching the data feed.
func (s *Store) Add(symbol string, quantity float64, avgCost model.PriceThousands, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.pf.Positions {
		if p.Symbol != symbol {
			continue
		}
		total := p.Quantity + quantity
		if total > 0 {
			s.pf.Positions[i].AvgCost = model.PriceThousands(
				(float64(p.AvgCost)*p.Quantity + float64(avgCost)*quantity) / total)
		}
		s.pf.Positions[i].Quantity = total
		return s.save()
	}

	s.pf.Positions = append(s.pf.Positions, model.Position{
		Symbol:   symbol,
		Quantity: quantity,
		AvgCost:  avgCost,
		Note:     note,
		AddedAt:  time.Now(),
	})
	return s.save()
}

// Remove deletes a position outright.
func (s *Store) Remove(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pf.Positions[:0]
	for _, p := range s.pf.Positions {
		if p.Symbol != symbol {
			kept = append(kept, p)
		}
	}
	s.pf.Positions = kept
	return s.save()
}

// save writes atomically via a temp file so a crash mid-write never
// leaves a truncated portfolio behind.
func (s *Store) save() error {
	s.pf.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.pf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create portfolio dir: %w", err)
		}
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write portfolio: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replace portfolio: %w", err)
	}
	return nil
}
