// Package salary is the monthly payout rollup. It consumes the commission
// ledger: each employee gets base salary plus their current commission
// balance, and the balance is swept back to zero with a compensating sub
// entry so the next run starts clean.
package salary

import (
	"context"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/apperr"
	"github.com/pichoendo/pos-backoffice-api/internal/commission"
	"github.com/pichoendo/pos-backoffice-api/internal/models"
	"github.com/pichoendo/pos-backoffice-api/internal/notify"

	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// Generate runs the payout batch for a period (YYYY-MM). A period can only
// be generated once; the unique index on salary_runs.period enforces it.
func (s *Service) Generate(ctx context.Context, period string, actorID uint) ([]models.SalaryRecord, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "period must be YYYY-MM, got %q", period)
	}

	var records []models.SalaryRecord
	var employees []models.Employee

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := models.SalaryRun{Period: period, CreatedBy: actorID}
		if err := tx.Create(&run).Error; err != nil {
			return apperr.Wrap(apperr.ErrInvalidState, "salary run for %s already generated", period)
		}

		if err := tx.Preload("Role").Find(&employees).Error; err != nil {
			return err
		}

		for _, emp := range employees {
			balance, err := commission.Balance(tx, emp.ID)
			if err != nil {
				return err
			}

			record := models.SalaryRecord{
				SalaryRunID: run.ID,
				EmployeeID:  emp.ID,
				BaseSalary:  emp.Role.BaseSalary,
				Commission:  balance,
				Total:       emp.Role.BaseSalary.Add(balance),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}

			if balance.IsPositive() {
				if err := commission.SubForSalary(tx, emp.ID, balance, run.ID); err != nil {
					return err
				}
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range records {
		for j := range employees {
			if employees[j].ID == records[i].EmployeeID {
				s.notifier.SalaryReport(&employees[j], &records[i])
				break
			}
		}
	}
	return records, nil
}

// List returns the records of past runs, newest first.
func (s *Service) List(ctx context.Context, period string) ([]models.SalaryRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.SalaryRecord{})
	if period != "" {
		q = q.Joins("JOIN salary_runs ON salary_runs.id = salary_records.salary_run_id").
			Where("salary_runs.period = ?", period)
	}
	var records []models.SalaryRecord
	err := q.Order("salary_records.id DESC").Find(&records).Error
	return records, err
}
