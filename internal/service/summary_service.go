package service

import (
	"context"

	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/shopspring/decimal"
)

// SummaryService aggregates the balance sheet for the dashboard cards.
type SummaryService interface {
	Summary(ctx context.Context, actor auth.Actor, r DateRange) (model.LedgerSummary, error)
}

type summaryService struct {
	entries repository.BalanceSheetRepository
}

func NewSummaryService(entries repository.BalanceSheetRepository) SummaryService {
	return &summaryService{entries: entries}
}

func (s *summaryService) Summary(ctx context.Context, actor auth.Actor, r DateRange) (model.LedgerSummary, error) {
	if err := auth.RequireMember(actor); err != nil {
		return model.LedgerSummary{}, err
	}

	rows, err := s.entries.Aggregate(ctx, actor.OrganizationID, r.Start, r.End)
	if err != nil {
		return model.LedgerSummary{}, storageErr(err, "failed to aggregate balance sheet")
	}

	summary := model.LedgerSummary{
		TotalInflow:      decimal.Zero,
		TotalOutflow:     decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		Departments:      []model.DepartmentTotal{},
		RangeStart:       r.Start,
		RangeEnd:         r.End,
	}

	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.DepartmentName]
		if !ok {
			i = len(summary.Departments)
			index[row.DepartmentName] = i
			summary.Departments = append(summary.Departments, model.DepartmentTotal{
				DepartmentName: row.DepartmentName,
				Inflow:         decimal.Zero,
				Outflow:        decimal.Zero,
			})
		}
		dept := &summary.Departments[i]

		switch row.Flow {
		case model.FlowInflow:
			summary.TotalInflow = summary.TotalInflow.Add(row.Total)
			dept.Inflow = dept.Inflow.Add(row.Total)
		case model.FlowOutflow:
			summary.TotalOutflow = summary.TotalOutflow.Add(row.Total)
			dept.Outflow = dept.Outflow.Add(row.Total)
		}

		switch row.Type {
		case model.EntryTypeAsset:
			summary.TotalAssets = summary.TotalAssets.Add(row.Total)
		case model.EntryTypeLiability:
			summary.TotalLiabilities = summary.TotalLiabilities.Add(row.Total)
		}
	}

	summary.NetCashFlow = summary.TotalInflow.Sub(summary.TotalOutflow)
	return summary, nil
}
