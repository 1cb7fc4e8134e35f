package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"paisawise/internal/apperr"
	"paisawise/internal/auth"
	"paisawise/internal/model"
	"paisawise/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// StatementSections are the five hand-entered parts of a quarterly balance
// sheet, each mapping a line item to its amount as entered.
type StatementSections struct {
	CurrentAssets         map[string]string `json:"current_assets"`
	NonCurrentAssets      map[string]string `json:"non_current_assets"`
	CurrentLiabilities    map[string]string `json:"current_liabilities"`
	NonCurrentLiabilities map[string]string `json:"non_current_liabilities"`
	ShareholdersEquity    map[string]string `json:"shareholders_equity"`
}

type StatementResponse struct {
	Year    string `json:"year"`
	Quarter string `json:"quarter"`
	Exists  bool   `json:"exists"`
	StatementSections
	UpdatedAt *string `json:"updated_at"`
}

type StatementService interface {
	Exists(ctx context.Context, actor auth.Actor, year, quarter string) (bool, error)
	Get(ctx context.Context, actor auth.Actor, year, quarter string) (StatementResponse, error)
	Save(ctx context.Context, actor auth.Actor, year, quarter string, sections StatementSections) (StatementResponse, error)
}

type statementService struct {
	tx         repository.TransactionManager
	statements repository.StatementRepository
	audit      repository.AuditRepository
	notifier   Notifier
	log        logrus.FieldLogger
}

func NewStatementService(tx repository.TransactionManager, statements repository.StatementRepository, audit repository.AuditRepository, notifier Notifier, log logrus.FieldLogger) StatementService {
	return &statementService{tx: tx, statements: statements, audit: audit, notifier: notifier, log: log}
}

// normalizePeriod validates a "YYYY" year and a Q1..Q4 quarter.
func normalizePeriod(year, quarter string) (string, string, error) {
	year = strings.TrimSpace(year)
	if !yearPattern.MatchString(year) {
		return "", "", apperr.Validation("year must be four digits, got %q", year)
	}
	quarter = strings.ToUpper(strings.TrimSpace(quarter))
	switch quarter {
	case "Q1", "Q2", "Q3", "Q4":
	default:
		return "", "", apperr.Validation("quarter must be Q1, Q2, Q3 or Q4, got %q", quarter)
	}
	return year, quarter, nil
}

func (s *statementService) Exists(ctx context.Context, actor auth.Actor, year, quarter string) (bool, error) {
	if err := auth.RequireMember(actor); err != nil {
		return false, err
	}
	year, quarter, err := normalizePeriod(year, quarter)
	if err != nil {
		return false, err
	}
	ok, err := s.statements.Exists(ctx, actor.OrganizationID, year, quarter)
	if err != nil {
		return false, storageErr(err, "failed to check quarterly statement")
	}
	return ok, nil
}

// Get returns the statement of a quarter, or empty sections when none was saved.
func (s *statementService) Get(ctx context.Context, actor auth.Actor, year, quarter string) (StatementResponse, error) {
	if err := auth.RequireMember(actor); err != nil {
		return StatementResponse{}, err
	}
	year, quarter, err := normalizePeriod(year, quarter)
	if err != nil {
		return StatementResponse{}, err
	}

	stmt, err := s.statements.Find(ctx, actor.OrganizationID, year, quarter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatementResponse{Year: year, Quarter: quarter, StatementSections: emptySections()}, nil
	}
	if err != nil {
		return StatementResponse{}, storageErr(err, "failed to load quarterly statement")
	}
	return toStatementResponse(*stmt), nil
}

func (s *statementService) Save(ctx context.Context, actor auth.Actor, year, quarter string, sections StatementSections) (StatementResponse, error) {
	if err := auth.RequireOwner(actor); err != nil {
		return StatementResponse{}, err
	}
	year, quarter, err := normalizePeriod(year, quarter)
	if err != nil {
		return StatementResponse{}, err
	}

	parts := map[string]map[string]string{
		"current_assets":          sections.CurrentAssets,
		"non_current_assets":      sections.NonCurrentAssets,
		"current_liabilities":     sections.CurrentLiabilities,
		"non_current_liabilities": sections.NonCurrentLiabilities,
		"shareholders_equity":     sections.ShareholdersEquity,
	}
	for section, items := range parts {
		for item, amount := range items {
			if strings.TrimSpace(amount) == "" {
				continue
			}
			if _, err := decimal.NewFromString(strings.TrimSpace(amount)); err != nil {
				return StatementResponse{}, apperr.Validation("%s.%s: %q is not a valid amount", section, item, amount)
			}
		}
	}

	stmt := model.QuarterlyStatement{
		OrganizationID:        actor.OrganizationID,
		Year:                  year,
		Quarter:               quarter,
		CurrentAssets:         toJSONMap(sections.CurrentAssets),
		NonCurrentAssets:      toJSONMap(sections.NonCurrentAssets),
		CurrentLiabilities:    toJSONMap(sections.CurrentLiabilities),
		NonCurrentLiabilities: toJSONMap(sections.NonCurrentLiabilities),
		ShareholdersEquity:    toJSONMap(sections.ShareholdersEquity),
	}

	var saved *model.QuarterlyStatement
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.statements.Upsert(txCtx, &stmt); err != nil {
			return storageErr(err, "failed to save quarterly statement")
		}
		var err error
		saved, err = s.statements.Find(txCtx, actor.OrganizationID, year, quarter)
		if err != nil {
			return storageErr(err, "failed to reload quarterly statement")
		}
		return writeAudit(txCtx, s.audit, auditEntry(&actor, actor.OrganizationID, model.ActionSaveStatement, saved.ID.String(), year+" "+quarter, nil))
	})
	if err != nil {
		return StatementResponse{}, storageErr(err, "failed to save quarterly statement")
	}

	s.log.WithFields(logrus.Fields{"org_id": actor.OrganizationID, "year": year, "quarter": quarter}).Info("quarterly statement saved")
	s.notifier.Revalidate(actor.OrganizationID, PathBalanceSheet)
	return toStatementResponse(*saved), nil
}

func emptySections() StatementSections {
	return StatementSections{
		CurrentAssets:         map[string]string{},
		NonCurrentAssets:      map[string]string{},
		CurrentLiabilities:    map[string]string{},
		NonCurrentLiabilities: map[string]string{},
		ShareholdersEquity:    map[string]string{},
	}
}

func toJSONMap(items map[string]string) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	for k, v := range items {
		m[k] = strings.TrimSpace(v)
	}
	return m
}

func fromJSONMap(m datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			out[k] = decimalString(val)
		}
	}
	return out
}

func decimalString(v interface{}) string {
	if f, ok := v.(float64); ok {
		return decimal.NewFromFloat(f).String()
	}
	return ""
}

func toStatementResponse(s model.QuarterlyStatement) StatementResponse {
	return StatementResponse{
		Year:    s.Year,
		Quarter: s.Quarter,
		Exists:  true,
		StatementSections: StatementSections{
			CurrentAssets:         fromJSONMap(s.CurrentAssets),
			NonCurrentAssets:      fromJSONMap(s.NonCurrentAssets),
			CurrentLiabilities:    fromJSONMap(s.CurrentLiabilities),
			NonCurrentLiabilities: fromJSONMap(s.NonCurrentLiabilities),
			ShareholdersEquity:    fromJSONMap(s.ShareholdersEquity),
		},
		UpdatedAt: formatTime(&s.UpdatedAt),
	}
}
