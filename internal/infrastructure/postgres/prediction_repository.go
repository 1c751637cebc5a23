package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/domain/model"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	pgpkg "github.com/bibbank/safepay/pkg/postgres"
)

// Migrations holds the schema for the prediction history.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pgpkg.Querier
	pgpkg.TxBeginner
}

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	db DB
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(db DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const selectPrediction = `
	SELECT p.id, p.step, p.transaction_type,
		p.amount, p.old_balance_org, p.new_balance_orig, p.old_balance_dest, p.new_balance_dest,
		p.label, p.safe_probability, p.fraud_probability, p.model_source, p.predicted_at,
		COALESCE(array_agg(f.code ORDER BY f.position) FILTER (WHERE f.code IS NOT NULL), '{}') AS risk_factors
	FROM predictions p
	LEFT JOIN prediction_risk_factors f ON f.prediction_id = p.id
`

// Save persists a prediction and its risk factors in one transaction.
func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	rec := p.Record()

	return pgpkg.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO predictions (
				id, step, transaction_type,
				amount, old_balance_org, new_balance_orig, old_balance_dest, new_balance_dest,
				label, safe_probability, fraud_probability, risk_level, model_source, predicted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			p.ID(), rec.Step().Int(), rec.Type().String(),
			rec.Amount(), rec.OldBalanceOrg(), rec.NewBalanceOrig(), rec.OldBalanceDest(), rec.NewBalanceDest(),
			p.Label().String(), p.SafeProbability(), p.FraudProbability(), p.RiskLevel().String(),
			p.ModelSource().String(), p.PredictedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save prediction: %w", err)
		}

		for i, code := range p.RiskFactorCodes() {
			_, err = tx.Exec(ctx,
				`INSERT INTO prediction_risk_factors (prediction_id, position, code) VALUES ($1, $2, $3)`,
				p.ID(), i, code,
			)
			if err != nil {
				return fmt.Errorf("failed to save risk factor: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	row := r.db.QueryRow(ctx, selectPrediction+` WHERE p.id = $1 GROUP BY p.id`, id)

	p, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", port.ErrPredictionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListRecent returns up to limit predictions, newest first.
func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]*model.Prediction, error) {
	rows, err := r.db.Query(ctx,
		selectPrediction+` GROUP BY p.id ORDER BY p.predicted_at DESC, p.id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*model.Prediction, 0, limit)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return predictions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*model.Prediction, error) {
	var (
		id                  uuid.UUID
		step                int
		typeStr             string
		amount              decimal.Decimal
		oldOrg, newOrig     decimal.Decimal
		oldDest, newDest    decimal.Decimal
		labelStr, sourceStr string
		safeProb, fraudProb float64
		predictedAt         time.Time
		factorCodes         []string
	)

	err := row.Scan(
		&id, &step, &typeStr,
		&amount, &oldOrg, &newOrig, &oldDest, &newDest,
		&labelStr, &safeProb, &fraudProb, &sourceStr, &predictedAt,
		&factorCodes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	s, err := valueobject.NewStep(step)
	if err != nil {
		return nil, fmt.Errorf("failed to parse step: %w", err)
	}
	typ, err := valueobject.ParseTransactionType(typeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction type: %w", err)
	}
	record, err := model.NewTransactionRecord(s, typ, amount, model.Balances{
		OldOrg: oldOrg, NewOrig: newOrig, OldDest: oldDest, NewDest: newDest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild record: %w", err)
	}
	label, err := valueobject.LabelFromString(labelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label: %w", err)
	}
	source, err := valueobject.ModelSourceFromString(sourceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model source: %w", err)
	}

	factors := make([]valueobject.RiskFactor, 0, len(factorCodes))
	for _, code := range factorCodes {
		f, err := valueobject.RiskFactorFromCode(code)
		if err != nil {
			return nil, fmt.Errorf("failed to parse risk factor: %w", err)
		}
		factors = append(factors, f)
	}

	return model.ReconstructPrediction(id, record, label, safeProb, fraudProb, factors, source, predictedAt.UTC()), nil
}
