// Command predict scores one transaction from the command line and prints
// the prediction as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	"github.com/bibbank/safepay/internal/infrastructure/memory"
	"github.com/bibbank/safepay/internal/infrastructure/messaging"
	"github.com/bibbank/safepay/internal/infrastructure/ml"
	"github.com/bibbank/safepay/pkg/observability"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2
	exitUnavailable = 3
)

type decimalFlag struct{ v *decimal.Decimal }

func (f decimalFlag) String() string {
	if f.v == nil {
		return "0"
	}
	return f.v.String()
}

func (f decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	*f.v = d
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)

	var in dto.TransactionInput
	fs.IntVar(&in.Day, "day", 1, "day of the month (1-31)")
	fs.IntVar(&in.Hour, "hour", 0, "hour of the day (0-23)")
	fs.StringVar(&in.Type, "type", "PAYMENT", "transaction type: PAYMENT, DEBIT, CASH-OUT, TRANSFER or CASH-IN")
	fs.Var(decimalFlag{&in.Amount}, "amount", "transaction amount")
	fs.Var(decimalFlag{&in.OldBalanceOrg}, "oldbalance-org", "sender balance before the transaction")
	fs.Var(decimalFlag{&in.NewBalanceOrig}, "newbalance-orig", "sender balance after the transaction")
	fs.Var(decimalFlag{&in.OldBalanceDest}, "oldbalance-dest", "recipient balance before the transaction")
	fs.Var(decimalFlag{&in.NewBalanceDest}, "newbalance-dest", "recipient balance after the transaction")
	classifierPath := fs.String("classifier", "models/xgboost_model.json", "classifier artifact")
	scalerPath := fs.String("scaler", "models/scaler.json", "scaler artifact")
	logLevel := fs.String("log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}

	logger := observability.InitLogger(observability.LogConfig{Output: os.Stderr, Level: *logLevel, Format: "text"})

	model := ml.Load(ml.Paths{Classifier: *classifierPath, Scaler: *scalerPath}, logger)
	engine := service.NewInferenceEngine(model.Classifier, model.Scaler, model.Source, logger)
	predict := usecase.NewPredictTransaction(
		memory.NewPredictionRepository(1),
		messaging.NewLogPublisher(logger),
		nil,
		engine,
		logger,
	)

	resp, err := predict.Execute(context.Background(), dto.PredictRequest{TransactionInput: in})
	if err != nil {
		fmt.Fprintln(os.Stderr, "predict:", err)
		switch {
		case errors.Is(err, valueobject.ErrInvalidInput):
			return exitInvalid
		case errors.Is(err, port.ErrModelUnavailable):
			return exitUnavailable
		default:
			return exitFailure
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintln(os.Stderr, "predict:", err)
		return exitFailure
	}
	return exitOK
}
