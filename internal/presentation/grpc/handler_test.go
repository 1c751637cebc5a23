package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/service"
	"github.com/bibbank/safepay/internal/domain/valueobject"
	"github.com/bibbank/safepay/internal/infrastructure/memory"
	"github.com/bibbank/safepay/internal/infrastructure/messaging"
	"github.com/bibbank/safepay/internal/infrastructure/ml"
	"github.com/bibbank/safepay/pkg/auth"
	"github.com/bibbank/safepay/pkg/observability"
)

// --- Helpers ---

func buildHandler(classifier port.Classifier, authRequired bool) *FraudServiceHandler {
	logger := observability.NopLogger()
	repo := memory.NewPredictionRepository(0)
	engine := service.NewInferenceEngine(classifier, ml.IdentityScaler{}, valueobject.ModelSourceFallback, logger)

	return NewFraudServiceHandler(
		usecase.NewPredictTransaction(repo, messaging.NewLogPublisher(logger), nil, engine, logger),
		usecase.NewGetPrediction(repo),
		logger,
		authRequired,
	)
}

func buildTestHandler() *FraudServiceHandler {
	return buildHandler(ml.NewRuleClassifier(observability.NopLogger()), false)
}

func contextWithRoles(roles ...string) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{Roles: roles})
}

func suspiciousTransfer() *PredictRequest {
	return &PredictRequest{
		Day:            5,
		Hour:           2,
		Type:           "TRANSFER",
		Amount:         "300000",
		OldBalanceOrg:  "300000",
		NewBalanceOrig: "0",
		OldBalanceDest: "0",
		NewBalanceDest: "0",
	}
}

// requireGRPCCode asserts that an error is a gRPC status error with the given code.
func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %T: %v", err, err)
	assert.Equal(t, code, st.Code(), "expected gRPC code %s, got %s: %s", code, st.Code(), st.Message())
}

// --- Tests ---

func TestPredict(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		h := buildTestHandler()
		_, err := h.Predict(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("malformed amount returns InvalidArgument", func(t *testing.T) {
		h := buildTestHandler()
		req := suspiciousTransfer()
		req.Amount = "lots"
		_, err := h.Predict(context.Background(), req)
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid amount")
	})

	t.Run("domain validation returns InvalidArgument", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*PredictRequest)
		}{
			{"day out of range", func(r *PredictRequest) { r.Day = 32 }},
			{"step beyond horizon", func(r *PredictRequest) { r.Day, r.Hour = 31, 23 }},
			{"unknown type", func(r *PredictRequest) { r.Type = "UNKNOWN" }},
			{"negative balance", func(r *PredictRequest) { r.OldBalanceDest = "-1" }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				h := buildTestHandler()
				req := suspiciousTransfer()
				tc.mutate(req)
				_, err := h.Predict(context.Background(), req)
				requireGRPCCode(t, err, codes.InvalidArgument)
			})
		}
	})

	t.Run("unloadable model returns Unavailable", func(t *testing.T) {
		h := buildHandler(ml.NewUnavailableClassifier(assert.AnError), false)
		_, err := h.Predict(context.Background(), suspiciousTransfer())
		requireGRPCCode(t, err, codes.Unavailable)
		assert.Contains(t, err.Error(), "model could not be loaded")
	})

	t.Run("happy path returns prediction", func(t *testing.T) {
		h := buildTestHandler()
		resp, err := h.Predict(context.Background(), suspiciousTransfer())
		require.NoError(t, err)
		require.NotNil(t, resp.Prediction)
		assert.True(t, resp.Prediction.IsFraud)
		assert.InDelta(t, 0.8, resp.Prediction.FraudProbability, 1e-9)
		assert.InDelta(t, 0.8, resp.Prediction.Confidence, 1e-9)
		assert.Equal(t, "fallback", resp.Prediction.ModelSource)
		assert.Equal(t, int32(99), resp.Prediction.Step)
	})
}

func TestGetPrediction(t *testing.T) {
	t.Run("invalid id returns InvalidArgument", func(t *testing.T) {
		h := buildTestHandler()
		_, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: "bad-uuid"})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown id returns NotFound", func(t *testing.T) {
		h := buildTestHandler()
		_, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: uuid.New().String()})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("returns an earlier prediction", func(t *testing.T) {
		h := buildTestHandler()
		created, err := h.Predict(context.Background(), suspiciousTransfer())
		require.NoError(t, err)

		got, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: created.Prediction.ID})
		require.NoError(t, err)
		assert.Equal(t, created.Prediction.ID, got.Prediction.ID)
		assert.Equal(t, created.Prediction.Label, got.Prediction.Label)
		assert.Equal(t, created.Prediction.Confidence, got.Prediction.Confidence)
	})
}

func TestRoleChecks(t *testing.T) {
	h := buildHandler(ml.NewRuleClassifier(observability.NopLogger()), true)

	_, err := h.Predict(context.Background(), suspiciousTransfer())
	requireGRPCCode(t, err, codes.Unauthenticated)

	_, err = h.GetPrediction(contextWithRoles(auth.RoleService), &GetPredictionRequest{ID: uuid.New().String()})
	requireGRPCCode(t, err, codes.PermissionDenied)

	_, err = h.Predict(contextWithRoles(auth.RoleService), suspiciousTransfer())
	require.NoError(t, err)
}

func TestServer_OverBufconn(t *testing.T) {
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "grpc-test-secret", Expiration: time.Minute})
	require.NoError(t, err)

	handler := buildHandler(ml.NewRuleClassifier(observability.NopLogger()), true)
	srv, err := NewServer(handler, ServerConfig{JWT: jwtService, Reflection: true}, observability.NopLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.Status)

	client := NewFraudDetectionServiceClient(conn)

	_, err = client.Predict(ctx, suspiciousTransfer())
	requireGRPCCode(t, err, codes.Unauthenticated)

	token, err := jwtService.GenerateToken("teller-app", []string{auth.RoleAnalyst})
	require.NoError(t, err)
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	created, err := client.Predict(authed, suspiciousTransfer())
	require.NoError(t, err)
	assert.Equal(t, "FRAUD", created.Prediction.Label)
	assert.InDelta(t, 0.8, created.Prediction.Confidence, 1e-9)
	assert.Equal(t, len(created.Prediction.RiskFactors), int(created.Prediction.RiskFactorCount))

	got, err := client.GetPrediction(authed, &GetPredictionRequest{ID: created.Prediction.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Prediction.ID, got.Prediction.ID)
}
