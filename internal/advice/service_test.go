package advice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

type fakeHistory struct {
	txs []core.Transaction
	err error
}

func (f fakeHistory) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return f.txs, f.err
}

type fakeGenerator struct {
	gotPrompt string
	reply     string
	err       error
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.reply, f.err
}

func TestAdviseWithoutCredentialFailsFast(t *testing.T) {
	svc := NewService(fakeHistory{}, nil)
	_, err := svc.Advise(context.Background(), 1)
	if !errors.Is(err, core.ErrAdviceNotConfigured) {
		t.Fatalf("expected ErrAdviceNotConfigured, got %v", err)
	}
}

func TestAdviseUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	svc := NewService(fakeHistory{}, gen)
	_, err := svc.Advise(context.Background(), 1)
	if !errors.Is(err, core.ErrAdviceUpstream) {
		t.Fatalf("expected ErrAdviceUpstream, got %v", err)
	}
}

func TestAdviseStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fakeHistory{err: boom}, &fakeGenerator{})
	_, err := svc.Advise(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, core.ErrAdviceUpstream) {
		t.Fatal("store faults must not masquerade as upstream faults")
	}
}

func TestAdviseParsesFencedReply(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"summary\":\"ok\",\"tips\":[\"save\"]}\n```"}
	svc := NewService(fakeHistory{txs: makeHistory(3)}, gen)

	got, err := svc.Advise(context.Background(), 1)
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if got.Summary != "ok" || len(got.Tips) != 1 || len(got.RiskCategories) != 0 {
		t.Fatalf("unexpected advice: %+v", got)
	}
	if !strings.Contains(gen.gotPrompt, "RecentTransactionsJSON") {
		t.Fatal("prompt was not built from history")
	}
}

func TestAdviseNeverFailsOnMalformedReply(t *testing.T) {
	gen := &fakeGenerator{reply: "the model rambled with no structure at all"}
	svc := NewService(fakeHistory{}, gen)

	got, err := svc.Advise(context.Background(), 1)
	if err != nil {
		t.Fatalf("malformed reply must degrade, not fail: %v", err)
	}
	if got.Summary != gen.reply {
		t.Fatalf("expected verbatim fallback summary, got %+v", got)
	}
}
