package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/models"
	"github.com/api-sage/bankist-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

// expiringSessions lets the countdown run out after Authorize has passed but
// before the ledger commits its mutation.
type expiringSessions struct {
	*services.SessionManager
}

func (s expiringSessions) WithSession(session domain.Session, fn func() error) error {
	for s.RemainingTicks() > 0 {
		s.Tick()
	}
	return s.SessionManager.WithSession(session, fn)
}

func newExpiringLedger(e engine) *services.LedgerService {
	return services.NewLedgerService(e.repo, expiringSessions{e.sessions}, e.clock, testLoanDelay, decimal.RequireFromString("0.1"))
}

func TestLedgerServiceTransferRejectedWhenSessionExpiresMidway(t *testing.T) {
	e := newEngine(t, scenarioSeeds())
	session := login(t, e, "js", "1111")
	ledger := newExpiringLedger(e)

	err := ledger.Transfer(context.Background(), session, models.TransferRequest{To: "zq", Amount: dec("100")})
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if n := len(account(t, e, "js").Movements); n != 8 {
		t.Fatalf("expected sender movements untouched, got %d", n)
	}
	if n := len(account(t, e, "zq").Movements); n != 0 {
		t.Fatalf("expected recipient movements untouched, got %d", n)
	}
}

func TestLedgerServiceLoanRejectedWhenSessionExpiresMidway(t *testing.T) {
	e := newSeededEngine(t)
	session := login(t, e, "js", "1111")
	ledger := newExpiringLedger(e)

	if _, err := ledger.RequestLoan(context.Background(), session, models.LoanRequest{Amount: dec("2000")}); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if n := e.clock.Pending(); n != 0 {
		t.Fatalf("expected no scheduled grant, got %d", n)
	}
	e.clock.Advance(testLoanDelay)
	if n := len(account(t, e, "js").Movements); n != 8 {
		t.Fatalf("expected no loan movement, got %d movements", n)
	}
}

func TestLedgerServiceCloseRejectedWhenSessionExpiresMidway(t *testing.T) {
	e := newSeededEngine(t)
	session := login(t, e, "js", "1111")
	ledger := newExpiringLedger(e)

	err := ledger.CloseAccount(context.Background(), session, models.CloseAccountRequest{Username: "js", PinConfirm: "1111"})
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := e.repo.GetByUsername(context.Background(), "js"); err != nil {
		t.Fatalf("account must survive: %v", err)
	}
}

func TestSessionManagerWithSessionHoldsOffExpiry(t *testing.T) {
	e := newSeededEngine(t)
	session := login(t, e, "js", "1111")
	for i := 0; i < testTimeoutTicks-1; i++ {
		e.sessions.Tick()
	}

	ticked := make(chan bool, 1)
	err := e.sessions.WithSession(session, func() error {
		go func() {
			_, expired := e.sessions.Tick()
			ticked <- expired
		}()
		select {
		case expired := <-ticked:
			t.Error("tick ran while the session was held")
			ticked <- expired
		case <-time.After(50 * time.Millisecond):
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with session: %v", err)
	}
	if expired := <-ticked; !expired {
		t.Fatal("expected the held tick to expire the session afterwards")
	}

	called := false
	err = e.sessions.WithSession(session, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, domain.ErrNotLoggedIn) || called {
		t.Fatalf("expected ErrNotLoggedIn without running fn, got %v called=%v", err, called)
	}
}
