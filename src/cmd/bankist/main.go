package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/api-sage/bankist-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/bankist-ledger/src/internal/clock"
	"github.com/api-sage/bankist-ledger/src/internal/config"
	"github.com/api-sage/bankist-ledger/src/internal/domain"
	"github.com/api-sage/bankist-ledger/src/internal/logger"
	"github.com/api-sage/bankist-ledger/src/internal/models"
	"github.com/api-sage/bankist-ledger/src/internal/usecase/service_interfaces"
	"github.com/api-sage/bankist-ledger/src/internal/usecase/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Configure(os.Stderr, cfg.LogLevel); err != nil {
		log.Fatalf("configure logger: %v", err)
	}

	repo, err := memory.NewAccountRepository(memory.DefaultSeed(), cfg.PinHashCost)
	if err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	clk := clock.Real{}
	sessions := services.NewSessionManager(repo, clk, cfg.SessionTimeoutTicks)
	ledger := services.NewLedgerService(repo, sessions, clk, cfg.LoanApprovalDelay, cfg.LoanCollateralRatio)

	sessions.OnLogout(func(event domain.LogoutEvent) {
		fmt.Printf("logged out (%s), log in to get started\n", event.Reason)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	go sessions.Run(ctx, ticker.C)

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	fmt.Println("bankist ready: login <user> <pin>")
	for {
		select {
		case <-ctx.Done():
			fmt.Println("shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := dispatch(ctx, sessions, ledger, line); quit {
				return
			}
		}
	}
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

func dispatch(ctx context.Context, sessions service_interfaces.SessionService, ledger service_interfaces.LedgerService, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	if args[0] == "quit" {
		return true
	}
	if args[0] == "login" {
		if len(args) != 3 {
			fmt.Println("usage: login <user> <pin>")
			return false
		}
		session, err := sessions.Login(ctx, models.LoginRequest{Username: args[1], Pin: args[2]})
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		fmt.Printf("Welcome back, %s\n", domain.Account{Owner: session.Owner}.FirstName())
		printSummary(ctx, ledger, session)
		return false
	}

	session, ok := sessions.Current()
	if !ok {
		fmt.Println("error:", domain.ErrNotLoggedIn)
		return false
	}

	var err error
	switch args[0] {
	case "logout":
		err = sessions.Logout(ctx, session)
	case "timer":
		fmt.Println(formatTicks(sessions.RemainingTicks()))
	case "summary":
		printSummary(ctx, ledger, session)
	case "movements":
		err = printMovements(ctx, ledger, session)
	case "sort":
		if _, err = ledger.ToggleSort(ctx, session); err == nil {
			err = printMovements(ctx, ledger, session)
		}
	case "transfer":
		var amount decimal.Decimal
		if amount, err = amountArg(args, 2); err == nil {
			err = ledger.Transfer(ctx, session, models.TransferRequest{To: args[1], Amount: amount})
		}
		if err == nil {
			printSummary(ctx, ledger, session)
		}
	case "loan":
		var amount decimal.Decimal
		if amount, err = amountArg(args, 1); err == nil {
			var loan domain.PendingLoan
			if loan, err = ledger.RequestLoan(ctx, session, models.LoanRequest{Amount: amount}); err == nil {
				fmt.Printf("loan %s approved, due %s\n", loan.ID, loan.DueAt.Format(time.Kitchen))
			}
		}
	case "loans":
		var loans []domain.PendingLoan
		if loans, err = ledger.PendingLoans(ctx, session); err == nil {
			for _, loan := range loans {
				fmt.Printf("%s %s due %s\n", loan.ID, loan.Amount.StringFixed(2), loan.DueAt.Format(time.Kitchen))
			}
		}
	case "cancel":
		if len(args) != 2 {
			fmt.Println("usage: cancel <loan-id>")
			return false
		}
		var id uuid.UUID
		if id, err = uuid.Parse(args[1]); err == nil {
			err = ledger.CancelLoan(ctx, session, id)
		}
	case "close":
		if len(args) != 3 {
			fmt.Println("usage: close <user> <pin>")
			return false
		}
		err = ledger.CloseAccount(ctx, session, models.CloseAccountRequest{Username: args[1], PinConfirm: args[2]})
	default:
		fmt.Println("commands: login logout transfer loan loans cancel close sort movements summary timer quit")
	}

	if err != nil {
		fmt.Println("error:", err)
	}
	return false
}

func amountArg(args []string, pos int) (decimal.Decimal, error) {
	if len(args) <= pos {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	amount, err := decimal.NewFromString(args[pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", args[pos], err)
	}
	return amount, nil
}

func printSummary(ctx context.Context, ledger service_interfaces.LedgerService, session domain.Session) {
	summary, err := ledger.Summary(ctx, session)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("balance %s | in %s | out %s | interest %s\n",
		summary.Balance.StringFixed(2),
		summary.Income.StringFixed(2),
		summary.Expense.StringFixed(2),
		summary.Interest.StringFixed(2),
	)
}

func printMovements(ctx context.Context, ledger service_interfaces.LedgerService, session domain.Session) error {
	views, err := ledger.Movements(ctx, session)
	if err != nil {
		return err
	}
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		fmt.Printf("%3d %-10s %s %12s\n", v.Index+1, v.Type, v.Date.Format("02/01/2006"), v.Amount.StringFixed(2))
	}
	return nil
}

func formatTicks(ticks int) string {
	return fmt.Sprintf("%02d:%02d", ticks/60, ticks%60)
}
