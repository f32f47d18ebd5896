package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTimeoutTicks = 300
const defaultTickInterval = time.Second
const defaultLoanApprovalDelay = 2500 * time.Millisecond
const defaultLoanCollateralRatio = "0.1"
const defaultLogLevel = "info"

type Config struct {
	SessionTimeoutTicks int
	TickInterval        time.Duration
	LoanApprovalDelay   time.Duration
	LoanCollateralRatio decimal.Decimal
	PinHashCost         int
	LogLevel            string
}

func Load() (Config, error) {
	ticks, err := intEnv("SESSION_TIMEOUT_TICKS", defaultSessionTimeoutTicks)
	if err != nil {
		return Config{}, err
	}
	if ticks <= 0 {
		return Config{}, fmt.Errorf("SESSION_TIMEOUT_TICKS must be greater than zero")
	}

	tickInterval, err := durationEnv("TICK_INTERVAL", defaultTickInterval)
	if err != nil {
		return Config{}, err
	}
	if tickInterval <= 0 {
		return Config{}, fmt.Errorf("TICK_INTERVAL must be greater than zero")
	}

	loanDelay, err := durationEnv("LOAN_APPROVAL_DELAY", defaultLoanApprovalDelay)
	if err != nil {
		return Config{}, err
	}
	if loanDelay < 0 {
		return Config{}, fmt.Errorf("LOAN_APPROVAL_DELAY cannot be negative")
	}

	rawRatio := strings.TrimSpace(os.Getenv("LOAN_COLLATERAL_RATIO"))
	if rawRatio == "" {
		rawRatio = defaultLoanCollateralRatio
	}
	ratio, err := decimal.NewFromString(rawRatio)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOAN_COLLATERAL_RATIO: %w", err)
	}
	if ratio.LessThan(decimal.Zero) {
		return Config{}, fmt.Errorf("LOAN_COLLATERAL_RATIO cannot be negative")
	}

	cost, err := intEnv("PIN_HASH_COST", bcrypt.DefaultCost)
	if err != nil {
		return Config{}, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("PIN_HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	return Config{
		SessionTimeoutTicks: ticks,
		TickInterval:        tickInterval,
		LoanApprovalDelay:   loanDelay,
		LoanCollateralRatio: ratio,
		PinHashCost:         cost,
		LogLevel:            logLevel,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
