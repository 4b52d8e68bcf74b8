package fraud

import (
	"regexp"
	"strings"
	"time"

	"github.com/ericlagergren/decimal"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// Violation messages surfaced to the caller and stored on the claim
const (
	ViolationDailyLimit      = "Daily submission limit exceeded"
	ViolationPendingCap      = "Too many pending submissions"
	ViolationCooldown        = "Submission cooldown active"
	ViolationDailyAmountCap  = "Daily amount limit exceeded"
	ViolationDuplicate       = "Potential duplicate payment detected"
	ViolationSuspiciousName  = "Suspicious sender name pattern"
	ViolationWalletReuse     = "Wallet address used by another account"
	ViolationAmountDeviation = "Amount deviates from approved history"
)

var (
	allDigitsPattern = regexp.MustCompile(`^[0-9\s]+$`)
	placeholderNames = map[string]struct{}{
		"test":      {},
		"testing":   {},
		"asdf":      {},
		"qwerty":    {},
		"unknown":   {},
		"anonymous": {},
		"none":      {},
		"null":      {},
		"n/a":       {},
		"na":        {},
	}
)

// History exposes the read side of the claim store needed by the screening
// checks. Every method reads committed state only.
type History interface {
	CountClaimsSince(userID uint64, since time.Time) (int64, error)
	CountPendingClaims(userID uint64) (int64, error)
	LastClaimAt(userID uint64) (time.Time, bool, error)
	SumClaimAmountsSince(userID uint64, since time.Time) (*decimal.Big, error)
	HasDuplicateClaim(userID uint64, amount *decimal.Big, senderName string, since time.Time) (bool, error)
	WalletUsedByOther(userID uint64, senderWallet string) (bool, error)
	ApprovedClaimStats(userID uint64) (int64, *decimal.Big, error)
}

// Result is the classification of a single screened claim. Reject is set by
// the rate limit checks (daily count, pending cap, cooldown, daily amount
// ceiling): those reject the claim outright no matter how the score lands,
// the remaining checks only raise the score for review.
type Result struct {
	RiskLevel  model.RiskLevel
	Score      int
	Violations []string
	Reject     bool
}

// Screener evaluates payment claims against the fraud limits. Screening is
// read only: it classifies a claim and never touches the ledger or the claim
// record itself, disposition is the orchestrator's call.
type Screener struct {
	cfg     config.FraudConfig
	history History
}

// NewScreener creates a claim screener over the given history source
func NewScreener(cfg config.FraudConfig, history History) *Screener {
	return &Screener{
		cfg:     cfg,
		history: history,
	}
}

// Screen evaluates every check independently and collects all violations so
// the caller sees the full set, not just the first failure
func (screener *Screener) Screen(userID uint64, amount *decimal.Big, senderName, senderWallet string) (*Result, error) {
	now := time.Now()
	violations := []string{}
	reject := false

	dayAgo := now.Add(-24 * time.Hour)
	submissionsToday, err := screener.history.CountClaimsSince(userID, dayAgo)
	if err != nil {
		return nil, err
	}
	if submissionsToday >= int64(screener.cfg.MaxDailySubmissions) {
		violations = append(violations, ViolationDailyLimit)
		reject = true
	}

	pendingCount, err := screener.history.CountPendingClaims(userID)
	if err != nil {
		return nil, err
	}
	if pendingCount >= int64(screener.cfg.MaxPendingSubmissions) {
		violations = append(violations, ViolationPendingCap)
		reject = true
	}

	lastAt, hasLast, err := screener.history.LastClaimAt(userID)
	if err != nil {
		return nil, err
	}
	if hasLast && now.Sub(lastAt) < time.Duration(screener.cfg.CooldownMinutes)*time.Minute {
		violations = append(violations, ViolationCooldown)
		reject = true
	}

	submittedToday, err := screener.history.SumClaimAmountsSince(userID, dayAgo)
	if err != nil {
		return nil, err
	}
	projected := conv.NewDecimalWithPrecision().Add(submittedToday, amount)
	if projected.Cmp(screener.cfg.GetDailyAmountCap()) > 0 {
		violations = append(violations, ViolationDailyAmountCap)
		reject = true
	}

	duplicateWindow := now.Add(-time.Duration(screener.cfg.DuplicateWindowHours) * time.Hour)
	duplicate, err := screener.history.HasDuplicateClaim(userID, amount, senderName, duplicateWindow)
	if err != nil {
		return nil, err
	}
	if duplicate {
		violations = append(violations, ViolationDuplicate)
	}

	if suspiciousName(senderName) {
		violations = append(violations, ViolationSuspiciousName)
	}

	if len(senderWallet) > 0 {
		reused, err := screener.history.WalletUsedByOther(userID, senderWallet)
		if err != nil {
			return nil, err
		}
		if reused {
			violations = append(violations, ViolationWalletReuse)
		}
	}

	approvedCount, approvedAverage, err := screener.history.ApprovedClaimStats(userID)
	if err != nil {
		return nil, err
	}
	if approvedCount >= int64(screener.cfg.MinApprovedHistory) && approvedAverage.Sign() > 0 {
		ceiling := conv.NewDecimalWithPrecision().Mul(approvedAverage, screener.cfg.GetDeviationMultiplier())
		if amount.Cmp(ceiling) > 0 {
			violations = append(violations, ViolationAmountDeviation)
		}
	}

	score := 10*len(violations) + amountTier(amount)
	return &Result{
		RiskLevel:  riskLevel(score),
		Score:      score,
		Violations: violations,
		Reject:     reject,
	}, nil
}

func suspiciousName(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if len(normalized) == 0 {
		return true
	}
	if _, ok := placeholderNames[normalized]; ok {
		return true
	}
	if allDigitsPattern.MatchString(normalized) {
		return true
	}
	return hasLongRepetition(normalized)
}

// hasLongRepetition reports whether the name repeats a single rune four or
// more times in a row
func hasLongRepetition(name string) bool {
	var last rune
	run := 0
	for _, r := range name {
		if r == last {
			run++
			if run >= 4 {
				return true
			}
			continue
		}
		last = r
		run = 1
	}
	return false
}

// amountTier adds a weight for large amounts on top of the violation count
func amountTier(amount *decimal.Big) int {
	switch {
	case amount.Cmp(tierThreshold50k) >= 0:
		return 30
	case amount.Cmp(tierThreshold20k) >= 0:
		return 20
	case amount.Cmp(tierThreshold10k) >= 0:
		return 10
	}
	return 0
}

var (
	tierThreshold10k = conv.NewDecimalWithPrecision().SetUint64(10000)
	tierThreshold20k = conv.NewDecimalWithPrecision().SetUint64(20000)
	tierThreshold50k = conv.NewDecimalWithPrecision().SetUint64(50000)
)

func riskLevel(score int) model.RiskLevel {
	switch {
	case score >= 50:
		return model.RiskLevelHigh
	case score >= 25:
		return model.RiskLevelMedium
	}
	return model.RiskLevelLow
}
