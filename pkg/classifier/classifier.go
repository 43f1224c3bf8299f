// Package classifier derives the payment mode, reference number, category and
// tags of a statement row from its description.
//
// Descriptions are '/' separated, the first part names the payment channel
// ("UPI/MOB/400230892772/lunch"). Rows are classified in stages that each take
// a Context and return the updated one: mode, reference, then category. Single
// part descriptions skip the stages and are handled as interest credits or EMI
// debits.
package classifier

import (
	"log/slog"
	"strings"
	"time"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

const (
	interestTag = "MONTHLY SAVINGS INTEREST"
	emiTag      = "EMI DEBIT"
	atmTag      = "CASH WITHDRAWAL"
	transferTag = "transfer"
)

type Classifier struct {
	rules RuleSet
	loc   *time.Location
}

// New creates a classifier for a bank's rules. Statement dates are read in loc.
func New(rules RuleSet, loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{rules: rules, loc: loc}
}

// Classify runs every stage over row.
func (c *Classifier) Classify(row statement.RawRow) Result {
	ctx := NewContext(row)

	if len(ctx.Parts) == 1 {
		ctx = c.ClassifySingle(ctx)
	} else {
		ctx = c.ClassifyMode(ctx)
		ctx = c.ClassifyRef(ctx)
		ctx = c.Categorize(ctx)
	}

	if len(ctx.Categories) == 0 {
		ctx.addCategory(statement.CategoryUnknown)
	}

	return ctx.result()
}

// ClassifySingle handles descriptions without a '/'. Anything that is not the
// interest credit sentinel is treated as an EMI debit.
func (c *Classifier) ClassifySingle(ctx Context) Context {
	ctx = ctx.clone()
	description := strings.TrimSpace(ctx.Row.Description)

	if description == c.rules.InterestSentinel {
		ctx.Mode = statement.ModeMonthlyInterest
		ctx.Ref = c.interestRef(ctx.Row)
		ctx.addCategory(statement.CategoryBankTransfer)
		ctx.addTag(interestTag)
		return ctx
	}

	ctx.Mode = statement.ModeEMI
	ctx.Ref = nil
	if c.rules.EMIPattern != nil {
		if m := c.rules.EMIPattern.FindStringSubmatch(description); len(m) > 1 {
			ctx.Ref = statement.StringPtr(m[1])
		}
	}
	ctx.addCategory(statement.CategoryEMI)
	ctx.addTag(emiTag)

	return ctx
}

// ClassifyMode decodes the channel token in the first description part.
func (c *Classifier) ClassifyMode(ctx Context) Context {
	ctx = ctx.clone()
	ctx.Mode = statement.DecodeModeWith(c.rules.ModeTable, strings.TrimSpace(ctx.Parts[0]))
	return ctx
}

// ClassifyRef finds the reference number of the row. The first part matching
// the mode's reference token wins.
func (c *Classifier) ClassifyRef(ctx Context) Context {
	ctx = ctx.clone()
	ctx.Ref = nil

	switch ctx.Mode {
	case statement.ModeUnknown:
		return ctx
	case statement.ModeMonthlyInterest:
		ctx.Ref = c.interestRef(ctx.Row)
		return ctx
	}

	token := c.rules.DefaultRefToken
	if t, ok := c.rules.RefTokens[ctx.Mode]; ok {
		token = t
	}
	if token == nil {
		return ctx
	}

	for _, part := range ctx.Parts {
		part = strings.TrimSpace(part)
		if token.MatchString(part) {
			ctx.Ref = statement.StringPtr(part)
			break
		}
	}

	return ctx
}

func (c *Classifier) interestRef(row statement.RawRow) *string {
	date, err := statement.ParseDate(row.TransactionDate, c.loc)
	if err != nil {
		slog.Warn("cannot derive interest reference", "date", row.TransactionDate, "error", err)
		return nil
	}
	return statement.StringPtr(string(statement.ModeMonthlyInterest) + "_" + date.Format("02_01_2006"))
}
