package classifier

import (
	"log/slog"
	"regexp"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Categorize picks the category and tags of a row. Mandate, ATM, NEFT and IMPS
// rows have dedicated handling, annotated UPI rows are decoded and everything
// else goes through the category rules.
func (c *Classifier) Categorize(ctx Context) Context {
	ctx = ctx.clone()

	switch ctx.Mode {
	case statement.ModeNACH:
		return c.categorizeMandate(ctx)
	case statement.ModeATM:
		return c.categorizeATM(ctx)
	case statement.ModeNEFT:
		return c.categorizeNEFT(ctx)
	case statement.ModeIMPS:
		return c.categorizeIMPS(ctx)
	case statement.ModeUPI:
		if c.rules.Annotation != nil && c.rules.Annotation.MatchString(ctx.LastPart()) {
			return c.categorizeAnnotation(ctx)
		}
	}

	return c.categorizeByRules(ctx)
}

func (c *Classifier) categorizeByRules(ctx Context) Context {
	for _, rule := range c.rules.Categories {
		tag, ok := rule.Match(ctx)
		if !ok {
			continue
		}

		ctx.addCategory(rule.Category())
		if len(ctx.Tags) == 0 && tag != "" {
			ctx.addTag(tag)
		}
		return ctx
	}

	ctx.tagLastPartIfUntagged()
	return ctx
}

func (c *Classifier) categorizeMandate(ctx Context) Context {
	if c.rules.Mandate != nil {
		if m := c.rules.Mandate.FindString(ctx.Row.Description); m != "" {
			ctx.addCategory(statement.CategoryBankMandate)
			ctx.addTag(m)
			return ctx
		}
	}

	ctx.tagLastPartIfUntagged()
	return ctx
}

// categorizeATM always files the row as a cash withdrawal, the location is
// recorded when the description has one.
func (c *Classifier) categorizeATM(ctx Context) Context {
	ctx.addCategory(statement.CategoryATMCash)
	ctx.addTag(atmTag)
	ctx.setMeta("location", c.refGroup(c.rules.ATM, ctx, "location"))
	return ctx
}

func (c *Classifier) categorizeNEFT(ctx Context) Context {
	if c.rules.Salary != nil {
		if m := c.rules.Salary.FindString(ctx.Row.Description); m != "" {
			ctx.addCategory(statement.CategorySalary)
			ctx.addTag(m)
			return ctx
		}
	}

	if tag := c.refGroup(c.rules.NEFT, ctx, "tag"); tag != nil {
		ctx.addCategory(statement.CategoryBankTransfer)
		ctx.addTag(*tag)
		return ctx
	}

	ctx.tagLastPartIfUntagged()
	return ctx
}

// categorizeIMPS always files the row as a bank transfer.
func (c *Classifier) categorizeIMPS(ctx Context) Context {
	ctx.addCategory(statement.CategoryBankTransfer)

	if tag := c.refGroup(c.rules.IMPS, ctx, "tag"); tag != nil {
		ctx.addTag(*tag)
	} else {
		ctx.addTag(transferTag)
	}
	ctx.setMeta("recipient", c.refGroup(c.rules.IMPS, ctx, "recipient"))

	return ctx
}

// refGroup matches the description against the pattern built around the
// row's reference and returns the named group, nil when it did not match.
func (c *Classifier) refGroup(pattern RefPattern, ctx Context, group string) *string {
	if pattern == nil {
		return nil
	}

	ref := ""
	if ctx.Ref != nil {
		ref = *ctx.Ref
	}

	re, err := pattern(ref)
	if err != nil {
		slog.Warn("invalid reference pattern", "ref", ref, "error", err)
		return nil
	}

	return namedGroup(re, ctx.Row.Description, group)
}

func namedGroup(re *regexp.Regexp, s, group string) *string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	i := re.SubexpIndex(group)
	if i < 0 || m[i] == "" {
		return nil
	}

	return statement.StringPtr(m[i])
}
