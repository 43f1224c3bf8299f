package classifier

import (
	"maps"
	"slices"
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/statement"
)

// Context is the working state of one row while it moves through the
// classification stages. Stages take it by value and return an updated copy
// that shares no storage with the one passed in.
type Context struct {
	Row   statement.RawRow
	Parts []string

	Mode statement.Mode
	Ref  *string

	// Categories keeps candidates in insertion order, the first one wins
	Categories []statement.Category
	Tags       []string
	Meta       map[string]*string
}

// NewContext seeds a context from a raw row.
func NewContext(row statement.RawRow) Context {
	return Context{
		Row:   row,
		Parts: strings.Split(row.Description, "/"),
		Mode:  statement.ModeUnknown,
		Meta:  map[string]*string{},
	}
}

// LastPart is the last '/' separated part of the description.
func (c Context) LastPart() string {
	if len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[len(c.Parts)-1]
}

// Category returns the winning category candidate.
func (c Context) Category() statement.Category {
	if len(c.Categories) == 0 {
		return statement.CategoryUnknown
	}
	return c.Categories[0]
}

func (c Context) clone() Context {
	c.Parts = slices.Clone(c.Parts)
	c.Categories = slices.Clone(c.Categories)
	c.Tags = slices.Clone(c.Tags)
	c.Meta = maps.Clone(c.Meta)
	return c
}

func (c *Context) addCategory(category statement.Category) {
	if !slices.Contains(c.Categories, category) {
		c.Categories = append(c.Categories, category)
	}
}

func (c *Context) addTag(tag string) {
	if !slices.Contains(c.Tags, tag) {
		c.Tags = append(c.Tags, tag)
	}
}

func (c *Context) setMeta(key string, value *string) {
	if c.Meta == nil {
		c.Meta = map[string]*string{}
	}
	c.Meta[key] = value
}

// tagLastPartIfUntagged keeps the last description part as a tag when no
// stage found anything better. Blank parts are not tags.
func (c *Context) tagLastPartIfUntagged() {
	if len(c.Tags) == 0 && strings.TrimSpace(c.LastPart()) != "" {
		c.addTag(c.LastPart())
	}
}

// Result is the classification of one row.
type Result struct {
	Mode           statement.Mode
	Ref            *string
	Category       statement.Category
	Tags           []string
	AdditionalMeta map[string]*string
}

func (c Context) result() Result {
	return Result{
		Mode:           c.Mode,
		Ref:            c.Ref,
		Category:       c.Category(),
		Tags:           c.Tags,
		AdditionalMeta: c.Meta,
	}
}
