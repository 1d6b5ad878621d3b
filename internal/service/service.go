// Package service exposes the conversions behind the HTTP and MCP surfaces.
package service

import (
	"errors"
	"time"

	"github.com/aretw0/viewmig/internal/metrics"
	"github.com/aretw0/viewmig/internal/view"
	"github.com/aretw0/viewmig/pkg/transpile"
)

// Conversion kinds, used as metric labels.
const (
	KindAttrs  = "attrs"
	KindDomain = "domain"
	KindStates = "states"
	KindView   = "view"
)

// ErrEmptyInput is returned when the text to convert is blank.
var ErrEmptyInput = errors.New("empty input")

// Converter runs conversions and records them in Metrics when set.
type Converter struct {
	Metrics *metrics.Metrics
}

// New creates a Converter. m may be nil.
func New(m *metrics.Metrics) *Converter {
	return &Converter{Metrics: m}
}

func (c *Converter) observe(kind string, started time.Time, err error) {
	if c.Metrics != nil {
		c.Metrics.ObserveConversion(kind, started, err)
	}
}

// Attrs converts an attrs dictionary into one expression per attribute.
func (c *Converter) Attrs(raw string) (transpile.AttrSet, error) {
	started := time.Now()
	set, err := transpile.GetNewAttrs(raw)
	c.observe(KindAttrs, started, err)
	return set, err
}

// Domain converts a single domain literal into an expression.
func (c *Converter) Domain(text string) (string, error) {
	if text == "" {
		return "", ErrEmptyInput
	}
	started := time.Now()
	expr, err := transpile.ConvertDomain(text)
	c.observe(KindDomain, started, err)
	return expr, err
}

// States folds a states list into an invisible expression.
func (c *Converter) States(states, invisible string) string {
	started := time.Now()
	out := transpile.CombineInvisible(invisible, states)
	c.observe(KindStates, started, nil)
	return out
}

// View converts every attrs and states modifier of a view document.
func (c *Converter) View(content string) (string, []view.Change, error) {
	if content == "" {
		return "", nil, ErrEmptyInput
	}
	started := time.Now()
	out, res, err := view.Convert(content)
	c.observe(KindView, started, err)
	if err != nil {
		return "", nil, err
	}
	return out, res.Changes, nil
}
