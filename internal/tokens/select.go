package tokens

import (
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the subword encoding used by the precise counter.
const DefaultEncoding = "cl100k_base"

// loadTimeout bounds encoding initialisation, which may need to fetch BPE ranks.
var loadTimeout = 15 * time.Second

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// loadEncoding is swapped out in tests.
var loadEncoding = func(name string) (encoder, error) {
	return tiktoken.GetEncoding(name)
}

// Precise counts tokens with a subword tokenizer.
type Precise struct {
	enc      encoder
	encoding string
}

// Name implements Counter.
func (p *Precise) Name() string { return "tiktoken:" + p.encoding }

// Count implements Counter. Empty text is 0 tokens.
func (p *Precise) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(p.enc.Encode(text, nil, nil))
}

// Selection is the strategy chosen at startup.
type Selection struct {
	Counter Counter
	// UsingPrecise is surfaced so callers can label counts as exact or estimated.
	UsingPrecise bool
	// Note explains why the heuristic is in use. Empty when precise counting works.
	Note string
}

// Label is a display label for token metrics.
func (s Selection) Label() string {
	if s.UsingPrecise {
		return "Tokens"
	}
	return "Tokens (estimated)"
}

// Select resolves the token counter once. Failure to load the precise encoding
// is never fatal: the heuristic is returned together with the reason.
func Select(wantPrecise bool, encoding string) Selection {
	if !wantPrecise {
		return Selection{Counter: Heuristic{}, Note: "precise tokenizer disabled by configuration"}
	}
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := loadWithTimeout(encoding)
	if err != nil {
		return Selection{
			Counter: Heuristic{},
			Note:    fmt.Sprintf("precise tokenizer unavailable, using heuristic: %v", err),
		}
	}
	return Selection{Counter: &Precise{enc: enc, encoding: encoding}, UsingPrecise: true}
}

func loadWithTimeout(encoding string) (encoder, error) {
	type result struct {
		enc encoder
		err error
	}
	load := loadEncoding
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("tokenizer init panic: %v", r)}
			}
		}()
		enc, err := load(encoding)
		ch <- result{enc: enc, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if r.enc == nil {
			return nil, fmt.Errorf("encoding %q not available", encoding)
		}
		return r.enc, nil
	case <-time.After(loadTimeout):
		return nil, fmt.Errorf("loading encoding %q timed out after %s", encoding, loadTimeout)
	}
}
