// Package commit hands a freshly exported lexicon off to a downstream
// consumer: export to a temp file, remove any existing copy from the
// sink, then add the new one. If Add fails after Remove succeeds, the
// engine's own store remains canonical — spec.md's recovery story is
// simply re-running commit.
package commit

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/lexkit/wneditor/internal/apperr"
	"github.com/lexkit/wneditor/internal/exporter"
	"github.com/lexkit/wneditor/internal/lmf"
)

// Sink is the downstream consumer's store, treated as an opaque handoff
// target per spec.md §1's external-collaborator boundary.
type Sink interface {
	Remove(lexiconID string) error
	Add(xmlPath string) error
}

// Committer drives the export-then-handoff sequence.
type Committer struct {
	exp  *exporter.Exporter
	sink Sink
	log  *zap.Logger
}

// New constructs a Committer exporting via exp and handing off to sink.
func New(exp *exporter.Exporter, sink Sink, log *zap.Logger) *Committer {
	return &Committer{exp: exp, sink: sink, log: log}
}

// Commit exports lexiconSpecifier to a temp XML file, removes any
// same-id lexicon already in the sink, then adds the new file.
func (c *Committer) Commit(ctx context.Context, lexiconSpecifier string) error {
	doc, findings, err := c.exp.Export(ctx, lexiconSpecifier)
	if err != nil {
		return err
	}
	for _, f := range findings {
		c.log.Warn("commit: validation warning", zap.String("rule", f.Rule), zap.String("entity_id", f.EntityID), zap.String("message", f.Message))
	}

	tmp, err := os.CreateTemp("", "wneditor-commit-*.xml")
	if err != nil {
		return apperr.Export("create temp file", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if encErr := lmf.Encode(tmp, doc); encErr != nil {
		tmp.Close()
		return apperr.Export("encode document", encErr)
	}
	if cerr := tmp.Close(); cerr != nil {
		return apperr.Export("close temp file", cerr)
	}

	lexiconID := doc.Lexicons[0].ID
	if err := c.sink.Remove(lexiconID); err != nil {
		return apperr.Export("remove existing lexicon from sink", err)
	}
	if err := c.sink.Add(path); err != nil {
		c.log.Warn("commit: add failed after remove succeeded; store remains canonical, re-run commit", zap.String("lexicon", lexiconID), zap.Error(err))
		return apperr.Export("add file to sink", err)
	}
	return nil
}
