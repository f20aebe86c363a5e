// Command wneditor is a thin CLI over the editing engine: import a WN-LMF
// file into a store, validate it, or commit it back out to a docstore sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lexkit/wneditor"
	"github.com/lexkit/wneditor/internal/config"
	"github.com/lexkit/wneditor/pkg/docstore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "wneditor:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("wneditor", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	importPath := fs.String("import", "", "WN-LMF XML file to import")
	lexiconID := fs.String("lexicon", "", "lexicon specifier to validate/commit (id or id:version)")
	doValidate := fs.Bool("validate", false, "run the validation rule catalogue over -lexicon")
	doCommit := fs.Bool("commit", false, "export -lexicon and hand it off to an in-memory docstore sink")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ed, err := wneditor.Open(wneditor.Options{
		StoreDSN:             cfg.StoreDSN,
		AutoInverse:          cfg.AutoInverse,
		RecordHistory:        cfg.RecordHistory,
		TreatAlsoAsSymmetric: cfg.TreatAlsoAsSymmetric,
	})
	if err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	defer ed.Close()

	ctx := context.Background()

	if *importPath != "" {
		f, err := os.Open(*importPath)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		if err := ed.ImportReader(ctx, f); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Println("imported", *importPath)
	}

	if *doValidate {
		if *lexiconID == "" {
			return fmt.Errorf("-validate requires -lexicon")
		}
		findings, err := ed.Validate(ctx, *lexiconID)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		for _, f := range findings {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", f.Severity, f.Rule, f.EntityKind, f.EntityID, f.Message)
		}
	}

	if *doCommit {
		if *lexiconID == "" {
			return fmt.Errorf("-commit requires -lexicon")
		}
		sink := docstore.New()
		if err := ed.Commit(ctx, *lexiconID, sink); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		// The sink keys documents by bare lexicon id, without ":version".
		id := *lexiconID
		if i := strings.IndexByte(id, ':'); i >= 0 {
			id = id[:i]
		}
		doc, _ := sink.Get(id)
		fmt.Printf("committed %s (%d bytes)\n", *lexiconID, len(doc.XML))
	}

	return nil
}
