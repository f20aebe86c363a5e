package relation

import (
	"testing"

	"github.com/lexkit/wneditor/internal/model"
)

func TestIsValidTypePerSpace(t *testing.T) {
	if !IsValidType(model.RelationSynsetToSynset, "hypernym") {
		t.Error("hypernym should be valid in synset space")
	}
	if IsValidType(model.RelationSynsetToSynset, "agent_of") {
		t.Error("agent_of is a sense-space type, not valid for synsets")
	}
	if !IsValidType(model.RelationSenseToSense, "antonym") {
		t.Error("antonym should be valid in sense space")
	}
	if !IsValidType(model.RelationSenseToSynset, "domain_topic") {
		t.Error("domain_topic should be valid in sense-synset space")
	}
	if IsValidType(model.RelationSenseToSynset, "hypernym") {
		t.Error("hypernym is not a sense-synset relation type")
	}
}

func TestInverseOfPairedTypes(t *testing.T) {
	inv, ok := InverseOf(model.RelationSynsetToSynset, "hypernym")
	if !ok || inv != "hyponym" {
		t.Fatalf("expected hyponym, got %q ok=%v", inv, ok)
	}
	inv, ok = InverseOf(model.RelationSynsetToSynset, "hyponym")
	if !ok || inv != "hypernym" {
		t.Fatalf("expected hypernym, got %q ok=%v", inv, ok)
	}
}

func TestInverseOfTailTypesHasNoInverse(t *testing.T) {
	if _, ok := InverseOf(model.RelationSynsetToSynset, "also"); ok {
		t.Error("also has no defined inverse in the synset space")
	}
	if _, ok := InverseOf(model.RelationSenseToSynset, "domain_topic"); ok {
		t.Error("the sense-to-synset space never defines an inverse")
	}
}

func TestIsSymmetric(t *testing.T) {
	if !IsSymmetric(model.RelationSynsetToSynset, "antonym") {
		t.Error("antonym should be symmetric in the synset space")
	}
	if IsSymmetric(model.RelationSynsetToSynset, "hypernym") {
		t.Error("hypernym is paired, not symmetric")
	}
	inv, ok := InverseOf(model.RelationSynsetToSynset, "antonym")
	if !ok || inv != "antonym" {
		t.Errorf("a symmetric type's inverse should be itself, got %q ok=%v", inv, ok)
	}
}

func TestTypesNonEmptyPerSpace(t *testing.T) {
	for _, space := range []model.RelationSpace{
		model.RelationSynsetToSynset, model.RelationSenseToSense, model.RelationSenseToSynset,
	} {
		if len(Types(space)) == 0 {
			t.Errorf("expected a non-empty type catalogue for space %v", space)
		}
	}
}
