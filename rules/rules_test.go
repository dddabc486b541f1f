package rules

import "testing"

func TestMechanismSynopsisCompatible(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		synopsis  string
		want      bool
	}{
		{"undetermined rejects any synopsis", "undetermined", "destabilising LOF", false},
		{"undetermined non-LOF rejects any synopsis", "undetermined non-loss-of-function", "aggregation", false},
		{"LOF mechanism with LOF synopsis", "loss of function", "destabilising LOF", true},
		{"LOF mechanism with interaction-disrupting LOF", "loss of function", "interaction-disrupting LOF", true},
		{"LOF mechanism without LOF tag", "loss of function", "aggregation", false},
		{"LOF mechanism with GOF synopsis", "loss of function", "assembly-mediated GOF", false},
		{"dominant negative hyphenated", "dominant negative", "dominant-negative", true},
		{"dominant negative spaced", "dominant negative", "local dominant negative effect", true},
		{"dominant negative mismatch", "dominant negative", "destabilising LOF", false},
		{"GOF mechanism with GOF synopsis", "gain of function", "assembly-mediated GOF", true},
		{"GOF mechanism with aggregation", "gain of function", "aggregation", true},
		{"GOF mechanism mismatch", "gain of function", "destabilising LOF", false},
		{"other mechanisms are permissive", "altered gene dosage", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MechanismSynopsisCompatible(tt.mechanism, tt.synopsis); got != tt.want {
				t.Errorf("MechanismSynopsisCompatible(%q, %q) = %v, want %v",
					tt.mechanism, tt.synopsis, got, tt.want)
			}
		})
	}
}

func TestMechanismSynopsesCompatible(t *testing.T) {
	if !MechanismSynopsesCompatible("loss of function", []string{"destabilising LOF", "interaction-disrupting LOF"}) {
		t.Error("expected two LOF synopses to be compatible with loss of function")
	}
	// one bad entry fails the whole set
	if MechanismSynopsesCompatible("loss of function", []string{"destabilising LOF", "aggregation"}) {
		t.Error("expected a non-LOF entry to fail the whole set")
	}
	if !MechanismSynopsesCompatible("gain of function", nil) {
		t.Error("an empty synopsis list is always compatible")
	}
}

func TestConfidencePublicationsSufficient(t *testing.T) {
	tests := []struct {
		confidence string
		pubs       int
		want       bool
	}{
		{"definitive", 1, false},
		{"definitive", 2, true},
		{"strong", 1, false},
		{"strong", 3, true},
		{"limited", 1, true},
		{"disputed", 1, true},
		{"moderate", 1, true},
	}

	for _, tt := range tests {
		if got := ConfidencePublicationsSufficient(tt.confidence, tt.pubs); got != tt.want {
			t.Errorf("ConfidencePublicationsSufficient(%q, %d) = %v, want %v",
				tt.confidence, tt.pubs, got, tt.want)
		}
	}
}

func TestGenotypeValidForLocus(t *testing.T) {
	tests := []struct {
		genotype   string
		chromosome string
		want       bool
	}{
		{"biallelic_autosomal", "7", true},
		{"biallelic_autosomal", "Y", false},
		{"monoallelic_autosomal", "X", false},
		{"mitochondrial", "MT", true},
		{"mitochondrial", "1", false},
		{"monoallelic_PAR", "X", true},
		{"monoallelic_PAR", "Y", true},
		{"monoallelic_PAR", "12", false},
		{"monoallelic_X_hemizygous", "X", true},
		{"monoallelic_X_heterozygous", "2", false},
		{"monoallelic_Y_hemizygous", "Y", true},
		{"monoallelic_Y_hemizygous", "X", false},
	}

	for _, tt := range tests {
		if got := GenotypeValidForLocus(tt.genotype, tt.chromosome); got != tt.want {
			t.Errorf("GenotypeValidForLocus(%q, %q) = %v, want %v",
				tt.genotype, tt.chromosome, got, tt.want)
		}
	}
}
