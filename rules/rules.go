// Package rules holds the pure validation rules for G2P records. The
// functions take already-fetched values and never touch the database so
// they can be exercised directly by callers and tests.
package rules

import (
	"regexp"
	"strings"
)

var dominantNegativeRe = regexp.MustCompile(`dominant[-\s]+negative`)

// MechanismSynopsisCompatible reports whether a mechanism synopsis
// (categorisation) is a valid sub-type of the given molecular mechanism.
//
// The synopsis is a more specific type of mechanism, so the two have to
// match:
//   - "undetermined" and "undetermined non-loss-of-function" cannot have
//     a synopsis at all
//   - "loss of function" implies the synopsis is also LOF
//   - "dominant negative" implies the synopsis is also DN
//   - "gain of function" implies the synopsis is GOF or aggregation
//
// Any other mechanism value accepts any synopsis.
func MechanismSynopsisCompatible(mechanism, synopsis string) bool {
	switch {
	case mechanism == "undetermined" || mechanism == "undetermined non-loss-of-function":
		return false
	case mechanism == "loss of function" && !strings.Contains(synopsis, "LOF"):
		return false
	case mechanism == "dominant negative" && !dominantNegativeRe.MatchString(synopsis):
		return false
	case mechanism == "gain of function" && !strings.Contains(synopsis, "GOF") &&
		!strings.Contains(synopsis, "aggregation"):
		return false
	}
	return true
}

// MechanismSynopsesCompatible checks every synopsis in the list against
// the mechanism; all entries must independently satisfy the rule.
func MechanismSynopsesCompatible(mechanism string, synopses []string) bool {
	for _, synopsis := range synopses {
		if !MechanismSynopsisCompatible(mechanism, synopsis) {
			return false
		}
	}
	return true
}

// ConfidencePublicationsSufficient reports whether the number of
// supporting publications is enough for the confidence value.
// "definitive" and "strong" require at least two publications; the
// non-empty floor for every other confidence is enforced by the record
// itself (a record cannot have zero publications).
func ConfidencePublicationsSufficient(confidence string, numberPublications int) bool {
	if (confidence == "definitive" || confidence == "strong") && numberPublications < 2 {
		return false
	}
	return true
}

// GenotypeValidForLocus reports whether an allelic requirement (genotype)
// is possible for a locus on the given chromosome:
//   - autosomal genotypes need a numeric chromosome
//   - mitochondrial needs MT
//   - pseudoautosomal (_PAR) genotypes need X or Y
//   - X-linked (_X) genotypes need X
//   - Y-linked (_Y) genotypes need Y
func GenotypeValidForLocus(genotype, chromosome string) bool {
	isAutosome := chromosome != "" && strings.IndexFunc(chromosome, func(r rune) bool {
		return r < '0' || r > '9'
	}) == -1

	switch {
	case strings.Contains(genotype, "autosomal") && !isAutosome:
		return false
	case genotype == "mitochondrial" && chromosome != "MT":
		return false
	case strings.Contains(genotype, "_PAR") && chromosome != "X" && chromosome != "Y":
		return false
	case strings.Contains(genotype, "_X") && chromosome != "X":
		return false
	case strings.Contains(genotype, "_Y") && chromosome != "Y":
		return false
	}
	return true
}
