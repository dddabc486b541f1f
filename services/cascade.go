package services

import (
	"fmt"
	"strconv"

	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

// Entity kinds used in the audit history and the delete cascade
const (
	kindRecord             = "record"
	kindPanel              = "lgd_panel"
	kindPublication        = "lgd_publication"
	kindPhenotype          = "lgd_phenotype"
	kindPhenotypeSummary   = "lgd_phenotype_summary"
	kindVariantType        = "lgd_variant_type"
	kindVariantTypeComment = "lgd_variant_type_comment"
	kindVariantDescription = "lgd_variant_type_description"
	kindVariantConsequence = "lgd_variant_consequence"
	kindCrossCutting       = "lgd_cross_cutting_modifier"
	kindMechanismSynopsis  = "lgd_mechanism_synopsis"
	kindMechanismEvidence  = "lgd_mechanism_evidence"
	kindComment            = "lgd_comment"
)

type cascadeEntry struct {
	kind     string
	model    interface{}
	fkColumn string
}

// cascadeChildren declares, per entity kind, which child tables a soft
// delete propagates into. Deleting a record walks every entry under
// kindRecord; kinds that own children of their own (variant types and
// their comments) recurse a level deeper.
var cascadeChildren = map[string][]cascadeEntry{
	kindRecord: {
		{kindPanel, &models.LGDPanel{}, "lgd_id"},
		{kindPublication, &models.LGDPublication{}, "lgd_id"},
		{kindPhenotype, &models.LGDPhenotype{}, "lgd_id"},
		{kindPhenotypeSummary, &models.LGDPhenotypeSummary{}, "lgd_id"},
		{kindVariantType, &models.LGDVariantType{}, "lgd_id"},
		{kindVariantDescription, &models.LGDVariantTypeDescription{}, "lgd_id"},
		{kindVariantConsequence, &models.LGDVariantGenccConsequence{}, "lgd_id"},
		{kindCrossCutting, &models.LGDCrossCuttingModifier{}, "lgd_id"},
		{kindMechanismSynopsis, &models.LGDMechanismSynopsis{}, "lgd_id"},
		{kindMechanismEvidence, &models.LGDMechanismEvidence{}, "lgd_id"},
		{kindComment, &models.LGDComment{}, "lgd_id"},
	},
	kindVariantType: {
		{kindVariantTypeComment, &models.LGDVariantTypeComment{}, "lgd_variant_type_id"},
	},
}

// cascadeSoftDelete soft-deletes every active child row under the given
// parents and appends one audit entry per deleted row. The walk is
// driven entirely by the cascadeChildren table.
func cascadeSoftDelete(tx *gorm.DB, kind string, parentIDs []uint, lgdID, userID uint) error {
	if len(parentIDs) == 0 {
		return nil
	}
	for _, entry := range cascadeChildren[kind] {
		var ids []uint
		err := tx.Model(entry.model).
			Where(entry.fkColumn+" IN ?", parentIDs).
			Where("is_deleted = 0").
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to collect %s rows for cascade: %w", entry.kind, err)
		}
		if len(ids) == 0 {
			continue
		}

		err = tx.Model(entry.model).Where("id IN ?", ids).Update("is_deleted", 1).Error
		if err != nil {
			return fmt.Errorf("failed to cascade delete %s rows: %w", entry.kind, err)
		}

		for _, id := range ids {
			entryRow := models.HistoryEntry{
				EntityKind: entry.kind,
				EntityKey:  strconv.FormatUint(uint64(id), 10),
				LGDID:      &lgdID,
				UserID:     userID,
				ChangeType: models.ChangeDeleted,
			}
			if err := tx.Create(&entryRow).Error; err != nil {
				return fmt.Errorf("failed to record cascade delete of %s: %w", entry.kind, err)
			}
		}

		if err := cascadeSoftDelete(tx, entry.kind, ids, lgdID, userID); err != nil {
			return err
		}
	}
	return nil
}
