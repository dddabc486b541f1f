package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/gene2phenotype/g2pbackend/rules"
	"gorm.io/gorm"
)

// Delete soft-deletes a record and every child row under it. The actor
// needs delete permission on every panel the record belongs to, since
// the delete takes the record away from all of them.
func (s *RecordService) Delete(actor *models.User, stableID string) error {
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	panels, err := s.lgdRepo.ActivePanels(lgd.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch panels for %s: %w", stableID, err)
	}
	// a record with no panels has nobody to grant panel permissions
	if len(panels) == 0 && !actor.IsSuperuser {
		return NewAuthorizationError("No permission to delete '%s'", stableID)
	}
	for _, link := range panels {
		if !actor.HasPanelPermission(link.PanelID, permissions.RecordDelete) {
			return NewAuthorizationError("No permission to delete '%s'", stableID)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := cascadeSoftDelete(tx, kindRecord, []uint{lgd.ID}, lgd.ID, actor.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgd.ID).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to delete record %s: %w", stableID, err)
		}
		if err := recordHistory(tx, kindRecord, stableID, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormStableIDRepository(tx).Retire(lgd.StableIDID, "Record deleted")
	})
}

// MergeRequest asks for one or more records to be folded into a final
// record that survives the merge
type MergeRequest struct {
	FinalStableID string   `json:"final_g2p_id"`
	StableIDs     []string `json:"g2p_ids"`
}

// MergeResult reports, per batch, which records were merged and which
// pairs failed. A failed pair never rolls back a successful one.
type MergeResult struct {
	Merged []string `json:"merged"`
	Errors []string `json:"errors,omitempty"`
}

// mergeTables lists the child tables to re-parent during a merge. Rows
// whose dedup column already exists on the target are dropped instead
// of moved; tables without a dedup column always move.
var mergeTables = []struct {
	kind        string
	model       interface{}
	dedupColumn string
}{
	{kindPanel, &models.LGDPanel{}, "panel_id"},
	{kindPublication, &models.LGDPublication{}, "publication_id"},
	{kindPhenotype, &models.LGDPhenotype{}, "phenotype_id"},
	{kindPhenotypeSummary, &models.LGDPhenotypeSummary{}, ""},
	{kindVariantType, &models.LGDVariantType{}, ""},
	{kindVariantDescription, &models.LGDVariantTypeDescription{}, ""},
	{kindVariantConsequence, &models.LGDVariantGenccConsequence{}, "variant_consequence_id"},
	{kindCrossCutting, &models.LGDCrossCuttingModifier{}, "ccm_id"},
	{kindMechanismSynopsis, &models.LGDMechanismSynopsis{}, "synopsis_id"},
	{kindMechanismEvidence, &models.LGDMechanismEvidence{}, "evidence_id"},
	{kindComment, &models.LGDComment{}, ""},
}

// Merge folds duplicate records into their surviving target. Each
// source/target pair runs in its own transaction so one bad pair does
// not undo the rest of the batch.
func (s *RecordService) Merge(actor *models.User, requests []MergeRequest) *MergeResult {
	result := &MergeResult{}

	for _, req := range requests {
		target, err := s.getRecord(req.FinalStableID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid G2P record %s", req.FinalStableID))
			continue
		}

		if !actor.IsSuperuser {
			panels, err := s.lgdRepo.ActivePanels(target.ID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Failed to merge into %s", req.FinalStableID))
				continue
			}
			allowed := false
			for _, link := range panels {
				if actor.HasPanelPermission(link.PanelID, permissions.RecordMerge) {
					allowed = true
					break
				}
			}
			if !allowed {
				result.Errors = append(result.Errors, fmt.Sprintf("No permission to merge records into %s", req.FinalStableID))
				continue
			}
		}

		for _, sourceID := range req.StableIDs {
			if sourceID == req.FinalStableID {
				result.Errors = append(result.Errors, fmt.Sprintf("Cannot merge record %s into itself", sourceID))
				continue
			}
			source, err := s.getRecord(sourceID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid G2P record %s", sourceID))
				continue
			}
			if source.LocusID != target.LocusID {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Cannot merge records %s and %s with different genes", sourceID, req.FinalStableID))
				continue
			}

			err = s.db.Transaction(func(tx *gorm.DB) error {
				return s.mergeOne(tx, actor, source, target, req.FinalStableID)
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Failed to merge %s into %s", sourceID, req.FinalStableID))
				continue
			}
			result.Merged = append(result.Merged, sourceID)
		}
	}
	return result
}

// mergeOne re-parents the source's children onto the target, deduping
// against what the target already has, then retires the source
func (s *RecordService) mergeOne(tx *gorm.DB, actor *models.User, source, target *models.LocusGenotypeDisease, finalStableID string) error {
	for _, table := range mergeTables {
		var rows []map[string]interface{}
		err := tx.Model(table.model).
			Where("lgd_id = ? AND is_deleted = 0", source.ID).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to fetch %s rows for merge: %w", table.kind, err)
		}

		for _, row := range rows {
			rowID := row["id"]
			duplicate := false
			if table.dedupColumn != "" {
				var count int64
				err := tx.Model(table.model).
					Where("lgd_id = ? AND is_deleted = 0", target.ID).
					Where(table.dedupColumn+" = ?", row[table.dedupColumn]).
					Count(&count).Error
				if err != nil {
					return fmt.Errorf("failed to check target %s rows: %w", table.kind, err)
				}
				duplicate = count > 0
			}

			if duplicate {
				err = tx.Model(table.model).Where("id = ?", rowID).Update("is_deleted", 1).Error
				if err != nil {
					return fmt.Errorf("failed to drop duplicate %s row: %w", table.kind, err)
				}
				if err := recordHistory(tx, table.kind, fmt.Sprint(rowID), &source.ID, actor.ID, models.ChangeDeleted); err != nil {
					return err
				}
			} else {
				err = tx.Model(table.model).Where("id = ?", rowID).Update("lgd_id", target.ID).Error
				if err != nil {
					return fmt.Errorf("failed to move %s row: %w", table.kind, err)
				}
				if err := recordHistory(tx, table.kind, fmt.Sprint(rowID), &target.ID, actor.ID, models.ChangeUpdated); err != nil {
					return err
				}
			}
		}
	}

	err := tx.Model(&models.LocusGenotypeDisease{}).Where("id = ?", source.ID).Update("is_deleted", 1).Error
	if err != nil {
		return fmt.Errorf("failed to delete merged record: %w", err)
	}
	if err := recordHistory(tx, kindRecord, source.StableID.StableID, &source.ID, actor.ID, models.ChangeDeleted); err != nil {
		return err
	}
	if err := recordHistory(tx, kindRecord, finalStableID, &target.ID, actor.ID, models.ChangeUpdated); err != nil {
		return err
	}
	return repository.NewGormStableIDRepository(tx).Retire(source.StableIDID,
		fmt.Sprintf("Merged into %s", finalStableID))
}

// UpdateConfidence changes the record's confidence value, enforcing the
// publication floor and rejecting no-op updates
func (s *RecordService) UpdateConfidence(actor *models.User, stableID, level, justification string) (*models.LocusGenotypeDisease, error) {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return nil, err
	}

	confidence, err := s.refRepo.GetAttrib("confidence_category", level)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid confidence value '%s'", level)
		}
		return nil, fmt.Errorf("failed to look up confidence: %w", err)
	}
	if lgd.ConfidenceID == confidence.ID {
		return nil, NewConflictError("G2P record '%s' already has confidence value '%s'", stableID, level)
	}

	count, err := s.lgdRepo.CountActivePublications(lgd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count publications for %s: %w", stableID, err)
	}
	if !rules.ConfidencePublicationsSufficient(confidence.Value, int(count)) {
		return nil, NewValidationError("Cannot assign confidence '%s' with only %d publication(s) as evidence",
			confidence.Value, count)
	}

	var support *string
	if justification != "" {
		support = &justification
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormLGDRepository(tx).UpdateConfidence(lgd.ID, confidence.ID, support); err != nil {
			return fmt.Errorf("failed to update confidence for %s: %w", stableID, err)
		}
		return recordHistory(tx, kindRecord, stableID, &lgd.ID, actor.ID, models.ChangeUpdated)
	})
	if err != nil {
		return nil, err
	}
	return s.getRecord(stableID)
}

// MechanismValue pairs a mechanism (or synopsis) name with its support
// level
type MechanismValue struct {
	Name    string `json:"name"`
	Support string `json:"support"`
}

// MechanismEvidenceInput is one evidence submission: a publication plus
// the evidence values observed in it
type MechanismEvidenceInput struct {
	PMID          int64               `json:"pmid"`
	Description   string              `json:"description"`
	EvidenceTypes []EvidenceTypeInput `json:"evidence_types"`
}

type EvidenceTypeInput struct {
	PrimaryType    string   `json:"primary_type"`
	SecondaryTypes []string `json:"secondary_type"`
}

// MechanismUpdate carries the parts of a mechanism edit; any of the
// three sections may be empty
type MechanismUpdate struct {
	Mechanism *MechanismValue          `json:"molecular_mechanism,omitempty"`
	Synopses  []MechanismValue         `json:"mechanism_synopsis,omitempty"`
	Evidence  []MechanismEvidenceInput `json:"mechanism_evidence,omitempty"`
}

// mechanismLocked reports whether the record's mechanism may no longer
// be changed. A mechanism is settable exactly while it is still the
// undetermined default with inferred support; once it has been set, or
// backed by evidence, it is final.
func mechanismLocked(lgd *models.LocusGenotypeDisease) bool {
	return lgd.Mechanism.Value != models.MechanismUndetermined ||
		lgd.MechanismSupport.Value != models.MechanismSupportInferred
}

// UpdateMechanism edits the record's molecular mechanism data. Changing
// the mechanism value itself is only allowed while the mechanism is
// still undetermined with inferred support; synopsis additions are
// validated against whichever mechanism ends up on the record.
func (s *RecordService) UpdateMechanism(actor *models.User, stableID string, update MechanismUpdate) (*models.LocusGenotypeDisease, error) {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return nil, err
	}

	mechanismName := lgd.Mechanism.Value
	var newMechanism *models.CVMolecularMechanism
	var newSupport *models.CVMolecularMechanism

	if update.Mechanism != nil && update.Mechanism.Name != "" {
		if mechanismLocked(lgd) {
			return nil, NewConflictError("Cannot update 'molecular mechanism' for ID '%s'", stableID)
		}
		newMechanism, err = s.refRepo.GetMechanism(models.MechanismTypeMechanism, update.Mechanism.Name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid molecular mechanism '%s'", update.Mechanism.Name)
			}
			return nil, fmt.Errorf("failed to look up mechanism: %w", err)
		}
		mechanismName = newMechanism.Value

		supportValue := update.Mechanism.Support
		if supportValue == "" {
			supportValue = models.MechanismSupportInferred
			if len(update.Evidence) > 0 {
				supportValue = models.MechanismSupportEvidence
			}
		}
		newSupport, err = s.refRepo.GetMechanism(models.MechanismTypeSupport, supportValue)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid mechanism support '%s'", supportValue)
			}
			return nil, fmt.Errorf("failed to look up mechanism support: %w", err)
		}
	} else if len(update.Evidence) > 0 && mechanismLocked(lgd) {
		return nil, NewConflictError("Cannot update 'molecular mechanism' for ID '%s'", stableID)
	}

	type resolvedSynopsis struct {
		synopsis *models.CVMolecularMechanism
		support  *models.CVMolecularMechanism
	}
	var synopses []resolvedSynopsis
	for _, syn := range update.Synopses {
		if syn.Name == "" {
			continue
		}
		if !rules.MechanismSynopsisCompatible(mechanismName, syn.Name) {
			return nil, NewValidationError("The categorisation '%s' is not compatible with the mechanism '%s'",
				syn.Name, mechanismName)
		}
		cvSynopsis, err := s.refRepo.GetMechanism(models.MechanismTypeSynopsis, syn.Name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid mechanism synopsis '%s'", syn.Name)
			}
			return nil, fmt.Errorf("failed to look up mechanism synopsis: %w", err)
		}
		supportValue := syn.Support
		if supportValue == "" {
			supportValue = models.MechanismSupportInferred
		}
		cvSupport, err := s.refRepo.GetMechanism(models.MechanismTypeSupport, supportValue)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid mechanism support '%s'", supportValue)
			}
			return nil, fmt.Errorf("failed to look up synopsis support: %w", err)
		}
		synopses = append(synopses, resolvedSynopsis{synopsis: cvSynopsis, support: cvSupport})
	}

	evidence, err := s.resolveEvidence(update.Evidence)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txLGD := repository.NewGormLGDRepository(tx)

		if newMechanism != nil {
			if err := txLGD.UpdateMechanism(lgd.ID, newMechanism.ID, newSupport.ID); err != nil {
				return fmt.Errorf("failed to update mechanism for %s: %w", stableID, err)
			}
		}

		for _, syn := range synopses {
			var existing models.LGDMechanismSynopsis
			err := tx.Where("lgd_id = ? AND synopsis_id = ? AND is_deleted = 0", lgd.ID, syn.synopsis.ID).
				First(&existing).Error
			if err == nil {
				err = tx.Model(&existing).Update("synopsis_support_id", syn.support.ID).Error
				if err != nil {
					return fmt.Errorf("failed to update mechanism synopsis: %w", err)
				}
				if err := recordHistory(tx, kindMechanismSynopsis, syn.synopsis.Value, &lgd.ID, actor.ID, models.ChangeUpdated); err != nil {
					return err
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check mechanism synopsis: %w", err)
			}
			row := models.LGDMechanismSynopsis{
				LGDID:             lgd.ID,
				SynopsisID:        syn.synopsis.ID,
				SynopsisSupportID: syn.support.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create mechanism synopsis: %w", err)
			}
			if err := recordHistory(tx, kindMechanismSynopsis, syn.synopsis.Value, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		if err := s.writeEvidence(tx, actor, lgd, evidence); err != nil {
			return err
		}
		if len(evidence) > 0 && newMechanism == nil {
			support, err := repository.NewGormReferenceRepository(tx).
				GetMechanism(models.MechanismTypeSupport, models.MechanismSupportEvidence)
			if err != nil {
				return fmt.Errorf("failed to look up evidence support: %w", err)
			}
			if err := txLGD.UpdateMechanism(lgd.ID, lgd.MechanismID, support.ID); err != nil {
				return fmt.Errorf("failed to update mechanism support for %s: %w", stableID, err)
			}
		}

		if err := recordHistory(tx, kindRecord, stableID, &lgd.ID, actor.ID, models.ChangeUpdated); err != nil {
			return err
		}
		return txLGD.Touch(lgd.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.getRecord(stableID)
}

type resolvedEvidenceRow struct {
	cv          *models.CVMolecularMechanism
	pmid        int64
	description string
}

func (s *RecordService) resolveEvidence(inputs []MechanismEvidenceInput) ([]resolvedEvidenceRow, error) {
	var evidence []resolvedEvidenceRow
	for _, ev := range inputs {
		for _, et := range ev.EvidenceTypes {
			subtype := strings.ToLower(strings.ReplaceAll(et.PrimaryType, " ", "_"))
			for _, secondary := range et.SecondaryTypes {
				cv, err := s.refRepo.GetMechanismEvidence(strings.ToLower(secondary), subtype)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, NewValidationError("Invalid mechanism evidence '%s'", secondary)
					}
					return nil, fmt.Errorf("failed to look up mechanism evidence: %w", err)
				}
				evidence = append(evidence, resolvedEvidenceRow{cv: cv, pmid: ev.PMID, description: ev.Description})
			}
		}
	}
	return evidence, nil
}

func (s *RecordService) writeEvidence(tx *gorm.DB, actor *models.User, lgd *models.LocusGenotypeDisease, evidence []resolvedEvidenceRow) error {
	txRef := repository.NewGormReferenceRepository(tx)
	for _, ev := range evidence {
		publication, err := txRef.GetOrCreatePublication(ev.pmid)
		if err != nil {
			return err
		}

		// evidence implies the paper supports the record
		var link models.LGDPublication
		err = tx.Where("lgd_id = ? AND publication_id = ?", lgd.ID, publication.ID).First(&link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			link = models.LGDPublication{LGDID: lgd.ID, PublicationID: publication.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link evidence publication %d: %w", ev.pmid, err)
			}
			if err := recordHistory(tx, kindPublication, fmt.Sprint(ev.pmid), &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		} else if err != nil {
			return fmt.Errorf("failed to check evidence publication: %w", err)
		}

		row := models.LGDMechanismEvidence{
			LGDID:         lgd.ID,
			EvidenceID:    ev.cv.ID,
			PublicationID: publication.ID,
			Description:   ev.description,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create mechanism evidence: %w", err)
		}
		if err := recordHistory(tx, kindMechanismEvidence, ev.cv.Value, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
			return err
		}
	}
	return nil
}
