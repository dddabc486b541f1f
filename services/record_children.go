package services

import (
	"errors"
	"fmt"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
	"gorm.io/gorm"
)

// Operations on the child rows of a published record. Additions need
// edit permission on one of the record's panels; removals of
// vocabulary-linked children are restricted to superusers. Every
// mutation appends history and refreshes the record's review date.

// AddPanel links the record to another curation panel. The actor must
// hold edit permission on the panel being added, not just on one the
// record already has.
func (s *RecordService) AddPanel(actor *models.User, stableID, panelName string) error {
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	panel, err := s.resolvePanel(panelName)
	if err != nil {
		return err
	}
	if !actor.HasPanelPermission(panel.ID, permissions.RecordEdit) {
		return NewAuthorizationError("No permission to update panel '%s'", panel.Name)
	}

	var link models.LGDPanel
	err = s.db.Where("lgd_id = ? AND panel_id = ?", lgd.ID, panel.ID).First(&link).Error
	if err == nil && link.IsDeleted == 0 {
		return NewConflictError("G2P entry %s is already linked to panel '%s'", stableID, panel.Name)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check panel link: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if link.ID != 0 {
			// the panel was removed earlier; revive the old link
			if err := tx.Model(&link).Update("is_deleted", 0).Error; err != nil {
				return fmt.Errorf("failed to restore panel link: %w", err)
			}
			if err := recordHistory(tx, kindPanel, panel.Name, &lgd.ID, actor.ID, models.ChangeUpdated); err != nil {
				return err
			}
		} else {
			created := models.LGDPanel{LGDID: lgd.ID, PanelID: panel.ID}
			if err := tx.Create(&created).Error; err != nil {
				return fmt.Errorf("failed to link panel %s: %w", panel.Name, err)
			}
			if err := recordHistory(tx, kindPanel, panel.Name, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemovePanel unlinks the record from a panel. A record must always
// belong to at least one panel, so removing the last one is refused.
func (s *RecordService) RemovePanel(actor *models.User, stableID, panelName string) error {
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	panel, err := s.resolvePanel(panelName)
	if err != nil {
		return err
	}
	if !actor.HasPanelPermission(panel.ID, permissions.RecordEdit) {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}

	var link models.LGDPanel
	err = s.db.Where("lgd_id = ? AND panel_id = ? AND is_deleted = 0", lgd.ID, panel.ID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Panel '%s' does not exist for ID '%s'", panel.Name, stableID)
		}
		return fmt.Errorf("failed to check panel link: %w", err)
	}

	var active int64
	err = s.db.Model(&models.LGDPanel{}).Where("lgd_id = ? AND is_deleted = 0", lgd.ID).Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count panels: %w", err)
	}
	if active <= 1 {
		return NewValidationError("Can not delete panel '%s' for ID '%s'", panel.Name, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&link).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove panel link: %w", err)
		}
		if err := recordHistory(tx, kindPanel, panel.Name, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// PublicationInput carries a publication link with its reported family
// data
type PublicationInput struct {
	PMID                int64   `json:"pmid"`
	Comment             string  `json:"comment"`
	Families            *int    `json:"families"`
	Consanguinity       *string `json:"consanguinity"`
	Ancestries          *string `json:"ancestries"`
	AffectedIndividuals *int    `json:"affected_individuals"`
}

// AddPublications links further papers to the record
func (s *RecordService) AddPublications(actor *models.User, stableID string, inputs []PublicationInput) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txRef := repository.NewGormReferenceRepository(tx)
		for _, input := range inputs {
			publication, err := txRef.GetOrCreatePublication(input.PMID)
			if err != nil {
				return err
			}

			var link models.LGDPublication
			err = tx.Where("lgd_id = ? AND publication_id = ?", lgd.ID, publication.ID).First(&link).Error
			if err == nil && link.IsDeleted == 0 {
				return NewConflictError("G2P entry %s is already linked to publication '%d'", stableID, input.PMID)
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check publication link: %w", err)
			}

			if link.ID != 0 {
				updates := map[string]interface{}{
					"is_deleted":           0,
					"families":             input.Families,
					"consanguinity":        input.Consanguinity,
					"ancestries":           input.Ancestries,
					"affected_individuals": input.AffectedIndividuals,
				}
				if input.Comment != "" {
					updates["comment"] = input.Comment
				}
				if err := tx.Model(&link).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to restore publication link: %w", err)
				}
				if err := recordHistory(tx, kindPublication, fmt.Sprint(input.PMID), &lgd.ID, actor.ID, models.ChangeUpdated); err != nil {
					return err
				}
				continue
			}

			created := models.LGDPublication{
				LGDID:               lgd.ID,
				PublicationID:       publication.ID,
				Families:            input.Families,
				Consanguinity:       input.Consanguinity,
				Ancestries:          input.Ancestries,
				AffectedIndividuals: input.AffectedIndividuals,
			}
			if input.Comment != "" {
				comment := input.Comment
				created.Comment = &comment
			}
			if err := tx.Create(&created).Error; err != nil {
				return fmt.Errorf("failed to link publication %d: %w", input.PMID, err)
			}
			if err := recordHistory(tx, kindPublication, fmt.Sprint(input.PMID), &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemovePublication unlinks a paper. The record keeps its last
// publication: a published record without evidence is not allowed.
func (s *RecordService) RemovePublication(actor *models.User, stableID string, pmid int64) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	publication, err := s.refRepo.GetPublicationByPMID(pmid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Invalid publication '%d'", pmid)
		}
		return fmt.Errorf("failed to look up publication %d: %w", pmid, err)
	}

	var link models.LGDPublication
	err = s.db.Where("lgd_id = ? AND publication_id = ? AND is_deleted = 0", lgd.ID, publication.ID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Publication '%d' does not exist for ID '%s'", pmid, stableID)
		}
		return fmt.Errorf("failed to check publication link: %w", err)
	}

	count, err := s.lgdRepo.CountActivePublications(lgd.ID)
	if err != nil {
		return fmt.Errorf("failed to count publications: %w", err)
	}
	if count <= 1 {
		return NewValidationError("Can not delete publication '%d' for ID '%s'", pmid, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&link).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove publication link: %w", err)
		}
		if err := recordHistory(tx, kindPublication, fmt.Sprint(pmid), &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// PhenotypeInput links an HPO accession, optionally tied to a paper
type PhenotypeInput struct {
	Accession string `json:"accession"`
	PMID      int64  `json:"pmid"`
}

// AddPhenotypes links HPO terms to the record
func (s *RecordService) AddPhenotypes(actor *models.User, stableID string, inputs []PhenotypeInput) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txRef := repository.NewGormReferenceRepository(tx)
		for _, input := range inputs {
			term, err := txRef.GetOntologyTerm(input.Accession, models.OntologyGroupPhenotype)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewNotFoundError("Cannot find phenotype for accession '%s'", input.Accession)
				}
				return fmt.Errorf("failed to look up phenotype %s: %w", input.Accession, err)
			}

			var count int64
			err = tx.Model(&models.LGDPhenotype{}).
				Where("lgd_id = ? AND phenotype_id = ? AND is_deleted = 0", lgd.ID, term.ID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("failed to check phenotype link: %w", err)
			}
			if count > 0 {
				return NewConflictError("G2P entry %s is already linked to phenotype '%s'", stableID, input.Accession)
			}

			link := models.LGDPhenotype{LGDID: lgd.ID, PhenotypeID: term.ID}
			if input.PMID != 0 {
				publication, err := txRef.GetOrCreatePublication(input.PMID)
				if err != nil {
					return err
				}
				link.PublicationID = &publication.ID
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link phenotype %s: %w", input.Accession, err)
			}
			if err := recordHistory(tx, kindPhenotype, input.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemovePhenotype unlinks an HPO term. Vocabulary-linked children can
// only be removed by superusers.
func (s *RecordService) RemovePhenotype(actor *models.User, stableID, accession string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	term, err := s.refRepo.GetOntologyTerm(accession, models.OntologyGroupPhenotype)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Cannot find phenotype for accession '%s'", accession)
		}
		return fmt.Errorf("failed to look up phenotype %s: %w", accession, err)
	}

	var ids []uint
	err = s.db.Model(&models.LGDPhenotype{}).
		Where("lgd_id = ? AND phenotype_id = ? AND is_deleted = 0", lgd.ID, term.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check phenotype link: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Phenotype '%s' does not exist for ID '%s'", accession, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDPhenotype{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove phenotype link: %w", err)
		}
		if err := recordHistory(tx, kindPhenotype, accession, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// AddPhenotypeSummary attaches a free-text phenotype summary
func (s *RecordService) AddPhenotypeSummary(actor *models.User, stableID, summary string, pmid int64) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}
	if summary == "" {
		return NewValidationError("Phenotype summary is required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		row := models.LGDPhenotypeSummary{LGDID: lgd.ID, Summary: summary}
		if pmid != 0 {
			publication, err := repository.NewGormReferenceRepository(tx).GetOrCreatePublication(pmid)
			if err != nil {
				return err
			}
			row.PublicationID = &publication.ID
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create phenotype summary: %w", err)
		}
		if err := recordHistory(tx, kindPhenotypeSummary, summary, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemovePhenotypeSummary drops the record's phenotype summary rows
func (s *RecordService) RemovePhenotypeSummary(actor *models.User, stableID string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}

	var ids []uint
	err = s.db.Model(&models.LGDPhenotypeSummary{}).
		Where("lgd_id = ? AND is_deleted = 0", lgd.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check phenotype summary: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Phenotype summary is not associated with '%s'", stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDPhenotypeSummary{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove phenotype summary: %w", err)
		}
		if err := recordHistory(tx, kindPhenotypeSummary, stableID, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// VariantTypeInput links a Sequence Ontology variant type with its
// inheritance flags and supporting papers
type VariantTypeInput struct {
	Term               string  `json:"secondary_type"`
	Comment            string  `json:"comment"`
	Inherited          *bool   `json:"inherited"`
	DeNovo             *bool   `json:"de_novo"`
	UnknownInheritance *bool   `json:"unknown_inheritance"`
	SupportingPapers   []int64 `json:"supporting_papers"`
}

// AddVariantTypes links Sequence Ontology variant types to the record,
// one row per supporting paper
func (s *RecordService) AddVariantTypes(actor *models.User, stableID string, inputs []VariantTypeInput) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txRef := repository.NewGormReferenceRepository(tx)
		for _, input := range inputs {
			term, err := txRef.GetOntologyTermByName(ontologyTermName(input.Term), models.OntologyGroupVariantType)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("Invalid variant type '%s'", input.Term)
				}
				return fmt.Errorf("failed to look up variant type: %w", err)
			}

			papers := input.SupportingPapers
			if len(papers) == 0 {
				papers = []int64{0}
			}
			var firstRowID uint
			for _, pmid := range papers {
				row := models.LGDVariantType{
					LGDID:              lgd.ID,
					VariantTypeOTID:    term.ID,
					Inherited:          input.Inherited,
					DeNovo:             input.DeNovo,
					UnknownInheritance: input.UnknownInheritance,
				}
				if pmid != 0 {
					publication, err := txRef.GetOrCreatePublication(pmid)
					if err != nil {
						return err
					}
					row.PublicationID = &publication.ID
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to link variant type %s: %w", term.Term, err)
				}
				if firstRowID == 0 {
					firstRowID = row.ID
				}
				if err := recordHistory(tx, kindVariantType, term.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
					return err
				}
			}
			if input.Comment != "" {
				comment := models.LGDVariantTypeComment{
					LGDVariantTypeID: firstRowID,
					Comment:          input.Comment,
					UserID:           actor.ID,
				}
				if err := tx.Create(&comment).Error; err != nil {
					return fmt.Errorf("failed to create variant type comment: %w", err)
				}
				if err := recordHistory(tx, kindVariantTypeComment, term.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
					return err
				}
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemoveVariantType unlinks a variant type by accession, together with
// its comments. Superuser only.
func (s *RecordService) RemoveVariantType(actor *models.User, stableID, accession string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	term, err := s.refRepo.GetOntologyTerm(accession, models.OntologyGroupVariantType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Invalid variant type '%s'", accession)
		}
		return fmt.Errorf("failed to look up variant type %s: %w", accession, err)
	}

	var ids []uint
	err = s.db.Model(&models.LGDVariantType{}).
		Where("lgd_id = ? AND variant_type_ot_id = ? AND is_deleted = 0", lgd.ID, term.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check variant type link: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Variant type '%s' does not exist for ID '%s'", accession, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDVariantType{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove variant type link: %w", err)
		}
		if err := recordHistory(tx, kindVariantType, accession, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		if err := cascadeSoftDelete(tx, kindVariantType, ids, lgd.ID, actor.ID); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// VariantDescriptionInput is a variant HGVS description tied to a paper
type VariantDescriptionInput struct {
	Description string `json:"description"`
	PMID        int64  `json:"pmid"`
}

// AddVariantDescriptions attaches HGVS descriptions to the record
func (s *RecordService) AddVariantDescriptions(actor *models.User, stableID string, inputs []VariantDescriptionInput) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txRef := repository.NewGormReferenceRepository(tx)
		for _, input := range inputs {
			if input.Description == "" {
				return NewValidationError("Variant description is required")
			}
			row := models.LGDVariantTypeDescription{LGDID: lgd.ID, Description: input.Description}
			if input.PMID != 0 {
				publication, err := txRef.GetOrCreatePublication(input.PMID)
				if err != nil {
					return err
				}
				row.PublicationID = &publication.ID
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create variant description: %w", err)
			}
			if err := recordHistory(tx, kindVariantDescription, input.Description, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemoveVariantDescription drops matching HGVS description rows.
// Superuser only.
func (s *RecordService) RemoveVariantDescription(actor *models.User, stableID, description string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}

	var ids []uint
	err = s.db.Model(&models.LGDVariantTypeDescription{}).
		Where("lgd_id = ? AND description = ? AND is_deleted = 0", lgd.ID, description).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check variant description: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Variant description '%s' does not exist for ID '%s'", description, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDVariantTypeDescription{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove variant description: %w", err)
		}
		if err := recordHistory(tx, kindVariantDescription, description, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// VariantConsequenceInput links a GenCC variant consequence with its
// support level
type VariantConsequenceInput struct {
	VariantConsequence string `json:"variant_consequence"`
	Support            string `json:"support"`
}

// AddVariantConsequences links GenCC-level variant consequences
func (s *RecordService) AddVariantConsequences(actor *models.User, stableID string, inputs []VariantConsequenceInput) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		txRef := repository.NewGormReferenceRepository(tx)
		for _, input := range inputs {
			term, err := txRef.GetOntologyTermByName(ontologyTermName(input.VariantConsequence), models.OntologyGroupVariantType)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("Invalid variant consequence '%s'", input.VariantConsequence)
				}
				return fmt.Errorf("failed to look up variant consequence: %w", err)
			}
			support, err := txRef.GetAttrib("support", input.Support)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError("Invalid support value '%s'", input.Support)
				}
				return fmt.Errorf("failed to look up consequence support: %w", err)
			}

			var count int64
			err = tx.Model(&models.LGDVariantGenccConsequence{}).
				Where("lgd_id = ? AND variant_consequence_id = ? AND is_deleted = 0", lgd.ID, term.ID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("failed to check variant consequence link: %w", err)
			}
			if count > 0 {
				return NewConflictError("G2P entry %s is already linked to variant consequence '%s'", stableID, input.VariantConsequence)
			}

			row := models.LGDVariantGenccConsequence{
				LGDID:                lgd.ID,
				VariantConsequenceID: term.ID,
				SupportID:            support.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to link variant consequence %s: %w", term.Term, err)
			}
			if err := recordHistory(tx, kindVariantConsequence, term.Term, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemoveVariantConsequence unlinks a GenCC consequence by term name.
// Superuser only.
func (s *RecordService) RemoveVariantConsequence(actor *models.User, stableID, termName string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	term, err := s.refRepo.GetOntologyTermByName(ontologyTermName(termName), models.OntologyGroupVariantType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("Invalid variant consequence '%s'", termName)
		}
		return fmt.Errorf("failed to look up variant consequence: %w", err)
	}

	var ids []uint
	err = s.db.Model(&models.LGDVariantGenccConsequence{}).
		Where("lgd_id = ? AND variant_consequence_id = ? AND is_deleted = 0", lgd.ID, term.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check variant consequence link: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Variant consequence '%s' does not exist for ID '%s'", termName, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDVariantGenccConsequence{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove variant consequence link: %w", err)
		}
		if err := recordHistory(tx, kindVariantConsequence, term.Term, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// AddCrossCuttingModifier links a cross-cutting modifier qualifier
func (s *RecordService) AddCrossCuttingModifier(actor *models.User, stableID, value string) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}
	ccm, err := s.refRepo.GetAttrib("cross_cutting_modifier", value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("Invalid cross cutting modifier '%s'", value)
		}
		return fmt.Errorf("failed to look up cross cutting modifier: %w", err)
	}

	var count int64
	err = s.db.Model(&models.LGDCrossCuttingModifier{}).
		Where("lgd_id = ? AND ccm_id = ? AND is_deleted = 0", lgd.ID, ccm.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check cross cutting modifier link: %w", err)
	}
	if count > 0 {
		return NewConflictError("G2P entry %s is already linked to cross cutting modifier '%s'", stableID, value)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		row := models.LGDCrossCuttingModifier{LGDID: lgd.ID, CCMID: ccm.ID}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to link cross cutting modifier %s: %w", value, err)
		}
		if err := recordHistory(tx, kindCrossCutting, value, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// RemoveCrossCuttingModifier unlinks a qualifier. Superuser only.
func (s *RecordService) RemoveCrossCuttingModifier(actor *models.User, stableID, value string) error {
	if !actor.IsSuperuser {
		return NewAuthorizationError("No permission to update record '%s'", stableID)
	}
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return err
	}
	ccm, err := s.refRepo.GetAttrib("cross_cutting_modifier", value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("Invalid cross cutting modifier '%s'", value)
		}
		return fmt.Errorf("failed to look up cross cutting modifier: %w", err)
	}

	var ids []uint
	err = s.db.Model(&models.LGDCrossCuttingModifier{}).
		Where("lgd_id = ? AND ccm_id = ? AND is_deleted = 0", lgd.ID, ccm.ID).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to check cross cutting modifier link: %w", err)
	}
	if len(ids) == 0 {
		return NewNotFoundError("Cross cutting modifier '%s' does not exist for ID '%s'", value, stableID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LGDCrossCuttingModifier{}).Where("id IN ?", ids).Update("is_deleted", 1).Error; err != nil {
			return fmt.Errorf("failed to remove cross cutting modifier link: %w", err)
		}
		if err := recordHistory(tx, kindCrossCutting, value, &lgd.ID, actor.ID, models.ChangeDeleted); err != nil {
			return err
		}
		return repository.NewGormLGDRepository(tx).Touch(lgd.ID)
	})
}

// AddComment attaches a curator comment to the record
func (s *RecordService) AddComment(actor *models.User, stableID, comment string, isPublic bool) error {
	lgd, err := s.editableRecord(actor, stableID, permissions.RecordEdit)
	if err != nil {
		return err
	}
	if comment == "" {
		return NewValidationError("Comment is required")
	}

	public := 0
	if isPublic {
		public = 1
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		row := models.LGDComment{LGDID: lgd.ID, Comment: comment, IsPublic: public, UserID: actor.ID}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return recordHistory(tx, kindComment, "", &lgd.ID, actor.ID, models.ChangeCreated)
	})
}

// History returns the audit trail of a record
func (s *RecordService) History(stableID string) ([]models.HistoryEntry, error) {
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.ListByLGD(lgd.ID)
}
