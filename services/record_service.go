package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/gene2phenotype/g2pbackend/rules"
	"gorm.io/gorm"
)

// RecordService coordinates the lifecycle of published G2P records:
// publishing drafts, deleting, merging, and editing records and their
// child rows. Every mutation runs in a transaction, appends audit
// history and enforces panel permissions.
type RecordService struct {
	db           *gorm.DB
	lgdRepo      repository.LGDRepositoryInterface
	stableIDRepo repository.StableIDRepositoryInterface
	curationRepo repository.CurationRepositoryInterface
	refRepo      repository.ReferenceRepositoryInterface
	historyRepo  repository.HistoryRepositoryInterface
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{
		db:           db,
		lgdRepo:      repository.NewGormLGDRepository(db),
		stableIDRepo: repository.NewGormStableIDRepository(db),
		curationRepo: repository.NewGormCurationRepository(db),
		refRepo:      repository.NewGormReferenceRepository(db),
		historyRepo:  repository.NewGormHistoryRepository(db),
	}
}

// getRecord fetches a live record or translates the miss into the
// public not-found error
func (s *RecordService) getRecord(stableID string) (*models.LocusGenotypeDisease, error) {
	lgd, err := s.lgdRepo.GetByStableID(stableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Could not find a G2P record with ID '%s'", stableID)
		}
		return nil, fmt.Errorf("failed to fetch record %s: %w", stableID, err)
	}
	return lgd, nil
}

// editableRecord fetches the record and checks the actor holds the
// given permission on at least one of its panels
func (s *RecordService) editableRecord(actor *models.User, stableID, permission string) (*models.LocusGenotypeDisease, error) {
	lgd, err := s.getRecord(stableID)
	if err != nil {
		return nil, err
	}
	panels, err := s.lgdRepo.ActivePanels(lgd.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch panels for %s: %w", stableID, err)
	}
	for _, link := range panels {
		if actor.HasPanelPermission(link.PanelID, permission) {
			return lgd, nil
		}
	}
	return nil, NewAuthorizationError("No permission to update record '%s'", stableID)
}

func recordHistory(tx *gorm.DB, kind, key string, lgdID *uint, userID uint, change string) error {
	entry := models.HistoryEntry{
		EntityKind: kind,
		EntityKey:  key,
		LGDID:      lgdID,
		UserID:     userID,
		ChangeType: change,
	}
	return tx.Create(&entry).Error
}

func (s *RecordService) resolvePanel(name string) (*models.Panel, error) {
	panel, err := s.refRepo.GetPanelByName(name)
	if err == nil {
		return panel, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up panel %s: %w", name, err)
	}
	panel, err = s.refRepo.GetPanelByDescription(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid panel '%s'", name)
		}
		return nil, fmt.Errorf("failed to look up panel %s: %w", name, err)
	}
	return panel, nil
}

// ontologyTermName normalises frontend-submitted term names, which
// arrive with underscores in place of spaces
func ontologyTermName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// Publish turns a curation draft into a live record. All validation
// runs before anything is written so a failed publish leaves both the
// draft and the database untouched.
func (s *RecordService) Publish(actor *models.User, stableID string) (*models.LocusGenotypeDisease, error) {
	draft, err := s.curationRepo.GetByStableID(stableID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Curation data not found for ID '%s'", stableID)
		}
		return nil, fmt.Errorf("failed to fetch curation data for %s: %w", stableID, err)
	}
	data := draft.JSONData

	// locus and genotype
	if data.Locus == "" {
		return nil, NewValidationError("Locus is required to publish the record")
	}
	locus, err := s.refRepo.GetLocusByName(data.Locus)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid locus '%s'", data.Locus)
		}
		return nil, fmt.Errorf("failed to look up locus %s: %w", data.Locus, err)
	}
	genotype, err := s.refRepo.GetAttrib("genotype", data.AllelicRequirement)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid genotype value '%s'", data.AllelicRequirement)
		}
		return nil, fmt.Errorf("failed to look up genotype: %w", err)
	}
	if !rules.GenotypeValidForLocus(genotype.Value, locus.Sequence.Name) {
		return nil, NewValidationError("Invalid genotype '%s' for locus '%s'", genotype.Value, locus.Name)
	}

	// disease
	if data.Disease.DiseaseName == "" {
		return nil, NewValidationError("Disease name is required to publish the record")
	}

	// confidence and its publication floor
	confidence, err := s.refRepo.GetAttrib("confidence_category", data.Confidence.Level)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid confidence value '%s'", data.Confidence.Level)
		}
		return nil, fmt.Errorf("failed to look up confidence: %w", err)
	}
	if len(data.Publications) == 0 {
		return nil, NewValidationError("Publications are required to publish the record")
	}
	if !rules.ConfidencePublicationsSufficient(confidence.Value, len(data.Publications)) {
		return nil, NewValidationError("Cannot assign confidence '%s' with only %d publication(s) as evidence",
			confidence.Value, len(data.Publications))
	}

	// mechanism, defaulting to undetermined/inferred
	mechanismName := data.Mechanism.Name
	if mechanismName == "" {
		mechanismName = models.MechanismUndetermined
	}
	mechanismSupportValue := data.Mechanism.Support
	if mechanismSupportValue == "" {
		mechanismSupportValue = models.MechanismSupportInferred
	}
	mechanism, err := s.refRepo.GetMechanism(models.MechanismTypeMechanism, mechanismName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid molecular mechanism '%s'", mechanismName)
		}
		return nil, fmt.Errorf("failed to look up mechanism: %w", err)
	}
	mechanismSupport, err := s.refRepo.GetMechanism(models.MechanismTypeSupport, mechanismSupportValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid mechanism support '%s'", mechanismSupportValue)
		}
		return nil, fmt.Errorf("failed to look up mechanism support: %w", err)
	}

	// synopses have to be sub-types of the mechanism
	type resolvedSynopsis struct {
		synopsis *models.CVMolecularMechanism
		support  *models.CVMolecularMechanism
	}
	var synopses []resolvedSynopsis
	for _, syn := range data.MechanismSynopsis {
		if syn.Name == "" {
			continue
		}
		if !rules.MechanismSynopsisCompatible(mechanism.Value, syn.Name) {
			return nil, NewValidationError("The categorisation '%s' is not compatible with the mechanism '%s'",
				syn.Name, mechanism.Value)
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

	// panels and publish permission
	if len(data.Panels) == 0 {
		return nil, NewValidationError("Cannot publish record without a panel")
	}
	var panels []*models.Panel
	for _, name := range data.Panels {
		panel, err := s.resolvePanel(name)
		if err != nil {
			return nil, err
		}
		if !actor.HasPanelPermission(panel.ID, permissions.CurationPublish) {
			return nil, NewAuthorizationError("No permission to publish to panel '%s'", panel.Name)
		}
		panels = append(panels, panel)
	}

	// phenotype accessions must already be known HPO terms
	type resolvedPhenotype struct {
		term *models.OntologyTerm
		pmid int64
	}
	var phenotypes []resolvedPhenotype
	for _, group := range data.Phenotypes {
		for _, hpo := range group.HPOTerms {
			term, err := s.refRepo.GetOntologyTerm(hpo.Accession, models.OntologyGroupPhenotype)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, NewValidationError("Cannot find phenotype for accession '%s'", hpo.Accession)
				}
				return nil, fmt.Errorf("failed to look up phenotype %s: %w", hpo.Accession, err)
			}
			phenotypes = append(phenotypes, resolvedPhenotype{term: term, pmid: group.PMID})
		}
	}

	// variant types
	type resolvedVariantType struct {
		term  *models.OntologyTerm
		input models.CurationVariantType
	}
	var variantTypes []resolvedVariantType
	for _, vt := range data.VariantTypes {
		if vt.SecondaryType == "" {
			continue
		}
		term, err := s.refRepo.GetOntologyTermByName(ontologyTermName(vt.SecondaryType), models.OntologyGroupVariantType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid variant type '%s'", vt.SecondaryType)
			}
			return nil, fmt.Errorf("failed to look up variant type: %w", err)
		}
		variantTypes = append(variantTypes, resolvedVariantType{term: term, input: vt})
	}

	// variant consequences
	type resolvedConsequence struct {
		term    *models.OntologyTerm
		support *models.Attrib
	}
	var consequences []resolvedConsequence
	for _, vc := range data.VariantConsequence {
		term, err := s.refRepo.GetOntologyTermByName(ontologyTermName(vc.VariantConsequence), models.OntologyGroupVariantType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid variant consequence '%s'", vc.VariantConsequence)
			}
			return nil, fmt.Errorf("failed to look up variant consequence: %w", err)
		}
		support, err := s.refRepo.GetAttrib("support", vc.Support)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid support value '%s'", vc.Support)
			}
			return nil, fmt.Errorf("failed to look up consequence support: %w", err)
		}
		consequences = append(consequences, resolvedConsequence{term: term, support: support})
	}

	// cross-cutting modifiers
	var ccms []*models.Attrib
	for _, value := range data.CrossCuttingMods {
		ccm, err := s.refRepo.GetAttrib("cross_cutting_modifier", value)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Invalid cross cutting modifier '%s'", value)
			}
			return nil, fmt.Errorf("failed to look up cross cutting modifier: %w", err)
		}
		ccms = append(ccms, ccm)
	}

	// mechanism evidence values
	type resolvedEvidence struct {
		cv          *models.CVMolecularMechanism
		pmid        int64
		description string
	}
	var evidence []resolvedEvidence
	for _, ev := range data.MechanismEvidence {
		for _, et := range ev.EvidenceTypes {
			subtype := strings.ToLower(strings.ReplaceAll(et.PrimaryType, " ", "_"))
			for _, secondary := range et.SecondaryType {
				cv, err := s.refRepo.GetMechanismEvidence(strings.ToLower(secondary), subtype)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, NewValidationError("Invalid mechanism evidence '%s'", secondary)
					}
					return nil, fmt.Errorf("failed to look up mechanism evidence: %w", err)
				}
				evidence = append(evidence, resolvedEvidence{cv: cv, pmid: ev.PMID, description: ev.Description})
			}
		}
	}

	// disease may be new; resolve before the duplicate check so the
	// tuple comparison uses the real row when it exists
	disease, err := s.refRepo.GetDiseaseByName(data.Disease.DiseaseName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up disease: %w", err)
	}
	if disease != nil {
		existing, err := s.lgdRepo.GetByTuple(locus.ID, genotype.ID, disease.ID, mechanism.ID)
		if err == nil {
			return nil, NewConflictError(
				"Found another record with same locus, genotype, disease and mechanism. Please check G2P ID '%s'",
				existing.StableID.StableID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for duplicate record: %w", err)
		}
	}

	var confidenceSupport *string
	if data.Confidence.Justification != "" {
		justification := data.Confidence.Justification
		confidenceSupport = &justification
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if disease == nil {
			disease = &models.Disease{Name: data.Disease.DiseaseName}
			if err := tx.Create(disease).Error; err != nil {
				return fmt.Errorf("failed to create disease: %w", err)
			}
		}

		now := time.Now()
		lgd := models.LocusGenotypeDisease{
			LocusID:            locus.ID,
			GenotypeID:         genotype.ID,
			DiseaseID:          disease.ID,
			MechanismID:        mechanism.ID,
			MechanismSupportID: mechanismSupport.ID,
			ConfidenceID:       confidence.ID,
			ConfidenceSupport:  confidenceSupport,
			StableIDID:         draft.StableIDID,
			IsReviewed:         1,
			DateReview:         &now,
		}
		if err := tx.Create(&lgd).Error; err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
		if err := recordHistory(tx, kindRecord, stableID, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
			return err
		}

		for _, panel := range panels {
			link := models.LGDPanel{LGDID: lgd.ID, PanelID: panel.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link panel %s: %w", panel.Name, err)
			}
			if err := recordHistory(tx, kindPanel, panel.Name, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		txRef := repository.NewGormReferenceRepository(tx)
		pubIDByPMID := make(map[int64]uint)
		for _, pub := range data.Publications {
			publication, err := txRef.GetOrCreatePublication(pub.PMID)
			if err != nil {
				return err
			}
			pubIDByPMID[pub.PMID] = publication.ID
			link := models.LGDPublication{
				LGDID:               lgd.ID,
				PublicationID:       publication.ID,
				Families:            pub.Families,
				Consanguinity:       pub.Consanguineous,
				Ancestries:          pub.Ancestries,
				AffectedIndividuals: pub.AffectedIndividuals,
			}
			if pub.Comment != "" {
				comment := pub.Comment
				link.Comment = &comment
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link publication %d: %w", pub.PMID, err)
			}
			if err := recordHistory(tx, kindPublication, fmt.Sprint(pub.PMID), &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, ph := range phenotypes {
			link := models.LGDPhenotype{LGDID: lgd.ID, PhenotypeID: ph.term.ID}
			if id, ok := pubIDByPMID[ph.pmid]; ok {
				pubID := id
				link.PublicationID = &pubID
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link phenotype %s: %w", ph.term.Accession, err)
			}
			if err := recordHistory(tx, kindPhenotype, ph.term.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, group := range data.Phenotypes {
			if group.Summary == "" {
				continue
			}
			summary := models.LGDPhenotypeSummary{LGDID: lgd.ID, Summary: group.Summary}
			if id, ok := pubIDByPMID[group.PMID]; ok {
				pubID := id
				summary.PublicationID = &pubID
			}
			if err := tx.Create(&summary).Error; err != nil {
				return fmt.Errorf("failed to create phenotype summary: %w", err)
			}
			if err := recordHistory(tx, kindPhenotypeSummary, group.Summary, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, vt := range variantTypes {
			papers := vt.input.SupportingPapers
			if len(papers) == 0 {
				papers = []int64{0}
			}
			var firstRowID uint
			for _, pmid := range papers {
				row := models.LGDVariantType{
					LGDID:              lgd.ID,
					VariantTypeOTID:    vt.term.ID,
					Inherited:          vt.input.Inherited,
					DeNovo:             vt.input.DeNovo,
					UnknownInheritance: vt.input.UnknownInheritance,
				}
				if id, ok := pubIDByPMID[pmid]; ok {
					pubID := id
					row.PublicationID = &pubID
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to link variant type %s: %w", vt.term.Term, err)
				}
				if firstRowID == 0 {
					firstRowID = row.ID
				}
				if err := recordHistory(tx, kindVariantType, vt.term.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
					return err
				}
			}
			if vt.input.Comment != "" {
				comment := models.LGDVariantTypeComment{
					LGDVariantTypeID: firstRowID,
					Comment:          vt.input.Comment,
					UserID:           actor.ID,
				}
				if err := tx.Create(&comment).Error; err != nil {
					return fmt.Errorf("failed to create variant type comment: %w", err)
				}
				if err := recordHistory(tx, kindVariantTypeComment, vt.term.Accession, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
					return err
				}
			}
		}

		for _, vd := range data.VariantDescription {
			row := models.LGDVariantTypeDescription{LGDID: lgd.ID, Description: vd.Description}
			if id, ok := pubIDByPMID[vd.PMID]; ok {
				pubID := id
				row.PublicationID = &pubID
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create variant description: %w", err)
			}
			if err := recordHistory(tx, kindVariantDescription, vd.Description, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, vc := range consequences {
			row := models.LGDVariantGenccConsequence{
				LGDID:                lgd.ID,
				VariantConsequenceID: vc.term.ID,
				SupportID:            vc.support.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to link variant consequence %s: %w", vc.term.Term, err)
			}
			if err := recordHistory(tx, kindVariantConsequence, vc.term.Term, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, ccm := range ccms {
			row := models.LGDCrossCuttingModifier{LGDID: lgd.ID, CCMID: ccm.ID}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to link cross cutting modifier %s: %w", ccm.Value, err)
			}
			if err := recordHistory(tx, kindCrossCutting, ccm.Value, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, syn := range synopses {
			row := models.LGDMechanismSynopsis{
				LGDID:             lgd.ID,
				SynopsisID:        syn.synopsis.ID,
				SynopsisSupportID: syn.support.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to link mechanism synopsis %s: %w", syn.synopsis.Value, err)
			}
			if err := recordHistory(tx, kindMechanismSynopsis, syn.synopsis.Value, &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		for _, ev := range evidence {
			publication, err := txRef.GetOrCreatePublication(ev.pmid)
			if err != nil {
				return err
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

		for _, comment := range []struct {
			text     string
			isPublic int
		}{{data.PublicComment, 1}, {data.PrivateComment, 0}} {
			if comment.text == "" {
				continue
			}
			row := models.LGDComment{
				LGDID:    lgd.ID,
				Comment:  comment.text,
				IsPublic: comment.isPublic,
				UserID:   actor.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			if err := recordHistory(tx, kindComment, "", &lgd.ID, actor.ID, models.ChangeCreated); err != nil {
				return err
			}
		}

		txStableIDs := repository.NewGormStableIDRepository(tx)
		if err := txStableIDs.SetLive(draft.StableIDID, true); err != nil {
			return fmt.Errorf("failed to set stable ID live: %w", err)
		}
		if err := repository.NewGormCurationRepository(tx).Delete(draft.ID); err != nil {
			return fmt.Errorf("failed to remove published draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getRecord(stableID)
}
